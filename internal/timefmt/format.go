package timefmt

import (
	"strconv"
	"time"
)

// Buffer capacities, terminator included.
const (
	TimeCapacity  = 6
	DayCapacity   = 5
	DateCapacity  = 8
	ExtraCapacity = 18
)

// BrokenDown is a calendar time split into the fields the face prints.
type BrokenDown struct {
	Year    int
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Weekday time.Weekday
	ISOWeek int
}

func FromTime(t time.Time) BrokenDown {
	_, week := t.ISOWeek()
	return BrokenDown{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Weekday: t.Weekday(),
		ISOWeek: week,
	}
}

// Formatter renders the four display strings into fixed buffers that are
// reused on every call.
type Formatter struct {
	Time  *FixedText
	Day   *FixedText
	Date  *FixedText
	Extra *FixedText

	scratch []byte
}

func NewFormatter() *Formatter {
	return &Formatter{
		Time:    NewFixedText(TimeCapacity),
		Day:     NewFixedText(DayCapacity),
		Date:    NewFixedText(DateCapacity),
		Extra:   NewFixedText(ExtraCapacity),
		scratch: make([]byte, 0, 32),
	}
}

// Format writes "%H%M", "%a", "%b %e" and "Week %V of %Y". Day and date are
// forced to ASCII uppercase.
func (f *Formatter) Format(bd BrokenDown) {
	b := f.scratch[:0]
	b = appendPadded(b, bd.Hour, '0')
	b = appendPadded(b, bd.Minute, '0')
	f.Time.Set(string(b))

	f.Day.Set(abbrev(bd.Weekday.String()))
	f.Day.UpperASCII()

	b = b[:0]
	b = append(b, abbrev(bd.Month.String())...)
	b = append(b, ' ')
	b = appendPadded(b, bd.Day, ' ')
	f.Date.Set(string(b))
	f.Date.UpperASCII()

	b = b[:0]
	b = append(b, "Week "...)
	b = appendPadded(b, bd.ISOWeek, '0')
	b = append(b, " of "...)
	b = strconv.AppendInt(b, int64(bd.Year), 10)
	f.Extra.Set(string(b))

	f.scratch = b
}

func appendPadded(b []byte, v int, pad byte) []byte {
	if v >= 0 && v < 10 {
		b = append(b, pad)
	}
	return strconv.AppendInt(b, int64(v), 10)
}

// abbrev cuts an English name to its three-letter form.
func abbrev(name string) string {
	if len(name) > 3 {
		return name[:3]
	}
	return name
}
