package timefmt

// FixedText is a bounded text buffer. Capacity counts a terminator slot, so
// at most Capacity()-1 bytes are kept; longer writes are truncated.
type FixedText struct {
	buf []byte
	n   int
}

func NewFixedText(capacity int) *FixedText {
	if capacity < 1 {
		capacity = 1
	}
	return &FixedText{buf: make([]byte, capacity)}
}

func (t *FixedText) Capacity() int { return len(t.buf) }

// Set replaces the contents with s, truncated to fit. It reports whether the
// whole of s was stored.
func (t *FixedText) Set(s string) bool {
	limit := len(t.buf) - 1
	n := copy(t.buf[:limit], s)
	t.n = n
	t.buf[n] = 0
	return n == len(s)
}

// UpperASCII maps a-z to A-Z in place and leaves every other byte untouched.
func (t *FixedText) UpperASCII() {
	for i := 0; i < t.n; i++ {
		c := t.buf[i]
		if c > 96 && c < 123 {
			t.buf[i] = c - 32
		}
	}
}

func (t *FixedText) Len() int { return t.n }

func (t *FixedText) String() string { return string(t.buf[:t.n]) }
