package system

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

const (
	evKey = 0x01

	// Linux input-event-codes.h
	KeyB    = 48
	KeyC    = 46
	KeyT    = 20
	KeyF4   = 62
	KeyUp   = 103
	KeyDown = 108
)

// input_event = timeval + u16 type + u16 code + s32 value.
func eventLayout() (tvSize, eventSize int) {
	tvSize = binary.Size(unix.Timeval{})
	if tvSize <= 0 {
		tvSize = 16
	}
	return tvSize, tvSize + 2 + 2 + 4
}

// KeyPresses returns the codes of key-down events in a buffer of raw
// input_event records. Trailing partial records are ignored.
func KeyPresses(buf []byte, tvSize, eventSize int) []uint16 {
	var codes []uint16
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ == evKey && value == 1 {
			codes = append(codes, code)
		}
	}
	return codes
}
