package imstiff

import (
	"fmt"
	"strings"
)

type tag struct {
	id       uint16
	datatype uint
	val      []uint
	str      string // Only set for dtASCII.
}

// firstVal returns the first uint of the features entry with the given tag,
// or 0 if the tag does not exist.
func (t tag) firstVal() uint {
	if len(t.val) == 0 {
		return 0
	}
	return t.val[0]
}

// ascii returns the string value of an ASCII tag.
// The terminating NUL is omitted and multiple NUL-separated strings are joined with a newline.
func (t tag) ascii() string {
	return t.str
}

// Name returns the common name of the tag.
func (t tag) Name() string {
	return tagname(t.id)
}

// PrettyPrintedValue returns the formatted value.
func (t tag) PrettyPrintedValue() string {
	return valuename(t)
}

// String implements Stringer.
func (t tag) String() string {
	return fmt.Sprintf("%s: %s", t.Name(), t.PrettyPrintedValue())
}

// decodeASCII converts the raw bytes of an ASCII entry to a Go string.
func decodeASCII(raw []byte) string {
	s := strings.TrimRight(string(raw), "\x00")
	return strings.ReplaceAll(s, "\x00", "\n")
}
