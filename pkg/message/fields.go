package message

import "bytes"

// NameSize is the fixed width of a device/line name field on the wire.
const NameSize = 40

// MaxButtonDefinition is the minimum number of button slots a
// BUTTON_TEMPLATE_RES must carry; spec requires at least this many.
const MaxButtonDefinition = 42

// putString writes s into dst, truncating if s is too long and
// zero-padding the remainder, mirroring the zero-padded ASCII fields
// used throughout the wire format.
func putString(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// getString returns the NUL-terminated (or fully-populated) string
// stored in src.
func getString(src []byte) string {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		return string(src[:i])
	}
	return string(src)
}
