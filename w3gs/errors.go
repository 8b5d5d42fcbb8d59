package w3gs

import "errors"

// Protocol errors, returned by Decode and individual packet Decode
// methods. The codec never panics on malformed input; every failure
// mode is one of these or ErrNoStringTerminator (buffer.go).
var (
	// ErrBadSignature is returned when the first header byte is not
	// the W3GS magic 0xF7.
	ErrBadSignature = errors.New("w3gs: bad protocol signature")

	// ErrShortFrame is returned when fewer bytes are available than
	// the header's declared length.
	ErrShortFrame = errors.New("w3gs: short frame")

	// ErrLengthUnderflow is returned when the declared length is
	// smaller than the 4-byte header itself.
	ErrLengthUnderflow = errors.New("w3gs: length underflow")

	// ErrLengthMismatch is returned when an embedded length field
	// (e.g. SlotInfo's internal length prefix) disagrees with the
	// size of the payload that follows it.
	ErrLengthMismatch = errors.New("w3gs: length mismatch")

	// ErrShortBuffer is returned by Cursor reads that run past the
	// end of the available bytes.
	ErrShortBuffer = errors.New("w3gs: short buffer")
)
