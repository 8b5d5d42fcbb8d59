// Package w3gs implements the W3GS wire protocol: the LAN gameplay
// framing used between a Warcraft III client, a LAN host impersonator,
// and a game node.
package w3gs

import (
	"bytes"
	"errors"
)

// ErrNoStringTerminator is returned when a null-terminated string field
// runs off the end of the buffer.
var ErrNoStringTerminator = errors.New("w3gs: no null terminator found for string field")

// Cursor is a little-endian read/write cursor over a byte slice. Writes
// append; reads consume from the front. It is the building block every
// packet's Encode/Decode method is written against.
type Cursor struct {
	Bytes []byte
}

// Len returns the number of unread/unwritten bytes currently held.
func (c *Cursor) Len() int {
	return len(c.Bytes)
}

// WriteUint8 appends a single byte.
func (c *Cursor) WriteUint8(v uint8) {
	c.Bytes = append(c.Bytes, v)
}

// WriteUint16 appends a little-endian uint16.
func (c *Cursor) WriteUint16(v uint16) {
	c.Bytes = append(c.Bytes, byte(v), byte(v>>8))
}

// WriteUint32 appends a little-endian uint32.
func (c *Cursor) WriteUint32(v uint32) {
	c.Bytes = append(c.Bytes, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// WriteBool appends a single byte, 1 for true and 0 for false.
func (c *Cursor) WriteBool(v bool) {
	if v {
		c.WriteUint8(1)
	} else {
		c.WriteUint8(0)
	}
}

// WriteBlob appends raw bytes verbatim, with no length prefix.
func (c *Cursor) WriteBlob(v []byte) {
	c.Bytes = append(c.Bytes, v...)
}

// WriteString appends s followed by a null terminator.
func (c *Cursor) WriteString(s string) {
	c.Bytes = append(c.Bytes, s...)
	c.WriteUint8(0)
}

// ReadUint8 consumes and returns a single byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	if len(c.Bytes) < 1 {
		return 0, ErrShortBuffer
	}
	v := c.Bytes[0]
	c.Bytes = c.Bytes[1:]
	return v, nil
}

// ReadUint16 consumes and returns a little-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	if len(c.Bytes) < 2 {
		return 0, ErrShortBuffer
	}
	v := uint16(c.Bytes[0]) | uint16(c.Bytes[1])<<8
	c.Bytes = c.Bytes[2:]
	return v, nil
}

// ReadUint32 consumes and returns a little-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	if len(c.Bytes) < 4 {
		return 0, ErrShortBuffer
	}
	v := uint32(c.Bytes[0]) | uint32(c.Bytes[1])<<8 | uint32(c.Bytes[2])<<16 | uint32(c.Bytes[3])<<24
	c.Bytes = c.Bytes[4:]
	return v, nil
}

// ReadBool consumes a single byte and reports whether it is non-zero.
func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadUint8()
	return v != 0, err
}

// ReadBlob consumes exactly n bytes and returns them.
func (c *Cursor) ReadBlob(n int) ([]byte, error) {
	if len(c.Bytes) < n {
		return nil, ErrShortBuffer
	}
	v := c.Bytes[:n]
	c.Bytes = c.Bytes[n:]
	return v, nil
}

// ReadRest consumes and returns every remaining byte, or nil if none
// remain.
func (c *Cursor) ReadRest() []byte {
	v := c.Bytes
	c.Bytes = nil
	if len(v) == 0 {
		return nil
	}
	return v
}

// ReadString consumes a null-terminated string.
func (c *Cursor) ReadString() (string, error) {
	i := bytes.IndexByte(c.Bytes, 0)
	if i == -1 {
		c.Bytes = nil
		return "", ErrNoStringTerminator
	}
	s := string(c.Bytes[:i])
	c.Bytes = c.Bytes[i+1:]
	return s, nil
}
