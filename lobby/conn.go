package lobby

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// maxFrameSize bounds a single inbound control frame, guarding against
// a corrupt or hostile length prefix forcing an unbounded allocation.
const maxFrameSize = 16 << 20

// DefaultDialTimeout is spec §5's lobby-connect deadline.
const DefaultDialTimeout = 10 * time.Second

// NetStream is the concrete, length-prefixed framing this repo owns
// for the controller↔client control channel (spec §6): each frame is
// a 4-byte big-endian length prefix followed by that many opaque,
// already-encoded bytes. The frame's own type tag and protobuf body
// are owned by the external schema this package never interprets.
type NetStream struct {
	conn net.Conn
	mu   sync.Mutex
}

// DialStream opens addr and wraps it as a Stream, failing after
// DefaultDialTimeout if the connection cannot be established.
func DialStream(ctx context.Context, addr string) (*NetStream, error) {
	dialer := &net.Dialer{Timeout: DefaultDialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("lobby: dial %s: %w", addr, err)
	}

	return &NetStream{conn: conn}, nil
}

// Send writes one length-prefixed frame. Writes are serialized so a
// single NetStream can be shared the way lobby.State expects to clone
// and reuse its Stream handle.
func (s *NetStream) Send(ctx context.Context, frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetWriteDeadline(deadline)
	} else {
		_ = s.conn.SetWriteDeadline(time.Time{})
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(frame)))

	if _, err := s.conn.Write(header[:]); err != nil {
		return fmt.Errorf("lobby: write frame header: %w", err)
	}
	if _, err := s.conn.Write(frame); err != nil {
		return fmt.Errorf("lobby: write frame body: %w", err)
	}

	return nil
}

// Close tears down the underlying connection.
func (s *NetStream) Close() error {
	return s.conn.Close()
}

// ReadFrame blocks for the next inbound frame. It is not part of the
// Stream interface — the read side has no analogue in lobby.State,
// which only ever sends — but callers that demultiplex inbound
// controller events (session updates, node assignments) into UI
// notifications use it directly on the dialed NetStream.
func (s *NetStream) ReadFrame() ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(s.conn, header[:]); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint32(header[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("lobby: frame of %d bytes exceeds maximum", n)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(s.conn, buf); err != nil {
		return nil, err
	}

	return buf, nil
}
