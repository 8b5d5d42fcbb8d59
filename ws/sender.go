package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Sender is a cloneable handle to the UI channel. Multiple owners may
// hold a Sender concurrently; Send serializes writes to the underlying
// connection so no caller needs its own lock.
type Sender struct {
	conn *websocket.Conn
	mu   *sync.Mutex
}

// NewSender wraps an already-accepted websocket connection to the
// desktop UI process.
func NewSender(conn *websocket.Conn) Sender {
	return Sender{conn: conn, mu: &sync.Mutex{}}
}

// ErrNoConn is returned by Send on a zero Sender, which wraps no
// connection.
var ErrNoConn = errors.New("ws: sender has no connection")

// Send writes msg as JSON to the UI channel. On a zero Sender it
// writes nothing and returns ErrNoConn.
func (s Sender) Send(ctx context.Context, msg OutgoingMessage) error {
	if s.conn == nil {
		return ErrNoConn
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return wsjson.Write(ctx, s.conn, msg)
}

// Close closes the underlying connection with a normal closure.
func (s Sender) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "closing")
}
