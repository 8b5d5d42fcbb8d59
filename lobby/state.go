// Package lobby implements the client-side Lobby Stream (component
// C5): the single long-lived control channel between the game client
// and the controller.
package lobby

import (
	"context"
	"log/slog"
	"sync"

	"wc3relay/node"
	"wc3relay/ws"
)

// conn is the live pairing of a control stream and the UI channel
// sender, exclusively owned by State (spec §3: LobbyConn).
type conn struct {
	stream   Stream
	wsSender ws.Sender
}

// State guards the current lobby connection. The lock is held only
// long enough to clone a handle out; it is never held across a send,
// per the teacher's and the original's "no suspension while holding
// locks" discipline (spec §9).
type State struct {
	domain string

	mu   sync.RWMutex
	conn *conn
}

// NewState starts a State for domain and spawns the ping-update
// forwarder, draining pingUpdates and relaying each to the UI channel
// for whichever connection is live at the time.
func NewState(domain string, pingUpdates <-chan node.PingUpdate) *State {
	s := &State{domain: domain}
	go s.forwardPingUpdates(pingUpdates)
	return s
}

// forwardPingUpdates relays every update to the current connection's
// UI sender, if one exists. The channel closing (the node registry's
// sender side going away) is terminal for this goroutine: per spec
// §9's resolution of the original's ambiguous loop, it does not
// restart.
func (s *State) forwardPingUpdates(pingUpdates <-chan node.PingUpdate) {
	for update := range pingUpdates {
		sender, ok := s.wsSenderCloned()
		if !ok {
			continue
		}
		if err := sender.Send(context.Background(), ws.NewPingUpdate(update.NodeID, update.Ping)); err != nil {
			slog.Debug("send ping update", "error", err)
		}
	}
	slog.Debug("ping update forwarder exiting")
}

// Connect installs stream/wsSender as the current connection,
// replacing any previous one without closing it (callers close the
// old stream themselves before reconnecting).
func (s *State) Connect(stream Stream, wsSender ws.Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = &conn{stream: stream, wsSender: wsSender}
}

// Close tears down the current connection, if any, and notifies the
// UI channel that the server connection closed unexpectedly.
func (s *State) Close(ctx context.Context) {
	s.mu.Lock()
	c := s.conn
	s.conn = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	if err := c.stream.Close(); err != nil {
		slog.Debug("close lobby stream", "error", err)
	}
	msg := ws.NewDisconnect(ws.DisconnectUnknown, "Server connection closed unexpectedly")
	if err := c.wsSender.Send(ctx, msg); err != nil {
		slog.Debug("send disconnect", "error", err)
	}
}

// Send transmits frame on the current control stream. If no
// connection is live, or the send fails, the connection is torn down
// and ErrServerNotConnected is returned.
func (s *State) Send(ctx context.Context, frame []byte) error {
	stream, ok := s.streamCloned()
	if !ok {
		return ErrServerNotConnected
	}
	if err := stream.Send(ctx, frame); err != nil {
		slog.Debug("sender dropped", "error", err)
		s.Close(ctx)
		return ErrServerNotConnected
	}
	return nil
}

func (s *State) streamCloned() (Stream, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn == nil {
		return nil, false
	}
	return s.conn.stream, true
}

func (s *State) wsSenderCloned() (ws.Sender, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn == nil {
		return ws.Sender{}, false
	}
	return s.conn.wsSender, true
}
