package lanhost

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"wc3relay/w3gs"
)

// readBufferSize is large enough for any single W3GS LAN frame.
const readBufferSize = 8192

// Responder listens for SearchGame queries on the LAN and answers
// with the currently advertised GameInfo.
type Responder struct {
	conn    *net.UDPConn
	getGame func() *w3gs.GameInfo
}

// NewResponder listens on addr (typically 0.0.0.0:6112) and answers
// SearchGame queries using getGame's current value.
func NewResponder(addr *net.UDPAddr, getGame func() *w3gs.GameInfo) (*Responder, error) {
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, err
	}
	return &Responder{conn: conn, getGame: getGame}, nil
}

// Run reads SearchGame queries and replies until ctx is cancelled or
// the socket is closed.
func (r *Responder) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = r.conn.Close()
	}()

	buf := make([]byte, readBufferSize)
	for {
		n, from, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			slog.Debug("lanhost: read error", "error", err)
			continue
		}
		r.handle(buf[:n], from)
	}
}

// Close closes the listening socket.
func (r *Responder) Close() error {
	return r.conn.Close()
}

func (r *Responder) handle(data []byte, from *net.UDPAddr) {
	p, _, err := w3gs.Decode(data)
	if err != nil {
		return
	}
	if _, ok := p.(*w3gs.SearchGame); !ok {
		return
	}

	info := r.getGame()
	if info == nil {
		return
	}

	slog.Debug("received SearchGame query", "from", from)

	encoded, err := w3gs.Encode(info)
	if err != nil {
		slog.Debug("failed to encode GameInfo reply", "error", err)
		return
	}
	if _, err := r.conn.WriteToUDP(encoded, from); err != nil {
		slog.Debug("failed to send GameInfo reply", "to", from, "error", err)
	}
}
