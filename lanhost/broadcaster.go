// Package lanhost advertises the bridge's own synthetic LAN game and
// answers local clients' SearchGame probes, the way an unmodified WC3
// host would — except the game it advertises is the LAN Bridge
// impersonating a remote node.
package lanhost

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"wc3relay/w3gs"
)

// DefaultPort is the standard WC3 LAN UDP port.
const DefaultPort = 6112

// BroadcastInterval is how often the advertised game is re-announced.
const BroadcastInterval = 3 * time.Second

// writeBufferSize is the UDP socket's write buffer size.
const writeBufferSize = 64 * 1024

// Broadcaster periodically broadcasts a single synthetic GameInfo (and
// its RefreshGame slot-count updates) onto the LAN.
type Broadcaster struct {
	conn          *net.UDPConn
	broadcastAddr *net.UDPAddr

	mu   sync.RWMutex
	info *w3gs.GameInfo
}

// NewBroadcaster opens a UDP socket for sending game announcements.
func NewBroadcaster() (*Broadcaster, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: 0})
	if err != nil {
		return nil, err
	}
	if err := conn.SetWriteBuffer(writeBufferSize); err != nil {
		slog.Debug("failed to set write buffer", "error", err)
	}

	return &Broadcaster{
		conn:          conn,
		broadcastAddr: &net.UDPAddr{IP: net.IPv4bcast, Port: DefaultPort},
	}, nil
}

// SetGame replaces the currently advertised game. Passing nil stops
// advertising without closing the socket.
func (b *Broadcaster) SetGame(info *w3gs.GameInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.info = info
}

// Run announces the current game every BroadcastInterval until ctx is
// cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	ticker := time.NewTicker(BroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.announce()
		}
	}
}

// Close closes the broadcast socket.
func (b *Broadcaster) Close() error {
	return b.conn.Close()
}

func (b *Broadcaster) announce() {
	b.mu.RLock()
	info := b.info
	b.mu.RUnlock()

	if info == nil {
		return
	}

	encoded, err := w3gs.Encode(info)
	if err != nil {
		slog.Debug("failed to encode GameInfo", "error", err)
		return
	}
	if _, err := b.conn.WriteTo(encoded, b.broadcastAddr); err != nil {
		slog.Debug("failed to broadcast GameInfo", "game", info.GameName, "error", err)
		return
	}

	refresh := &w3gs.RefreshGame{
		HostCounter:    info.HostCounter,
		SlotsUsed:      info.SlotsUsed,
		SlotsAvailable: info.SlotsAvailable,
	}
	refreshBytes, err := w3gs.Encode(refresh)
	if err != nil {
		slog.Debug("failed to encode RefreshGame", "error", err)
		return
	}
	if _, err := b.conn.WriteTo(refreshBytes, b.broadcastAddr); err != nil {
		slog.Debug("failed to broadcast RefreshGame", "error", err)
	}
}

// Decreate announces that the current game is being withdrawn.
func (b *Broadcaster) Decreate(hostCounter uint32) {
	encoded, err := w3gs.Encode(&w3gs.DecreateGame{HostCounter: hostCounter})
	if err != nil {
		slog.Debug("failed to encode DecreateGame", "error", err)
		return
	}
	if _, err := b.conn.WriteTo(encoded, b.broadcastAddr); err != nil {
		slog.Debug("failed to broadcast DecreateGame", "error", err)
	}
}
