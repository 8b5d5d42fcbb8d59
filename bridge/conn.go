// Package bridge implements the LAN Bridge (component C3): a stateful
// translator that presents itself to the unmodified game client as a
// local host while proxying to a remote node.
package bridge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"wc3relay/slotplan"
	"wc3relay/w3gs"
)

// Config tunes a Conn's queue depth and stall behavior.
type Config struct {
	QueueDepth    int
	StallDeadline time.Duration
}

// DefaultConfig returns the spec's suggested defaults.
func DefaultConfig() Config {
	return Config{QueueDepth: DefaultQueueDepth, StallDeadline: DefaultStallDeadline}
}

// Conn is one client↔node bridge connection and its state machine.
// It carries no game logic of its own: every rule it applies is a
// frame-translation or state-transition rule from spec §4.3.
type Conn struct {
	client io.ReadWriteCloser
	node   io.ReadWriteCloser
	plan   *slotplan.LanSlotInfo
	cfg    Config

	toNode   *Queue
	toClient *Queue

	mu          sync.Mutex
	state       State
	loadedCount int

	// OnDesync, when set, is called for every Desync frame observed,
	// in addition to it being forwarded to the client.
	OnDesync func(checksum uint32)

	// OnNodeRTT is a hook for reporting a round-trip time to the
	// node. Conn itself never calls it: ping/pong frames pass through
	// the bridge without any RTT measurement.
	OnNodeRTT func(time.Duration)
}

// New constructs a Conn ready to Run. plan is the slot translation
// computed by the slot planner (component C2) for this game.
func New(client, node io.ReadWriteCloser, plan *slotplan.LanSlotInfo, cfg Config) *Conn {
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = DefaultQueueDepth
	}
	if cfg.StallDeadline <= 0 {
		cfg.StallDeadline = DefaultStallDeadline
	}
	return &Conn{
		client:   client,
		node:     node,
		plan:     plan,
		cfg:      cfg,
		toNode:   NewQueue(cfg.QueueDepth),
		toClient: NewQueue(cfg.QueueDepth),
		state:    StateAdvertising,
	}
}

// State returns the connection's current state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// setState attempts to move the connection to to. It is a no-op
// (returns nil) if the connection is already in that state, since
// several triggers can race to request the same transition.
func (c *Conn) setState(to State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == to {
		return nil
	}
	if !canTransition(c.state, to) {
		return ErrInvalidTransition
	}
	slog.Debug("bridge state transition", "from", c.state, "to", to)
	c.state = to
	return nil
}

// Run drives the bridge until ctx is cancelled or an unrecoverable
// transport error occurs on either side. It joins four goroutines —
// a reader and a writer per direction — the way the teacher's TCP
// proxy joins its two relay halves, but split so that each
// direction's bounded queue (not a raw io.Copy) governs backpressure.
func (c *Conn) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return c.readLoop(ctx, c.client, c.handleClientFrame) })
	g.Go(func() error { return c.readLoop(ctx, c.node, c.handleNodeFrame) })
	g.Go(func() error { return c.writeLoop(ctx, c.client, c.toClient) })
	g.Go(func() error { return c.writeLoop(ctx, c.node, c.toNode) })

	err := g.Wait()
	_ = c.setState(StateClosed)
	return err
}

// readLoop reads whole frames off r and hands each to handle in
// arrival order. Preserving order here, and only here, is what gives
// the bridge its in-order delivery guarantee: there is exactly one
// reader per direction.
func (c *Conn) readLoop(ctx context.Context, r io.Reader, handle func(w3gs.Packet) error) error {
	buf := make([]byte, 0, 8192)
	chunk := make([]byte, 4096)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}

		for {
			p, consumed, decErr := w3gs.Decode(buf)
			if decErr != nil {
				break
			}
			buf = buf[consumed:]
			if handleErr := handle(p); handleErr != nil {
				return handleErr
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// writeLoop drains q in order and writes each frame to w. While the
// connection is Playing, a direction that yields no frame within
// StallDeadline fails with ErrStalled and moves the connection to
// Leaving.
func (c *Conn) writeLoop(ctx context.Context, w io.Writer, q *Queue) error {
	for {
		var deadline time.Duration
		if c.State() == StatePlaying {
			deadline = c.cfg.StallDeadline
		}
		p, err := q.Pop(ctx, deadline)
		if errors.Is(err, ErrStalled) {
			_ = c.setState(StateLeaving)
		}
		if err != nil {
			return err
		}
		encoded, err := w3gs.Encode(p)
		if err != nil {
			return err
		}
		if _, err := w.Write(encoded); err != nil {
			return err
		}
	}
}

// isTimeSensitive reports whether p is one of the tick-carrying frame
// types the bridge must forward unaltered and strictly in order
// (spec §4.3).
func isTimeSensitive(p w3gs.Packet) bool {
	switch p.(type) {
	case *w3gs.IncomingAction, *w3gs.OutgoingAction, *w3gs.OutgoingKeepAlive:
		return true
	default:
		return false
	}
}

// handleClientFrame applies the client→node translation and state
// rules, enqueueing whatever the node (or the client itself) should
// receive as a result.
func (c *Conn) handleClientFrame(p w3gs.Packet) error {
	switch f := p.(type) {
	case *w3gs.PingFromHost:
		// Ping/pong never happens from a client in practice (the
		// bridge is the one impersonating the host), but guard the
		// case defensively rather than forwarding it to the node.
		return nil

	case *w3gs.ReqJoin:
		if err := c.setState(StateJoining); err != nil {
			return err
		}
		reply := &w3gs.SlotInfoJoin{
			SlotInfo:     c.plan.SlotInfo,
			PlayerID:     c.plan.MySlotPlayerID,
			ExternalAddr: w3gs.SockAddr{},
		}
		return c.toClient.Push(reply)

	case *w3gs.LeaveReq:
		if err := c.setState(StateLeaving); err != nil {
			return err
		}
		if err := c.toClient.Push(&w3gs.LeaveAck{}); err != nil {
			return err
		}
		return c.toNode.Push(f)

	case *w3gs.GameLoadedSelf:
		c.recordLoaded()
		return c.toNode.Push(f)

	case *w3gs.Desync:
		if c.OnDesync != nil {
			c.OnDesync(f.Checksum)
		}
		return c.toNode.Push(f)

	default:
		return c.toNode.Push(p)
	}
}

// handleNodeFrame applies the node→client translation and state
// rules.
func (c *Conn) handleNodeFrame(p w3gs.Packet) error {
	switch f := p.(type) {
	case *w3gs.PlayerInfo:
		if err := c.toClient.Push(f); err != nil {
			return err
		}
		if c.State() == StateJoining {
			return c.setState(StateInLobby)
		}
		return nil

	case *w3gs.CountDownEnd:
		if err := c.toClient.Push(f); err != nil {
			return err
		}
		return c.setState(StateLoading)

	case *w3gs.GameLoadedSelf:
		c.recordLoaded()
		return c.toClient.Push(f)

	case *w3gs.LeaveReq:
		if err := c.setState(StateLeaving); err != nil {
			return err
		}
		return c.toClient.Push(f)

	case *w3gs.Desync:
		if c.OnDesync != nil {
			c.OnDesync(f.Checksum)
		}
		return c.toClient.Push(f)

	default:
		return c.toClient.Push(p)
	}
}

// recordLoaded counts one more GameLoadedSelf and transitions to
// Playing once every member (players plus self) has reported in
// (spec §4.3: Loading → Playing).
func (c *Conn) recordLoaded() {
	c.mu.Lock()
	c.loadedCount++
	expected := len(c.plan.PlayerInfos)
	loaded := c.loadedCount
	c.mu.Unlock()

	if loaded >= expected {
		_ = c.setState(StatePlaying)
	}
}
