package gameregistry

import (
	"context"
	"log/slog"
)

// Registry is the controller-side Game Registry (component C6). All
// mutation of its in-memory state happens on a single goroutine that
// drains a mailbox of closures — an actor, in place of the teacher's
// sync.RWMutex-guarded map, because the one-active-game-per-host
// invariant spans a persist-then-register sequence that a read lock
// can't serialize safely (spec §9: "Actor model for the registry").
type Registry struct {
	mailbox chan func()
	store   Store
	sender  PlayerSender
	encoder FrameEncoder

	games     map[int32]*Game
	hostIndex map[int32]int32 // host player id -> game id, active games only
}

// NewRegistry starts the actor goroutine and returns a Registry bound
// to store for persistence, sender for player delivery, and encoder
// for building lifecycle frames.
func NewRegistry(store Store, sender PlayerSender, encoder FrameEncoder) *Registry {
	r := &Registry{
		mailbox:   make(chan func(), 64),
		store:     store,
		sender:    sender,
		encoder:   encoder,
		games:     make(map[int32]*Game),
		hostIndex: make(map[int32]int32),
	}
	go r.run()
	return r
}

func (r *Registry) run() {
	for fn := range r.mailbox {
		fn()
	}
}

// Close stops the actor goroutine. The Registry must not be used
// afterward.
func (r *Registry) Close() {
	close(r.mailbox)
}

func (r *Registry) call(fn func()) {
	done := make(chan struct{})
	r.mailbox <- func() {
		fn()
		close(done)
	}
	<-done
}

// Create persists and registers a human-hosted game. It fails with
// ErrGameExistsForHost if params.HostPlayerID already owns an active
// game, enforcing "at most one active game per host" regardless of
// how many Create/CreateAsBot calls race — they all serialize on the
// single actor goroutine (spec §8).
func (r *Registry) Create(ctx context.Context, params CreateParams) (*Game, error) {
	var game *Game
	var err error
	r.call(func() {
		game, err = r.createLocked(ctx, params)
	})
	return game, err
}

func (r *Registry) createLocked(ctx context.Context, params CreateParams) (*Game, error) {
	if _, exists := r.hostIndex[params.HostPlayerID]; exists {
		return nil, ErrGameExistsForHost
	}

	persisted, err := r.store.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	players := make(map[int32]struct{}, len(params.PlayerIDs))
	for _, id := range params.PlayerIDs {
		players[id] = struct{}{}
	}
	game := &Game{
		ID:           persisted.ID,
		Status:       StatusPreparing,
		HostPlayerID: params.HostPlayerID,
		Players:      players,
		NodeID:       persisted.NodeID,
	}
	r.register(game)
	r.announceCreated(game)
	return game.snapshot(), nil
}

// CreateAsBot persists and registers a bot-hosted game on behalf of an
// API client. Unlike Create, there is no human host player id to
// index on; bot games are keyed under the API player id itself as the
// host id, so the one-active-game invariant still applies to the bot's
// own seat.
func (r *Registry) CreateAsBot(ctx context.Context, params CreateAsBotParams) (*Game, error) {
	var game *Game
	var err error
	r.call(func() {
		game, err = r.createAsBotLocked(ctx, params)
	})
	return game, err
}

func (r *Registry) createAsBotLocked(ctx context.Context, params CreateAsBotParams) (*Game, error) {
	if _, exists := r.hostIndex[params.APIPlayerID]; exists {
		return nil, ErrGameExistsForHost
	}

	persisted, err := r.store.CreateAsBot(ctx, params)
	if err != nil {
		return nil, err
	}

	players := make(map[int32]struct{}, len(params.PlayerIDs))
	for _, id := range params.PlayerIDs {
		players[id] = struct{}{}
	}
	game := &Game{
		ID:           persisted.ID,
		Status:       StatusPreparing,
		HostPlayerID: params.APIPlayerID,
		Players:      players,
		NodeID:       persisted.NodeID,
	}
	r.register(game)
	r.announceCreated(game)
	return game.snapshot(), nil
}

func (r *Registry) register(game *Game) {
	r.games[game.ID] = game
	r.hostIndex[game.HostPlayerID] = game.ID
}

func (r *Registry) announceCreated(game *Game) {
	if r.encoder == nil || r.sender == nil {
		return
	}
	frames := [][]byte{r.encoder.SessionUpdateFrame(game), r.encoder.GameInfoFrame(game)}
	r.sender.Send(game.HostPlayerID, frames)
}

// UpdateStatus advances a game's status. Any edge outside Preparing →
// Created → Running → Ended is rejected with ErrInvalidTransition, and
// the game remains unchanged (spec §8 invariant c).
func (r *Registry) UpdateStatus(ctx context.Context, gameID int32, status GameStatus) error {
	var err error
	r.call(func() {
		err = r.updateStatusLocked(ctx, gameID, status)
	})
	return err
}

func (r *Registry) updateStatusLocked(ctx context.Context, gameID int32, status GameStatus) error {
	game, ok := r.games[gameID]
	if !ok {
		return ErrGameNotFound
	}
	if !validStatusTransitions[game.Status][status] {
		return ErrInvalidTransition
	}
	if err := r.store.UpdateStatus(ctx, gameID, status); err != nil {
		return err
	}
	game.Status = status
	if status == StatusEnded {
		delete(r.hostIndex, game.HostPlayerID)
	}
	return nil
}

// Broadcast delivers frames to every current member of gameID. For a
// game id that has already been dissolved it sends nothing and returns
// ErrGameNotFound (spec §8 invariant b: broadcast never targets a
// dissolved game, satisfied here by the game simply no longer being
// present to address).
func (r *Registry) Broadcast(gameID int32, frames [][]byte) error {
	var err error
	r.call(func() {
		game, ok := r.games[gameID]
		if !ok {
			err = ErrGameNotFound
			return
		}
		ids := make([]int32, 0, len(game.Players))
		for id := range game.Players {
			ids = append(ids, id)
		}
		r.sender.Broadcast(ids, frames)
	})
	return err
}

// Dissolve removes gameID from the registry, notifies its members, and
// frees its host's slot for a new Create/CreateAsBot call.
func (r *Registry) Dissolve(ctx context.Context, gameID int32) error {
	var err error
	r.call(func() {
		err = r.dissolveLocked(ctx, gameID)
	})
	return err
}

func (r *Registry) dissolveLocked(ctx context.Context, gameID int32) error {
	game, ok := r.games[gameID]
	if !ok {
		return ErrGameNotFound
	}
	if err := r.store.Dissolve(ctx, gameID); err != nil {
		return err
	}
	delete(r.games, gameID)
	delete(r.hostIndex, game.HostPlayerID)

	if r.encoder != nil && r.sender != nil {
		ids := make([]int32, 0, len(game.Players))
		for id := range game.Players {
			ids = append(ids, id)
		}
		r.sender.Broadcast(ids, [][]byte{r.encoder.DissolvedFrame(gameID)})
	}
	slog.Debug("game dissolved", "game_id", gameID)
	return nil
}

// Get returns a snapshot of a currently registered game.
func (r *Registry) Get(gameID int32) (*Game, bool) {
	var game *Game
	var ok bool
	r.call(func() {
		g, found := r.games[gameID]
		if found {
			game, ok = g.snapshot(), true
		}
	})
	return game, ok
}

// List returns a snapshot of every currently registered game.
func (r *Registry) List() []*Game {
	var out []*Game
	r.call(func() {
		out = make([]*Game, 0, len(r.games))
		for _, g := range r.games {
			out = append(out, g.snapshot())
		}
	})
	return out
}
