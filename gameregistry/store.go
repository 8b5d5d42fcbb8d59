package gameregistry

import "context"

// CreateParams describes a human-hosted game to persist (spec §4.6:
// create).
type CreateParams struct {
	HostPlayerID int32
	PlayerIDs    []int32
	MapChecksum  [20]byte
	MapPath      string
}

// CreateAsBotParams describes a bot-hosted game, created on behalf of
// an API client rather than a connected player (spec §4.6:
// create_as_bot).
type CreateAsBotParams struct {
	APIClientID  int32
	APIPlayerID  int32
	PlayerIDs    []int32
	MapChecksum  [20]byte
	MapPath      string
}

// PersistedGame is what the store hands back once a row exists for a
// new game. NodeID is assigned by the store (it owns node allocation),
// not by the registry.
type PersistedGame struct {
	ID     int32
	NodeID *int32
}

// Store is the registry's persistence collaborator, modeled as an
// opaque executor rather than a concrete database client — grounded on
// the original controller's `self.db.exec(move |conn| ...)` pattern,
// where the actor never touches SQL directly. A failed Create/
// CreateAsBot call is expected to leave no persisted row (the store's
// own transaction is the store's responsibility, not the registry's).
type Store interface {
	Create(ctx context.Context, params CreateParams) (PersistedGame, error)
	CreateAsBot(ctx context.Context, params CreateAsBotParams) (PersistedGame, error)
	UpdateStatus(ctx context.Context, gameID int32, status GameStatus) error
	Dissolve(ctx context.Context, gameID int32) error
}
