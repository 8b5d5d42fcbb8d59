package gameregistry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type fakeStore struct {
	mu     sync.Mutex
	nextID int32
	failCreate bool
}

func (s *fakeStore) Create(ctx context.Context, params CreateParams) (PersistedGame, error) {
	if s.failCreate {
		return PersistedGame{}, errors.New("store: create failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return PersistedGame{ID: s.nextID}, nil
}

func (s *fakeStore) CreateAsBot(ctx context.Context, params CreateAsBotParams) (PersistedGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return PersistedGame{ID: s.nextID}, nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, gameID int32, status GameStatus) error {
	return nil
}

func (s *fakeStore) Dissolve(ctx context.Context, gameID int32) error {
	return nil
}

type fakeSender struct {
	mu        sync.Mutex
	sent      map[int32][][]byte
	broadcast [][]int32
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(map[int32][][]byte)}
}

func (s *fakeSender) Send(playerID int32, frames [][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[playerID] = append(s.sent[playerID], frames...)
}

func (s *fakeSender) Broadcast(playerIDs []int32, frames [][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcast = append(s.broadcast, playerIDs)
	for _, id := range playerIDs {
		s.sent[id] = append(s.sent[id], frames...)
	}
}

type fakeEncoder struct{}

func (fakeEncoder) SessionUpdateFrame(g *Game) []byte {
	return []byte(fmt.Sprintf("session-update:%d", g.ID))
}

func (fakeEncoder) GameInfoFrame(g *Game) []byte {
	return []byte(fmt.Sprintf("game-info:%d", g.ID))
}

func (fakeEncoder) DissolvedFrame(gameID int32) []byte {
	return []byte(fmt.Sprintf("dissolved:%d", gameID))
}

func newTestRegistry() (*Registry, *fakeStore, *fakeSender) {
	store := &fakeStore{}
	sender := newFakeSender()
	return NewRegistry(store, sender, fakeEncoder{}), store, sender
}

func TestCreateRegistersGameAndSendsFrames(t *testing.T) {
	r, _, sender := newTestRegistry()
	defer r.Close()

	game, err := r.Create(context.Background(), CreateParams{HostPlayerID: 42, PlayerIDs: []int32{42, 7}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if game.Status != StatusPreparing {
		t.Fatalf("status = %v, want Preparing", game.Status)
	}
	if len(sender.sent[42]) != 2 {
		t.Fatalf("host received %d frames, want 2 (session-update + game-info)", len(sender.sent[42]))
	}
}

func TestCreateRejectsSecondActiveGameForSameHost(t *testing.T) {
	r, _, _ := newTestRegistry()
	defer r.Close()

	if _, err := r.Create(context.Background(), CreateParams{HostPlayerID: 1}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := r.Create(context.Background(), CreateParams{HostPlayerID: 1}); !errors.Is(err, ErrGameExistsForHost) {
		t.Fatalf("got %v, want ErrGameExistsForHost", err)
	}
}

func TestCreateConcurrentSameHostOnlyOneWins(t *testing.T) {
	r, _, _ := newTestRegistry()
	defer r.Close()

	const attempts = 20
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := r.Create(context.Background(), CreateParams{HostPlayerID: 9})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, ErrGameExistsForHost) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("successes = %d, want exactly 1", successes)
	}
}

func TestUpdateStatusFollowsDAG(t *testing.T) {
	r, _, _ := newTestRegistry()
	defer r.Close()

	game, err := r.Create(context.Background(), CreateParams{HostPlayerID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := r.UpdateStatus(context.Background(), game.ID, StatusCreated); err != nil {
		t.Fatalf("Preparing->Created: %v", err)
	}
	if err := r.UpdateStatus(context.Background(), game.ID, StatusRunning); err != nil {
		t.Fatalf("Created->Running: %v", err)
	}
	if err := r.UpdateStatus(context.Background(), game.ID, StatusEnded); err != nil {
		t.Fatalf("Running->Ended: %v", err)
	}
}

func TestUpdateStatusRejectsSkippingAhead(t *testing.T) {
	r, _, _ := newTestRegistry()
	defer r.Close()

	game, err := r.Create(context.Background(), CreateParams{HostPlayerID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.UpdateStatus(context.Background(), game.ID, StatusRunning); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatusRejectsRetrograde(t *testing.T) {
	r, _, _ := newTestRegistry()
	defer r.Close()

	game, err := r.Create(context.Background(), CreateParams{HostPlayerID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.UpdateStatus(context.Background(), game.ID, StatusCreated); err != nil {
		t.Fatalf("Preparing->Created: %v", err)
	}
	if err := r.UpdateStatus(context.Background(), game.ID, StatusPreparing); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
}

func TestEndedGameFreesHostSlot(t *testing.T) {
	r, _, _ := newTestRegistry()
	defer r.Close()

	game, err := r.Create(context.Background(), CreateParams{HostPlayerID: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.UpdateStatus(context.Background(), game.ID, StatusCreated); err != nil {
		t.Fatal(err)
	}
	if err := r.UpdateStatus(context.Background(), game.ID, StatusRunning); err != nil {
		t.Fatal(err)
	}
	if err := r.UpdateStatus(context.Background(), game.ID, StatusEnded); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Create(context.Background(), CreateParams{HostPlayerID: 5}); err != nil {
		t.Fatalf("Create after Ended: %v", err)
	}
}

func TestDissolveBroadcastsAndRemovesGame(t *testing.T) {
	r, _, sender := newTestRegistry()
	defer r.Close()

	game, err := r.Create(context.Background(), CreateParams{HostPlayerID: 42, PlayerIDs: []int32{42, 7}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := r.Dissolve(context.Background(), game.ID); err != nil {
		t.Fatalf("Dissolve: %v", err)
	}

	if _, ok := r.Get(game.ID); ok {
		t.Fatal("dissolved game still present in registry")
	}
	if len(sender.sent[7]) == 0 {
		t.Fatal("expected dissolved notification sent to player 7")
	}
}

func TestBroadcastNeverTargetsDissolvedGame(t *testing.T) {
	r, _, _ := newTestRegistry()
	defer r.Close()

	game, err := r.Create(context.Background(), CreateParams{HostPlayerID: 1, PlayerIDs: []int32{1}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.Dissolve(context.Background(), game.ID); err != nil {
		t.Fatalf("Dissolve: %v", err)
	}

	if err := r.Broadcast(game.ID, [][]byte{[]byte("late")}); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("got %v, want ErrGameNotFound", err)
	}
}

func TestCreateAsBotUsesAPIPlayerAsHostSlot(t *testing.T) {
	r, _, _ := newTestRegistry()
	defer r.Close()

	if _, err := r.CreateAsBot(context.Background(), CreateAsBotParams{APIClientID: 100, APIPlayerID: 200}); err != nil {
		t.Fatalf("CreateAsBot: %v", err)
	}
	if _, err := r.CreateAsBot(context.Background(), CreateAsBotParams{APIClientID: 101, APIPlayerID: 200}); !errors.Is(err, ErrGameExistsForHost) {
		t.Fatalf("got %v, want ErrGameExistsForHost for reused API player id", err)
	}
}

func TestCreateFailurePropagatesStoreErrorWithoutRegistering(t *testing.T) {
	store := &fakeStore{failCreate: true}
	sender := newFakeSender()
	r := NewRegistry(store, sender, fakeEncoder{})
	defer r.Close()

	if _, err := r.Create(context.Background(), CreateParams{HostPlayerID: 1}); err == nil {
		t.Fatal("expected store error to propagate")
	}
	// Host slot must remain free since nothing was registered.
	store.failCreate = false
	if _, err := r.Create(context.Background(), CreateParams{HostPlayerID: 1}); err != nil {
		t.Fatalf("Create after failed attempt: %v", err)
	}
}
