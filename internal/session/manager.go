package session

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"minesweeper/internal/config"
	"minesweeper/internal/database"
	"minesweeper/internal/game"
)

var log = logrus.WithField("component", "session")

const lockShards = 64

// Recorder persists finished games.
type Recorder interface {
	RecordResult(ctx context.Context, result database.GameResult) error
}

// Publisher pushes messages to whoever watches a game.
type Publisher interface {
	Publish(gameID string, message interface{})
}

type Dependencies struct {
	Store     Store
	Generator game.Generator
	Recorder  Recorder  // optional
	Publisher Publisher // optional
	Defaults  config.BoardConfig
}

// Manager owns every live game. The engine does no locking, so commands
// against one game id are serialized here; each command loads the game,
// applies, saves and publishes under the same lock.
type Manager struct {
	store     Store
	generator game.Generator
	recorder  Recorder
	publisher Publisher
	defaults  config.BoardConfig
	locks     [lockShards]sync.Mutex
}

func NewManager(deps Dependencies) *Manager {
	gen := deps.Generator
	if gen == nil {
		gen = game.NewGenerator()
	}
	return &Manager{
		store:     deps.Store,
		generator: gen,
		recorder:  deps.Recorder,
		publisher: deps.Publisher,
		defaults:  deps.Defaults,
	}
}

func (m *Manager) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &m.locks[h.Sum32()%lockShards]
}

// Create starts a new game and returns its id.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (string, game.Snapshot, error) {
	width, height, mines, err := req.resolve(m.defaults)
	if err != nil {
		return "", game.Snapshot{}, err
	}

	state, err := game.NewGameWith(m.generator, width, height, mines)
	if err != nil {
		return "", game.Snapshot{}, err
	}

	id := uuid.NewString()
	if err := m.store.Save(ctx, id, state.Export()); err != nil {
		return "", game.Snapshot{}, err
	}

	log.WithFields(logrus.Fields{
		"game_id":    id,
		"width":      width,
		"height":     height,
		"mines":      mines,
		"commitment": state.Seed().Commitment(),
	}).Info("game created")

	return id, state.Snapshot(), nil
}

func (m *Manager) Snapshot(ctx context.Context, id string) (game.Snapshot, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	state, err := m.load(ctx, id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return state.Snapshot(), nil
}

func (m *Manager) Reveal(ctx context.Context, id string, row, col int) (game.RevealOutcome, game.Snapshot, error) {
	var outcome game.RevealOutcome
	snap, err := m.apply(ctx, id, "reveal", func(s *game.State) error {
		var err error
		outcome, err = s.Reveal(row, col)
		return err
	})
	return outcome, snap, err
}

func (m *Manager) ToggleFlag(ctx context.Context, id string, row, col int) (game.FlagOutcome, game.Snapshot, error) {
	var outcome game.FlagOutcome
	snap, err := m.apply(ctx, id, "flag", func(s *game.State) error {
		var err error
		outcome, err = s.ToggleFlag(row, col)
		return err
	})
	return outcome, snap, err
}

// Reset regenerates the board of an existing game with the same dimensions.
func (m *Manager) Reset(ctx context.Context, id string) (game.Snapshot, error) {
	return m.apply(ctx, id, "reset", func(s *game.State) error {
		return s.Reset()
	})
}

func (m *Manager) load(ctx context.Context, id string) (*game.State, error) {
	rec, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return game.Restore(m.generator, rec)
}

func (m *Manager) apply(ctx context.Context, id, command string, fn func(*game.State) error) (game.Snapshot, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	state, err := m.load(ctx, id)
	if err != nil {
		return game.Snapshot{}, err
	}

	entry := log.WithFields(logrus.Fields{"game_id": id, "command": command})

	before := state.Status()
	if err := fn(state); err != nil {
		entry.WithError(err).Debug("command rejected")
		return game.Snapshot{}, err
	}

	if err := m.store.Save(ctx, id, state.Export()); err != nil {
		return game.Snapshot{}, err
	}

	snap := state.Snapshot()
	entry = entry.WithFields(logrus.Fields{"status": snap.Status, "moves": snap.MoveCount})
	entry.Debug("command applied")

	if !before.Terminal() && snap.Status.Terminal() {
		entry.WithField("flagged_mines", snap.FlaggedMineScore).Info("game finished")
		m.record(ctx, id, state)
	}

	if m.publisher != nil {
		m.publisher.Publish(id, WSMessage{Type: "snapshot", GameID: id, Data: snap})
	}

	return snap, nil
}

// record failures are logged, not returned: the game state is already saved.
func (m *Manager) record(ctx context.Context, id string, state *game.State) {
	if m.recorder == nil {
		return
	}

	seed := state.Seed()
	result := database.GameResult{
		GameID:           id,
		Width:            state.Width(),
		Height:           state.Height(),
		MineCount:        state.MineCount(),
		Status:           string(state.Status()),
		FlaggedMineScore: state.FlaggedMineScore(),
		MoveCount:        state.MoveCount(),
		ServerSeed:       seed.ServerSeed,
		ClientSeed:       seed.ClientSeed,
		Nonce:            seed.Nonce,
		FinishedAt:       time.Now().UTC(),
	}
	if err := m.recorder.RecordResult(ctx, result); err != nil {
		log.WithError(err).WithField("game_id", id).Error("failed to record result")
	}
}
