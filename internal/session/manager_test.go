package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"minesweeper/internal/config"
	"minesweeper/internal/database"
	"minesweeper/internal/game"
)

// wallGenerator always builds the same 5x3 board with a column of mines:
//
//	. . * . .
//	. . * . .
//	. . * . .
type wallGenerator struct{}

func (wallGenerator) Generate(width, height, mineCount int) (*game.Grid, error) {
	if width != 5 || height != 3 || mineCount != 3 {
		return game.NewGenerator().Generate(width, height, mineCount)
	}
	return game.NewGrid(5, 3, []game.Position{{Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}})
}

type recordingRecorder struct {
	mu      sync.Mutex
	results []database.GameResult
	err     error
}

func (r *recordingRecorder) RecordResult(_ context.Context, result database.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return r.err
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][]interface{}
}

func (p *recordingPublisher) Publish(gameID string, message interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.messages == nil {
		p.messages = make(map[string][]interface{})
	}
	p.messages[gameID] = append(p.messages[gameID], message)
}

func newTestManager() (*Manager, *recordingRecorder, *recordingPublisher) {
	rec := &recordingRecorder{}
	pub := &recordingPublisher{}
	m := NewManager(Dependencies{
		Store:     NewMemoryStore(),
		Generator: wallGenerator{},
		Recorder:  rec,
		Publisher: pub,
		Defaults:  config.BoardConfig{Width: 9, Height: 9, Mines: 10, MaxCells: 10000},
	})
	return m, rec, pub
}

func createWall(t *testing.T, m *Manager) string {
	t.Helper()
	id, snap, err := m.Create(context.Background(), CreateRequest{Width: 5, Height: 3, Mines: 3})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if snap.Status != game.StatusPlaying {
		t.Fatalf("new game status = %v", snap.Status)
	}
	return id
}

func TestManager_Create(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CreateRequest
		wantW   int
		wantH   int
		wantM   int
		wantErr error
	}{
		{"defaults", CreateRequest{}, 9, 9, 10, nil},
		{"explicit", CreateRequest{Width: 8, Height: 4, Mines: 5}, 8, 4, 5, nil},
		{"preset", CreateRequest{Preset: "Expert"}, 30, 16, 99, nil},
		{"unknown preset", CreateRequest{Preset: "nightmare"}, 0, 0, 0, game.ErrInvalidConfiguration},
		{"too many mines", CreateRequest{Width: 2, Height: 2, Mines: 4}, 0, 0, 0, game.ErrInvalidConfiguration},
		{"over cell cap", CreateRequest{Width: 100000, Height: 100000, Mines: 1}, 0, 0, 0, game.ErrInvalidConfiguration},
		{"overflowing dimensions", CreateRequest{Width: 1<<62 + 1, Height: 4, Mines: 1}, 0, 0, 0, game.ErrInvalidConfiguration},
		{"at cell cap", CreateRequest{Width: 100, Height: 100, Mines: 1}, 100, 100, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, snap, err := m.Create(ctx, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			if id == "" {
				t.Error("Create() returned an empty id")
			}
			if snap.Width != tt.wantW || snap.Height != tt.wantH || snap.MineCount != tt.wantM {
				t.Errorf("board = %dx%d/%d, want %dx%d/%d", snap.Width, snap.Height, snap.MineCount, tt.wantW, tt.wantH, tt.wantM)
			}
		})
	}
}

func TestManager_CommandsPersist(t *testing.T) {
	m, _, pub := newTestManager()
	ctx := context.Background()
	id := createWall(t, m)

	outcome, snap, err := m.Reveal(ctx, id, 0, 0)
	if err != nil {
		t.Fatalf("Reveal() error: %v", err)
	}
	if outcome != game.RevealContinue {
		t.Errorf("Reveal() = %v, want %v", outcome, game.RevealContinue)
	}

	flag, _, err := m.ToggleFlag(ctx, id, 1, 2)
	if err != nil {
		t.Fatalf("ToggleFlag() error: %v", err)
	}
	if flag != game.FlagFlagged {
		t.Errorf("ToggleFlag() = %v, want %v", flag, game.FlagFlagged)
	}

	loaded, err := m.Snapshot(ctx, id)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if loaded.MoveCount != 2 || loaded.FlaggedMineScore != 1 {
		t.Errorf("stored moves %d score %d, want 2 and 1", loaded.MoveCount, loaded.FlaggedMineScore)
	}
	if !loaded.At(2, 0).IsRevealed || snap.At(2, 0).IsRevealed != loaded.At(2, 0).IsRevealed {
		t.Error("cascade was not persisted")
	}

	if got := len(pub.messages[id]); got != 2 {
		t.Errorf("published %d messages, want 2", got)
	}
}

func TestManager_Errors(t *testing.T) {
	m, _, pub := newTestManager()
	ctx := context.Background()
	id := createWall(t, m)

	if _, _, err := m.Reveal(ctx, "missing", 0, 0); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Reveal(missing) error = %v, want ErrGameNotFound", err)
	}
	if _, err := m.Reset(ctx, "missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Reset(missing) error = %v, want ErrGameNotFound", err)
	}
	if _, _, err := m.Reveal(ctx, id, 3, 0); !errors.Is(err, game.ErrOutOfBounds) {
		t.Errorf("Reveal(3,0) error = %v, want ErrOutOfBounds", err)
	}

	snap, _ := m.Snapshot(ctx, id)
	if snap.MoveCount != 0 {
		t.Errorf("failed commands changed the stored game: moves = %d", snap.MoveCount)
	}
	if len(pub.messages[id]) != 0 {
		t.Error("failed commands should not publish")
	}
}

func TestManager_LossRecordsResult(t *testing.T) {
	m, rec, _ := newTestManager()
	ctx := context.Background()
	id := createWall(t, m)

	m.ToggleFlag(ctx, id, 0, 2)
	outcome, snap, err := m.Reveal(ctx, id, 1, 2)
	if err != nil {
		t.Fatalf("Reveal() error: %v", err)
	}
	if outcome != game.RevealHitMine || snap.Status != game.StatusLost {
		t.Fatalf("Reveal() = %v status %v, want hit mine and lost", outcome, snap.Status)
	}

	if len(rec.results) != 1 {
		t.Fatalf("recorded %d results, want 1", len(rec.results))
	}
	got := rec.results[0]
	if got.GameID != id || got.Status != "LOST" || got.FlaggedMineScore != 1 || got.MoveCount != 2 {
		t.Errorf("recorded %+v", got)
	}

	if _, _, err := m.ToggleFlag(ctx, id, 0, 0); !errors.Is(err, game.ErrGameOver) {
		t.Errorf("ToggleFlag() after loss error = %v, want ErrGameOver", err)
	}

	reset, err := m.Reset(ctx, id)
	if err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if reset.Status != game.StatusPlaying || reset.MoveCount != 0 {
		t.Errorf("Reset() snapshot = status %v moves %d", reset.Status, reset.MoveCount)
	}
	if len(rec.results) != 1 {
		t.Error("Reset() should not record a result")
	}
}

func TestManager_WinRecordsOnce(t *testing.T) {
	m, rec, _ := newTestManager()
	ctx := context.Background()
	id := createWall(t, m)

	m.Reveal(ctx, id, 0, 0)
	_, snap, err := m.Reveal(ctx, id, 0, 4)
	if err != nil {
		t.Fatalf("Reveal() error: %v", err)
	}
	if snap.Status != game.StatusWon {
		t.Fatalf("Status = %v, want %v", snap.Status, game.StatusWon)
	}
	if len(rec.results) != 1 || rec.results[0].Status != "WON" {
		t.Errorf("recorded %+v, want one WON result", rec.results)
	}
}

func TestManager_RecorderFailureDoesNotFailCommand(t *testing.T) {
	m, rec, _ := newTestManager()
	rec.err = errors.New("database down")
	ctx := context.Background()
	id := createWall(t, m)

	if _, snap, err := m.Reveal(ctx, id, 0, 2); err != nil || snap.Status != game.StatusLost {
		t.Fatalf("Reveal() = %v, %v; want lost without error", snap.Status, err)
	}
	snap, _ := m.Snapshot(ctx, id)
	if snap.Status != game.StatusLost {
		t.Error("state should be saved even when recording fails")
	}
}

func TestManager_ConcurrentCommandsSerialize(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()
	id := createWall(t, m)

	// Flag and unflag the same safe cell from many goroutines; every
	// command must be applied exactly once.
	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := m.ToggleFlag(ctx, id, 0, 0); err != nil {
				t.Errorf("ToggleFlag() error: %v", err)
			}
		}()
	}
	wg.Wait()

	snap, _ := m.Snapshot(ctx, id)
	if snap.MoveCount != workers {
		t.Errorf("MoveCount = %d, want %d", snap.MoveCount, workers)
	}
	if snap.At(0, 0).IsFlagged {
		t.Error("an even number of toggles should leave the cell unflagged")
	}
}
