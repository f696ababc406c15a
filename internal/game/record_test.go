package game

import (
	"errors"
	"testing"
)

func TestExportRestore(t *testing.T) {
	seed := Seed{ServerSeed: "srv", ClientSeed: "cli", Nonce: 4}
	grid, err := GenerateFromSeed(5, 3, 3, seed)
	if err != nil {
		t.Fatalf("GenerateFromSeed() error: %v", err)
	}
	s := NewGameFromGrid(NewGenerator(), grid)

	mine := grid.MinePositions()[0]
	s.ToggleFlag(mine.Row, mine.Col)
	for _, c := range grid.cells {
		if !c.IsMine && grid.adjacentMines(c.Row, c.Col) > 0 {
			s.Reveal(c.Row, c.Col)
			break
		}
	}

	restored, err := Restore(NewGenerator(), s.Export())
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	if restored.Status() != s.Status() ||
		restored.FlaggedMineScore() != s.FlaggedMineScore() ||
		restored.MoveCount() != s.MoveCount() ||
		restored.RevealedCount() != s.RevealedCount() ||
		restored.Seed() != s.Seed() {
		t.Errorf("restored state differs: %+v vs %+v", restored.Export(), s.Export())
	}

	a, b := s.Snapshot(), restored.Snapshot()
	for i := range a.Cells {
		if a.Cells[i].IsFlagged != b.Cells[i].IsFlagged || a.Cells[i].IsRevealed != b.Cells[i].IsRevealed {
			t.Errorf("cell %d differs after restore", i)
		}
	}

	// Restored games keep playing normally.
	if _, err := restored.ToggleFlag(mine.Row, mine.Col); err != nil {
		t.Fatalf("ToggleFlag() on restored game: %v", err)
	}
	if restored.FlaggedMineScore() != 0 {
		t.Errorf("FlaggedMineScore() = %d, want 0", restored.FlaggedMineScore())
	}
}

func TestRestore_Invalid(t *testing.T) {
	valid := Record{
		Width:     3,
		Height:    3,
		MineCount: 1,
		Mines:     []int{4},
		Status:    StatusPlaying,
	}

	tests := []struct {
		name   string
		mutate func(r *Record)
	}{
		{"mine count mismatch", func(r *Record) { r.MineCount = 2 }},
		{"unknown status", func(r *Record) { r.Status = "PAUSED" }},
		{"mine index out of range", func(r *Record) { r.Mines = []int{9} }},
		{"revealed index out of range", func(r *Record) { r.Revealed = []int{-1} }},
		{"flagged index out of range", func(r *Record) { r.Flagged = []int{12} }},
		{"zero width", func(r *Record) { r.Width = 0 }},
		{"overflowing dimensions", func(r *Record) { r.Width = 1<<62 + 1; r.Height = 4 }},
		{"duplicate revealed", func(r *Record) { r.Revealed = []int{0, 0} }},
		{"revealed and flagged", func(r *Record) { r.Revealed = []int{0}; r.Flagged = []int{0} }},
		{"revealed mine while playing", func(r *Record) { r.Revealed = []int{4} }},
		{"lost without a revealed mine", func(r *Record) { r.Status = StatusLost; r.Revealed = []int{0} }},
		{"won too early", func(r *Record) { r.Status = StatusWon; r.Revealed = []int{0} }},
		{"playing with all safe cells revealed", func(r *Record) { r.Revealed = []int{0, 1, 2, 3, 5, 6, 7, 8} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if _, err := Restore(NewGenerator(), r); !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Restore() error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}

	t.Run("recomputes score", func(t *testing.T) {
		r := valid
		r.Flagged = []int{4, 0}
		r.FlaggedMineScore = 99
		s, err := Restore(NewGenerator(), r)
		if err != nil {
			t.Fatalf("Restore() error: %v", err)
		}
		if s.FlaggedMineScore() != 1 {
			t.Errorf("FlaggedMineScore() = %d, want 1", s.FlaggedMineScore())
		}
	})
}
