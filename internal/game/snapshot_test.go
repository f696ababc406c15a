package game

import (
	"encoding/json"
	"testing"
)

func TestSnapshot_HidesMinesWhilePlaying(t *testing.T) {
	seed := Seed{ServerSeed: "s", ClientSeed: "c", Nonce: 1}
	grid, err := GenerateFromSeed(5, 3, 3, seed)
	if err != nil {
		t.Fatalf("GenerateFromSeed() error: %v", err)
	}
	s := NewGameFromGrid(NewGenerator(), grid)

	snap := s.Snapshot()
	if len(snap.Cells) != 15 {
		t.Fatalf("len(Cells) = %d, want 15", len(snap.Cells))
	}
	for _, c := range snap.Cells {
		if c.IsMine != nil {
			t.Errorf("cell (%d,%d) leaks mine identity while playing", c.Row, c.Col)
		}
		if c.AdjacentMineCount != nil {
			t.Errorf("cell (%d,%d) exposes a count while hidden", c.Row, c.Col)
		}
	}
	if snap.ServerSeed != "" {
		t.Error("server seed must stay hidden while playing")
	}
	if snap.Commitment != HashCommitment("s") {
		t.Error("snapshot should carry the seed commitment")
	}
}

func TestSnapshot_RevealedCells(t *testing.T) {
	s := NewGameFromGrid(NewGenerator(), wallGrid(t))
	s.Reveal(1, 1)
	s.ToggleFlag(0, 0)

	snap := s.Snapshot()
	cell := snap.At(1, 1)
	if !cell.IsRevealed || cell.IsMine == nil || *cell.IsMine {
		t.Errorf("revealed safe cell view = %+v", cell)
	}
	if cell.AdjacentMineCount == nil || *cell.AdjacentMineCount != 3 {
		t.Errorf("AdjacentMineCount = %v, want 3", cell.AdjacentMineCount)
	}
	if flagged := snap.At(0, 0); !flagged.IsFlagged || flagged.IsMine != nil {
		t.Errorf("flagged hidden cell view = %+v", flagged)
	}
	if snap.MoveCount != 2 || snap.Status != StatusPlaying {
		t.Errorf("snapshot moves %d status %v", snap.MoveCount, snap.Status)
	}
}

func TestSnapshot_RevealAllAfterLoss(t *testing.T) {
	seed := Seed{ServerSeed: "server", ClientSeed: "client", Nonce: 9}
	grid, _ := GenerateFromSeed(4, 4, 4, seed)
	s := NewGameFromGrid(NewGenerator(), grid)
	mine := grid.MinePositions()[1]
	s.ToggleFlag(grid.MinePositions()[0].Row, grid.MinePositions()[0].Col)
	s.Reveal(mine.Row, mine.Col)

	snap := s.Snapshot()
	if snap.Status != StatusLost {
		t.Fatalf("Status = %v, want %v", snap.Status, StatusLost)
	}
	if snap.FlaggedMineScore != 1 {
		t.Errorf("FlaggedMineScore = %d, want 1", snap.FlaggedMineScore)
	}

	var mines []Position
	for _, c := range snap.Cells {
		if c.IsMine == nil {
			t.Fatalf("cell (%d,%d) hides mine identity after the game", c.Row, c.Col)
		}
		if *c.IsMine {
			mines = append(mines, Position{c.Row, c.Col})
		}
	}
	if snap.ServerSeed != "server" {
		t.Errorf("ServerSeed = %q, want it revealed after the game", snap.ServerSeed)
	}
	if !VerifyBoard(Seed{snap.ServerSeed, snap.ClientSeed, snap.Nonce}, snap.Width, snap.Height, snap.MineCount, mines) {
		t.Error("post-game snapshot should verify against its seed")
	}
}

func TestSnapshot_JSONOmitsHiddenFields(t *testing.T) {
	s := NewGameFromGrid(NewGenerator(), wallGrid(t))

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	cells := decoded["cells"].([]interface{})
	first := cells[0].(map[string]interface{})
	if _, ok := first["is_mine"]; ok {
		t.Error("hidden cell JSON should not contain is_mine")
	}
	if _, ok := decoded["server_seed"]; ok {
		t.Error("playing snapshot JSON should not contain server_seed")
	}
}
