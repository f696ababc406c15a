package game

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Record is the storable form of a State. Cell sets are flat indices
// (row*width+col).
type Record struct {
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	MineCount        int    `json:"mine_count"`
	Mines            []int  `json:"mines"`
	Revealed         []int  `json:"revealed"`
	Flagged          []int  `json:"flagged"`
	Status           Status `json:"status"`
	FlaggedMineScore int    `json:"flagged_mine_score"`
	MoveCount        int    `json:"move_count"`
	Seed             Seed   `json:"seed"`
}

func (s *State) Export() Record {
	g := s.grid
	return Record{
		Width:            s.width,
		Height:           s.height,
		MineCount:        s.mineCount,
		Mines:            g.indicesWhere(func(c Cell) bool { return c.IsMine }),
		Revealed:         g.indicesWhere(func(c Cell) bool { return c.IsRevealed }),
		Flagged:          g.indicesWhere(func(c Cell) bool { return c.IsFlagged }),
		Status:           s.status,
		FlaggedMineScore: s.flaggedMineScore,
		MoveCount:        s.moveCount,
		Seed:             g.seed,
	}
}

// Restore rebuilds a State from a record. The flag score is recomputed
// from the cells rather than trusted, and the status must agree with the
// revealed cells.
func Restore(gen Generator, r Record) (*State, error) {
	if len(r.Mines) != r.MineCount {
		return nil, fmt.Errorf("%w: record lists %d mines, expected %d", ErrInvalidConfiguration, len(r.Mines), r.MineCount)
	}
	if !r.Status.valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidConfiguration, r.Status)
	}

	grid, err := newGrid(r.Width, r.Height, r.Mines)
	if err != nil {
		return nil, err
	}
	grid.seed = r.Seed

	revealed, err := indexSet("revealed", r.Revealed, len(grid.cells))
	if err != nil {
		return nil, err
	}
	if _, err := indexSet("flagged", r.Flagged, len(grid.cells)); err != nil {
		return nil, err
	}

	hitMine := false
	for _, i := range r.Revealed {
		grid.markRevealed(&grid.cells[i])
		hitMine = hitMine || grid.cells[i].IsMine
	}

	score := 0
	for _, i := range r.Flagged {
		if revealed.Has(i) {
			return nil, fmt.Errorf("%w: index %d is both revealed and flagged", ErrInvalidConfiguration, i)
		}
		c := &grid.cells[i]
		c.IsFlagged = true
		if c.IsMine {
			score++
		}
	}

	switch {
	case hitMine && r.Status != StatusLost:
		return nil, fmt.Errorf("%w: revealed mine in a %s game", ErrInvalidConfiguration, r.Status)
	case !hitMine && r.Status == StatusLost:
		return nil, fmt.Errorf("%w: lost without a revealed mine", ErrInvalidConfiguration)
	case r.Status == StatusWon && grid.revealed != grid.SafeCount():
		return nil, fmt.Errorf("%w: won with %d of %d safe cells revealed", ErrInvalidConfiguration, grid.revealed, grid.SafeCount())
	case r.Status == StatusPlaying && grid.revealed == grid.SafeCount():
		return nil, fmt.Errorf("%w: every safe cell revealed in a playing game", ErrInvalidConfiguration)
	}

	s := NewGameFromGrid(gen, grid)
	s.status = r.Status
	s.flaggedMineScore = score
	s.moveCount = r.MoveCount
	return s, nil
}

func indexSet(kind string, indices []int, total int) (mapset.Set[int], error) {
	seen := mapset.New[int]()
	for _, i := range indices {
		if i < 0 || i >= total {
			return seen, fmt.Errorf("%w: %s index %d", ErrInvalidConfiguration, kind, i)
		}
		if seen.Has(i) {
			return seen, fmt.Errorf("%w: duplicate %s index %d", ErrInvalidConfiguration, kind, i)
		}
		seen.Put(i)
	}
	return seen, nil
}
