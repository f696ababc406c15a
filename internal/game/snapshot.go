package game

// CellView is the presentation-safe view of one cell. IsMine is set only
// for revealed cells or once the game is over; AdjacentMineCount only for
// revealed safe cells.
type CellView struct {
	Row               int   `json:"row"`
	Col               int   `json:"col"`
	IsMine            *bool `json:"is_mine,omitempty"`
	IsFlagged         bool  `json:"is_flagged"`
	IsRevealed        bool  `json:"is_revealed"`
	AdjacentMineCount *int  `json:"adjacent_mine_count,omitempty"`
}

type Snapshot struct {
	Width            int        `json:"width"`
	Height           int        `json:"height"`
	MineCount        int        `json:"mine_count"`
	Cells            []CellView `json:"cells"`
	Status           Status     `json:"status"`
	FlaggedMineScore int        `json:"flagged_mine_score"`
	MoveCount        int        `json:"move_count"`
	Commitment       string     `json:"commitment,omitempty"`
	ServerSeed       string     `json:"server_seed,omitempty"` // Hidden until game ends
	ClientSeed       string     `json:"client_seed,omitempty"`
	Nonce            int        `json:"nonce,omitempty"`
}

func (s *State) Snapshot() Snapshot {
	over := s.status.Terminal()
	g := s.grid

	snap := Snapshot{
		Width:            s.width,
		Height:           s.height,
		MineCount:        s.mineCount,
		Cells:            make([]CellView, len(g.cells)),
		Status:           s.status,
		FlaggedMineScore: s.flaggedMineScore,
		MoveCount:        s.moveCount,
		Commitment:       g.seed.Commitment(),
		ClientSeed:       g.seed.ClientSeed,
		Nonce:            g.seed.Nonce,
	}
	if over {
		snap.ServerSeed = g.seed.ServerSeed
	}

	for i, c := range g.cells {
		view := CellView{
			Row:        c.Row,
			Col:        c.Col,
			IsFlagged:  c.IsFlagged,
			IsRevealed: c.IsRevealed,
		}
		if c.IsRevealed || over {
			isMine := c.IsMine
			view.IsMine = &isMine
		}
		if c.IsRevealed && !c.IsMine {
			n := g.adjacentMines(c.Row, c.Col)
			view.AdjacentMineCount = &n
		}
		snap.Cells[i] = view
	}

	return snap
}

// At returns the view of (row, col); the caller guarantees bounds.
func (s Snapshot) At(row, col int) CellView {
	return s.Cells[row*s.Width+col]
}
