package game

import (
	"fmt"
	"math"
)

type Cell struct {
	Row        int  `json:"row"`
	Col        int  `json:"col"`
	IsMine     bool `json:"is_mine"`
	IsRevealed bool `json:"is_revealed"`
	IsFlagged  bool `json:"is_flagged"`
}

// Grid stores cells in a flat slice indexed by row*width+col.
type Grid struct {
	width     int
	height    int
	mineCount int
	revealed  int
	cells     []Cell
	seed      Seed
}

// NewGrid builds a grid with mines at exactly the given positions.
func NewGrid(width, height int, mines []Position) (*Grid, error) {
	if err := validateConfig(width, height, len(mines)); err != nil {
		return nil, err
	}

	indices := make([]int, 0, len(mines))
	for _, p := range mines {
		if p.Row < 0 || p.Row >= height || p.Col < 0 || p.Col >= width {
			return nil, fmt.Errorf("%w: mine at (%d,%d)", ErrOutOfBounds, p.Row, p.Col)
		}
		indices = append(indices, p.Row*width+p.Col)
	}

	return newGrid(width, height, indices)
}

func newGrid(width, height int, mines []int) (*Grid, error) {
	if err := validateConfig(width, height, len(mines)); err != nil {
		return nil, err
	}

	g := &Grid{
		width:     width,
		height:    height,
		mineCount: len(mines),
		cells:     make([]Cell, width*height),
	}
	for i := range g.cells {
		g.cells[i].Row = i / width
		g.cells[i].Col = i % width
	}
	for _, i := range mines {
		if i < 0 || i >= len(g.cells) {
			return nil, fmt.Errorf("%w: mine index %d", ErrInvalidConfiguration, i)
		}
		if g.cells[i].IsMine {
			return nil, fmt.Errorf("%w: duplicate mine at index %d", ErrInvalidConfiguration, i)
		}
		g.cells[i].IsMine = true
	}

	return g, nil
}

func validateConfig(width, height, mineCount int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidConfiguration, width, height)
	}
	if width > math.MaxInt/height {
		return fmt.Errorf("%w: dimensions %dx%d overflow", ErrInvalidConfiguration, width, height)
	}
	if mineCount <= 0 || mineCount >= width*height {
		return fmt.Errorf("%w: %d mines on %d cells", ErrInvalidConfiguration, mineCount, width*height)
	}
	return nil
}

func (g *Grid) Width() int         { return g.width }
func (g *Grid) Height() int        { return g.height }
func (g *Grid) MineCount() int     { return g.mineCount }
func (g *Grid) RevealedCount() int { return g.revealed }
func (g *Grid) Seed() Seed         { return g.seed }

// SafeCount is the number of cells that must be revealed to win.
func (g *Grid) SafeCount() int {
	return g.width*g.height - g.mineCount
}

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

func (g *Grid) checkBounds(row, col int) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfBounds, row, col, g.width, g.height)
	}
	return nil
}

// CellAt returns a copy of the cell at (row, col).
func (g *Grid) CellAt(row, col int) (Cell, error) {
	if err := g.checkBounds(row, col); err != nil {
		return Cell{}, err
	}
	return *g.cell(row, col), nil
}

// NeighborsOf returns copies of the up-to-eight cells touching (row, col),
// clipped at the edges.
func (g *Grid) NeighborsOf(row, col int) ([]Cell, error) {
	if err := g.checkBounds(row, col); err != nil {
		return nil, err
	}

	neighbors := make([]Cell, 0, 8)
	g.eachNeighbor(row, col, func(c *Cell) {
		neighbors = append(neighbors, *c)
	})
	return neighbors, nil
}

// MinePositions lists mines in row-major order.
func (g *Grid) MinePositions() []Position {
	positions := make([]Position, 0, g.mineCount)
	for _, c := range g.cells {
		if c.IsMine {
			positions = append(positions, Position{Row: c.Row, Col: c.Col})
		}
	}
	return positions
}

func (g *Grid) cell(row, col int) *Cell {
	return &g.cells[row*g.width+col]
}

func (g *Grid) eachNeighbor(row, col int, fn func(*Cell)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if g.InBounds(r, c) {
				fn(g.cell(r, c))
			}
		}
	}
}

func (g *Grid) markRevealed(c *Cell) {
	if c.IsRevealed {
		return
	}
	c.IsRevealed = true
	c.IsFlagged = false
	g.revealed++
}

func (g *Grid) indicesWhere(pred func(Cell) bool) []int {
	var out []int
	for i, c := range g.cells {
		if pred(c) {
			out = append(out, i)
		}
	}
	return out
}
