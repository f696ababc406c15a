package session

import (
	"fmt"
	"strings"

	"minesweeper/internal/config"
	"minesweeper/internal/game"
)

type Preset struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Mines  int `json:"mines"`
}

var presets = map[string]Preset{
	"beginner":     {Width: 9, Height: 9, Mines: 10},
	"intermediate": {Width: 16, Height: 16, Mines: 40},
	"expert":       {Width: 30, Height: 16, Mines: 99},
}

// Presets returns a copy of the named difficulty levels.
func Presets() map[string]Preset {
	out := make(map[string]Preset, len(presets))
	for k, v := range presets {
		out[k] = v
	}
	return out
}

// LookupPreset finds a preset by name, ignoring case.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[strings.ToLower(name)]
	return p, ok
}

// resolve picks the board for a request and enforces the cell cap, so an
// oversized request fails before anything is allocated.
func (r CreateRequest) resolve(board config.BoardConfig) (width, height, mines int, err error) {
	switch {
	case r.Preset != "":
		p, ok := LookupPreset(r.Preset)
		if !ok {
			return 0, 0, 0, fmt.Errorf("%w: unknown preset %q", game.ErrInvalidConfiguration, r.Preset)
		}
		width, height, mines = p.Width, p.Height, p.Mines
	case r.Width == 0 && r.Height == 0 && r.Mines == 0:
		width, height, mines = board.Width, board.Height, board.Mines
	default:
		width, height, mines = r.Width, r.Height, r.Mines
	}

	if board.MaxCells > 0 && width > 0 && height > board.MaxCells/width {
		return 0, 0, 0, fmt.Errorf("%w: %dx%d exceeds %d cells", game.ErrInvalidConfiguration, width, height, board.MaxCells)
	}
	return width, height, mines, nil
}
