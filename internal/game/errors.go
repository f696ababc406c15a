package game

import "errors"

var (
	// ErrInvalidConfiguration is returned when width, height or mine count
	// cannot describe a playable board. No state is produced.
	ErrInvalidConfiguration = errors.New("invalid board configuration")

	// ErrOutOfBounds is returned when a command addresses a cell outside
	// the grid. Positions are never clamped.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrGameOver is returned for any command other than reset once the
	// game is won or lost.
	ErrGameOver = errors.New("game is over")
)
