package tui

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"minesweeper/internal/game"
)

var numberColors = [...]tcell.Color{
	1: tcell.ColorBlue,
	2: tcell.ColorGreen,
	3: tcell.ColorRed,
	4: tcell.ColorNavy,
	5: tcell.ColorMaroon,
	6: tcell.ColorTeal,
	7: tcell.ColorWhite,
	8: tcell.ColorGray,
}

type Renderer struct {
	boardTable *tview.Table
	statusView *tview.TextView
}

func NewRenderer() *Renderer {
	return &Renderer{
		boardTable: tview.NewTable(),
		statusView: tview.NewTextView(),
	}
}

// CellText is the glyph for one cell: "." hidden, "F" flagged, "*" mine,
// a digit for a numbered cell and a blank for an empty one.
func CellText(cell game.CellView) string {
	switch {
	case cell.IsFlagged:
		return "F"
	case cell.IsMine != nil && *cell.IsMine:
		return "*"
	case cell.IsRevealed && cell.AdjacentMineCount != nil:
		if *cell.AdjacentMineCount == 0 {
			return " "
		}
		return strconv.Itoa(*cell.AdjacentMineCount)
	default:
		return "."
	}
}

func cellColor(cell game.CellView) tcell.Color {
	switch {
	case cell.IsFlagged:
		return tcell.ColorYellow
	case cell.IsMine != nil && *cell.IsMine:
		return tcell.ColorRed
	case cell.AdjacentMineCount != nil && *cell.AdjacentMineCount < len(numberColors) && *cell.AdjacentMineCount > 0:
		return numberColors[*cell.AdjacentMineCount]
	default:
		return tcell.ColorWhite
	}
}

// StatusLine summarizes a snapshot for the line under the board.
func StatusLine(snap game.Snapshot) string {
	line := fmt.Sprintf("%s | flagged mines: %d/%d | moves: %d",
		snap.Status, snap.FlaggedMineScore, snap.MineCount, snap.MoveCount)

	switch snap.Status {
	case game.StatusWon:
		line += " | You won!"
	case game.StatusLost:
		line += fmt.Sprintf(" | You flagged %d bombs", snap.FlaggedMineScore)
	}
	if snap.ServerSeed != "" {
		line += " | seed: " + snap.ServerSeed
	}
	return line
}

func (r *Renderer) DrawBoard(snap game.Snapshot) {
	for row := 0; row < snap.Height; row++ {
		for col := 0; col < snap.Width; col++ {
			cell := snap.At(row, col)
			r.boardTable.SetCell(row, col, tview.NewTableCell(CellText(cell)).
				SetAlign(tview.AlignCenter).
				SetTextColor(cellColor(cell)))
		}
	}

	r.boardTable.SetSelectable(true, true)
	r.statusView.SetText(StatusLine(snap))
}
