package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"minesweeper/internal/game"
)

var log = logrus.WithField("component", "tui")

// Controller drives one local game from the keyboard. Key handling runs on
// the tview event goroutine, so the state needs no locking.
type Controller struct {
	state    *game.State
	renderer *Renderer
	app      *tview.Application
}

func NewController(state *game.State) *Controller {
	c := &Controller{
		state:    state,
		renderer: NewRenderer(),
		app:      tview.NewApplication(),
	}
	c.renderer.DrawBoard(state.Snapshot())
	c.renderer.boardTable.SetInputCapture(c.HandleKey)
	return c
}

// HandleKey applies Enter (reveal), f (flag), r (reset) and q (quit) at the
// selected cell. Other keys pass through to the table for navigation.
func (c *Controller) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	row, col := c.renderer.boardTable.GetSelection()
	entry := log.WithFields(logrus.Fields{"row": row, "col": col})

	var err error
	switch {
	case event.Key() == tcell.KeyEnter:
		var outcome game.RevealOutcome
		outcome, err = c.state.Reveal(row, col)
		entry = entry.WithField("outcome", outcome)

	case event.Key() == tcell.KeyRune && (event.Rune() == 'f' || event.Rune() == 'F'):
		var outcome game.FlagOutcome
		outcome, err = c.state.ToggleFlag(row, col)
		entry = entry.WithField("outcome", outcome)

	case event.Key() == tcell.KeyRune && (event.Rune() == 'r' || event.Rune() == 'R'):
		err = c.state.Reset()

	case event.Key() == tcell.KeyRune && (event.Rune() == 'q' || event.Rune() == 'Q'):
		c.app.Stop()
		return nil

	default:
		return event
	}

	if err != nil {
		entry.WithError(err).Debug("command rejected")
	}
	c.renderer.DrawBoard(c.state.Snapshot())
	return nil
}

func (c *Controller) Snapshot() game.Snapshot {
	return c.state.Snapshot()
}

func (c *Controller) Run() error {
	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(c.renderer.boardTable, 0, 1, true).
		AddItem(c.renderer.statusView, 1, 0, false)

	return c.app.SetRoot(layout, true).Run()
}
