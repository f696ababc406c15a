package game

// ToggleFlag flips the flag on an unrevealed cell. The returned delta is
// the change in flagged-mine score: +1, -1 or 0.
func ToggleFlag(g *Grid, row, col int) (FlagOutcome, int, error) {
	if err := g.checkBounds(row, col); err != nil {
		return "", 0, err
	}

	c := g.cell(row, col)
	if c.IsRevealed {
		return FlagRejected, 0, nil
	}

	c.IsFlagged = !c.IsFlagged

	delta := 0
	if c.IsMine {
		delta = 1
		if !c.IsFlagged {
			delta = -1
		}
	}

	if c.IsFlagged {
		return FlagFlagged, delta, nil
	}
	return FlagUnflagged, delta, nil
}
