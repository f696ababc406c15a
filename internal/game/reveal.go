package game

// Reveal uncovers (row, col). A cell with no adjacent mines floods outward
// through an explicit queue; the revealed flag doubles as the visited mark,
// so every cell is enqueued at most once.
func Reveal(g *Grid, row, col int) (RevealOutcome, error) {
	if err := g.checkBounds(row, col); err != nil {
		return "", err
	}

	target := g.cell(row, col)
	if target.IsRevealed || target.IsFlagged {
		return RevealAlreadyRevealed, nil
	}

	g.markRevealed(target)
	if target.IsMine {
		return RevealHitMine, nil
	}
	if g.adjacentMines(row, col) > 0 {
		return RevealContinue, nil
	}

	queue := []*Cell{target}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		g.eachNeighbor(current.Row, current.Col, func(n *Cell) {
			if n.IsRevealed || n.IsFlagged {
				return
			}
			g.markRevealed(n)
			if g.adjacentMines(n.Row, n.Col) == 0 {
				queue = append(queue, n)
			}
		})
	}

	return RevealContinue, nil
}
