package game

// AdjacentMineCount counts mines among the neighbors of (row, col).
func AdjacentMineCount(g *Grid, row, col int) (int, error) {
	if err := g.checkBounds(row, col); err != nil {
		return 0, err
	}
	return g.adjacentMines(row, col), nil
}

func (g *Grid) adjacentMines(row, col int) int {
	count := 0
	g.eachNeighbor(row, col, func(c *Cell) {
		if c.IsMine {
			count++
		}
	})
	return count
}
