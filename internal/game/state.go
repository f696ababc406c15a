package game

// State is one game: a grid it owns exclusively plus status and score.
// It provides no locking; callers serialize commands against an instance.
type State struct {
	grid      *Grid
	generator Generator

	width     int
	height    int
	mineCount int

	status           Status
	flaggedMineScore int
	moveCount        int
}

// NewGame generates a fresh board with the default seeded generator.
func NewGame(width, height, mineCount int) (*State, error) {
	return NewGameWith(NewGenerator(), width, height, mineCount)
}

func NewGameWith(gen Generator, width, height, mineCount int) (*State, error) {
	grid, err := gen.Generate(width, height, mineCount)
	if err != nil {
		return nil, err
	}
	return NewGameFromGrid(gen, grid), nil
}

// NewGameFromGrid starts a game on an existing grid. gen is used for resets.
func NewGameFromGrid(gen Generator, grid *Grid) *State {
	s := &State{generator: gen}
	s.adopt(grid)
	return s
}

func (s *State) adopt(grid *Grid) {
	s.grid = grid
	s.width = grid.width
	s.height = grid.height
	s.mineCount = grid.mineCount
	s.status = StatusPlaying
	s.flaggedMineScore = 0
	s.moveCount = 0
}

func (s *State) Status() Status        { return s.status }
func (s *State) FlaggedMineScore() int { return s.flaggedMineScore }
func (s *State) MoveCount() int        { return s.moveCount }
func (s *State) Width() int            { return s.width }
func (s *State) Height() int           { return s.height }
func (s *State) MineCount() int        { return s.mineCount }
func (s *State) RevealedCount() int    { return s.grid.revealed }
func (s *State) Seed() Seed            { return s.grid.seed }

// Reveal routes to the reveal engine and evaluates the terminal condition.
func (s *State) Reveal(row, col int) (RevealOutcome, error) {
	if s.status.Terminal() {
		return "", ErrGameOver
	}

	outcome, err := Reveal(s.grid, row, col)
	if err != nil {
		return "", err
	}
	s.moveCount++

	switch outcome {
	case RevealHitMine:
		s.status = StatusLost
	case RevealContinue:
		if s.grid.revealed == s.grid.SafeCount() {
			s.status = StatusWon
		}
	}
	return outcome, nil
}

// ToggleFlag never ends the game.
func (s *State) ToggleFlag(row, col int) (FlagOutcome, error) {
	if s.status.Terminal() {
		return "", ErrGameOver
	}

	outcome, delta, err := ToggleFlag(s.grid, row, col)
	if err != nil {
		return "", err
	}
	s.moveCount++
	s.flaggedMineScore += delta
	return outcome, nil
}

// Reset discards the grid and generates a new one with the same dimensions.
// It is accepted in every status. On error the state is left unchanged.
func (s *State) Reset() error {
	grid, err := s.generator.Generate(s.width, s.height, s.mineCount)
	if err != nil {
		return err
	}
	s.adopt(grid)
	return nil
}
