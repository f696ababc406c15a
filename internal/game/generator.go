package game

import "sync/atomic"

// Generator produces a fresh grid for the given dimensions.
type Generator interface {
	Generate(width, height, mineCount int) (*Grid, error)
}

// SeededGenerator draws new seeds for every board and numbers them with a
// monotonically increasing nonce. Safe for concurrent use.
type SeededGenerator struct {
	nonce atomic.Int64
}

func NewGenerator() *SeededGenerator {
	return &SeededGenerator{}
}

func (sg *SeededGenerator) Generate(width, height, mineCount int) (*Grid, error) {
	if err := validateConfig(width, height, mineCount); err != nil {
		return nil, err
	}

	seed := Seed{
		ServerSeed: GenerateSeed(),
		ClientSeed: GenerateSeed(),
		Nonce:      int(sg.nonce.Add(1)),
	}
	return GenerateFromSeed(width, height, mineCount, seed)
}

// GenerateFromSeed is the deterministic core of board generation. The same
// seed and dimensions always yield the same mine placement.
func GenerateFromSeed(width, height, mineCount int, seed Seed) (*Grid, error) {
	if err := validateConfig(width, height, mineCount); err != nil {
		return nil, err
	}

	g, err := newGrid(width, height, placeMines(width*height, mineCount, seed.source()))
	if err != nil {
		return nil, err
	}
	g.seed = seed
	return g, nil
}
