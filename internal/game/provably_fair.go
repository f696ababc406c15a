package game

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	mrand "math/rand/v2"
	"slices"
)

// Seed identifies one board placement. The server seed stays hidden while
// the game is playing; only its commitment is published.
type Seed struct {
	ServerSeed string `json:"server_seed"`
	ClientSeed string `json:"client_seed"`
	Nonce      int    `json:"nonce"`
}

// GenerateSeed creates a cryptographically secure random seed
func GenerateSeed() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// HashCommitment creates a SHA256 hash of the seed for commitment
func HashCommitment(seed string) string {
	h := sha256.New()
	h.Write([]byte(seed))
	return hex.EncodeToString(h.Sum(nil))
}

func (s Seed) IsZero() bool {
	return s.ServerSeed == "" && s.ClientSeed == "" && s.Nonce == 0
}

func (s Seed) Commitment() string {
	if s.ServerSeed == "" {
		return ""
	}
	return HashCommitment(s.ServerSeed)
}

// source derives a ChaCha8 stream from HMAC-SHA256(serverSeed, clientSeed:nonce).
func (s Seed) source() *mrand.Rand {
	h := hmac.New(sha256.New, []byte(s.ServerSeed))
	fmt.Fprintf(h, "%s:%d", s.ClientSeed, s.Nonce)

	var key [32]byte
	copy(key[:], h.Sum(nil))
	return mrand.New(mrand.NewChaCha8(key))
}

// placeMines selects count distinct indices from [0,total) with a partial
// Fisher-Yates shuffle, so every subset of that size is equally likely.
func placeMines(total, count int, r *mrand.Rand) []int {
	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < count; i++ {
		j := i + r.IntN(total-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	mines := idx[:count]
	slices.Sort(mines)
	return mines
}

// VerifyBoard recomputes the placement for seed and reports whether it
// matches the claimed mine positions.
func VerifyBoard(seed Seed, width, height, mineCount int, mines []Position) bool {
	if validateConfig(width, height, mineCount) != nil || len(mines) != mineCount {
		return false
	}

	claimed := make([]int, 0, len(mines))
	for _, p := range mines {
		if p.Row < 0 || p.Row >= height || p.Col < 0 || p.Col >= width {
			return false
		}
		claimed = append(claimed, p.Row*width+p.Col)
	}
	slices.Sort(claimed)

	return slices.Equal(claimed, placeMines(width*height, mineCount, seed.source()))
}
