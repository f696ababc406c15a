package game

type Status string

const (
	StatusPlaying Status = "PLAYING"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
)

// Terminal reports whether no further reveal/flag commands are accepted.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

func (s Status) valid() bool {
	return s == StatusPlaying || s.Terminal()
}

type RevealOutcome string

const (
	RevealContinue        RevealOutcome = "CONTINUE"
	RevealHitMine         RevealOutcome = "HIT_MINE"
	RevealAlreadyRevealed RevealOutcome = "ALREADY_REVEALED"
)

type FlagOutcome string

const (
	FlagFlagged   FlagOutcome = "FLAGGED"
	FlagUnflagged FlagOutcome = "UNFLAGGED"
	FlagRejected  FlagOutcome = "REJECTED"
)

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
