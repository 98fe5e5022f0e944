package search

import (
	. "github.com/ayushmko73/chess-multiplayer-ai/internal/helpers"
)

type Difficulty int

const (
	Beginner Difficulty = iota
	Easy
	Hard
	Master
)

var AllDifficulties = []Difficulty{Beginner, Easy, Hard, Master}

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	case Master:
		return "master"
	default:
		return "unknown"
	}
}

func DifficultyFromString(s string) (Difficulty, Error) {
	switch s {
	case "beginner":
		return Beginner, NilError
	case "easy":
		return Easy, NilError
	case "hard":
		return Hard, NilError
	case "master":
		return Master, NilError
	}
	return Beginner, Errorf("unknown difficulty: %v", s)
}

// SearchDepth is the lookahead in plies from the side to move. Beginner
// never searches, so asking for its depth is a configuration error.
func (d Difficulty) SearchDepth() (int, Error) {
	switch d {
	case Easy:
		return 1, NilError
	case Hard:
		return 2, NilError
	case Master:
		return 3, NilError
	}
	return 0, Errorf("no search depth for difficulty: %v", d)
}
