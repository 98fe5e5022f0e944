package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/notnil/chess"
	"github.com/pkg/profile"
	"github.com/schollz/progressbar/v3"

	"github.com/ayushmko73/chess-multiplayer-ai/internal/game"
	. "github.com/ayushmko73/chess-multiplayer-ai/internal/helpers"
	"github.com/ayushmko73/chess-multiplayer-ai/internal/search"
)

// Games that outlast this are counted as draws. Material-only evaluation
// shuffles endgames forever otherwise.
const maxPlies = 300

func playGame(white search.Difficulty, black search.Difficulty) (chess.Outcome, Error) {
	runner := game.NewRunner(game.RunnerOptions{})
	err := runner.SetupPosition(StartPos)
	if !IsNil(err) {
		return chess.NoOutcome, err
	}

	for ply := 0; ply < maxPlies; ply++ {
		difficulty := white
		if runner.Player() == chess.Black {
			difficulty = black
		}

		move, err := runner.Search(difficulty)
		if !IsNil(err) {
			return chess.NoOutcome, err
		}
		if move.IsEmpty() {
			break
		}

		err = runner.PerformMoveFromString(move.Value())
		if !IsNil(err) {
			return chess.NoOutcome, err
		}

		if runner.Outcome() != chess.NoOutcome {
			break
		}
	}

	return runner.Outcome(), NilError
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, fmt.Sprint(r))
			fmt.Fprintln(os.Stderr, string(debug.Stack()))
		}
	}()

	white := search.Hard
	black := search.Easy
	games := 10

	args := os.Args[1:]
	difficultiesSeen := 0
	for _, arg := range args {
		if arg == "profile" {
			defer profile.Start(profile.ProfilePath("data/selfplay")).Stop()
			continue
		}
		if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
			games = int(parsed)
			continue
		}
		difficulty, err := search.DifficultyFromString(arg)
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, "usage: selfplay [white] [black] [games] [profile]")
			os.Exit(1)
		}
		if difficultiesSeen == 0 {
			white = difficulty
		} else {
			black = difficulty
		}
		difficultiesSeen++
	}

	label := fmt.Sprintf("%v vs %v", white, black)
	bar := progressbar.Default(int64(games), label)

	results := map[chess.Outcome]int{}
	for i := 0; i < games; i++ {
		outcome, err := playGame(white, black)
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		results[outcome]++
		_ = bar.Add(1)
	}

	fmt.Printf("%v over %v games:\n", label, games)
	fmt.Printf("  white wins %v\n", results[chess.WhiteWon])
	fmt.Printf("  black wins %v\n", results[chess.BlackWon])
	fmt.Printf("  draws      %v\n", results[chess.Draw]+results[chess.NoOutcome])
}
