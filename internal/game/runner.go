package game

import (
	"fmt"

	"github.com/notnil/chess"

	. "github.com/ayushmko73/chess-multiplayer-ai/internal/helpers"
	"github.com/ayushmko73/chess-multiplayer-ai/internal/search"
)

// Runner owns a single game: it commits moves to game state, answers board
// queries for the UI, and delegates engine moves to the searcher. The
// searcher itself never touches the game; it is handed a position snapshot
// per call.
type Runner struct {
	Logger Logger

	g *chess.Game
	s *search.Searcher

	StartFen string
	history  []string
}

type RunnerOptions struct {
	Logger Optional[Logger]
}

func NewRunner(opts RunnerOptions) Runner {
	r := Runner{}
	if opts.Logger.HasValue() {
		r.Logger = opts.Logger.Value()
	} else {
		r.Logger = &SilentLogger
	}
	return r
}

func (r *Runner) Reset() {
	r.g = nil
	r.s = nil
	r.StartFen = ""
	r.history = []string{}
}

func (r *Runner) IsNew() bool {
	return r.g == nil
}

func (r *Runner) SetupPosition(position Position) Error {
	if !r.IsNew() {
		r.Reset()
	}

	fenOpt, err := chess.FEN(position.Fen)
	if err != nil {
		return Errorf("couldn't create game from %v: %w", position.Fen, err)
	}
	r.g = chess.NewGame(fenOpt, chess.UseNotation(chess.UCINotation{}))
	r.StartFen = position.Fen

	searcher := search.NewSearcher(search.SearcherOptions{
		Logger: Some(r.Logger),
	})
	r.s = &searcher

	for _, m := range position.Moves {
		err := r.PerformMoveFromString(m)
		if !IsNil(err) {
			return err
		}
	}

	return NilError
}

func (r *Runner) PerformMove(move *chess.Move) Error {
	if err := r.g.Move(move); err != nil {
		return Errorf("perform %v: %w", move, err)
	}
	r.history = append(r.history, move.String())
	return NilError
}

// PerformMoveFromString commits a UCI move. A four-character promotion push
// like "e7e8" defaults to a queen, matching what web clients send when the
// user doesn't pick a piece.
func (r *Runner) PerformMoveFromString(s string) Error {
	err := r.performUCI(s)
	if !IsNil(err) && len(s) == 4 {
		if IsNil(r.performUCI(s + "q")) {
			return NilError
		}
	}
	return err
}

func (r *Runner) performUCI(s string) Error {
	move, err := chess.UCINotation{}.Decode(r.g.Position(), s)
	if err != nil {
		return Wrap(err)
	}
	return r.PerformMove(move)
}

// Rewind takes back up to num plies by replaying the shortened history from
// the starting position.
func (r *Runner) Rewind(num int) Error {
	if r.IsNew() {
		return Errorf("position not setup")
	}

	remaining := r.history[:len(r.history)-MinInt(num, len(r.history))]
	return r.SetupPosition(Position{
		Fen:   r.StartFen,
		Moves: append([]string{}, remaining...),
	})
}

func (r *Runner) LastMove() Optional[string] {
	if len(r.history) > 0 {
		return Some(r.history[len(r.history)-1])
	}
	return Empty[string]()
}

func (r *Runner) MoveHistory() []string {
	return append([]string{}, r.history...)
}

func (r *Runner) PgnFromMoveHistory() string {
	result := ""
	fullMove := 1
	halfMove := 0
	for _, move := range r.history {
		if halfMove == 0 {
			result += fmt.Sprintf("%v. ", fullMove)
		}

		result += fmt.Sprintf("%v ", move)

		halfMove += 1
		if halfMove == 2 {
			halfMove = 0
			fullMove += 1
		}
	}
	return result
}

// MovesForSelection lists the legal moves leaving the selected square, for
// highlighting destinations in the UI.
func (r *Runner) MovesForSelection(selection string) ([]string, Error) {
	if r.IsNew() {
		return nil, Errorf("position not setup")
	}

	moves := FilterSlice(r.g.ValidMoves(), func(m *chess.Move) bool {
		return m.S1().String() == selection
	})
	return MapSlice(moves, func(m *chess.Move) string {
		return m.String()
	}), NilError
}

func (r *Runner) FenString() string {
	return r.g.Position().String()
}

func (r *Runner) Player() chess.Color {
	return r.g.Position().Turn()
}

func (r *Runner) PlayerIsInCheck() bool {
	moves := r.g.Moves()
	if len(moves) == 0 {
		return false
	}
	return moves[len(moves)-1].HasTag(chess.Check)
}

func (r *Runner) NoValidMoves() bool {
	return len(r.g.ValidMoves()) == 0
}

func (r *Runner) Outcome() chess.Outcome {
	return r.g.Outcome()
}

func (r *Runner) Method() chess.Method {
	return r.g.Method()
}

// Search asks the engine for a move at the given difficulty. An empty
// result means the game is over; Outcome and Method say how.
func (r *Runner) Search(difficulty search.Difficulty) (Optional[string], Error) {
	if r.IsNew() {
		return Empty[string](), Errorf("position not setup")
	}

	result, err := r.s.SelectMove(r.g.Position(), difficulty)
	if !IsNil(err) || result.IsEmpty() {
		return Empty[string](), err
	}
	return Some(result.Value().String()), NilError
}
