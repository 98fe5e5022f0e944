package search

import (
	"math/rand"
	"time"

	"github.com/notnil/chess"

	"github.com/ayushmko73/chess-multiplayer-ai/internal/evaluation"
	. "github.com/ayushmko73/chess-multiplayer-ai/internal/helpers"
)

const Inf = 1000000

// MateScore dominates any material total while staying inside the
// [-Inf, Inf] window.
const MateScore = 100000

type Searcher struct {
	Logger Logger

	rand *rand.Rand

	DebugTotalEvaluations int
}

type SearcherOptions struct {
	Logger Optional[Logger]
	Rand   Optional[*rand.Rand]
}

func NewSearcher(options SearcherOptions) Searcher {
	s := Searcher{
		Logger: &SilentLogger,
	}
	if options.Logger.HasValue() {
		s.Logger = options.Logger.Value()
	}
	if options.Rand.HasValue() {
		s.rand = options.Rand.Value()
	} else {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

func signForPlayer(player chess.Color) int {
	if player == chess.White {
		return 1
	}
	return -1
}

// evaluateSubtree is a fixed-depth negamax with alpha-beta pruning. Every
// node scores from the perspective of the side to move at that node and
// negates the child's score on the way up; the window travels negated and
// swapped on the way down. Positions are never mutated: Update returns a
// fresh position for each branch.
func (s *Searcher) evaluateSubtree(pos *chess.Position, alpha int, beta int, depth int) int {
	if depth == 0 {
		s.DebugTotalEvaluations++
		return signForPlayer(pos.Turn()) * evaluation.Evaluate(pos)
	}

	moves := pos.ValidMoves()
	if len(moves) == 0 {
		if pos.Status() == chess.Checkmate {
			return -MateScore
		}
		return 0 // stalemate
	}

	best := -Inf
	for _, move := range moves {
		score := -s.evaluateSubtree(pos.Update(move), -beta, -alpha, depth-1)
		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if beta <= alpha {
			break
		}
	}
	return best
}

// SelectMove picks a move for the side to move at pos, or none when no
// legal move exists (the caller already knows whether that's checkmate or a
// draw). Beginner draws uniformly at random without evaluating anything;
// the other difficulties run the fixed-depth search. The root comparison is
// strictly greater-than, so equal scores keep the earliest move in the
// generated order.
func (s *Searcher) SelectMove(pos *chess.Position, difficulty Difficulty) (Optional[*chess.Move], Error) {
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return Empty[*chess.Move](), NilError
	}

	if difficulty == Beginner {
		return Some(moves[s.rand.Intn(len(moves))]), NilError
	}

	depth, err := difficulty.SearchDepth()
	if !IsNil(err) {
		return Empty[*chess.Move](), err
	}

	alpha := -Inf
	bestScore := -Inf
	bestMove := moves[0]
	for _, move := range moves {
		score := -s.evaluateSubtree(pos.Update(move), -Inf, -alpha, depth-1)
		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
		}
	}

	s.Logger.Println(
		"selected", bestMove.String(),
		"- score", bestScore,
		"- depth", depth,
		"- total evals", s.DebugTotalEvaluations)

	return Some(bestMove), NilError
}
