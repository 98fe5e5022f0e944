package search

import (
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"

	. "github.com/ayushmko73/chess-multiplayer-ai/internal/helpers"
)

func pp(t any) string {
	return spew.Sdump(t)
}

func positionFromFen(t *testing.T, fen string) *chess.Position {
	fenOpt, err := chess.FEN(fen)
	assert.Nil(t, err)
	return chess.NewGame(fenOpt).Position()
}

func moveStrings(moves []*chess.Move) map[string]bool {
	result := map[string]bool{}
	for _, m := range moves {
		result[m.String()] = true
	}
	return result
}

func TestOpening(t *testing.T) {
	pos := positionFromFen(t, StartPos.Fen)

	searcher := NewSearcher(SearcherOptions{})
	result, err := searcher.SelectMove(pos, Easy)
	assert.True(t, IsNil(err), err)
	assert.True(t, result.HasValue())

	legal := moveStrings(pos.ValidMoves())
	assert.True(t, legal[result.Value().String()], pp(result))

	next := pos.Update(result.Value())
	assert.NotEqual(t, pos.String(), next.String())
	assert.Equal(t, chess.Black, next.Turn())
}

func TestLegality(t *testing.T) {
	fens := []string{
		StartPos.Fen,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"8/2k5/8/8/3R4/8/2K5/8 b - - 0 1",
	}

	for _, fen := range fens {
		pos := positionFromFen(t, fen)
		legal := moveStrings(pos.ValidMoves())

		for _, difficulty := range AllDifficulties {
			searcher := NewSearcher(SearcherOptions{})
			result, err := searcher.SelectMove(pos, difficulty)
			assert.True(t, IsNil(err), err)
			assert.True(t, result.HasValue())
			assert.True(t, legal[result.Value().String()],
				"difficulty %v fen %v: %v", difficulty, fen, pp(result))
		}
	}
}

func TestNoLegalMoves(t *testing.T) {
	// Back-rank mate, black to move.
	pos := positionFromFen(t, "kQK5/8/8/8/8/8/8/8 b - - 0 1")
	assert.Empty(t, pos.ValidMoves())

	for _, difficulty := range AllDifficulties {
		searcher := NewSearcher(SearcherOptions{})
		result, err := searcher.SelectMove(pos, difficulty)
		assert.True(t, IsNil(err), err)
		assert.False(t, result.HasValue(), pp(result))
	}
}

func TestStalemate(t *testing.T) {
	pos := positionFromFen(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	assert.Empty(t, pos.ValidMoves())

	searcher := NewSearcher(SearcherOptions{})
	result, err := searcher.SelectMove(pos, Master)
	assert.True(t, IsNil(err), err)
	assert.False(t, result.HasValue())
}

func TestPurity(t *testing.T) {
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	pos := positionFromFen(t, fen)
	before := pos.String()

	for _, difficulty := range AllDifficulties {
		searcher := NewSearcher(SearcherOptions{})
		_, err := searcher.SelectMove(pos, difficulty)
		assert.True(t, IsNil(err), err)
		assert.Equal(t, before, pos.String())
	}
}

func TestDeterminism(t *testing.T) {
	fen := "rnbqkb1r/pp2pppp/5n2/2pp4/3P1B2/2N5/PPP1PPPP/R2QKBNR w KQkq - 0 4"
	pos := positionFromFen(t, fen)

	for _, difficulty := range []Difficulty{Easy, Hard, Master} {
		var first string
		for i := 0; i < 5; i++ {
			searcher := NewSearcher(SearcherOptions{})
			result, err := searcher.SelectMove(pos, difficulty)
			assert.True(t, IsNil(err), err)
			assert.True(t, result.HasValue())
			if i == 0 {
				first = result.Value().String()
			} else {
				assert.Equal(t, first, result.Value().String())
			}
		}
	}
}

func TestTieBreakPrefersFirstGeneratedMove(t *testing.T) {
	// From the start no move changes material within one ply (and no white
	// piece can be captured within two), so every root move ties and the
	// first generated move must win.
	pos := positionFromFen(t, StartPos.Fen)
	firstMove := pos.ValidMoves()[0].String()

	for _, difficulty := range []Difficulty{Easy, Hard} {
		searcher := NewSearcher(SearcherOptions{})
		result, err := searcher.SelectMove(pos, difficulty)
		assert.True(t, IsNil(err), err)
		assert.Equal(t, firstMove, result.Value().String(), pp(result))
	}
}

func TestTakesHangingQueen(t *testing.T) {
	// exd5 wins the queen; everything else leaves material level.
	pos := positionFromFen(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")

	searcher := NewSearcher(SearcherOptions{})
	result, err := searcher.SelectMove(pos, Easy)
	assert.True(t, IsNil(err), err)
	assert.Equal(t, "e4d5", result.Value().String(), pp(result))
}

func TestFindsMateInOne(t *testing.T) {
	// Ra8 is a back-rank mate.
	fen := "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"

	for _, difficulty := range []Difficulty{Hard, Master} {
		pos := positionFromFen(t, fen)
		searcher := NewSearcher(SearcherOptions{})
		result, err := searcher.SelectMove(pos, difficulty)
		assert.True(t, IsNil(err), err)
		assert.Equal(t, "a1a8", result.Value().String(),
			"difficulty %v: %v", difficulty, pp(result))
	}
}

func TestEvaluationCountStaysWithinDepthBound(t *testing.T) {
	pos := positionFromFen(t, StartPos.Fen)
	branching := len(pos.ValidMoves())
	assert.Equal(t, 20, branching)

	// Easy evaluates each root move exactly once; there is nothing to prune
	// at depth 1.
	easy := NewSearcher(SearcherOptions{})
	_, err := easy.SelectMove(pos, Easy)
	assert.True(t, IsNil(err), err)
	assert.Equal(t, branching, easy.DebugTotalEvaluations)

	hard := NewSearcher(SearcherOptions{})
	_, err = hard.SelectMove(pos, Hard)
	assert.True(t, IsNil(err), err)
	assert.Greater(t, hard.DebugTotalEvaluations, easy.DebugTotalEvaluations)
	assert.LessOrEqual(t, hard.DebugTotalEvaluations, branching*branching)

	master := NewSearcher(SearcherOptions{})
	_, err = master.SelectMove(pos, Master)
	assert.True(t, IsNil(err), err)
	assert.LessOrEqual(t, master.DebugTotalEvaluations, branching*branching*branching)
}

func TestBeginnerPicksRandomly(t *testing.T) {
	pos := positionFromFen(t, StartPos.Fen)

	searcher := NewSearcher(SearcherOptions{
		Rand: Some(rand.New(rand.NewSource(42))),
	})

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		result, err := searcher.SelectMove(pos, Beginner)
		assert.True(t, IsNil(err), err)
		assert.True(t, result.HasValue())
		seen[result.Value().String()] = true
	}

	assert.Greater(t, len(seen), 1, pp(seen))
	assert.Equal(t, 0, searcher.DebugTotalEvaluations)
}

func TestDifficultyParsing(t *testing.T) {
	for _, difficulty := range AllDifficulties {
		parsed, err := DifficultyFromString(difficulty.String())
		assert.True(t, IsNil(err), err)
		assert.Equal(t, difficulty, parsed)
	}

	_, err := DifficultyFromString("grandmaster")
	assert.False(t, IsNil(err))
}

func TestSearchDepthRejectsNonSearchingDifficulties(t *testing.T) {
	depths := map[Difficulty]int{Easy: 1, Hard: 2, Master: 3}
	for difficulty, expected := range depths {
		depth, err := difficulty.SearchDepth()
		assert.True(t, IsNil(err), err)
		assert.Equal(t, expected, depth)
	}

	_, err := Beginner.SearchDepth()
	assert.False(t, IsNil(err))

	_, err = Difficulty(42).SearchDepth()
	assert.False(t, IsNil(err))
}
