package evaluation

import (
	"github.com/notnil/chess"
)

// Material values in tenths of a pawn. The king's value dwarfs any possible
// material swing; legal move generation never allows an actual king capture,
// so the king terms only matter for custom positions with a king missing.
var PieceValues = map[chess.PieceType]int{
	chess.Pawn:   10,
	chess.Knight: 30,
	chess.Bishop: 30,
	chess.Rook:   50,
	chess.Queen:  90,
	chess.King:   900,
}

// Evaluate returns the material balance of the position, positive favoring
// white. It ignores whose turn it is; callers that want a side-to-move
// relative score apply the sign themselves.
func Evaluate(pos *chess.Position) int {
	score := 0
	for _, piece := range pos.Board().SquareMap() {
		if piece.Color() == chess.White {
			score += PieceValues[piece.Type()]
		} else {
			score -= PieceValues[piece.Type()]
		}
	}
	return score
}
