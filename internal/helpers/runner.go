package helpers

// Position is a game setup: a starting FEN plus the moves played since, in
// UCI notation.
type Position struct {
	Fen   string
	Moves []string
}

var StartPos = Position{
	Fen:   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	Moves: []string{},
}
