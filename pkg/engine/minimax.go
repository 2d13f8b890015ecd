package engine

import "math"

// DefaultSearchDepth is the default minimax look-ahead in plies.
const DefaultSearchDepth = 4

// Agent selects a move for the given player on the given board.
// Implementations must return a legal column whenever one exists.
type Agent interface {
	GetMove(b Board, mover uint8) int
}

// SearchAgent selects moves with a fixed-depth minimax search over
// disposable board copies.
type SearchAgent struct {
	Depth int
}

// NewSearchAgent returns a search agent with the given depth,
// or DefaultSearchDepth when depth is not positive.
func NewSearchAgent(depth int) *SearchAgent {
	if depth <= 0 {
		depth = DefaultSearchDepth
	}
	return &SearchAgent{Depth: depth}
}

// GetMove returns the best column for mover. Any move that wins on the
// spot is played immediately without deeper search. Otherwise each legal
// move is scored by minimax and the highest score wins, ties going to the
// first candidate in ascending column order. With no legal moves GetMove
// returns 0 as a defined fallback; correct game flow never reaches that.
func (a *SearchAgent) GetMove(b Board, mover uint8) int {
	moves := b.ValidMoves()
	if len(moves) == 0 {
		return 0
	}

	bestMove := moves[0]
	bestScore := math.MinInt

	for _, col := range moves {
		next := b
		next.Place(col, mover)

		if CheckWinner(next) == mover {
			return col
		}

		score := minimax(next, a.Depth-1, false, mover)
		if score > bestScore {
			bestScore = score
			bestMove = col
		}
	}

	return bestMove
}

// MoveScore pairs a candidate column with its search score.
type MoveScore struct {
	Column int `json:"column"`
	Score  int `json:"score"`
}

// ScoreMoves scores every legal move for mover, in ascending column
// order. Immediate wins take the maximum score for the agent's depth.
func (a *SearchAgent) ScoreMoves(b Board, mover uint8) []MoveScore {
	moves := b.ValidMoves()
	scores := make([]MoveScore, 0, len(moves))
	for _, col := range moves {
		next := b
		next.Place(col, mover)
		score := 1000 + a.Depth - 1
		if CheckWinner(next) != mover {
			score = minimax(next, a.Depth-1, false, mover)
		}
		scores = append(scores, MoveScore{Column: col, Score: score})
	}
	return scores
}

// minimax scores a position for mover, alternating maximizing and
// minimizing layers down to the remaining depth. Wins score +1000 plus the
// remaining depth so faster wins rank higher; losses mirror that. A full
// board or exhausted depth falls back to the piece-count heuristic.
func minimax(b Board, depth int, maximizing bool, mover uint8) int {
	winner := CheckWinner(b)
	opponent := Opponent(mover)

	switch winner {
	case mover:
		return 1000 + depth
	case opponent:
		return -1000 - depth
	}

	if b.IsFull() || depth == 0 {
		return evaluateBoard(b, mover)
	}

	moves := b.ValidMoves()
	if len(moves) == 0 {
		return 0
	}

	if maximizing {
		maxScore := math.MinInt
		for _, col := range moves {
			next := b
			next.Place(col, mover)
			if score := minimax(next, depth-1, false, mover); score > maxScore {
				maxScore = score
			}
		}
		return maxScore
	}

	minScore := math.MaxInt
	for _, col := range moves {
		next := b
		next.Place(col, opponent)
		if score := minimax(next, depth-1, true, mover); score < minScore {
			minScore = score
		}
	}
	return minScore
}

// evaluateBoard is the leaf heuristic: mover's piece count minus the
// opponent's.
func evaluateBoard(b Board, mover uint8) int {
	return b.Count(mover) - b.Count(Opponent(mover))
}
