package engine

import (
	"errors"
	"math/rand"

	"github.com/yourusername/c4engine/internal/tensor"
)

// Predictor is the boundary to the external move-prediction model. It
// takes a batch of encoded board tensors (flattened 6x7xC, row-major,
// channel-last) and returns one probability vector of length 7 per input.
// Outputs are not guaranteed to respect column legality; callers must
// mask them.
type Predictor interface {
	PredictBatch(inputs [][]float32) ([][]float64, error)
}

// ErrModelUnavailable reports that the prediction model is missing or
// unusable. Callers degrade to a uniform random legal move.
var ErrModelUnavailable = errors.New("prediction model unavailable")

// PolicyAgent selects moves with a prediction model, guarded by explicit
// one-ply win and block checks. Model failures never surface to the game
// loop; the agent falls back to a random legal move.
type PolicyAgent struct {
	Model    Predictor
	Channels int     // encoder channels, 2 or 3
	Epsilon  float64 // probability of exploring a random legal move instead

	rng *rand.Rand
}

// NewPolicyAgent returns a policy agent. A channels value outside {2, 3}
// falls back to 3, matching the training encoder default. Seed 0 draws a
// random seed.
func NewPolicyAgent(model Predictor, channels int, seed int64) *PolicyAgent {
	if !tensor.ValidChannels(channels) {
		channels = 3
	}
	if seed == 0 {
		seed = rand.Int63()
	}
	return &PolicyAgent{
		Model:    model,
		Channels: channels,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// GetMove returns a column for mover. Immediate wins are taken and
// immediate opponent wins are blocked before the model is consulted;
// the model's masked prediction decides everything else.
func (a *PolicyAgent) GetMove(b Board, mover uint8) int {
	moves := b.ValidMoves()
	if len(moves) == 0 {
		return 0
	}

	// Take a win on the spot.
	for _, col := range moves {
		next := b
		next.Place(col, mover)
		if CheckWinner(next) == mover {
			return col
		}
	}

	// Block an opponent win on the spot.
	opponent := Opponent(mover)
	for _, col := range moves {
		next := b
		next.Place(col, opponent)
		if CheckWinner(next) == opponent {
			return col
		}
	}

	col, err := a.predict(b, mover)
	if err != nil {
		return moves[a.rng.Intn(len(moves))]
	}
	return col
}

func (a *PolicyAgent) predict(b Board, mover uint8) (int, error) {
	if a.Model == nil {
		return 0, ErrModelUnavailable
	}

	if a.Epsilon > 0 && a.rng.Float64() < a.Epsilon {
		moves := b.ValidMoves()
		return moves[a.rng.Intn(len(moves))], nil
	}

	input := tensor.Encode(tensor.Grid(b), mover, a.Channels)
	out, err := a.Model.PredictBatch([][]float32{input})
	if err != nil {
		return 0, err
	}
	if len(out) != 1 || len(out[0]) != Cols {
		return 0, ErrModelUnavailable
	}

	probs := tensor.ApplyMoveMask(out[0], tensor.MoveMask(tensor.Grid(b)))

	best := 0
	for col := 1; col < Cols; col++ {
		if probs[col] > probs[best] {
			best = col
		}
	}
	if b.IsColumnFull(best) {
		moves := b.ValidMoves()
		return moves[a.rng.Intn(len(moves))], nil
	}
	return best, nil
}

// RandomAgent plays uniformly random legal moves. Used as an evaluation
// baseline and as the degraded mode when no model is configured.
type RandomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a random agent; seed 0 draws a random seed.
func NewRandomAgent(seed int64) *RandomAgent {
	if seed == 0 {
		seed = rand.Int63()
	}
	return &RandomAgent{rng: rand.New(rand.NewSource(seed))}
}

// GetMove returns a uniformly random legal column, or 0 when none exist.
func (a *RandomAgent) GetMove(b Board, _ uint8) int {
	moves := b.ValidMoves()
	if len(moves) == 0 {
		return 0
	}
	return moves[a.rng.Intn(len(moves))]
}
