// Package tensor converts Connect-4 board states into the fixed tensor
// format consumed by the move-prediction model, and maps the model's raw
// probability vectors back onto legal moves.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Grid dimensions and cell values. Grid mirrors the engine's board layout
// so boards convert with a plain type conversion.
const (
	Rows = 6
	Cols = 7

	player1 uint8 = 1
	player2 uint8 = 2
)

// Grid is a 6x7 board snapshot, row 0 at the top.
type Grid [Rows][Cols]uint8

// ValidChannels reports whether the channel count is one the encoder
// supports (2 planes, or 3 with the mover-indicator plane).
func ValidChannels(channels int) bool {
	return channels == 2 || channels == 3
}

// Encode flattens the board into a row-major, channel-last tensor of
// length Rows*Cols*channels. Channel 0 is 1.0 where player 1 occupies a
// cell, channel 1 the same for player 2; with 3 channels the last plane is
// the constant mover/2 (0.5 for player 1, 1.0 for player 2).
func Encode(g Grid, mover uint8, channels int) []float32 {
	out := make([]float32, Rows*Cols*channels)
	moverPlane := float32(mover) / 2.0
	i := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if g[row][col] == player1 {
				out[i] = 1.0
			}
			if g[row][col] == player2 {
				out[i+1] = 1.0
			}
			if channels == 3 {
				out[i+2] = moverPlane
			}
			i += channels
		}
	}
	return out
}

// EncodeBatch encodes one tensor per grid. movers may be nil only when
// channels == 2.
func EncodeBatch(grids []Grid, movers []uint8, channels int) ([][]float32, error) {
	if !ValidChannels(channels) {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	if channels == 3 && len(movers) != len(grids) {
		return nil, fmt.Errorf("got %d movers for %d grids", len(movers), len(grids))
	}
	out := make([][]float32, len(grids))
	for i, g := range grids {
		var mover uint8
		if movers != nil {
			mover = movers[i]
		}
		out[i] = Encode(g, mover, channels)
	}
	return out, nil
}

// EncodeLabel one-hot encodes a column index into a length-7 vector.
func EncodeLabel(col int) []float32 {
	out := make([]float32, Cols)
	if col >= 0 && col < Cols {
		out[col] = 1.0
	}
	return out
}

// MoveMask returns a length-7 vector with 1.0 for playable columns and
// 0.0 for full ones.
func MoveMask(g Grid) []float64 {
	mask := make([]float64, Cols)
	for col := 0; col < Cols; col++ {
		if g[0][col] == 0 {
			mask[col] = 1.0
		}
	}
	return mask
}

// ApplyMoveMask zeroes the probability mass on masked columns and
// renormalizes the rest to sum to 1. If the mask removes all nonzero mass
// the result is uniform over the legal columns; with no legal columns at
// all it is uniform over all 7.
func ApplyMoveMask(probs, mask []float64) []float64 {
	masked := make([]float64, Cols)
	floats.MulTo(masked, probs, mask)

	if sum := floats.Sum(masked); sum > 0 {
		floats.Scale(1/sum, masked)
		return masked
	}

	if legal := floats.Sum(mask); legal > 0 {
		copy(masked, mask)
		floats.Scale(1/legal, masked)
		return masked
	}

	for i := range masked {
		masked[i] = 1.0 / Cols
	}
	return masked
}
