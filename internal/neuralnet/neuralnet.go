// Package neuralnet implements a small feed-forward move-prediction
// network for Connect-4. It exists so the engine can run without an
// external model service; the engine only ever talks to it through the
// prediction interface.
package neuralnet

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// PolicyNet is a single-hidden-layer network mapping an encoded board
// tensor to a probability distribution over the seven columns.
type PolicyNet struct {
	CInput  uint32 // Number of input nodes (Rows*Cols*channels)
	CHidden uint32 // Number of hidden nodes
	COutput uint32 // Number of output nodes (always 7 for move prediction)

	HiddenWeight    []float32 // Weights from input to hidden layer
	OutputWeight    []float32 // Weights from hidden to output layer
	HiddenThreshold []float32 // Biases for hidden nodes
	OutputThreshold []float32 // Biases for output nodes
}

// Evaluate computes the network output for a single input. Hidden nodes
// use a sigmoid activation; the output layer is a softmax so the result
// is a probability vector.
func (nn *PolicyNet) Evaluate(input []float32) []float64 {
	hidden := make([]float64, nn.CHidden)
	for j := uint32(0); j < nn.CHidden; j++ {
		hidden[j] = float64(nn.HiddenThreshold[j])
	}

	w := 0
	for i := uint32(0); i < nn.CInput; i++ {
		x := input[i]
		if x == 0 {
			w += int(nn.CHidden)
			continue
		}
		for j := uint32(0); j < nn.CHidden; j++ {
			hidden[j] += float64(nn.HiddenWeight[w]) * float64(x)
			w++
		}
	}
	for j := range hidden {
		hidden[j] = sigmoid(hidden[j])
	}

	logits := make([]float64, nn.COutput)
	w = 0
	for k := uint32(0); k < nn.COutput; k++ {
		r := float64(nn.OutputThreshold[k])
		for j := uint32(0); j < nn.CHidden; j++ {
			r += hidden[j] * float64(nn.OutputWeight[w])
			w++
		}
		logits[k] = r
	}
	return softmax(logits)
}

// PredictBatch evaluates a batch of encoded boards, one probability
// vector per input. It satisfies the engine's Predictor interface.
func (nn *PolicyNet) PredictBatch(inputs [][]float32) ([][]float64, error) {
	out := make([][]float64, len(inputs))
	for i, input := range inputs {
		if uint32(len(input)) != nn.CInput {
			return nil, fmt.Errorf("input %d has %d values, network expects %d", i, len(input), nn.CInput)
		}
		out[i] = nn.Evaluate(input)
	}
	return out, nil
}

// Channels returns the channel count the network was trained with, or 0
// when the input size is not a whole number of 6x7 planes.
func (nn *PolicyNet) Channels() int {
	const plane = 6 * 7
	if nn.CInput%plane != 0 {
		return 0
	}
	return int(nn.CInput / plane)
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func softmax(logits []float64) []float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	out := make([]float64, len(logits))
	for i, v := range logits {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// LoadBinary loads a network from its binary weight format: three uint32
// dimensions followed by the four weight blocks, all little-endian.
func LoadBinary(r io.Reader) (*PolicyNet, error) {
	nn := &PolicyNet{}

	if err := binary.Read(r, binary.LittleEndian, &nn.CInput); err != nil {
		return nil, fmt.Errorf("reading cInput: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &nn.CHidden); err != nil {
		return nil, fmt.Errorf("reading cHidden: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &nn.COutput); err != nil {
		return nil, fmt.Errorf("reading cOutput: %w", err)
	}

	if nn.CInput < 1 || nn.CHidden < 1 || nn.COutput < 1 {
		return nil, fmt.Errorf("invalid network dimensions: %d/%d/%d", nn.CInput, nn.CHidden, nn.COutput)
	}

	nn.HiddenWeight = make([]float32, nn.CInput*nn.CHidden)
	if err := binary.Read(r, binary.LittleEndian, nn.HiddenWeight); err != nil {
		return nil, fmt.Errorf("reading hidden weights: %w", err)
	}
	nn.OutputWeight = make([]float32, nn.CHidden*nn.COutput)
	if err := binary.Read(r, binary.LittleEndian, nn.OutputWeight); err != nil {
		return nil, fmt.Errorf("reading output weights: %w", err)
	}
	nn.HiddenThreshold = make([]float32, nn.CHidden)
	if err := binary.Read(r, binary.LittleEndian, nn.HiddenThreshold); err != nil {
		return nil, fmt.Errorf("reading hidden thresholds: %w", err)
	}
	nn.OutputThreshold = make([]float32, nn.COutput)
	if err := binary.Read(r, binary.LittleEndian, nn.OutputThreshold); err != nil {
		return nil, fmt.Errorf("reading output thresholds: %w", err)
	}

	return nn, nil
}

// SaveBinary writes the network in the format LoadBinary reads.
func SaveBinary(w io.Writer, nn *PolicyNet) error {
	for _, v := range []any{
		nn.CInput, nn.CHidden, nn.COutput,
		nn.HiddenWeight, nn.OutputWeight, nn.HiddenThreshold, nn.OutputThreshold,
	} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("writing weights: %w", err)
		}
	}
	return nil
}

// LoadFile loads a network from a weights file, accepting either the
// text format (detected by its header line) or the binary format.
func LoadFile(path string) (*PolicyNet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening weights file: %w", err)
	}
	defer f.Close()

	sniff := make([]byte, len(weightsHeader))
	if _, err := io.ReadFull(f, sniff); err == nil && string(sniff) == weightsHeader {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewinding weights file: %w", err)
		}
		return LoadText(f)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding weights file: %w", err)
	}
	return LoadBinary(f)
}
