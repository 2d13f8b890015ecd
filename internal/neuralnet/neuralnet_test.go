package neuralnet

import (
	"bytes"
	"math"
	"math/rand"
	"testing"
)

// testNet builds a small network with deterministic pseudo-random weights.
func testNet(cInput, cHidden, cOutput uint32) *PolicyNet {
	rng := rand.New(rand.NewSource(1))
	fill := func(n uint32) []float32 {
		out := make([]float32, n)
		for i := range out {
			out[i] = float32(rng.NormFloat64() * 0.1)
		}
		return out
	}
	return &PolicyNet{
		CInput:          cInput,
		CHidden:         cHidden,
		COutput:         cOutput,
		HiddenWeight:    fill(cInput * cHidden),
		OutputWeight:    fill(cHidden * cOutput),
		HiddenThreshold: fill(cHidden),
		OutputThreshold: fill(cOutput),
	}
}

func TestEvaluateReturnsDistribution(t *testing.T) {
	nn := testNet(126, 16, 7)

	input := make([]float32, 126)
	input[0] = 1.0
	input[43] = 1.0

	out := nn.Evaluate(input)
	if len(out) != 7 {
		t.Fatalf("output length %d, want 7", len(out))
	}
	sum := 0.0
	for i, v := range out {
		if v < 0 || v > 1 {
			t.Errorf("out[%d] = %v, not a probability", i, v)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("probabilities sum to %v, want 1", sum)
	}
}

func TestEvaluateMatchesReference(t *testing.T) {
	// The zero-skipping forward pass must agree with a plain dense
	// computation of the same network.
	nn := testNet(84, 8, 7)

	input := make([]float32, 84)
	input[10] = 1.0
	input[50] = 0.5

	hidden := make([]float64, nn.CHidden)
	for j := uint32(0); j < nn.CHidden; j++ {
		h := float64(nn.HiddenThreshold[j])
		for i := uint32(0); i < nn.CInput; i++ {
			h += float64(nn.HiddenWeight[i*nn.CHidden+j]) * float64(input[i])
		}
		hidden[j] = 1.0 / (1.0 + math.Exp(-h))
	}
	logits := make([]float64, nn.COutput)
	for k := uint32(0); k < nn.COutput; k++ {
		r := float64(nn.OutputThreshold[k])
		for j := uint32(0); j < nn.CHidden; j++ {
			r += hidden[j] * float64(nn.OutputWeight[k*nn.CHidden+j])
		}
		logits[k] = r
	}
	want := softmax(logits)

	got := nn.Evaluate(input)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPredictBatch(t *testing.T) {
	nn := testNet(126, 8, 7)

	inputs := [][]float32{
		make([]float32, 126),
		make([]float32, 126),
	}
	inputs[1][3] = 1.0

	out, err := nn.PredictBatch(inputs)
	if err != nil {
		t.Fatalf("PredictBatch: %v", err)
	}
	if len(out) != 2 || len(out[0]) != 7 {
		t.Fatalf("batch dims %dx%d, want 2x7", len(out), len(out[0]))
	}
}

func TestPredictBatchRejectsWrongSize(t *testing.T) {
	nn := testNet(126, 8, 7)
	if _, err := nn.PredictBatch([][]float32{make([]float32, 100)}); err == nil {
		t.Error("PredictBatch accepted a 100-value input for a 126-input network")
	}
}

func TestChannels(t *testing.T) {
	if got := testNet(126, 8, 7).Channels(); got != 3 {
		t.Errorf("Channels for 126 inputs = %d, want 3", got)
	}
	if got := testNet(84, 8, 7).Channels(); got != 2 {
		t.Errorf("Channels for 84 inputs = %d, want 2", got)
	}
	if got := testNet(100, 8, 7).Channels(); got != 0 {
		t.Errorf("Channels for 100 inputs = %d, want 0", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	nn := testNet(84, 4, 7)

	var buf bytes.Buffer
	if err := SaveBinary(&buf, nn); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	loaded, err := LoadBinary(&buf)
	if err != nil {
		t.Fatalf("LoadBinary: %v", err)
	}
	if loaded.CInput != nn.CInput || loaded.CHidden != nn.CHidden || loaded.COutput != nn.COutput {
		t.Fatal("dimensions did not survive the round trip")
	}

	input := make([]float32, 84)
	input[7] = 1.0
	a := nn.Evaluate(input)
	b := loaded.Evaluate(input)
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			t.Fatalf("out[%d] differs after round trip: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestLoadBinaryRejectsBadDimensions(t *testing.T) {
	var buf bytes.Buffer
	// cInput = 0 is invalid.
	buf.Write([]byte{0, 0, 0, 0, 8, 0, 0, 0, 7, 0, 0, 0})
	if _, err := LoadBinary(&buf); err == nil {
		t.Error("LoadBinary accepted a zero input dimension")
	}
}

func TestLoadBinaryTruncated(t *testing.T) {
	nn := testNet(84, 4, 7)
	var buf bytes.Buffer
	if err := SaveBinary(&buf, nn); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()/2]
	if _, err := LoadBinary(bytes.NewReader(truncated)); err == nil {
		t.Error("LoadBinary accepted a truncated weights blob")
	}
}
