package neuralnet

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTextRoundTrip(t *testing.T) {
	nn := testNet(84, 4, 7)

	var buf bytes.Buffer
	if err := SaveText(&buf, nn); err != nil {
		t.Fatalf("SaveText: %v", err)
	}
	if !strings.HasPrefix(buf.String(), weightsHeader+"\n") {
		t.Fatal("text output missing header line")
	}

	loaded, err := LoadText(&buf)
	if err != nil {
		t.Fatalf("LoadText: %v", err)
	}

	input := make([]float32, 84)
	input[12] = 1.0
	a := nn.Evaluate(input)
	b := loaded.Evaluate(input)
	for i := range a {
		// Text floats go through %g formatting, so allow a small error.
		if math.Abs(a[i]-b[i]) > 1e-6 {
			t.Fatalf("out[%d] differs after text round trip: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestLoadTextRejectsBadHeader(t *testing.T) {
	if _, err := LoadText(strings.NewReader("othernet 2.0\n1 1 1\n")); err == nil {
		t.Error("LoadText accepted a foreign header")
	}
}

func TestLoadFileDetectsFormat(t *testing.T) {
	nn := testNet(84, 4, 7)
	dir := t.TempDir()

	textPath := filepath.Join(dir, "weights.txt")
	var tbuf bytes.Buffer
	if err := SaveText(&tbuf, nn); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(textPath, tbuf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	binPath := filepath.Join(dir, "weights.bin")
	var bbuf bytes.Buffer
	if err := SaveBinary(&bbuf, nn); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(binPath, bbuf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{textPath, binPath} {
		loaded, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", path, err)
		}
		if loaded.CInput != nn.CInput || loaded.CHidden != nn.CHidden {
			t.Errorf("LoadFile(%s) dimensions differ", path)
		}
	}
}
