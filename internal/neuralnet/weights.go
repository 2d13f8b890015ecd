package neuralnet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// weightsHeader is the first line of a text weights file.
const weightsHeader = "c4net 1.0"

// LoadText loads a network from the text weights format: a header line,
// three dimensions on one line, then the weight blocks as whitespace
// separated floats in the same order as the binary format.
func LoadText(r io.Reader) (*PolicyNet, error) {
	br := bufio.NewReader(r)

	header, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if strings.TrimSpace(header) != weightsHeader {
		return nil, fmt.Errorf("invalid header %q (expected %q)", strings.TrimSpace(header), weightsHeader)
	}

	nn := &PolicyNet{}
	if _, err := fmt.Fscan(br, &nn.CInput, &nn.CHidden, &nn.COutput); err != nil {
		return nil, fmt.Errorf("reading dimensions: %w", err)
	}
	if nn.CInput < 1 || nn.CHidden < 1 || nn.COutput < 1 {
		return nil, fmt.Errorf("invalid network dimensions: %d/%d/%d", nn.CInput, nn.CHidden, nn.COutput)
	}

	blocks := []struct {
		name string
		dst  *[]float32
		n    uint32
	}{
		{"hidden weights", &nn.HiddenWeight, nn.CInput * nn.CHidden},
		{"output weights", &nn.OutputWeight, nn.CHidden * nn.COutput},
		{"hidden thresholds", &nn.HiddenThreshold, nn.CHidden},
		{"output thresholds", &nn.OutputThreshold, nn.COutput},
	}
	for _, b := range blocks {
		vals := make([]float32, b.n)
		for i := range vals {
			if _, err := fmt.Fscan(br, &vals[i]); err != nil {
				return nil, fmt.Errorf("reading %s: %w", b.name, err)
			}
		}
		*b.dst = vals
	}

	return nn, nil
}

// SaveText writes the network in the format LoadText reads.
func SaveText(w io.Writer, nn *PolicyNet) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, weightsHeader)
	fmt.Fprintln(bw, nn.CInput, nn.CHidden, nn.COutput)

	for _, block := range [][]float32{
		nn.HiddenWeight, nn.OutputWeight, nn.HiddenThreshold, nn.OutputThreshold,
	} {
		for i, v := range block {
			if i > 0 {
				fmt.Fprint(bw, " ")
			}
			fmt.Fprintf(bw, "%g", v)
		}
		fmt.Fprintln(bw)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing weights: %w", err)
	}
	return nil
}

// LoadTextFile loads a network from a text weights file.
func LoadTextFile(path string) (*PolicyNet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening weights file: %w", err)
	}
	defer f.Close()
	return LoadText(f)
}
