// Package npz reads and writes NumPy .npz archives holding float32
// arrays. An .npz file is a zip archive with one .npy member per array;
// this is the portable binary container the training pipeline consumes.
package npz

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Array is a dense float32 array with its shape. Data is laid out in
// C (row-major) order.
type Array struct {
	Shape []int
	Data  []float32
}

// Len returns the number of elements the shape describes.
func (a Array) Len() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// Entry names an array inside an archive.
type Entry struct {
	Name  string
	Array Array
}

// npy format version 1.0:
// https://numpy.org/doc/stable/reference/generated/numpy.lib.format.html
var npyMagic = []byte("\x93NUMPY")

// Write writes the arrays to w as an .npz archive in the given order.
func Write(w io.Writer, entries ...Entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		if got, want := len(e.Array.Data), e.Array.Len(); got != want {
			return fmt.Errorf("array %q: %d elements for shape %v (want %d)", e.Name, got, e.Array.Shape, want)
		}
		fw, err := zw.Create(e.Name + ".npy")
		if err != nil {
			return fmt.Errorf("creating %q: %w", e.Name, err)
		}
		if err := writeNPY(fw, e.Array); err != nil {
			return fmt.Errorf("writing %q: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

// WriteFile writes the archive to a temporary file in the target
// directory and renames it into place, so a crash mid-write never
// truncates an existing checkpoint.
func WriteFile(path string, entries ...Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if err := Write(tmp, entries...); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// writeNPY writes a single array in NumPy format version 1.0,
// little-endian float32, C order.
func writeNPY(w io.Writer, a Array) error {
	dims := make([]string, len(a.Shape))
	for i, d := range a.Shape {
		dims[i] = strconv.Itoa(d)
	}
	shape := "(" + strings.Join(dims, ", ") + ")"
	if len(a.Shape) == 1 {
		shape = "(" + dims[0] + ",)"
	}
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': %s, }", shape)

	// Pad so magic + version + length field + header is a multiple of 64,
	// with a terminating newline.
	base := len(npyMagic) + 2 + 2
	padded := (base + len(header) + 1 + 63) / 64 * 64
	header += strings.Repeat(" ", padded-base-len(header)-1) + "\n"

	if _, err := w.Write(npyMagic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{1, 0}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, a.Data)
}

var (
	shapeRE = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)
	descrRE = regexp.MustCompile(`'descr':\s*'([^']+)'`)
)

// ReadFile loads every array from an .npz file, keyed by member name
// without the .npy suffix.
func ReadFile(path string) (map[string]Array, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	arrays := make(map[string]Array, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening member %q: %w", f.Name, err)
		}
		a, err := readNPY(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", f.Name, err)
		}
		arrays[strings.TrimSuffix(f.Name, ".npy")] = a
	}
	return arrays, nil
}

func readNPY(r io.Reader) (Array, error) {
	var a Array

	magic := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(r, magic); err != nil {
		return a, fmt.Errorf("reading magic: %w", err)
	}
	if !bytes.Equal(magic[:len(npyMagic)], npyMagic) {
		return a, fmt.Errorf("not an npy file")
	}
	if magic[len(npyMagic)] != 1 {
		return a, fmt.Errorf("unsupported npy version %d.%d", magic[len(npyMagic)], magic[len(npyMagic)+1])
	}

	var headerLen uint16
	if err := binary.Read(r, binary.LittleEndian, &headerLen); err != nil {
		return a, fmt.Errorf("reading header length: %w", err)
	}
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return a, fmt.Errorf("reading header: %w", err)
	}

	m := descrRE.FindSubmatch(header)
	if m == nil || string(m[1]) != "<f4" {
		return a, fmt.Errorf("unsupported dtype in header %q", header)
	}
	m = shapeRE.FindSubmatch(header)
	if m == nil {
		return a, fmt.Errorf("no shape in header %q", header)
	}
	for _, part := range strings.Split(string(m[1]), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return a, fmt.Errorf("bad shape dimension %q: %w", part, err)
		}
		a.Shape = append(a.Shape, d)
	}

	a.Data = make([]float32, a.Len())
	if err := binary.Read(r, binary.LittleEndian, a.Data); err != nil {
		return a, fmt.Errorf("reading data: %w", err)
	}
	return a, nil
}
