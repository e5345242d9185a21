package main

import (
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Result holds everything the exporter needs from a converged SCF
// calculation. The JSON tags match the dump written by psi4.tmpl.
type Result struct {
	Energy           float64   `json:"energy"`
	NuclearRepulsion float64   `json:"nuclear_repulsion"`
	Nalpha           int       `json:"nalpha"`
	Nbeta            int       `json:"nbeta"`
	Nmo              int       `json:"nmo"`
	CoreHamiltonian  []float64 `json:"core_hamiltonian"`
	ERI              []float64 `json:"eri"`
	MoEnergy         []float64 `json:"mo_energy"`
}

// Compression of a saved Result, chosen by file extension
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func CompressionFor(filename string) Compression {
	switch filepath.Ext(filename) {
	case ".zst":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	}
	return CompressionNone
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func compressor(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, err
		}
		return enc, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	}
	return nopCloser{w}, nil
}

// SaveResult writes res to filename as JSON, compressed according to
// CompressionFor
func SaveResult(filename string, res *Result) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	w, err := compressor(f, CompressionFor(filename))
	if err != nil {
		f.Close()
		return err
	}
	if err := json.NewEncoder(w).Encode(res); err != nil {
		w.Close()
		f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadResult reads a Result written by SaveResult
func LoadResult(filename string) (*Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	switch CompressionFor(filename) {
	case CompressionZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case CompressionLZ4:
		r = lz4.NewReader(f)
	}
	res := new(Result)
	if err := json.NewDecoder(r).Decode(res); err != nil {
		return nil, err
	}
	return res, nil
}
