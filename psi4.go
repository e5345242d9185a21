package main

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	json "github.com/goccy/go-json"
)

var (
	ErrFileContainsError = errors.New("file contains error")
	ErrFileNotFound      = errors.New("output file not found")
	ErrBlankOutput       = errors.New("blank output")
	ErrNotConverged      = errors.New("SCF did not converge")
)

//go:embed psi4.tmpl
var psi4Tmpl string

var PSI4_TEMPLATE = template.Must(template.New("psi4").Parse(psi4Tmpl))

// Psi4 is the data used to fill psi4.tmpl
type Psi4 struct {
	Memory       string
	Output       string
	Geometry     string
	Basis        string
	ScfType      string
	Reference    string
	EConvergence float64
	DConvergence float64
	Dump         string
}

// Input and dump file names, relative to conf.Workdir
func InputName(conf Config) string {
	return TrimExt(filepath.Base(conf.Trexio)) + ".in"
}

func DumpName(conf Config) string {
	return TrimExt(InputName(conf)) + ".json"
}

// WriteInput writes the Psi4 input for conf to w
func WriteInput(w io.Writer, conf Config) error {
	return PSI4_TEMPLATE.Execute(w, Psi4{
		Memory:       conf.Memory,
		Output:       conf.Output,
		Geometry:     conf.Geometry,
		Basis:        conf.Basis,
		ScfType:      conf.ScfType,
		Reference:    conf.Reference,
		EConvergence: conf.EConvergence,
		DConvergence: conf.DConvergence,
		Dump:         DumpName(conf),
	})
}

// Solve writes the Psi4 input into conf.Workdir, runs it on q and reads
// back the results
func Solve(conf Config, q Queue) (*Result, error) {
	if err := os.MkdirAll(conf.Workdir, 0755); err != nil {
		return nil, err
	}
	input := InputName(conf)
	f, err := os.Create(filepath.Join(conf.Workdir, input))
	if err != nil {
		return nil, err
	}
	err = WriteInput(f, conf)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("writing %s: %w", input, err)
	}
	// stale dumps would be mistaken for this run's results
	dump := filepath.Join(conf.Workdir, DumpName(conf))
	os.Remove(dump)
	if err := q.Run(conf.Workdir, input); err != nil {
		return nil, fmt.Errorf("running psi4: %w", err)
	}
	res, err := ReadDump(dump)
	if errors.Is(err, ErrFileNotFound) {
		// say why if psi4 told us
		if oerr := ReadOut(filepath.Join(conf.Workdir, conf.Output)); oerr != nil {
			return nil, oerr
		}
	}
	return res, err
}

// ReadOut scans a Psi4 output file for signs of failure
func ReadOut(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return ErrFileNotFound
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	var i int
	for i = 0; scanner.Scan(); i++ {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "Could not converge"):
			return ErrNotConverged
		case strings.Contains(line, "PsiException"),
			strings.Contains(line, "Traceback"):
			return fmt.Errorf("%w: %q", ErrFileContainsError, line)
		}
	}
	if i == 0 {
		return ErrBlankOutput
	}
	return nil
}

// ReadDump decodes the JSON written at the end of psi4.tmpl
func ReadDump(filename string) (*Result, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, ErrFileNotFound
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrBlankOutput
	}
	res := new(Result)
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	return res, nil
}
