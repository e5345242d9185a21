package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"bwestbro.com/trexport/trexio"
)

var (
	ErrNoGeometry = errors.New("no geometry given")
	ErrBadOption  = errors.New("invalid option")
)

// water in a Z-matrix, bond lengths in angstrom
const WATER = `O
H 1 0.96
H 1 0.96 2 104.5`

type RawConf struct {
	Geometry     string  `toml:"geometry"`
	Basis        string  `toml:"basis"`
	ScfType      string  `toml:"scf_type"`
	Reference    string  `toml:"reference"`
	EConvergence float64 `toml:"e_convergence"`
	DConvergence float64 `toml:"d_convergence"`
	Memory       string  `toml:"memory"`
	Output       string  `toml:"output"`
	Trexio       string  `toml:"trexio"`
	Backend      string  `toml:"backend"`
	Symmetry     string  `toml:"symmetry"`
	Threshold    float64 `toml:"threshold"`
	Chunk        int     `toml:"chunk"`
	Overwrite    bool    `toml:"overwrite"`
	Queue        string  `toml:"queue"`
	Psi4         string  `toml:"psi4"`
	Workdir      string  `toml:"workdir"`
	Verify       bool    `toml:"verify"`
	VerifyTol    float64 `toml:"verify_tol"`
}

// DefaultRawConf returns the settings used when no input file is given
func DefaultRawConf() RawConf {
	return RawConf{
		Geometry:     WATER,
		Basis:        "sto-3g",
		ScfType:      "pk",
		Reference:    "rhf",
		EConvergence: 1e-8,
		DConvergence: 1e-8,
		Memory:       "500 MB",
		Output:       "water_output.dat",
		Trexio:       "water.trexio",
		Backend:      "text",
		Symmetry:     "eightfold",
		Chunk:        CHUNK,
		Queue:        "local",
		Psi4:         "psi4",
		Workdir:      ".",
		Verify:       true,
		VerifyTol:    1e-6,
	}
}

type Config struct {
	Geometry     string
	Basis        string
	ScfType      string
	Reference    string
	EConvergence float64
	DConvergence float64
	Memory       string
	Output       string
	Trexio       string
	Backend      trexio.Backend
	Symmetry     trexio.Symmetry
	Threshold    float64
	Chunk        int
	Overwrite    bool
	Queue        string
	Psi4         string
	Workdir      string
	Verify       bool
	VerifyTol    float64
}

func (rc RawConf) ToConfig() (conf Config, err error) {
	conf.Geometry = strings.TrimSpace(rc.Geometry)
	if conf.Geometry == "" {
		return conf, ErrNoGeometry
	}
	conf.Backend, err = trexio.ParseBackend(rc.Backend)
	if err != nil {
		return conf, fmt.Errorf("%w: %v", ErrBadOption, err)
	}
	conf.Symmetry, err = trexio.ParseSymmetry(rc.Symmetry)
	if err != nil {
		return conf, fmt.Errorf("%w: %v", ErrBadOption, err)
	}
	conf.Basis = rc.Basis
	conf.ScfType = rc.ScfType
	conf.Reference = strings.ToLower(rc.Reference)
	conf.EConvergence = rc.EConvergence
	conf.DConvergence = rc.DConvergence
	conf.Memory = rc.Memory
	conf.Output = rc.Output
	conf.Trexio = rc.Trexio
	conf.Threshold = rc.Threshold
	conf.Chunk = rc.Chunk
	conf.Overwrite = rc.Overwrite
	conf.Queue = strings.ToLower(rc.Queue)
	conf.Psi4 = rc.Psi4
	conf.Workdir = rc.Workdir
	conf.Verify = rc.Verify
	conf.VerifyTol = rc.VerifyTol
	return conf, conf.Validate()
}

// Validate reports the first option that cannot be passed on to Psi4
// or the exporter
func (c Config) Validate() error {
	switch {
	case c.Basis == "":
		return fmt.Errorf("%w: empty basis", ErrBadOption)
	case c.Reference != "rhf" && c.Reference != "uhf" && c.Reference != "rohf":
		return fmt.Errorf("%w: reference %q", ErrBadOption, c.Reference)
	case c.EConvergence <= 0 || c.DConvergence <= 0:
		return fmt.Errorf("%w: convergence thresholds must be positive",
			ErrBadOption)
	case c.Threshold < 0:
		return fmt.Errorf("%w: threshold %g", ErrBadOption, c.Threshold)
	case c.Chunk < 1:
		return fmt.Errorf("%w: chunk %d", ErrBadOption, c.Chunk)
	case c.Queue != "local" && c.Queue != "slurm":
		return fmt.Errorf("%w: queue %q", ErrBadOption, c.Queue)
	case c.Trexio == "":
		return fmt.Errorf("%w: empty trexio file name", ErrBadOption)
	case c.Verify && c.VerifyTol <= 0:
		return fmt.Errorf("%w: verify_tol %g", ErrBadOption, c.VerifyTol)
	}
	return nil
}

// LoadConfig reads a TOML input file on top of the defaults
func LoadConfig(filename string) (Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cont, err := io.ReadAll(f)
	if err != nil {
		return Config{}, err
	}
	rc := DefaultRawConf()
	err = toml.Unmarshal(cont, &rc)
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return rc.ToConfig()
}
