package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"bwestbro.com/trexport/trexio"
)

const (
	// sparse integrals written per call
	CHUNK = 1 << 12
)

var ErrEnergyMismatch = errors.New("energy from container does not match SCF")

// Flags
var (
	debug      = flag.Bool("debug", false, "toggle debugging information")
	cpuprofile = flag.String("cpu", "", "write a CPU profile")
	loadFile   = flag.String("load", "",
		"load a saved result instead of running psi4")
	saveFile = flag.String("save", "",
		"save the psi4 result, compressed if the name ends in .zst")
	logOut = flag.Bool("log", false,
		"redirect stdout and stderr to files named after the input")
)

// Run computes or loads the SCF result for conf, exports it to
// conf.Trexio and optionally checks the container against it
func Run(conf Config, load, save string) error {
	var (
		res *Result
		err error
	)
	if load != "" {
		res, err = LoadResult(load)
		if err != nil {
			return fmt.Errorf("loading %s: %w", load, err)
		}
		log.Printf("loaded result from %s\n", load)
	} else {
		q, err := NewQueue(conf)
		if err != nil {
			return err
		}
		res, err = Solve(conf, q)
		if err != nil {
			return err
		}
	}
	log.Printf("SCF energy: %.12f\n", res.Energy)
	if save != "" {
		if err := SaveResult(save, res); err != nil {
			return fmt.Errorf("saving %s: %w", save, err)
		}
	}
	if conf.Overwrite {
		if err := os.RemoveAll(conf.Trexio); err != nil {
			return err
		}
	}
	f, err := trexio.Create(conf.Trexio, conf.Backend)
	if err != nil {
		return err
	}
	if err := Export(f, res, conf.Symmetry, conf.Threshold, conf.Chunk); err != nil {
		return err
	}
	log.Printf("wrote %s with %v backend\n", conf.Trexio, conf.Backend)
	if !conf.Verify {
		return nil
	}
	e, err := Verify(conf.Trexio)
	if errors.Is(err, ErrOpenShell) {
		log.Printf("skipping energy check: %v\n", err)
		return nil
	} else if err != nil {
		return fmt.Errorf("reading back %s: %w", conf.Trexio, err)
	}
	log.Printf("HF energy from container: %.12f\n", e.HF)
	log.Printf("MP2 correlation energy: %.12f\n", e.MP2)
	if !Equal(e.HF, res.Energy, conf.VerifyTol) {
		return fmt.Errorf("%w: %.12f vs %.12f", ErrEnergyMismatch,
			e.HF, res.Energy)
	}
	return nil
}

func main() {
	host, _ := os.Hostname()
	flag.Parse()
	args := flag.Args()
	var (
		conf Config
		err  error
	)
	infile := "trexport"
	if len(args) >= 1 {
		infile = args[0]
		conf, err = LoadConfig(infile)
	} else {
		conf, err = DefaultRawConf().ToConfig()
	}
	if err != nil {
		log.Fatalf("loading configuration: %v\n", err)
	}
	if *logOut {
		if err := DupOutErr(infile); err != nil {
			log.Fatalf("redirecting output: %v\n", err)
		}
	}
	log.Printf("running on host: %s\n", host)
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}
	if err := Run(conf, *loadFile, *saveFile); err != nil {
		pprof.StopCPUProfile()
		log.Fatal(err)
	}
}
