package main

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"
)

func charComp(got, want string) {
	for c := range got {
		if len(got) <= c {
			fmt.Println("got too short")
			return
		} else if len(want) <= c {
			fmt.Println("want too short")
			return
		}
		if got[c] != want[c] {
			fmt.Printf("got\n%q, wanted\n%q\n",
				got[:c+1], want[:c+1])
			return
		}
	}
}

func compFloat(a, b []float64, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// loadWater returns the water/STO-3G result stored in testfiles
func loadWater(t *testing.T) *Result {
	t.Helper()
	res, err := LoadResult("testfiles/water.json")
	if err != nil {
		t.Fatal(err)
	}
	return res
}

// testConfig returns the default configuration with every file placed
// in a temporary directory
func testConfig(t *testing.T) Config {
	t.Helper()
	conf, err := DefaultRawConf().ToConfig()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	conf.Workdir = dir
	conf.Trexio = filepath.Join(dir, "water.trexio")
	conf.Output = "output.dat"
	psi4, err := filepath.Abs("testfiles/psi4")
	if err != nil {
		t.Fatal(err)
	}
	conf.Psi4 = psi4
	return conf
}
