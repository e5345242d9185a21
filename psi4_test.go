package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteInput(t *testing.T) {
	conf, err := DefaultRawConf().ToConfig()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteInput(&buf, conf); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{
		"psi4.set_memory('500 MB')",
		"psi4.core.set_output_file('water_output.dat', False)",
		"O\nH 1 0.96\nH 1 0.96 2 104.5\nsymmetry c1",
		"'basis': 'sto-3g',",
		"'scf_type': 'pk',",
		"'reference': 'rhf',",
		"'e_convergence': 1e-08,",
		"'d_convergence': 1e-08,",
		"with open('water.json', 'w') as f:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("got\n%v, wanted it to contain\n%v\n", got, want)
		}
	}
}

func TestNames(t *testing.T) {
	conf := Config{Trexio: "out/h2o.h5"}
	if got, want := InputName(conf), "h2o.in"; got != want {
		t.Errorf("got %v, wanted %v\n", got, want)
	}
	if got, want := DumpName(conf), "h2o.json"; got != want {
		t.Errorf("got %v, wanted %v\n", got, want)
	}
}

func TestReadDump(t *testing.T) {
	got, err := ReadDump("testfiles/water.json")
	if err != nil {
		t.Fatal(err)
	}
	if got.Energy != -74.9420799281924 {
		t.Errorf("got %v, wanted %v\n", got.Energy, -74.9420799281924)
	}
	if got.NuclearRepulsion != 8.00236706181077 {
		t.Errorf("got %v, wanted %v\n", got.NuclearRepulsion, 8.00236706181077)
	}
	if got.Nalpha != 5 || got.Nbeta != 5 || got.Nmo != 7 {
		t.Errorf("got %d %d %d, wanted 5 5 7\n", got.Nalpha, got.Nbeta, got.Nmo)
	}
	if len(got.CoreHamiltonian) != 49 || len(got.ERI) != 2401 ||
		len(got.MoEnergy) != 7 {
		t.Errorf("got lengths %d %d %d, wanted 49 2401 7\n",
			len(got.CoreHamiltonian), len(got.ERI), len(got.MoEnergy))
	}

	_, err = ReadDump("testfiles/nonexistent.json")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("got %v, wanted %v\n", err, ErrFileNotFound)
	}
	blank := filepath.Join(t.TempDir(), "blank.json")
	os.WriteFile(blank, []byte("\n"), 0644)
	_, err = ReadDump(blank)
	if !errors.Is(err, ErrBlankOutput) {
		t.Errorf("got %v, wanted %v\n", err, ErrBlankOutput)
	}
}

func TestReadOut(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"ok.dat", "*** Psi4 exiting successfully.\n", nil},
		{"blank.dat", "", ErrBlankOutput},
		{"conv.dat", "Could not converge SCF iterations in 100 iterations.\n",
			ErrNotConverged},
		{"err.dat", "Traceback (most recent call last):\n",
			ErrFileContainsError},
	}
	for _, test := range tests {
		name := filepath.Join(dir, test.name)
		os.WriteFile(name, []byte(test.content), 0644)
		got := ReadOut(name)
		if !errors.Is(got, test.want) {
			t.Errorf("%s: got %v, wanted %v\n", test.name, got, test.want)
		}
	}
	if got := ReadOut(filepath.Join(dir, "missing.dat")); got != ErrFileNotFound {
		t.Errorf("got %v, wanted %v\n", got, ErrFileNotFound)
	}
}

func TestSolve(t *testing.T) {
	conf := testConfig(t)
	q, err := NewQueue(conf)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Solve(conf, q)
	if err != nil {
		t.Fatal(err)
	}
	want := loadWater(t)
	if got.Energy != want.Energy {
		t.Errorf("got %v, wanted %v\n", got.Energy, want.Energy)
	}
	if !compFloat(got.ERI, want.ERI, 0) {
		t.Errorf("ERI mismatch\n")
	}
	if _, err := os.Stat(filepath.Join(conf.Workdir, "water.in")); err != nil {
		t.Errorf("input not written: %v\n", err)
	}
}

func TestSolveNotConverged(t *testing.T) {
	conf := testConfig(t)
	fail, err := filepath.Abs("testfiles/psi4-fail")
	if err != nil {
		t.Fatal(err)
	}
	conf.Psi4 = fail
	_, err = Solve(conf, Local{Cmd: conf.Psi4})
	if !errors.Is(err, ErrNotConverged) {
		t.Errorf("got %v, wanted %v\n", err, ErrNotConverged)
	}
}
