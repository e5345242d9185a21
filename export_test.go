package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"bwestbro.com/trexport/trexio"
)

// readBack returns everything Export wrote to the container at path
func readBack(t *testing.T, path string) (*Result, []int32) {
	t.Helper()
	f, err := trexio.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var res Result
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	res.NuclearRepulsion, err = f.ReadNucleusRepulsion()
	must(err)
	res.Nalpha, err = f.ReadElectronUpNum()
	must(err)
	res.Nbeta, err = f.ReadElectronDnNum()
	must(err)
	res.Nmo, err = f.ReadMoNum()
	must(err)
	res.CoreHamiltonian, err = f.ReadMo1eIntCoreHamiltonian()
	must(err)
	res.MoEnergy, err = f.ReadMoEnergy()
	must(err)
	size, err := f.ReadMo2eIntEriSize()
	must(err)
	index, value, err := f.ReadMo2eIntEri(0, size)
	must(err)
	res.ERI = value
	return &res, index
}

func TestExportWater(t *testing.T) {
	water := loadWater(t)
	tests := []struct {
		sym       trexio.Symmetry
		threshold float64
		chunk     int
		want      int
	}{
		{trexio.Eightfold, 0, CHUNK, 406},
		{trexio.Eightfold, 0, 100, 406},
		{trexio.Eightfold, 1e-10, 7, 154},
		{trexio.Fourfold, 0, CHUNK, 637},
		{trexio.NoSymmetry, 0, 1000, 2401},
	}
	for _, test := range tests {
		path := filepath.Join(t.TempDir(), "water.trexio")
		f, err := trexio.Create(path, trexio.Text)
		if err != nil {
			t.Fatal(err)
		}
		err = Export(f, water, test.sym, test.threshold, test.chunk)
		if err != nil {
			t.Fatal(err)
		}
		got, index := readBack(t, path)
		if len(got.ERI) != test.want {
			t.Errorf("%v: got %d integrals, wanted %d\n",
				test.sym, len(got.ERI), test.want)
		}
		// every value sits next to the tuple it came from
		for v := range got.ERI {
			i, j, k, l := int(index[4*v]), int(index[4*v+1]),
				int(index[4*v+2]), int(index[4*v+3])
			want := water.ERI[trexio.Index4(water.Nmo, i, j, k, l)]
			if got.ERI[v] != want {
				t.Errorf("(%d,%d,%d,%d): got %v, wanted %v\n",
					i, j, k, l, got.ERI[v], want)
			}
		}
		opt := cmpopts.IgnoreFields(Result{}, "Energy", "ERI")
		if diff := cmp.Diff(water, got, opt); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestExportMinimal(t *testing.T) {
	res := &Result{
		NuclearRepulsion: 0,
		Nalpha:           1,
		Nbeta:            0,
		Nmo:              1,
		CoreHamiltonian:  []float64{-0.5},
		ERI:              []float64{0.625},
		MoEnergy:         []float64{-0.5},
	}
	path := filepath.Join(t.TempDir(), "h.trexio")
	f, err := trexio.Create(path, trexio.Text)
	if err != nil {
		t.Fatal(err)
	}
	if err := Export(f, res, trexio.Eightfold, 0, CHUNK); err != nil {
		t.Fatal(err)
	}
	got, index := readBack(t, path)
	want := *res
	opts := []cmp.Option{
		cmpopts.EquateApprox(0, 1e-15),
		cmpopts.IgnoreFields(Result{}, "Energy"),
	}
	if diff := cmp.Diff(&want, got, opts...); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if !cmp.Equal(index, []int32{0, 0, 0, 0}) {
		t.Errorf("got %v, wanted %v\n", index, []int32{0, 0, 0, 0})
	}
}

func TestExportAllDropped(t *testing.T) {
	water := loadWater(t)
	path := filepath.Join(t.TempDir(), "w.trexio")
	f, err := trexio.Create(path, trexio.Text)
	if err != nil {
		t.Fatal(err)
	}
	if err := Export(f, water, trexio.Eightfold, 1e3, CHUNK); err != nil {
		t.Fatal(err)
	}
	got, index := readBack(t, path)
	if len(got.ERI) != 0 || len(index) != 0 {
		t.Errorf("got %d values, wanted 0\n", len(got.ERI))
	}
}

func TestExportClosed(t *testing.T) {
	water := loadWater(t)
	f, err := trexio.Create(filepath.Join(t.TempDir(), "w.trexio"), trexio.Text)
	if err != nil {
		t.Fatal(err)
	}
	if err := Export(f, water, trexio.Eightfold, 0, CHUNK); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); !errors.Is(err, trexio.ErrClosed) {
		t.Errorf("got %v, wanted %v\n", err, trexio.ErrClosed)
	}
	if err := f.WriteMoNum(7); !errors.Is(err, trexio.ErrClosed) {
		t.Errorf("got %v, wanted %v\n", err, trexio.ErrClosed)
	}
	if err := Export(f, water, trexio.Eightfold, 0, CHUNK); !errors.Is(err, trexio.ErrClosed) {
		t.Errorf("got %v, wanted %v\n", err, trexio.ErrClosed)
	}
}

func TestExportShapes(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Result)
		want   error
	}{
		{"core", func(r *Result) { r.CoreHamiltonian = r.CoreHamiltonian[:48] },
			trexio.ErrInvalidDim},
		{"energies", func(r *Result) { r.MoEnergy = append(r.MoEnergy, 1) },
			trexio.ErrInvalidDim},
		{"eri", func(r *Result) { r.ERI = r.ERI[:2400] }, trexio.ErrInvalidDim},
		{"nmo", func(r *Result) { r.Nmo = 0 }, trexio.ErrInvalidArg},
		{"nalpha", func(r *Result) { r.Nalpha = -1 }, trexio.ErrInvalidArg},
	}
	for _, test := range tests {
		res := loadWater(t)
		test.modify(res)
		f, err := trexio.Create(filepath.Join(t.TempDir(), "w.trexio"),
			trexio.Text)
		if err != nil {
			t.Fatal(err)
		}
		got := Export(f, res, trexio.Eightfold, 0, CHUNK)
		if !errors.Is(got, test.want) {
			t.Errorf("%s: got %v, wanted %v\n", test.name, got, test.want)
		}
	}
}
