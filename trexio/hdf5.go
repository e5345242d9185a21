package trexio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scigolib/hdf5"
)

// hdf5Backend keeps everything in the store and writes a single HDF5
// file on close, one dataset per attribute
type hdf5Backend struct {
	path string
}

func newHDF5Backend(path string) *hdf5Backend {
	return &hdf5Backend{path: path}
}

func (h *hdf5Backend) writeGroup(string, *store) error { return nil }

func (h *hdf5Backend) appendSparse(string, []int32, []float64) error { return nil }

func datasetName(attr string) string {
	return "/" + attr
}

func (h *hdf5Backend) close(s *store) error {
	fw, err := hdf5.CreateForWrite(h.path, hdf5.CreateTruncate)
	if err != nil {
		return err
	}
	if err := writeHDF5(fw, s); err != nil {
		fw.Close()
		return fmt.Errorf("writing %s: %w", h.path, err)
	}
	return fw.Close()
}

func writeHDF5(fw *hdf5.FileWriter, s *store) error {
	for _, name := range sortedKeys(s.ints) {
		ds, err := fw.CreateDataset(datasetName(name), hdf5.Int64, []uint64{1})
		if err != nil {
			return err
		}
		if err := ds.Write([]int64{s.ints[name]}); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(s.floats) {
		ds, err := fw.CreateDataset(datasetName(name), hdf5.Float64, []uint64{1})
		if err != nil {
			return err
		}
		if err := ds.Write([]float64{s.floats[name]}); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(s.arrays) {
		dims := make([]uint64, 0, len(s.dims[name]))
		for _, d := range s.dims[name] {
			dims = append(dims, uint64(d))
		}
		ds, err := fw.CreateDataset(datasetName(name), hdf5.Float64, dims)
		if err != nil {
			return err
		}
		if err := ds.Write(s.arrays[name]); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(s.sparse) {
		sp := s.sparse[name]
		ds, err := fw.CreateDataset(datasetName(name+"_size"), hdf5.Int64, []uint64{1})
		if err != nil {
			return err
		}
		if err := ds.Write([]int64{sp.size()}); err != nil {
			return err
		}
		if sp.size() == 0 {
			continue
		}
		ds, err = fw.CreateDataset(datasetName(name+"_index"), hdf5.Int32,
			[]uint64{uint64(len(sp.index))})
		if err != nil {
			return err
		}
		if err := ds.Write(sp.index); err != nil {
			return err
		}
		ds, err = fw.CreateDataset(datasetName(name+"_value"), hdf5.Float64,
			[]uint64{uint64(len(sp.value))})
		if err != nil {
			return err
		}
		if err := ds.Write(sp.value); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// loadHDF5 reads back a file written by hdf5Backend
func loadHDF5(path string) (*store, error) {
	file, err := hdf5.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	raw := make(map[string][]float64)
	var readErr error
	file.Walk(func(name string, obj hdf5.Object) {
		ds, ok := obj.(*hdf5.Dataset)
		if !ok || readErr != nil {
			return
		}
		data, err := ds.Read()
		if err != nil {
			readErr = fmt.Errorf("%s: %w", name, err)
			return
		}
		raw[strings.TrimPrefix(name, "/")] = data
	})
	if readErr != nil {
		return nil, readErr
	}
	return storeFromDatasets(raw)
}

// storeFromDatasets rebuilds a store from dataset contents keyed by
// attribute name
func storeFromDatasets(raw map[string][]float64) (*store, error) {
	s := newStore()
	scalar := func(name string) (float64, bool, error) {
		data, ok := raw[name]
		if !ok {
			return 0, false, nil
		}
		if len(data) != 1 {
			return 0, false, fmt.Errorf("%w: %s has %d values",
				ErrInvalidDim, name, len(data))
		}
		return data[0], true, nil
	}
	for name := range intAttrs {
		v, ok, err := scalar(name)
		if err != nil {
			return nil, err
		}
		if ok {
			s.ints[name] = int64(v)
		}
	}
	if v, ok, err := scalar(NucleusRepulsion); err != nil {
		return nil, err
	} else if ok {
		s.floats[NucleusRepulsion] = v
	}
	n := int(s.ints[MoNum])
	arrays := map[string][]int{
		CoreHamiltonian: {n, n},
		MoEnergy:        {n},
	}
	for name, dims := range arrays {
		data, ok := raw[name]
		if !ok {
			continue
		}
		if want := product(dims); len(data) != want {
			return nil, fmt.Errorf("%w: %s has %d values, want %d",
				ErrInvalidDim, name, len(data), want)
		}
		s.arrays[name] = data
		s.dims[name] = dims
	}
	size, ok, err := scalar(Eri + "_size")
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}
	sp := &sparse{value: raw[Eri+"_value"]}
	for _, i := range raw[Eri+"_index"] {
		sp.index = append(sp.index, int32(i))
	}
	if sp.size() != int64(size) || len(sp.index) != 4*len(sp.value) {
		return nil, fmt.Errorf("%w: %s size %d with %d values, %d indices",
			ErrInvalidDim, Eri, int64(size), len(sp.value), len(sp.index))
	}
	s.sparse[Eri] = sp
	return s, nil
}

func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}
