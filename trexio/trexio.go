// Package trexio reads and writes the subset of the TREXIO container
// format needed to exchange molecular-orbital integrals: nuclear
// repulsion, electron counts, the orbital count, the core Hamiltonian,
// sparse electron-repulsion integrals and orbital energies.
//
// A File is opened once, written serially and closed exactly once.
// Attributes may only be written once, and arrays dimensioned by the
// orbital count require mo_num to be written first.
package trexio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

var (
	ErrClosed      = errors.New("trexio: file already closed")
	ErrReadOnly    = errors.New("trexio: file opened read-only")
	ErrAttrExists  = errors.New("trexio: attribute already exists")
	ErrAttrMissing = errors.New("trexio: attribute missing")
	ErrMissingNum  = errors.New("trexio: mo_num must be written first")
	ErrInvalidDim  = errors.New("trexio: invalid dimensions")
	ErrInvalidArg  = errors.New("trexio: invalid argument")
	ErrFileExists  = errors.New("trexio: file already exists")
)

// Backend selects the on-disk layout of a File
type Backend int

const (
	Text Backend = iota
	HDF5
)

func (b Backend) String() string {
	switch b {
	case Text:
		return "text"
	case HDF5:
		return "hdf5"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ParseBackend converts "text" or "hdf5" into a Backend
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "txt", "":
		return Text, nil
	case "hdf5", "h5":
		return HDF5, nil
	}
	return 0, fmt.Errorf("%w: unknown backend %q", ErrInvalidArg, name)
}

// attribute names, grouped the way TREXIO groups them
const (
	NucleusRepulsion = "nucleus_repulsion"
	ElectronUpNum    = "electron_up_num"
	ElectronDnNum    = "electron_dn_num"
	MoNum            = "mo_num"
	MoEnergy         = "mo_energy"
	CoreHamiltonian  = "mo_1e_int_core_hamiltonian"
	Eri              = "mo_2e_int_eri"
)

var groups = map[string]string{
	NucleusRepulsion: "nucleus",
	ElectronUpNum:    "electron",
	ElectronDnNum:    "electron",
	MoNum:            "mo",
	MoEnergy:         "mo",
	CoreHamiltonian:  "mo_1e_int",
	Eri:              "mo_2e_int",
}

// backend persists the contents of a store. Text files are updated on
// every write, HDF5 files are written in one pass on close.
type backend interface {
	writeGroup(group string, s *store) error
	appendSparse(name string, index []int32, value []float64) error
	close(s *store) error
}

// File is an open TREXIO container
type File struct {
	path    string
	mode    byte
	kind    Backend
	store   *store
	backend backend
	closed  bool
}

// Create makes a new container at path. It fails with ErrFileExists if
// something is already there.
func Create(path string, kind Backend) (*File, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
	}
	var (
		b   backend
		err error
	)
	switch kind {
	case Text:
		b, err = newTextBackend(path)
	case HDF5:
		b = newHDF5Backend(path)
	default:
		err = fmt.Errorf("%w: backend %v", ErrInvalidArg, kind)
	}
	if err != nil {
		return nil, err
	}
	return &File{
		path:    path,
		mode:    'w',
		kind:    kind,
		store:   newStore(),
		backend: b,
	}, nil
}

// Open opens an existing container read-only. A directory is read with
// the text backend, a regular file with the HDF5 backend.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	f := &File{path: path, mode: 'r'}
	if info.IsDir() {
		f.kind = Text
		f.store, err = loadText(path)
	} else {
		f.kind = HDF5
		f.store, err = loadHDF5(path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

// Path returns the name the File was created or opened with
func (f *File) Path() string { return f.path }

// Backend returns the on-disk layout of f
func (f *File) Backend() Backend { return f.kind }

// Close finalizes f. Calling it twice returns ErrClosed.
func (f *File) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	if f.mode == 'r' {
		return nil
	}
	return f.backend.close(f.store)
}

func (f *File) checkWrite(name string) error {
	if f.closed {
		return ErrClosed
	}
	if f.mode != 'w' {
		return ErrReadOnly
	}
	if name != Eri && f.store.has(name) {
		return fmt.Errorf("%w: %s", ErrAttrExists, name)
	}
	return nil
}

func (f *File) checkRead(name string) error {
	if f.closed {
		return ErrClosed
	}
	if !f.store.has(name) {
		return fmt.Errorf("%w: %s", ErrAttrMissing, name)
	}
	return nil
}

// moNum returns the orbital count already written, for sizing arrays
func (f *File) moNum() (int, error) {
	n, ok := f.store.ints[MoNum]
	if !ok {
		return 0, ErrMissingNum
	}
	return int(n), nil
}

func (f *File) putInt(name string, v int64) error {
	f.store.ints[name] = v
	return f.backend.writeGroup(groups[name], f.store)
}

// WriteNucleusRepulsion stores the nuclear repulsion energy
func (f *File) WriteNucleusRepulsion(energy float64) error {
	if err := f.checkWrite(NucleusRepulsion); err != nil {
		return err
	}
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return fmt.Errorf("%w: nuclear repulsion %g", ErrInvalidArg, energy)
	}
	f.store.floats[NucleusRepulsion] = energy
	return f.backend.writeGroup(groups[NucleusRepulsion], f.store)
}

// WriteElectronUpNum stores the number of spin-up electrons
func (f *File) WriteElectronUpNum(num int) error {
	return f.writeCount(ElectronUpNum, num, 0)
}

// WriteElectronDnNum stores the number of spin-down electrons
func (f *File) WriteElectronDnNum(num int) error {
	return f.writeCount(ElectronDnNum, num, 0)
}

// WriteMoNum stores the number of molecular orbitals
func (f *File) WriteMoNum(num int) error {
	return f.writeCount(MoNum, num, 1)
}

func (f *File) writeCount(name string, num, min int) error {
	if err := f.checkWrite(name); err != nil {
		return err
	}
	if num < min || num > math.MaxInt32 {
		return fmt.Errorf("%w: %s = %d", ErrInvalidArg, name, num)
	}
	return f.putInt(name, int64(num))
}

// WriteMo1eIntCoreHamiltonian stores the mo_num x mo_num core
// Hamiltonian, flattened row-major
func (f *File) WriteMo1eIntCoreHamiltonian(h []float64) error {
	if err := f.checkWrite(CoreHamiltonian); err != nil {
		return err
	}
	n, err := f.moNum()
	if err != nil {
		return err
	}
	return f.putArray(CoreHamiltonian, []int{n, n}, h)
}

// WriteMoEnergy stores one energy per molecular orbital
func (f *File) WriteMoEnergy(energy []float64) error {
	if err := f.checkWrite(MoEnergy); err != nil {
		return err
	}
	n, err := f.moNum()
	if err != nil {
		return err
	}
	return f.putArray(MoEnergy, []int{n}, energy)
}

func (f *File) putArray(name string, dims []int, v []float64) error {
	if size := product(dims); len(v) != size {
		return fmt.Errorf("%w: %s has %d values, want %d",
			ErrInvalidDim, name, len(v), size)
	}
	f.store.arrays[name] = append([]float64(nil), v...)
	f.store.dims[name] = dims
	return f.backend.writeGroup(groups[name], f.store)
}

// WriteMo2eIntEri appends a chunk of sparse two-electron integrals.
// index holds four entries per value; offset must equal the number of
// integrals already written.
func (f *File) WriteMo2eIntEri(offset int64, index []int32, value []float64) error {
	if err := f.checkWrite(Eri); err != nil {
		return err
	}
	n, err := f.moNum()
	if err != nil {
		return err
	}
	if len(index) != 4*len(value) {
		return fmt.Errorf("%w: %d indices for %d values",
			ErrInvalidDim, len(index), len(value))
	}
	sp := f.store.sparse[Eri]
	if offset != sp.size() {
		return fmt.Errorf("%w: offset %d, %d integrals written",
			ErrInvalidArg, offset, sp.size())
	}
	for _, i := range index {
		if i < 0 || int(i) >= n {
			return fmt.Errorf("%w: index %d with mo_num %d",
				ErrInvalidArg, i, n)
		}
	}
	if sp == nil {
		sp = new(sparse)
		f.store.sparse[Eri] = sp
	}
	sp.index = append(sp.index, index...)
	sp.value = append(sp.value, value...)
	return f.backend.appendSparse(Eri, index, value)
}

// ReadNucleusRepulsion returns the nuclear repulsion energy
func (f *File) ReadNucleusRepulsion() (float64, error) {
	if err := f.checkRead(NucleusRepulsion); err != nil {
		return 0, err
	}
	return f.store.floats[NucleusRepulsion], nil
}

// ReadElectronUpNum returns the number of spin-up electrons
func (f *File) ReadElectronUpNum() (int, error) {
	return f.readInt(ElectronUpNum)
}

// ReadElectronDnNum returns the number of spin-down electrons
func (f *File) ReadElectronDnNum() (int, error) {
	return f.readInt(ElectronDnNum)
}

// ReadMoNum returns the number of molecular orbitals
func (f *File) ReadMoNum() (int, error) {
	return f.readInt(MoNum)
}

func (f *File) readInt(name string) (int, error) {
	if err := f.checkRead(name); err != nil {
		return 0, err
	}
	return int(f.store.ints[name]), nil
}

// ReadMo1eIntCoreHamiltonian returns a copy of the flattened core
// Hamiltonian
func (f *File) ReadMo1eIntCoreHamiltonian() ([]float64, error) {
	return f.readArray(CoreHamiltonian)
}

// ReadMoEnergy returns a copy of the orbital energies
func (f *File) ReadMoEnergy() ([]float64, error) {
	return f.readArray(MoEnergy)
}

func (f *File) readArray(name string) ([]float64, error) {
	if err := f.checkRead(name); err != nil {
		return nil, err
	}
	return append([]float64(nil), f.store.arrays[name]...), nil
}

// ReadMo2eIntEriSize returns the number of stored two-electron
// integrals
func (f *File) ReadMo2eIntEriSize() (int64, error) {
	if err := f.checkRead(Eri); err != nil {
		return 0, err
	}
	return f.store.sparse[Eri].size(), nil
}

// ReadMo2eIntEri returns up to count integrals starting at offset.
// Fewer are returned at the end of the data.
func (f *File) ReadMo2eIntEri(offset, count int64) (
	index []int32, value []float64, err error) {
	if err := f.checkRead(Eri); err != nil {
		return nil, nil, err
	}
	sp := f.store.sparse[Eri]
	if offset < 0 || count < 0 || offset > sp.size() {
		return nil, nil, fmt.Errorf("%w: offset %d, count %d, size %d",
			ErrInvalidArg, offset, count, sp.size())
	}
	end := offset + count
	if end > sp.size() {
		end = sp.size()
	}
	index = append([]int32(nil), sp.index[4*offset:4*end]...)
	value = append([]float64(nil), sp.value[offset:end]...)
	return index, value, nil
}
