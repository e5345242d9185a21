package trexio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// groups stored as rank/dims text files, in the order they are loaded
var textGroups = []string{"nucleus", "electron", "mo", "mo_1e_int"}

var intAttrs = map[string]bool{
	ElectronUpNum: true,
	ElectronDnNum: true,
	MoNum:         true,
}

// textBackend stores each group in <dir>/<group>.txt and the sparse
// integrals in <dir>/<name>.txt with a companion .size file
type textBackend struct {
	dir string
}

func newTextBackend(dir string) (*textBackend, error) {
	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, err
	}
	return &textBackend{dir: dir}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'e', -1, 64)
}

func (t *textBackend) writeGroup(group string, s *store) error {
	f, err := os.Create(filepath.Join(t.dir, group+".txt"))
	if err != nil {
		return err
	}
	if err := writeGroup(f, group, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeGroup writes scalars as "name value" lines and arrays as
//
//	rank_name r
//	dims_name d1 ... dr
//	name
//	one value per line
func writeGroup(w io.Writer, group string, s *store) error {
	bw := bufio.NewWriter(w)
	ints, floats, arrays := s.members(group)
	for _, name := range ints {
		fmt.Fprintf(bw, "%s %d\n", name, s.ints[name])
	}
	for _, name := range floats {
		fmt.Fprintf(bw, "%s %s\n", name, formatFloat(s.floats[name]))
	}
	for _, name := range arrays {
		dims := s.dims[name]
		fmt.Fprintf(bw, "rank_%s %d\n", name, len(dims))
		fmt.Fprintf(bw, "dims_%s", name)
		for _, d := range dims {
			fmt.Fprintf(bw, " %d", d)
		}
		fmt.Fprintf(bw, "\n%s\n", name)
		for _, v := range s.arrays[name] {
			fmt.Fprintln(bw, formatFloat(v))
		}
	}
	return bw.Flush()
}

func (t *textBackend) appendSparse(name string, index []int32, value []float64) error {
	base := filepath.Join(t.dir, name+".txt")
	f, err := os.OpenFile(base, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	for v := range value {
		fmt.Fprintf(bw, "%d %d %d %d %s\n",
			index[4*v], index[4*v+1], index[4*v+2], index[4*v+3],
			formatFloat(value[v]),
		)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	size, err := readSize(base + ".size")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(base+".size",
		[]byte(fmt.Sprintf("%d\n", size+int64(len(value)))), 0644)
}

func (t *textBackend) close(*store) error { return nil }

func readSize(filename string) (int64, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
}

// loadText reads every group and sparse file found in dir
func loadText(dir string) (*store, error) {
	s := newStore()
	for _, group := range textGroups {
		f, err := os.Open(filepath.Join(dir, group+".txt"))
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}
		err = readGroup(f, s)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s.txt: %w", group, err)
		}
	}
	base := filepath.Join(dir, Eri+".txt")
	f, err := os.Open(base)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	sp, err := readSparse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", base, err)
	}
	size, err := readSize(base + ".size")
	if err != nil {
		return nil, err
	}
	if size != sp.size() {
		return nil, fmt.Errorf("%w: %s.size says %d, found %d",
			ErrInvalidDim, base, size, sp.size())
	}
	s.sparse[Eri] = sp
	return s, nil
}

func readGroup(r io.Reader, s *store) error {
	scanner := bufio.NewScanner(r)
	var (
		name   string
		dims   []int
		want   int
		vals   []float64
		header bool
	)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		switch {
		case header:
			if len(fields) != 1 || fields[0] != name {
				return fmt.Errorf("expected %s, got %q", name, line)
			}
			header = false
			if want == 0 {
				s.arrays[name] = []float64{}
				s.dims[name] = dims
			}
		case want > 0:
			v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
			if err != nil {
				return err
			}
			vals = append(vals, v)
			want--
			if want == 0 {
				s.arrays[name] = vals
				s.dims[name] = dims
				vals = nil
			}
		case len(fields) == 0:
			continue
		case strings.HasPrefix(fields[0], "rank_"):
			name = strings.TrimPrefix(fields[0], "rank_")
		case strings.HasPrefix(fields[0], "dims_"):
			dims = dims[:0:0]
			want = 1
			for _, f := range fields[1:] {
				d, err := strconv.Atoi(f)
				if err != nil {
					return err
				}
				dims = append(dims, d)
				want *= d
			}
			header = true
		case len(fields) == 2 && intAttrs[fields[0]]:
			v, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return err
			}
			s.ints[fields[0]] = v
		case len(fields) == 2:
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return err
			}
			s.floats[fields[0]] = v
		default:
			return fmt.Errorf("unrecognized line %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if want > 0 {
		return fmt.Errorf("%w: %s truncated", ErrInvalidDim, name)
	}
	return nil
}

func readSparse(r io.Reader) (*sparse, error) {
	sp := new(sparse)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 5 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDim, scanner.Text())
		}
		for _, f := range fields[:4] {
			i, err := strconv.ParseInt(f, 10, 32)
			if err != nil {
				return nil, err
			}
			sp.index = append(sp.index, int32(i))
		}
		v, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, err
		}
		sp.value = append(sp.value, v)
	}
	return sp, scanner.Err()
}
