package trexio

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/combin"
)

// Symmetry selects which index permutations of <ij|kl> are treated as
// the same integral
type Symmetry int

const (
	NoSymmetry Symmetry = iota
	// Fourfold uses <ij|kl> = <ji|lk> = <kl|ij> = <lk|ji>
	Fourfold
	// Eightfold is the convention for real orbitals and the one
	// readers of the container assume
	Eightfold
)

func (s Symmetry) String() string {
	switch s {
	case NoSymmetry:
		return "none"
	case Fourfold:
		return "fourfold"
	case Eightfold:
		return "eightfold"
	}
	return fmt.Sprintf("Symmetry(%d)", int(s))
}

// ParseSymmetry converts a name like "eightfold" into a Symmetry
func ParseSymmetry(name string) (Symmetry, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "1", "onefold":
		return NoSymmetry, nil
	case "fourfold", "4":
		return Fourfold, nil
	case "eightfold", "8", "":
		return Eightfold, nil
	}
	return 0, fmt.Errorf("%w: unknown symmetry %q", ErrInvalidArg, name)
}

// Permutations returns the index tuples equivalent to (i, j, k, l)
// under s, including the tuple itself. Duplicates are possible when
// indices coincide.
func (s Symmetry) Permutations(i, j, k, l int) [][4]int {
	switch s {
	case Fourfold:
		return [][4]int{
			{i, j, k, l},
			{j, i, l, k},
			{k, l, i, j},
			{l, k, j, i},
		}
	case Eightfold:
		return [][4]int{
			{i, j, k, l},
			{i, l, k, j},
			{k, l, i, j},
			{k, j, i, l},
			{j, i, l, k},
			{l, i, j, k},
			{l, k, j, i},
			{j, k, l, i},
		}
	}
	return [][4]int{{i, j, k, l}}
}

// Canonical returns the lexicographically smallest member of the
// equivalence class of (i, j, k, l)
func (s Symmetry) Canonical(i, j, k, l int) [4]int {
	perms := s.Permutations(i, j, k, l)
	min := perms[0]
	for _, p := range perms[1:] {
		if less(p, min) {
			min = p
		}
	}
	return min
}

// Classes returns the number of equivalence classes among the n^4
// index tuples of an n-orbital tensor
func (s Symmetry) Classes(n int) int {
	switch s {
	case Fourfold:
		// Burnside over the four-element group: the three
		// non-identity elements each fix n^2 tuples
		return (n*n*n*n + 3*n*n) / 4
	case Eightfold:
		pairs := n * (n + 1) / 2
		return combin.Binomial(pairs+1, 2)
	}
	return n * n * n * n
}

func less(a, b [4]int) bool {
	for x := range a {
		if a[x] != b[x] {
			return a[x] < b[x]
		}
	}
	return false
}

// Index4 returns the row-major offset of (i, j, k, l) in a dense
// n^4 tensor
func Index4(n, i, j, k, l int) int {
	return ((i*n+j)*n+k)*n + l
}

// ConvertERI reduces the dense n^4 tensor eri to one entry per
// equivalence class under sym, dropping entries whose magnitude is
// below threshold. The returned index slice holds four int32 per
// value, in the same order as values. eri is not modified.
func ConvertERI(eri []float64, n int, sym Symmetry, threshold float64) (
	index []int32, value []float64, err error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("%w: orbital count %d", ErrInvalidArg, n)
	}
	if len(eri) != n*n*n*n {
		return nil, nil, fmt.Errorf("%w: %d values for %d orbitals",
			ErrInvalidDim, len(eri), n)
	}
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, nil, fmt.Errorf("%w: threshold %g", ErrInvalidArg,
			threshold)
	}
	size := sym.Classes(n)
	index = make([]int32, 0, 4*size)
	value = make([]float64, 0, size)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				for l := 0; l < n; l++ {
					if sym.Canonical(i, j, k, l) != [4]int{i, j, k, l} {
						continue
					}
					v := eri[Index4(n, i, j, k, l)]
					if math.Abs(v) < threshold {
						continue
					}
					index = append(index,
						int32(i), int32(j), int32(k), int32(l))
					value = append(value, v)
				}
			}
		}
	}
	return
}

// ExpandERI rebuilds the dense n^4 tensor from sparse entries by
// writing each value into every member of its class under sym.
// Entries that were never written stay zero.
func ExpandERI(n int, sym Symmetry, index []int32, value []float64) (
	[]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: orbital count %d", ErrInvalidArg, n)
	}
	if len(index) != 4*len(value) {
		return nil, fmt.Errorf("%w: %d indices for %d values",
			ErrInvalidDim, len(index), len(value))
	}
	eri := make([]float64, n*n*n*n)
	for v := range value {
		i := int(index[4*v])
		j := int(index[4*v+1])
		k := int(index[4*v+2])
		l := int(index[4*v+3])
		if !inRange(n, i, j, k, l) {
			return nil, fmt.Errorf("%w: index (%d,%d,%d,%d) with %d orbitals",
				ErrInvalidArg, i, j, k, l, n)
		}
		for _, p := range sym.Permutations(i, j, k, l) {
			eri[Index4(n, p[0], p[1], p[2], p[3])] = value[v]
		}
	}
	return eri, nil
}

func inRange(n int, idx ...int) bool {
	for _, i := range idx {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
