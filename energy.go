package main

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"bwestbro.com/trexport/trexio"
)

var ErrOpenShell = errors.New("energy check needs a closed shell")

// Energies recomputed from the contents of a container
type Energies struct {
	HF  float64
	MP2 float64
}

// HFEnergy computes the closed-shell Hartree-Fock energy from MO-basis
// integrals with nocc doubly-occupied orbitals:
//
//	E = E_nuc + 2 sum_i h_ii + sum_ij (2<ij|ij> - <ij|ji>)
func HFEnergy(enuc float64, nocc int, h *mat.Dense, eri []float64) float64 {
	if nocc == 0 {
		return enuc
	}
	n, _ := h.Dims()
	occ := h.Slice(0, nocc, 0, nocc)
	two := make([]float64, 0, nocc*nocc)
	for i := 0; i < nocc; i++ {
		for j := 0; j < nocc; j++ {
			two = append(two, 2*eri[trexio.Index4(n, i, j, i, j)]-
				eri[trexio.Index4(n, i, j, j, i)])
		}
	}
	return enuc + 2*mat.Trace(occ) + floats.Sum(two)
}

// MP2Energy computes the closed-shell second-order correlation energy
// from MO-basis integrals and orbital energies eps
func MP2Energy(nocc int, eps []float64, eri []float64) float64 {
	n := len(eps)
	var e float64
	for i := 0; i < nocc; i++ {
		for j := 0; j < nocc; j++ {
			for a := nocc; a < n; a++ {
				for b := nocc; b < n; b++ {
					ijab := eri[trexio.Index4(n, i, j, a, b)]
					ijba := eri[trexio.Index4(n, i, j, b, a)]
					e += ijab * (2*ijab - ijba) /
						(eps[i] + eps[j] - eps[a] - eps[b])
				}
			}
		}
	}
	return e
}

// Verify reopens the container at path and recomputes the HF and MP2
// energies from what was written
func Verify(path string) (Energies, error) {
	f, err := trexio.Open(path)
	if err != nil {
		return Energies{}, err
	}
	defer f.Close()
	up, err := f.ReadElectronUpNum()
	if err != nil {
		return Energies{}, err
	}
	dn, err := f.ReadElectronDnNum()
	if err != nil {
		return Energies{}, err
	}
	if up != dn {
		return Energies{}, fmt.Errorf("%w: %d up, %d down",
			ErrOpenShell, up, dn)
	}
	enuc, err := f.ReadNucleusRepulsion()
	if err != nil {
		return Energies{}, err
	}
	n, err := f.ReadMoNum()
	if err != nil {
		return Energies{}, err
	}
	h, err := f.ReadMo1eIntCoreHamiltonian()
	if err != nil {
		return Energies{}, err
	}
	eps, err := f.ReadMoEnergy()
	if err != nil {
		return Energies{}, err
	}
	size, err := f.ReadMo2eIntEriSize()
	if err != nil {
		return Energies{}, err
	}
	index, value, err := f.ReadMo2eIntEri(0, size)
	if err != nil {
		return Energies{}, err
	}
	// every tuple Export writes is a member of its eightfold class
	eri, err := trexio.ExpandERI(n, trexio.Eightfold, index, value)
	if err != nil {
		return Energies{}, err
	}
	hmat := mat.NewDense(n, n, h)
	if *debug {
		fmt.Println("core Hamiltonian")
		DumpMat(hmat)
	}
	return Energies{
		HF:  HFEnergy(enuc, up, hmat, eri),
		MP2: MP2Energy(up, eps, eri),
	}, nil
}
