package main

import (
	"fmt"
	"log"

	"bwestbro.com/trexport/trexio"
)

// Export writes res into f in the order readers expect and closes f.
// The two-electron integrals are reduced to one entry per class under
// sym, dropping those smaller than threshold, and written chunk at a
// time.
func Export(f *trexio.File, res *Result, sym trexio.Symmetry,
	threshold float64, chunk int) error {
	if chunk < 1 {
		chunk = CHUNK
	}
	if err := f.WriteNucleusRepulsion(res.NuclearRepulsion); err != nil {
		return fmt.Errorf("writing nuclear repulsion: %w", err)
	}
	if err := f.WriteElectronUpNum(res.Nalpha); err != nil {
		return fmt.Errorf("writing electron counts: %w", err)
	}
	if err := f.WriteElectronDnNum(res.Nbeta); err != nil {
		return fmt.Errorf("writing electron counts: %w", err)
	}
	if err := f.WriteMoNum(res.Nmo); err != nil {
		return fmt.Errorf("writing orbital count: %w", err)
	}
	if err := f.WriteMo1eIntCoreHamiltonian(res.CoreHamiltonian); err != nil {
		return fmt.Errorf("writing one-electron integrals: %w", err)
	}
	index, value, err := trexio.ConvertERI(res.ERI, res.Nmo, sym, threshold)
	if err != nil {
		return fmt.Errorf("converting two-electron integrals: %w", err)
	}
	log.Printf("keeping %d of %d two-electron integrals\n",
		len(value), len(res.ERI))
	// an empty first chunk still records a size of zero
	for offset := 0; offset == 0 || offset < len(value); offset += chunk {
		end := min(offset+chunk, len(value))
		err := f.WriteMo2eIntEri(int64(offset),
			index[4*offset:4*end], value[offset:end])
		if err != nil {
			return fmt.Errorf("writing two-electron integrals: %w", err)
		}
	}
	if err := f.WriteMoEnergy(res.MoEnergy); err != nil {
		return fmt.Errorf("writing orbital energies: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", f.Path(), err)
	}
	return nil
}
