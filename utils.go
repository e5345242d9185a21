package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"syscall"

	"gonum.org/v1/gonum/mat"
)

// TrimExt removes the extension from filename, keeping any directory
func TrimExt(filename string) string {
	return filename[:len(filename)-len(filepath.Ext(filename))]
}

func Equal(a, b, eps float64) bool {
	if math.Abs(a-b) > eps {
		return false
	}
	return true
}

func DumpMat(m mat.Matrix) {
	WriteMat(os.Stdout, m)
}

func WriteMat(w io.Writer, m mat.Matrix) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		fmt.Fprintf(w, "%5d", i)
		for j := 0; j < c; j++ {
			fmt.Fprintf(w, "%12.8f", m.At(i, j))
		}
		fmt.Fprint(w, "\n")
	}
	fmt.Fprint(w, "\n")
}

// DupOutErr uses syscall.Dup2 to direct the stdout and stderr streams
// to files
func DupOutErr(infile string) error {
	// set up output and err files and dup their fds to stdout and stderr
	// https://github.com/golang/go/issues/325
	base := TrimExt(infile)
	outfile, err := os.Create(base + ".out")
	if err != nil {
		return err
	}
	errfile, err := os.Create(base + ".log")
	if err != nil {
		return err
	}
	if err := syscall.Dup2(int(outfile.Fd()), 1); err != nil {
		return err
	}
	return syscall.Dup2(int(errfile.Fd()), 2)
}
