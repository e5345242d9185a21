package main

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed pbs.tmpl
var Templates embed.FS

var ErrSubmit = errors.New("unexpected output from submit command")

type PBS struct {
	Name   string
	Cmd    string
	Mem    string
	Inputs []string
}

var PBS_TEMPLATE = template.Must(template.ParseFS(Templates, "pbs.tmpl"))

// WritePBS writes a batch script running s.Cmd on each of infiles
func WritePBS(w io.Writer, name string, s Slurm, infiles []string) error {
	return PBS_TEMPLATE.Execute(w, PBS{
		Name:   filepath.Base(name),
		Cmd:    s.Cmd,
		Mem:    s.Mem,
		Inputs: infiles,
	})
}

func WritePBSFile(filename string, s Slurm, infiles []string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WritePBS(f, filename, s, infiles); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var SUBMIT_CMD string = "sbatch"

// Submit sends filename to the queue and returns the job id. The
// directory for the submission command is taken from the filename, so
// the full path needs to be present.
func Submit(filename string) (string, error) {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)
	cmd := exec.Command(SUBMIT_CMD, base)
	cmd.Dir = dir
	byts, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%q: %w", cmd.String(), err)
	}
	// output like "Submitted batch job 49229449"
	fields := strings.Fields(string(byts))
	if len(fields) < 4 {
		return "", fmt.Errorf("%w: %q", ErrSubmit, byts)
	}
	return fields[3], nil
}
