package main

import (
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"time"
)

// Queue runs a Psi4 input file found in dir
type Queue interface {
	Run(dir, input string) error
}

// NewQueue returns the Queue named by conf.Queue
func NewQueue(conf Config) (Queue, error) {
	switch conf.Queue {
	case "local":
		return Local{Cmd: conf.Psi4}, nil
	case "slurm":
		return Slurm{Cmd: conf.Psi4, Mem: "1gb", Poll: time.Second}, nil
	}
	return nil, fmt.Errorf("%w: queue %q", ErrBadOption, conf.Queue)
}

// Local runs Cmd directly and waits for it to finish
type Local struct {
	Cmd string
}

func (l Local) Run(dir, input string) error {
	cmd := exec.Command(l.Cmd, input)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%q: %w\n%s", cmd.String(), err, out)
	}
	return nil
}

// Slurm writes a batch script, submits it and polls the queue until the
// job is gone
type Slurm struct {
	Cmd  string
	Mem  string
	Poll time.Duration
}

func (s Slurm) Run(dir, input string) error {
	name := filepath.Join(dir, TrimExt(input)+".pbs")
	if err := WritePBSFile(name, s, []string{input}); err != nil {
		return err
	}
	jobid, err := Submit(name)
	if err != nil {
		return err
	}
	log.Printf("submitted %s as job %s\n", name, jobid)
	qstat := map[string]bool{jobid: true}
	for {
		Stat(&qstat)
		if !qstat[jobid] {
			return nil
		}
		time.Sleep(s.Poll)
	}
}
