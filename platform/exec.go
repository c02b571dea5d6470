package platform

import (
	"errors"
	"os/exec"
)

// ExecRunner implements Runner with os/exec. Commands run without a timeout.
type ExecRunner struct{}

// NewRunner creates a new command runner
func NewRunner() Runner {
	return ExecRunner{}
}

// LookPath searches PATH for file
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Output runs the command and returns its standard output
func (ExecRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// Run runs the command and waits for it to exit
func (ExecRunner) Run(name string, args ...string) (int, error) {
	err := exec.Command(name, args...).Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
