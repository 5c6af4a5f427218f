// Package runner abstracts external command execution so the provisioning
// steps can be unit tested without touching the host.
package runner

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ndf-zz/metarace-install/internal/messages"
)

// Runner executes external tools. Run passes the tool's own output through
// to the operator; Output captures stdout for parsing.
type Runner interface {
	Run(name string, args ...string) error
	Output(name string, args ...string) ([]byte, error)
	LookPath(name string) (string, error)
}

// ExecRunner implements Runner using os/exec with pass-through stdio.
type ExecRunner struct{}

// Run executes name with args, forwarding stdin, stdout and stderr.
func (ExecRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf(messages.RunnerCommandFailedFmt, commandLine(name, args), err)
	}
	return nil
}

// Output executes name with args and returns its standard output.
func (ExecRunner) Output(name string, args ...string) ([]byte, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf(messages.RunnerCommandFailedFmt, commandLine(name, args), err)
	}
	return out, nil
}

// LookPath searches PATH for an executable.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Elevated wraps a Runner so every Run call is prefixed with the elevation
// tool. Output and LookPath are passed through unchanged.
type Elevated struct {
	Base Runner
	Tool string
}

// Run executes name with args through the elevation tool.
func (e Elevated) Run(name string, args ...string) error {
	return e.Base.Run(e.Tool, append([]string{name}, args...)...)
}

// Output captures output without elevation.
func (e Elevated) Output(name string, args ...string) ([]byte, error) {
	return e.Base.Output(name, args...)
}

// LookPath searches PATH for an executable.
func (e Elevated) LookPath(name string) (string, error) {
	return e.Base.LookPath(name)
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
