// Package venv provisions the isolated Python environment the metarace
// applications are installed into.
package venv

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ndf-zz/metarace-install/internal/messages"
	"github.com/ndf-zz/metarace-install/internal/runner"
)

// Minimum interpreter release required by the application packages.
const (
	MinPythonMajor = 3
	MinPythonMinor = 9
)

// Handle describes the environment at its fixed root. The orchestrator
// never deletes it; only the operator does.
type Handle struct {
	RootPath        string
	InterpreterPath string
	Exists          bool
}

// Provisioner builds and populates the environment.
type Provisioner struct {
	Run runner.Runner
	Out io.Writer
	// DataPath is the fixed install root; the venv sits one level below.
	DataPath string
}

// VenvPath returns the environment root under the data path.
func (p *Provisioner) VenvPath() string {
	return filepath.Join(p.DataPath, "venv")
}

// EnsureInterpreter verifies python3 is present and recent enough. Both
// failures are fatal; installation cannot continue without the interpreter.
func (p *Provisioner) EnsureInterpreter() (string, error) {
	python, err := p.Run.LookPath("python3")
	if err != nil {
		return "", fmt.Errorf(messages.VenvNoInterpreter)
	}
	out, err := p.Run.Output(python, "-c",
		"import sys; print('%d.%d' % sys.version_info[:2])")
	if err != nil {
		return "", fmt.Errorf(messages.VenvVersionFmt, err)
	}
	version := strings.TrimSpace(string(out))
	major, minor, err := parseVersion(version)
	if err != nil {
		return "", fmt.Errorf(messages.VenvVersionFmt, err)
	}
	if major < MinPythonMajor || (major == MinPythonMajor && minor < MinPythonMinor) {
		return "", fmt.Errorf(messages.VenvTooOldFmt, version)
	}
	return python, nil
}

// EnsureVenvModule verifies the interpreter's isolation facility.
func (p *Provisioner) EnsureVenvModule(python string) error {
	if _, err := p.Run.Output(python, "-c", "import venv"); err != nil {
		return fmt.Errorf(messages.VenvModuleMissing)
	}
	return nil
}

// Rebuild unconditionally (re)builds the environment at the fixed root.
// Rebuilding is intentionally not conditional on prior existence so every
// run ends with a clean dependency set. A partial build is left in place
// for diagnosis.
func (p *Provisioner) Rebuild(python string) (Handle, error) {
	if err := os.MkdirAll(p.DataPath, 0o755); err != nil {
		return Handle{}, fmt.Errorf(messages.VenvCreateDataPathFmt, p.DataPath, err)
	}
	root := p.VenvPath()
	_, statErr := os.Stat(root)
	existed := statErr == nil

	if err := p.Run.Run(python, "-m", "venv", "--clear", "--system-site-packages", root); err != nil {
		return Handle{}, fmt.Errorf(messages.VenvBuildFailedFmt, root, err)
	}

	pip := filepath.Join(root, "bin", "pip")
	if _, err := os.Stat(pip); err != nil {
		return Handle{}, fmt.Errorf(messages.VenvNoPipFmt, pip, root)
	}
	_, _ = fmt.Fprintf(p.Out, messages.VenvRebuiltFmt, root)
	return Handle{
		RootPath:        root,
		InterpreterPath: filepath.Join(root, "bin", "python3"),
		Exists:          existed,
	}, nil
}

// InstallPackages installs or upgrades the application roster into the
// environment. Failure is fatal to the run.
func (p *Provisioner) InstallPackages(h Handle, roster []string) error {
	_, _ = fmt.Fprintf(p.Out, messages.VenvInstallFmt, strings.Join(roster, " "))
	pip := filepath.Join(h.RootPath, "bin", "pip")
	args := append([]string{"install", "--upgrade"}, roster...)
	if err := p.Run.Run(pip, args...); err != nil {
		return fmt.Errorf(messages.VenvInstallFailedFmt, err)
	}
	return nil
}

func parseVersion(version string) (int, int, error) {
	majorText, minorText, ok := strings.Cut(version, ".")
	if !ok {
		return 0, 0, fmt.Errorf("malformed version %q", version)
	}
	major, err := strconv.Atoi(majorText)
	if err != nil {
		return 0, 0, err
	}
	minor, err := strconv.Atoi(strings.TrimSpace(minorText))
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}
