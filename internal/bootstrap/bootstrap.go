// Package bootstrap prepares a Windows host that has no POSIX shell yet:
// it enables the virtualization feature, installs WSL with a Debian
// distribution and runs the provisioning orchestrator inside it.
package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ndf-zz/metarace-install/internal/messages"
	"github.com/ndf-zz/metarace-install/internal/runner"
)

// ErrRestartRequired reports that Windows features were enabled and the
// host must restart before bootstrap can continue. It is a terminal state
// for this invocation, not a fault.
var ErrRestartRequired = errors.New("restart required")

// Distribution is the WSL distribution installed and delegated to.
const Distribution = "Debian"

// Feature is the Windows optional feature WSL 2 requires.
const Feature = "VirtualMachinePlatform"

// Artifact URLs staged before delegation.
var (
	entryScriptURL = "https://install.metarace.com.au/metarace-install.sh"
	companionURL   = "https://install.metarace.com.au/metarace_icon.svg"
)

// System abstracts host filesystem operations for tests.
type System interface {
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
	TempDir() string
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFile writes data to the named file.
func (RealSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// TempDir returns the default directory for temporary files.
func (RealSystem) TempDir() string {
	return os.TempDir()
}

// Bootstrap drives the host preparation state machine.
type Bootstrap struct {
	Run    runner.Runner
	Sys    System
	Out    io.Writer
	Client *http.Client
	// Progress enables download progress bars.
	Progress bool
}

// New returns a Bootstrap bound to the real host.
func New(out io.Writer, progress bool) *Bootstrap {
	return &Bootstrap{
		Run:      runner.ExecRunner{},
		Sys:      RealSystem{},
		Out:      out,
		Client:   &http.Client{Timeout: 5 * time.Minute},
		Progress: progress,
	}
}

// Execute walks the bootstrap states in order. It returns
// ErrRestartRequired when the host must restart before re-running.
func (b *Bootstrap) Execute() error {
	if err := b.checkPrivilege(); err != nil {
		return err
	}
	enabled, err := b.featureEnabled()
	if err != nil {
		return err
	}
	if !enabled {
		if err := b.enableFeature(); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(b.Out, messages.BootstrapRestartRequired)
		return ErrRestartRequired
	}
	if err := b.checkHypervisor(); err != nil {
		return err
	}
	if err := b.ensureSubsystem(); err != nil {
		return err
	}
	scriptPath, err := b.fetchArtifacts()
	if err != nil {
		return err
	}
	if err := b.delegate(scriptPath); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(b.Out, messages.BootstrapDone)
	return nil
}

// checkPrivilege verifies an elevated prompt; net session only succeeds
// for administrators.
func (b *Bootstrap) checkPrivilege() error {
	if _, err := b.Run.Output("net", "session"); err != nil {
		return fmt.Errorf(messages.BootstrapNeedElevation)
	}
	return nil
}

// featureEnabled queries the virtualization feature state.
func (b *Bootstrap) featureEnabled() (bool, error) {
	out, err := b.Run.Output("dism", "/online", "/Get-FeatureInfo",
		"/FeatureName:"+Feature)
	if err != nil {
		return false, fmt.Errorf(messages.BootstrapFeatureCheckFmt, err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) == "State" {
			return strings.EqualFold(strings.TrimSpace(value), "Enabled"), nil
		}
	}
	return false, nil
}

func (b *Bootstrap) enableFeature() error {
	if err := b.Run.Run("dism", "/online", "/Enable-Feature",
		"/FeatureName:"+Feature, "/All", "/NoRestart"); err != nil {
		return fmt.Errorf(messages.BootstrapEnableFeatureFmt, err)
	}
	return nil
}

// checkHypervisor confirms a hypervisor is active; without one there is no
// path forward and the operator needs a firmware hint.
func (b *Bootstrap) checkHypervisor() error {
	out, err := b.Run.Output("powershell", "-NoProfile", "-Command",
		"(Get-CimInstance Win32_ComputerSystem).HypervisorPresent")
	if err != nil || !strings.EqualFold(strings.TrimSpace(string(out)), "true") {
		return fmt.Errorf(messages.BootstrapNoHypervisor)
	}
	return nil
}

// ensureSubsystem installs the distribution unless it is already present.
func (b *Bootstrap) ensureSubsystem() error {
	out, err := b.Run.Output("wsl", "--list", "--quiet")
	if err == nil && containsDistribution(string(out)) {
		_, _ = fmt.Fprint(b.Out, messages.BootstrapSubsystemPresent)
		return nil
	}
	if err := b.Run.Run("wsl", "--install", "-d", Distribution); err != nil {
		return fmt.Errorf(messages.BootstrapInstallSubsystemFmt, err)
	}
	return nil
}

// containsDistribution scans wsl --list output, tolerating the UTF-16
// encoding wsl.exe emits by stripping NUL bytes first.
func containsDistribution(listing string) bool {
	listing = strings.ReplaceAll(listing, "\x00", "")
	for _, line := range strings.Split(listing, "\n") {
		if strings.EqualFold(strings.TrimSpace(line), Distribution) {
			return true
		}
	}
	return false
}

// fetchArtifacts downloads the orchestrator entry script and its companion
// into the staging path and returns the entry script location.
func (b *Bootstrap) fetchArtifacts() (string, error) {
	staging := filepath.Join(b.Sys.TempDir(), "metarace-bootstrap")
	if err := b.Sys.MkdirAll(staging, 0o755); err != nil {
		return "", fmt.Errorf(messages.BootstrapStageFmt, staging, err)
	}
	var entry string
	for _, url := range []string{entryScriptURL, companionURL} {
		dest := filepath.Join(staging, filepath.Base(url))
		if err := b.download(url, dest); err != nil {
			return "", err
		}
		if url == entryScriptURL {
			entry = dest
		}
	}
	return entry, nil
}

func (b *Bootstrap) download(url string, dest string) error {
	resp, err := b.Client.Get(url)
	if err != nil {
		return fmt.Errorf(messages.BootstrapFetchFmt, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(messages.BootstrapFetchStatusFmt, url, resp.Status)
	}
	body := io.Reader(resp.Body)
	if b.Progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(dest))
		body = io.TeeReader(resp.Body, bar)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf(messages.BootstrapFetchFmt, url, err)
	}
	if err := b.Sys.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf(messages.BootstrapStageFmt, dest, err)
	}
	return nil
}

// delegate runs the staged entry script inside the subsystem. The script
// path is translated to the subsystem's view of the host filesystem; no
// structured data is passed, only the inherited environment.
func (b *Bootstrap) delegate(scriptPath string) error {
	translated, err := b.Run.Output("wsl", "-d", Distribution, "--", "wslpath",
		filepath.ToSlash(scriptPath))
	if err != nil {
		return fmt.Errorf(messages.BootstrapDelegateFmt, err)
	}
	inner := strings.TrimSpace(strings.ReplaceAll(string(translated), "\x00", ""))
	if err := b.Run.Run("wsl", "-d", Distribution, "--cd", "~", "--", "sh", inner); err != nil {
		return fmt.Errorf(messages.BootstrapDelegateFmt, err)
	}
	return nil
}
