package bootstrap

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type winRunner struct {
	commands  [][]string
	outputs   map[string]string
	outputErr map[string]error
	runErr    map[string]error
}

func (r *winRunner) key(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (r *winRunner) Run(name string, args ...string) error {
	r.commands = append(r.commands, append([]string{name}, args...))
	key := r.key(name, args)
	for prefix, err := range r.runErr {
		if strings.HasPrefix(key, prefix) {
			return err
		}
	}
	return nil
}

func (r *winRunner) Output(name string, args ...string) ([]byte, error) {
	r.commands = append(r.commands, append([]string{name}, args...))
	key := r.key(name, args)
	if err, ok := r.outputErr[key]; ok {
		return nil, err
	}
	if out, ok := r.outputs[key]; ok {
		return []byte(out), nil
	}
	return []byte(""), nil
}

func (r *winRunner) LookPath(name string) (string, error) {
	return name, nil
}

func (r *winRunner) lines() []string {
	out := make([]string, len(r.commands))
	for i, cmd := range r.commands {
		out[i] = strings.Join(cmd, " ")
	}
	return out
}

type stagedSystem struct {
	root string
}

func (s stagedSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (s stagedSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (s stagedSystem) TempDir() string { return s.root }

func readyRunner() *winRunner {
	return &winRunner{
		outputs: map[string]string{
			"dism /online /Get-FeatureInfo /FeatureName:VirtualMachinePlatform":                       "Feature Name : VirtualMachinePlatform\nState : Enabled\n",
			"powershell -NoProfile -Command (Get-CimInstance Win32_ComputerSystem).HypervisorPresent": "True\r\n",
			"wsl --list --quiet": "D\x00e\x00b\x00i\x00a\x00n\x00\n",
		},
	}
}

func TestExecuteFullBootstrap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("artifact: " + r.URL.Path))
	}))
	defer srv.Close()
	savedEntry, savedCompanion := entryScriptURL, companionURL
	entryScriptURL = srv.URL + "/metarace-install.sh"
	companionURL = srv.URL + "/metarace_icon.svg"
	defer func() {
		entryScriptURL, companionURL = savedEntry, savedCompanion
	}()

	staging := t.TempDir()
	run := readyRunner()
	script := filepath.Join(staging, "metarace-bootstrap", "metarace-install.sh")
	run.outputs["wsl -d Debian -- wslpath "+filepath.ToSlash(script)] = "/mnt/c/staging/metarace-install.sh\n"

	var out strings.Builder
	b := &Bootstrap{
		Run:    run,
		Sys:    stagedSystem{root: staging},
		Out:    &out,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	for _, name := range []string{"metarace-install.sh", "metarace_icon.svg"} {
		staged := filepath.Join(staging, "metarace-bootstrap", name)
		if _, err := os.Stat(staged); err != nil {
			t.Fatalf("expected staged artifact %s: %v", staged, err)
		}
	}
	joined := strings.Join(run.lines(), "\n")
	if !strings.Contains(joined, "wsl -d Debian --cd ~ -- sh /mnt/c/staging/metarace-install.sh") {
		t.Fatalf("expected delegation into the subsystem, ran:\n%s", joined)
	}
	if strings.Contains(joined, "wsl --install") {
		t.Fatalf("present distribution must not be reinstalled, ran:\n%s", joined)
	}
	if !strings.Contains(out.String(), "Bootstrap complete") {
		t.Fatalf("expected completion notice, got %q", out.String())
	}
}

func TestExecuteRequiresElevation(t *testing.T) {
	t.Parallel()
	run := readyRunner()
	run.outputErr = map[string]error{"net session": errors.New("access denied")}
	b := &Bootstrap{Run: run, Sys: stagedSystem{root: t.TempDir()}, Out: &strings.Builder{}, Client: http.DefaultClient}
	err := b.Execute()
	if err == nil || !strings.Contains(err.Error(), "elevated") {
		t.Fatalf("Execute = %v, want elevation failure", err)
	}
}

func TestExecuteEnablesFeatureAndStops(t *testing.T) {
	t.Parallel()
	run := readyRunner()
	run.outputs["dism /online /Get-FeatureInfo /FeatureName:VirtualMachinePlatform"] = "State : Disabled\n"
	var out strings.Builder
	b := &Bootstrap{Run: run, Sys: stagedSystem{root: t.TempDir()}, Out: &out, Client: http.DefaultClient}

	err := b.Execute()
	if !errors.Is(err, ErrRestartRequired) {
		t.Fatalf("Execute = %v, want ErrRestartRequired", err)
	}
	joined := strings.Join(run.lines(), "\n")
	if !strings.Contains(joined, "dism /online /Enable-Feature /FeatureName:VirtualMachinePlatform /All /NoRestart") {
		t.Fatalf("expected feature enable, ran:\n%s", joined)
	}
	if !strings.Contains(out.String(), "Restart Windows") {
		t.Fatalf("expected restart notice, got %q", out.String())
	}
}

func TestExecuteRequiresHypervisor(t *testing.T) {
	t.Parallel()
	run := readyRunner()
	run.outputs["powershell -NoProfile -Command (Get-CimInstance Win32_ComputerSystem).HypervisorPresent"] = "False\r\n"
	b := &Bootstrap{Run: run, Sys: stagedSystem{root: t.TempDir()}, Out: &strings.Builder{}, Client: http.DefaultClient}
	err := b.Execute()
	if err == nil || !strings.Contains(err.Error(), "hypervisor") {
		t.Fatalf("Execute = %v, want hypervisor failure", err)
	}
}

func TestExecuteInstallsMissingSubsystem(t *testing.T) {
	t.Parallel()
	run := readyRunner()
	run.outputs["wsl --list --quiet"] = "U\x00b\x00u\x00n\x00t\x00u\x00\n"
	// Stop the walk at artifact staging; subsystem install is the assertion.
	run.runErr = map[string]error{"wsl --install": errors.New("stop here")}
	b := &Bootstrap{Run: run, Sys: stagedSystem{root: t.TempDir()}, Out: &strings.Builder{}, Client: http.DefaultClient}

	err := b.Execute()
	if err == nil || !strings.Contains(err.Error(), "install WSL distribution") {
		t.Fatalf("Execute = %v, want install failure", err)
	}
	joined := strings.Join(run.lines(), "\n")
	if !strings.Contains(joined, "wsl --install -d Debian") {
		t.Fatalf("expected subsystem install, ran:\n%s", joined)
	}
}

func TestContainsDistribution(t *testing.T) {
	t.Parallel()
	if !containsDistribution("D\x00e\x00b\x00i\x00a\x00n\x00\r\n") {
		t.Fatalf("NUL-interleaved listing not matched")
	}
	if containsDistribution("Ubuntu\nkali-linux\n") {
		t.Fatalf("unrelated listing matched")
	}
	if !containsDistribution("Ubuntu\ndebian\n") {
		t.Fatalf("case-insensitive match expected")
	}
}
