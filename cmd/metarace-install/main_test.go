package main

import (
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"
)

func withExecute(t *testing.T, fn func(args []string, stdout io.Writer, stderr io.Writer) error) {
	t.Helper()
	saved := executeFunc
	executeFunc = fn
	t.Cleanup(func() { executeFunc = saved })
}

func TestRunMainSuccessDoesNotExit(t *testing.T) {
	withExecute(t, func(args []string, stdout io.Writer, stderr io.Writer) error {
		return nil
	})
	exited := false
	runMain([]string{"metarace-install"}, &strings.Builder{}, &strings.Builder{}, func(int) {
		exited = true
	})
	if exited {
		t.Fatalf("successful run must not call exit")
	}
}

func TestRunMainSilentExit(t *testing.T) {
	withExecute(t, func(args []string, stdout io.Writer, stderr io.Writer) error {
		return &SilentExitError{Code: 0}
	})
	var stderr strings.Builder
	code := -1
	runMain([]string{"metarace-install"}, &strings.Builder{}, &stderr, func(c int) {
		code = c
	})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stderr.Len() != 0 {
		t.Fatalf("silent exit must not write to stderr, got %q", stderr.String())
	}
}

func TestRunMainFatalError(t *testing.T) {
	withExecute(t, func(args []string, stdout io.Writer, stderr io.Writer) error {
		return errors.New("python3 was not found")
	})
	var stderr strings.Builder
	code := -1
	runMain([]string{"metarace-install"}, &strings.Builder{}, &stderr, func(c int) {
		code = c
	})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "python3 was not found") {
		t.Fatalf("error not reported: %q", stderr.String())
	}
}

func TestRunMainPropagatesToolExitCode(t *testing.T) {
	// A real failing process produces the exec.ExitError runMain unwraps.
	cmd := exec.Command("sh", "-c", "exit 3")
	runErr := cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		t.Skipf("could not produce exec.ExitError: %v", runErr)
	}
	withExecute(t, func(args []string, stdout io.Writer, stderr io.Writer) error {
		return runErr
	})
	code := -1
	runMain([]string{"metarace-install"}, &strings.Builder{}, &strings.Builder{}, func(c int) {
		code = c
	})
	if code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
}

func TestVersionString(t *testing.T) {
	savedVersion, savedCommit, savedDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = savedVersion, savedCommit, savedDate
	})

	Version, Commit, BuildDate = "1.2.0", "unknown", "unknown"
	if got := versionString(); got != "1.2.0" {
		t.Fatalf("versionString = %q, want bare version", got)
	}

	Commit, BuildDate = "abc1234", "2026-08-01"
	got := versionString()
	if !strings.Contains(got, "1.2.0") || !strings.Contains(got, "commit abc1234") ||
		!strings.Contains(got, "built 2026-08-01") {
		t.Fatalf("versionString = %q", got)
	}
}

func TestExecuteRejectsArguments(t *testing.T) {
	var stdout, stderr strings.Builder
	err := execute([]string{"metarace-install", "unexpected"}, &stdout, &stderr)
	if err == nil {
		t.Fatalf("expected error for unexpected argument")
	}
}
