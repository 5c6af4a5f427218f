package prompt

import (
	"errors"
	"strings"
	"testing"
)

func terminalPrompter(input string, out *strings.Builder) *LinePrompter {
	return &LinePrompter{
		In:         strings.NewReader(input),
		Out:        out,
		IsTerminal: func() bool { return true },
	}
}

func TestConfirmAffirmatives(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"y\n", "Y\n", "yes\n", "YES\n", " yes \n"} {
		var out strings.Builder
		ok, err := terminalPrompter(input, &out).Confirm("proceed")
		if err != nil {
			t.Fatalf("Confirm(%q) error: %v", input, err)
		}
		if !ok {
			t.Fatalf("Confirm(%q) = false, want true", input)
		}
	}
}

func TestConfirmDefaultsToNo(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"\n", "n\n", "no\n", "yep\n", "ok\n", "maybe\n"} {
		var out strings.Builder
		ok, err := terminalPrompter(input, &out).Confirm("proceed")
		if err != nil {
			t.Fatalf("Confirm(%q) error: %v", input, err)
		}
		if ok {
			t.Fatalf("Confirm(%q) = true, want false", input)
		}
	}
}

func TestConfirmEndOfInputIsNo(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	ok, err := terminalPrompter("", &out).Confirm("proceed")
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if ok {
		t.Fatalf("end of input must be treated as no")
	}
}

func TestConfirmOrAbortEmptyContinues(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	if err := terminalPrompter("\n", &out).ConfirmOrAbort("risky"); err != nil {
		t.Fatalf("empty input must continue, got %v", err)
	}
}

func TestConfirmOrAbortAnyInputAborts(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"n\n", "y\n", "stop\n", "x\n"} {
		var out strings.Builder
		err := terminalPrompter(input, &out).ConfirmOrAbort("risky")
		if !errors.Is(err, ErrAborted) {
			t.Fatalf("ConfirmOrAbort(%q) = %v, want ErrAborted", input, err)
		}
	}
}

func TestPromptsIncludeSuffixes(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	_, _ = terminalPrompter("\n", &out).Confirm("Install fonts?")
	if !strings.Contains(out.String(), "Install fonts? [y/N]: ") {
		t.Fatalf("yes/no suffix missing from prompt: %q", out.String())
	}

	out.Reset()
	_ = terminalPrompter("\n", &out).ConfirmOrAbort("Continue anyway?")
	if !strings.Contains(out.String(), "[Enter to continue") {
		t.Fatalf("continue suffix missing from prompt: %q", out.String())
	}
}

func TestNonTerminalAssumesDefaults(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	p := &LinePrompter{
		In:         strings.NewReader("yes\n"),
		Out:        &out,
		IsTerminal: func() bool { return false },
	}
	ok, err := p.Confirm("proceed")
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if ok {
		t.Fatalf("non-terminal Confirm must default to no without reading input")
	}
	if err := p.ConfirmOrAbort("risky"); err != nil {
		t.Fatalf("non-terminal ConfirmOrAbort must continue, got %v", err)
	}
	if !strings.Contains(out.String(), "no terminal attached") {
		t.Fatalf("expected non-terminal notice in output: %q", out.String())
	}
}

func TestSequentialPromptsShareReader(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	p := terminalPrompter("y\nn\n\n", &out)
	ok, err := p.Confirm("first")
	if err != nil || !ok {
		t.Fatalf("first Confirm = %v, %v; want true", ok, err)
	}
	ok, err = p.Confirm("second")
	if err != nil || ok {
		t.Fatalf("second Confirm = %v, %v; want false", ok, err)
	}
	if err := p.ConfirmOrAbort("third"); err != nil {
		t.Fatalf("third prompt must consume the empty line, got %v", err)
	}
}
