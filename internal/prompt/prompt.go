// Package prompt implements the single confirmation protocol used by every
// optional or destructive provisioning step.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ndf-zz/metarace-install/internal/messages"
)

// ErrAborted reports that the operator declined a continue-or-abort prompt.
// It is an intentional early termination, not a fault; callers translate it
// to a clean zero exit.
var ErrAborted = errors.New("installation aborted by operator")

// Prompter gates optional and destructive actions.
//
// Confirm is a yes/no question that defaults to no: only "y" or "yes"
// (case-insensitive) count as affirmative. ConfirmOrAbort defaults to
// continue on empty input; any other input aborts the entire run.
type Prompter interface {
	Confirm(message string) (bool, error)
	ConfirmOrAbort(message string) error
}

// LinePrompter reads typed responses line by line from In.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer

	// IsTerminal guards against prompting a non-interactive stream. When it
	// reports false the default response is assumed and a notice printed.
	IsTerminal func() bool

	reader *bufio.Reader
}

// NewLinePrompter returns a LinePrompter bound to the process terminal.
func NewLinePrompter() *LinePrompter {
	return &LinePrompter{
		In:  os.Stdin,
		Out: os.Stderr,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Confirm asks a yes/no question. Any response other than yes, including a
// read error or end of input, is treated as no.
func (p *LinePrompter) Confirm(message string) (bool, error) {
	_, _ = fmt.Fprint(p.Out, message+messages.PromptYesNoSuffix)
	if !p.interactive() {
		_, _ = fmt.Fprintln(p.Out, messages.PromptNotTerminalNote)
		return false, nil
	}
	line, err := p.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(p.Out)
			return false, nil
		}
		return false, fmt.Errorf(messages.PromptReadFailedFmt, err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmOrAbort asks the operator to confirm a risky continuation. Empty
// input continues; anything else returns ErrAborted.
func (p *LinePrompter) ConfirmOrAbort(message string) error {
	_, _ = fmt.Fprint(p.Out, message+messages.PromptContinueSuffix)
	if !p.interactive() {
		_, _ = fmt.Fprintln(p.Out, messages.PromptNotTerminalNote)
		return nil
	}
	line, err := p.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf(messages.PromptReadFailedFmt, err)
	}
	if strings.TrimSpace(line) != "" {
		return ErrAborted
	}
	return nil
}

func (p *LinePrompter) interactive() bool {
	if p.IsTerminal == nil {
		return true
	}
	return p.IsTerminal()
}

func (p *LinePrompter) readLine() (string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}
