// Package provision sequences the installation steps for one run.
package provision

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ndf-zz/metarace-install/internal/messages"
	"github.com/ndf-zz/metarace-install/internal/prompt"
)

// StepKind distinguishes steps that abort the run on failure from steps
// that may be declined or fail without aborting.
type StepKind int

// Step criticalities.
const (
	Mandatory StepKind = iota
	Optional
)

// Step is one unit of the installation plan.
type Step struct {
	Name string
	Kind StepKind
	// Confirm, when non-empty, gates the step behind a yes/no prompt.
	// Only optional steps carry a Confirm message.
	Confirm string
	Run     func() error
}

// Plan is the ordered list of steps for one run.
type Plan []Step

var stepLabel = color.New(color.FgCyan, color.Bold)

// Execute runs the plan strictly in order. A mandatory failure or an
// operator abort stops the run immediately; declined or failed optional
// steps are reported as skips and the run continues.
func Execute(plan Plan, p prompt.Prompter, out io.Writer) error {
	for _, step := range plan {
		_, _ = fmt.Fprintf(out, messages.StepHeadingFmt, stepLabel.Sprint("::"), step.Name)
		if step.Kind == Optional && step.Confirm != "" {
			ok, err := p.Confirm(step.Confirm)
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintf(out, messages.StepSkippedFmt, step.Name, messages.StepDeclined)
				continue
			}
		}
		if err := step.Run(); err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return err
			}
			if step.Kind == Optional {
				_, _ = fmt.Fprintf(out, messages.StepOptionalErrFmt, step.Name, err)
				continue
			}
			return err
		}
	}
	return nil
}
