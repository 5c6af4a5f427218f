package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ndf-zz/metarace-install/internal/bootstrap"
	"github.com/ndf-zz/metarace-install/internal/messages"
)

var executeFunc = execute

// Version is overridden at build time.
var Version = "dev"

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

func runMain(args []string, stdout io.Writer, stderr io.Writer, exit func(int)) {
	if err := executeFunc(args, stdout, stderr); err != nil {
		// A required restart is a communicated stop, not a failure.
		if errors.Is(err, bootstrap.ErrRestartRequired) {
			exit(0)
			return
		}
		_, _ = fmt.Fprintln(stderr, err)
		exit(1)
	}
}

func execute(args []string, stdout io.Writer, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.Version = Version
	cmd.SetVersionTemplate(messages.VersionTemplate)
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.BootstrapUse,
		Short: messages.BootstrapShort,
		Long:  messages.BootstrapLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := bootstrap.New(cmd.OutOrStdout(),
				term.IsTerminal(int(os.Stdout.Fd())))
			return b.Execute()
		},
	}
}
