package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ndf-zz/metarace-install/internal/config"
	"github.com/ndf-zz/metarace-install/internal/desktop"
	"github.com/ndf-zz/metarace-install/internal/messages"
	"github.com/ndf-zz/metarace-install/internal/platform"
	"github.com/ndf-zz/metarace-install/internal/privileges"
	"github.com/ndf-zz/metarace-install/internal/prompt"
	"github.com/ndf-zz/metarace-install/internal/provision"
	"github.com/ndf-zz/metarace-install/internal/runner"
)

// newRootCmd builds the single top-level command. Provisioning takes no
// flags or arguments; everything is negotiated interactively.
func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Long:  messages.InstallLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := homedir.Dir()
			if err != nil {
				return err
			}
			overridePath, err := config.DefaultPath()
			if err != nil {
				return err
			}
			overrides, err := config.Load(overridePath)
			if err != nil {
				return err
			}
			err = provision.Run(provision.Options{
				Out:          cmd.OutOrStdout(),
				Prompter:     prompt.NewLinePrompter(),
				Run:          runner.ExecRunner{},
				Platform:     platform.RealSystem{},
				Privileges:   privileges.RealSystem{},
				Desktop:      desktop.RealSystem{},
				Home:         home,
				Overrides:    overrides,
				FontProgress: term.IsTerminal(int(os.Stdout.Fd())),
			})
			if errors.Is(err, prompt.ErrAborted) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.RunAborted)
				return &SilentExitError{Code: 0}
			}
			return err
		},
	}
}
