package provision

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/ndf-zz/metarace-install/internal/assets"
	"github.com/ndf-zz/metarace-install/internal/config"
	"github.com/ndf-zz/metarace-install/internal/desktop"
	"github.com/ndf-zz/metarace-install/internal/fonts"
	"github.com/ndf-zz/metarace-install/internal/messages"
	"github.com/ndf-zz/metarace-install/internal/pkgmgr"
	"github.com/ndf-zz/metarace-install/internal/platform"
	"github.com/ndf-zz/metarace-install/internal/privileges"
	"github.com/ndf-zz/metarace-install/internal/prompt"
	"github.com/ndf-zz/metarace-install/internal/runner"
	"github.com/ndf-zz/metarace-install/internal/venv"
)

// DefaultPipPackages is the fixed application roster installed into the
// environment; the override file may pin or replace it.
var DefaultPipPackages = []string{
	"metarace-roadmeet",
	"metarace-trackmeet",
	"metarace-tagreg",
	"metarace-ttstart",
}

// Options carries the run's collaborators so tests can substitute any of
// them. All fields are required except Overrides.
type Options struct {
	Out        io.Writer
	Prompter   prompt.Prompter
	Run        runner.Runner
	Platform   platform.System
	Privileges privileges.System
	Desktop    desktop.System
	Home       string
	Overrides  config.Overrides
	// FontProgress enables the download progress bar.
	FontProgress bool
}

var warnLabel = color.New(color.FgYellow)

// Run executes one complete provisioning pass: detection, negotiation,
// system packages, fonts, groups, the application environment and desktop
// integration, strictly in that order.
func Run(opts Options) error {
	out := opts.Out

	_, _ = fmt.Fprintf(out, messages.StepHeadingFmt, stepLabel.Sprint("::"), messages.DetectHeading)
	env, err := platform.Detect(opts.Platform)
	if err != nil {
		return err
	}
	reportEnvironment(out, env)
	if err := negotiateEnvironment(env, opts.Prompter, out); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, messages.StepHeadingFmt, stepLabel.Sprint("::"), messages.PrivilegesHeading)
	if err := privileges.EnsureUnprivileged(opts.Privileges); err != nil {
		return err
	}
	sudoOK := privileges.SudoAvailable(opts.Run)
	elev := runner.Elevated{Base: opts.Run, Tool: "sudo"}
	// Under WSL the desktop step always places into the system share, so
	// elevation is required there even when package installs are not.
	if (needsElevation(env.PackageStyle) || env.WSL) && !sudoOK {
		return fmt.Errorf(messages.PrivilegesNoSudoFatal)
	}

	dataPath := opts.Overrides.DataPath
	if dataPath == "" {
		dataPath = filepath.Join(opts.Home, "Documents", "metarace")
	}
	roster := opts.Overrides.PipPackages
	if len(roster) == 0 {
		roster = DefaultPipPackages
	}

	inst := pkgmgr.ForStyle(env.PackageStyle, opts.Run, elev, out)
	prov := &venv.Provisioner{Run: opts.Run, Out: out, DataPath: dataPath}

	var handle venv.Handle
	plan := Plan{
		{
			Name: messages.PackagesHeading,
			Kind: Mandatory,
			Run: func() error {
				pkgs := append(pkgmgr.MandatoryPackages(env.PackageStyle),
					opts.Overrides.ExtraPackages...)
				if len(pkgs) == 0 {
					_, _ = fmt.Fprintf(out, messages.PackagesSkippedStyleFmt, env.PackageStyle)
					return nil
				}
				return inst.InstallSet(pkgs)
			},
		},
	}

	if optional := pkgmgr.OptionalPackages(env.PackageStyle); len(optional) > 0 {
		plan = append(plan, Step{
			Name:    "Telemetry broker",
			Kind:    Optional,
			Confirm: messages.PackagesOptionalConfirm,
			Run: func() error {
				if err := inst.InstallSet(optional); err != nil {
					return err
				}
				if err := inst.EnableService(pkgmgr.BrokerService); err != nil {
					_, _ = fmt.Fprintf(out, messages.PackagesServiceSkipFmt, pkgmgr.BrokerService, err)
				}
				return nil
			},
		})
	}

	if env.NeedsFontFetch {
		plan = append(plan, Step{
			Name:    messages.FontsHeading,
			Kind:    Optional,
			Confirm: messages.FontsConfirm,
			Run: func() error {
				fetcher := fonts.NewFetcher(out, opts.FontProgress)
				dest := filepath.Join(opts.Home, ".local", "share", "fonts", "texgyre")
				if _, err := fetcher.Install(opts.Overrides.FontURL(), dest); err != nil {
					return err
				}
				fonts.RefreshCache(opts.Run, out)
				return nil
			},
		})
	}

	plan = append(plan,
		Step{
			Name: "Device access groups",
			Kind: Optional,
			Run: func() error {
				if !sudoOK {
					_, _ = fmt.Fprintf(out, messages.PrivilegesNoSudoSkipFmt, "group membership changes")
					return nil
				}
				return privileges.OfferGroups(opts.Privileges, elev, opts.Prompter, out, []privileges.GroupOffer{
					{Group: env.TTYGroup, Purpose: messages.PrivilegesGroupTty},
					{Group: env.PrinterGroup, Purpose: messages.PrivilegesGroupPrinter},
				})
			},
		},
		Step{
			Name: messages.VenvHeading,
			Kind: Mandatory,
			Run: func() error {
				python, err := prov.EnsureInterpreter()
				if err != nil {
					return err
				}
				if err := prov.EnsureVenvModule(python); err != nil {
					return err
				}
				handle, err = prov.Rebuild(python)
				if err != nil {
					return err
				}
				return prov.InstallPackages(handle, roster)
			},
		},
		Step{
			Name: messages.DesktopHeading,
			Kind: Mandatory,
			Run: func() error {
				logoPath, err := stageLogo(opts.Desktop, dataPath)
				if err != nil {
					return err
				}
				ins := &desktop.Installer{
					Sys:    opts.Desktop,
					Run:    opts.Run,
					Elev:   elev,
					Out:    out,
					Target: desktop.TargetFor(opts.Home, env.WSL),
				}
				binDir := filepath.Join(handle.RootPath, "bin")
				if err := ins.InstallEntries(desktop.Roster(), binDir); err != nil {
					return err
				}
				if err := ins.InstallIcons(logoPath); err != nil {
					return err
				}
				ins.RefreshMenuCache()
				return nil
			},
		},
	)

	if err := Execute(plan, opts.Prompter, out); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, messages.RunComplete)
	return nil
}

// reportEnvironment summarizes the detection outcome for the operator.
func reportEnvironment(out io.Writer, env platform.TargetEnvironment) {
	switch {
	case env.DistroID != "":
		_, _ = fmt.Fprintf(out, messages.DetectReleaseFmt, env.DistroName, env.DistroVersion, env.PackageStyle)
	case env.PackageStyle != platform.StyleUnknown && env.PackageStyle != platform.StyleNone:
		_, _ = fmt.Fprintf(out, messages.DetectProbedFmt, env.ProbedBinary, env.PackageStyle)
	default:
		_, _ = fmt.Fprintln(out, messages.DetectNoManager)
	}
	if env.WSL {
		_, _ = fmt.Fprintln(out, messages.DetectWSLNote)
	}
}

// negotiateEnvironment applies the recognized/too-old distinction: an
// unrecognized distribution merely warns and asks, while a recognized
// release below the supported minimum is fatal-by-default.
func negotiateEnvironment(env platform.TargetEnvironment, p prompt.Prompter, out io.Writer) error {
	if env.DistroID != "" && !env.Recognized {
		_, _ = fmt.Fprintln(out, warnLabel.Sprintf(messages.DetectUnknownDistroFmt, env.DistroID))
		ok, err := p.Confirm(messages.DetectUnknownConfirm)
		if err != nil {
			return err
		}
		if !ok {
			return prompt.ErrAborted
		}
	}
	if platform.BelowMinimum(env) {
		_, _ = fmt.Fprintln(out, warnLabel.Sprintf(messages.DetectTooOldFmt,
			env.DistroName, env.DistroVersion,
			fmt.Sprintf("%d", platform.MinSupportedVersion(env.DistroID))))
		if err := p.ConfirmOrAbort(messages.DetectTooOldConfirm); err != nil {
			return err
		}
	}
	return nil
}

// needsElevation reports whether a style's native commands require the
// elevation mechanism. Homebrew refuses root; skip styles never install.
func needsElevation(style platform.Style) bool {
	switch style {
	case platform.StyleBrew, platform.StyleFlatpak, platform.StyleNone, platform.StyleUnknown:
		return false
	default:
		return true
	}
}

// stageLogo copies the embedded master icon into the shared defaults path,
// mirroring the application's own first-run behavior, and returns its path.
func stageLogo(sys desktop.System, dataPath string) (string, error) {
	defaults := filepath.Join(dataPath, "default")
	dest := filepath.Join(defaults, assets.LogoName)
	if _, err := sys.Stat(dest); err == nil {
		return dest, nil
	}
	logo, err := assets.Logo()
	if err != nil {
		return "", fmt.Errorf(messages.DesktopReadIconFmt, assets.LogoName, err)
	}
	if err := sys.MkdirAll(defaults, 0o755); err != nil {
		return "", fmt.Errorf(messages.DesktopCreateDirFmt, defaults, err)
	}
	if err := sys.WriteFileAtomic(dest, logo, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}
