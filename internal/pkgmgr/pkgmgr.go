// Package pkgmgr translates abstract "install this package set" requests
// into the native invocation for each supported package style.
package pkgmgr

import (
	"fmt"
	"io"
	"strings"

	"github.com/ndf-zz/metarace-install/internal/messages"
	"github.com/ndf-zz/metarace-install/internal/platform"
	"github.com/ndf-zz/metarace-install/internal/runner"
)

// Installer installs one set of packages with a single native invocation.
// Implementations encode the non-interactive flags and, where the ecosystem
// supports it, enable services shipped by the packages they install.
type Installer interface {
	// Name identifies the adapter in skip and failure notices.
	Name() string
	// InstallSet installs the named packages. A nil or empty set is a no-op.
	InstallSet(pkgs []string) error
	// EnableService enables and starts a system service best-effort.
	EnableService(service string) error
}

// ForStyle returns the installer for a package style. Elevated commands run
// through elev; brew refuses root so it uses the plain runner.
func ForStyle(style platform.Style, run runner.Runner, elev runner.Runner, out io.Writer) Installer {
	switch style {
	case platform.StyleApt:
		return &indexInstaller{
			name:    "apt",
			run:     elev,
			out:     out,
			index:   [][]string{{"apt-get", "update"}},
			install: []string{"apt-get", "install", "-y"},
			env:     []string{"DEBIAN_FRONTEND=noninteractive"},
			service: [][]string{{"systemctl", "enable", "--now"}},
		}
	case platform.StyleDnf:
		return &indexInstaller{
			name:    "dnf",
			run:     elev,
			out:     out,
			install: []string{"dnf", "install", "-y"},
			service: [][]string{{"systemctl", "enable", "--now"}},
		}
	case platform.StylePacman:
		return &indexInstaller{
			name:    "pacman",
			run:     elev,
			out:     out,
			install: []string{"pacman", "-Sy", "--needed", "--noconfirm"},
			service: [][]string{{"systemctl", "enable", "--now"}},
		}
	case platform.StyleApk:
		return &indexInstaller{
			name:    "apk",
			run:     elev,
			out:     out,
			index:   [][]string{{"apk", "update"}},
			install: []string{"apk", "add"},
			service: [][]string{{"rc-update", "add"}, {"rc-service", "%s", "start"}},
		}
	case platform.StylePkg:
		return &indexInstaller{
			name:    "pkg",
			run:     elev,
			out:     out,
			index:   [][]string{{"pkg", "update"}},
			install: []string{"pkg", "install", "-y"},
			service: [][]string{{"sysrc", "%s_enable=YES"}, {"service", "%s", "start"}},
		}
	case platform.StyleEmerge:
		return &indexInstaller{
			name:    "emerge",
			run:     elev,
			out:     out,
			install: []string{"emerge", "--noreplace"},
		}
	case platform.StyleBrew:
		return &indexInstaller{
			name:    "brew",
			run:     run,
			out:     out,
			install: []string{"brew", "install"},
		}
	case platform.StyleFlatpak:
		return &indexInstaller{
			name:    "flatpak",
			run:     run,
			out:     out,
			install: []string{"flatpak", "install", "-y", "--noninteractive", "flathub"},
		}
	default:
		return skipInstaller{style: style, out: out}
	}
}

// indexInstaller is the generic native adapter: optional index refresh
// commands, one install invocation, optional service enable commands. A
// "%s" token in a service command is replaced with the service name;
// commands without a token have the name appended.
type indexInstaller struct {
	name    string
	run     runner.Runner
	out     io.Writer
	index   [][]string
	install []string
	env     []string
	service [][]string
	indexed bool
}

func (a *indexInstaller) Name() string { return a.name }

func (a *indexInstaller) InstallSet(pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	if !a.indexed {
		for _, cmd := range a.index {
			if err := a.run.Run(cmd[0], cmd[1:]...); err != nil {
				return fmt.Errorf(messages.PackagesIndexFailedFmt, a.name, err)
			}
		}
		a.indexed = true
	}
	args := a.installArgs(pkgs)
	if err := a.run.Run(args[0], args[1:]...); err != nil {
		return fmt.Errorf(messages.PackagesInstallFailedFmt, a.name, err)
	}
	return nil
}

// installArgs builds the full native install invocation, applying any
// required environment through env(1) so the elevation tool carries it.
func (a *indexInstaller) installArgs(pkgs []string) []string {
	args := make([]string, 0, len(a.env)+len(a.install)+len(pkgs)+1)
	if len(a.env) > 0 {
		args = append(args, "env")
		args = append(args, a.env...)
	}
	args = append(args, a.install...)
	args = append(args, pkgs...)
	return args
}

func (a *indexInstaller) EnableService(service string) error {
	if len(a.service) == 0 {
		return fmt.Errorf(messages.PackagesInstallFailedFmt, a.name,
			fmt.Errorf("no service manager for style %s", a.name))
	}
	for _, tmpl := range a.service {
		args := make([]string, 0, len(tmpl)+1)
		substituted := false
		for _, part := range tmpl {
			if strings.Contains(part, "%s") {
				args = append(args, strings.ReplaceAll(part, "%s", service))
				substituted = true
				continue
			}
			args = append(args, part)
		}
		if !substituted {
			args = append(args, service)
		}
		if err := a.run.Run(args[0], args[1:]...); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(a.out, messages.PackagesServiceNoteFmt, service)
	return nil
}

// skipInstaller reports "skipped" for the none and unknown styles so the
// orchestrator can proceed with system packages assumed pre-satisfied.
type skipInstaller struct {
	style platform.Style
	out   io.Writer
}

func (s skipInstaller) Name() string { return string(s.style) }

func (s skipInstaller) InstallSet(pkgs []string) error {
	_, _ = fmt.Fprintf(s.out, messages.PackagesSkippedStyleFmt, s.style)
	return nil
}

func (s skipInstaller) EnableService(service string) error {
	_, _ = fmt.Fprintf(s.out, messages.PackagesSkippedStyleFmt, s.style)
	return nil
}
