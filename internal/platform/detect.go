package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ndf-zz/metarace-install/internal/messages"
)

// System abstracts OS probes used during detection. It is package-local so
// unit tests can fake any host without shared global state.
type System interface {
	ReadFile(name string) ([]byte, error)
	LookPath(name string) (string, error)
	KernelRelease() (string, error)
}

// RealSystem implements System using the running host.
type RealSystem struct{}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// LookPath searches PATH for an executable.
func (RealSystem) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// KernelRelease returns the running kernel's release string via uname(2).
func (RealSystem) KernelRelease() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(uts.Release[:]), nil
}

// releaseDescriptorPath is the machine-readable release descriptor most
// distributions provide.
const releaseDescriptorPath = "/etc/os-release"

// Detect builds the TargetEnvironment for this host. Detection is pure: all
// outcomes are returned, none are acted on here.
func Detect(sys System) (TargetEnvironment, error) {
	env := TargetEnvironment{
		OSFamily:     "linux",
		PackageStyle: StyleUnknown,
	}

	if release, err := sys.KernelRelease(); err == nil {
		env.WSL = strings.Contains(strings.ToLower(release), "microsoft")
	}

	data, err := sys.ReadFile(releaseDescriptorPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return TargetEnvironment{}, fmt.Errorf(messages.DetectReadReleaseFmt, releaseDescriptorPath, err)
		}
		return probe(sys, env)
	}

	fields := parseReleaseDescriptor(data)
	env.DistroID = fields["ID"]
	env.DistroVersion = fields["VERSION_ID"]
	env.DistroName = fields["NAME"]
	if env.DistroName == "" {
		env.DistroName = env.DistroID
	}

	if f, ok := distroFacts[env.DistroID]; ok {
		env.Recognized = true
		env.PackageStyle = f.Style
		env.TTYGroup = f.TTYGroup
		env.PrinterGroup = f.PrinterGroup
		env.NeedsFontFetch = f.NeedsFontFetch
		return env, nil
	}

	// Unrecognized id: fall back to probing for a usable package manager so
	// the operator can still elect to continue.
	probed, err := probe(sys, env)
	if err != nil {
		return TargetEnvironment{}, err
	}
	probed.Recognized = false
	probed.NeedsFontFetch = true
	return probed, nil
}

// MinSupportedVersion returns the oldest supported major version for a
// recognized distribution, or 0 when any release is acceptable.
func MinSupportedVersion(distroID string) int {
	return distroFacts[distroID].MinVersion
}

// BelowMinimum reports whether a recognized distribution's version is older
// than the oldest supported release. Unparseable versions are not treated as
// too old; the operator sees the raw string and decides.
func BelowMinimum(env TargetEnvironment) bool {
	min := MinSupportedVersion(env.DistroID)
	if !env.Recognized || min == 0 {
		return false
	}
	major, err := majorVersion(env.DistroVersion)
	if err != nil {
		return false
	}
	return major < min
}

// probe selects the first known package-manager binary on PATH. No match
// leaves the style unknown so system package installation is skipped.
func probe(sys System, env TargetEnvironment) (TargetEnvironment, error) {
	for _, candidate := range probeOrder {
		if _, err := sys.LookPath(candidate.binary); err == nil {
			env.PackageStyle = candidate.style
			env.ProbedBinary = candidate.binary
			env.TTYGroup = "dialout"
			env.NeedsFontFetch = true
			return env, nil
		}
	}
	env.PackageStyle = StyleUnknown
	env.NeedsFontFetch = true
	return env, nil
}

// parseReleaseDescriptor parses the KEY=VALUE release descriptor format.
// Unexpected lines are ignored; quoting is stripped.
func parseReleaseDescriptor(data []byte) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		fields[strings.TrimSpace(key)] = value
	}
	return fields
}

// majorVersion extracts the leading integer from a VERSION_ID value such as
// "12" or "24.04".
func majorVersion(version string) (int, error) {
	version = strings.TrimSpace(version)
	head, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf(messages.DetectParseVersionFmt, version, err)
	}
	return major, nil
}
