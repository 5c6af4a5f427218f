// Package messages centralizes user-facing strings and error formats.
package messages

// CLI strings for the metarace-install binary.
const (
	InstallUse   = "metarace-install"
	InstallShort = "Provision this workstation for the metarace applications"
	InstallLong  = "metarace-install detects the host distribution, installs the system\n" +
		"packages the metarace applications need, rebuilds the application venv\n" +
		"and registers desktop launchers and icons."

	BootstrapUse   = "metarace-bootstrap"
	BootstrapShort = "Prepare a Windows host for metarace via WSL"
	BootstrapLong  = "metarace-bootstrap enables the Windows Subsystem for Linux, installs\n" +
		"a Debian distribution and runs metarace-install inside it."

	VersionTemplate  = "{{.Name}} version {{.Version}}\n"
	VersionFullFmt   = "%s (%s)"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"

	RunAborted  = "Installation stopped at operator request; nothing further was changed."
	RunComplete = "Installation complete. Log out and back in before first use if any group was added."

	StepHeadingFmt     = "\n%s %s\n"
	StepSkippedFmt     = "%s: skipped (%s)\n"
	StepDeclined       = "declined"
	StepOptionalErrFmt = "%s: failed (%v); continuing\n"
)
