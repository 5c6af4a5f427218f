package messages

// Privilege negotiation messages.
const (
	PrivilegesHeading       = "Checking privileges"
	PrivilegesRootRefused   = "metarace-install provisions a user account and must not run as root"
	PrivilegesNoSudoFatal   = "no elevation mechanism (sudo) is available; cannot install system packages"
	PrivilegesNoSudoSkipFmt = "sudo not available; skipping %s\n"
	PrivilegesLookupUserFmt = "look up invoking user: %w"
	PrivilegesListGroupsFmt = "list groups for %s: %w"
	PrivilegesInGroupFmt    = "Already a member of group %s\n"
	PrivilegesOfferGroupFmt = "Add user %s to the %s group (needed for %s)?"
	PrivilegesGroupTty      = "timing hardware on serial ports"
	PrivilegesGroupPrinter  = "printing"
	PrivilegesAddGroupFmt   = "add user %s to group %s: %w"
	PrivilegesRelogNoteFmt  = "Group %s added; membership takes effect at your next login\n"
)

// Package installation messages.
const (
	PackagesHeading          = "Installing system packages"
	PackagesSkippedStyleFmt  = "Package style %s: install skipped; verify dependencies manually\n"
	PackagesInstallFmt       = "Installing: %s\n"
	PackagesOptionalConfirm  = "Install the optional telemetry broker (mosquitto)?"
	PackagesInstallFailedFmt = "install packages with %s: %w"
	PackagesIndexFailedFmt   = "refresh package index with %s: %w"
	PackagesServiceNoteFmt   = "Enabled service %s\n"
	PackagesServiceSkipFmt   = "Could not enable service %s (%v); enable it manually\n"
)

// Font acquisition messages.
const (
	FontsHeading        = "Installing fonts"
	FontsConfirm        = "Required fonts are not packaged for this system. Download them now?"
	FontsFetchFmt       = "Fetching %s\n"
	FontsRequestFmt     = "request %s: %w"
	FontsStatusFmt      = "download %s: unexpected status %s"
	FontsUnsupportedFmt = "unsupported font archive type %q"
	FontsExtractFmt     = "extract font archive: %w"
	FontsInstalledFmt   = "Installed %d font files to %s\n"
	FontsCacheSkipFmt   = "Font cache not refreshed (%v); fonts appear after next cache rebuild\n"
)

// Runtime environment messages.
const (
	VenvHeading           = "Building application environment"
	VenvNoInterpreter     = "python3 was not found; install Python 3.9 or later and re-run"
	VenvVersionFmt        = "query python version: %w"
	VenvTooOldFmt         = "python %s is too old; metarace requires 3.9 or later"
	VenvModuleMissing     = "the python venv module is not available; install it and re-run"
	VenvCreateDataPathFmt = "create data path %s: %w"
	VenvBuildFailedFmt    = "build venv at %s: %w"
	VenvNoPipFmt          = "venv built but %s is missing; remove %s and re-run"
	VenvRebuiltFmt        = "Environment rebuilt at %s\n"
	VenvInstallFmt        = "Installing application packages: %s\n"
	VenvInstallFailedFmt  = "install application packages: %w"
)
