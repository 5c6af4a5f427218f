package messages

// Environment detection messages.
const (
	DetectHeading          = "Checking host environment"
	DetectReleaseFmt       = "Detected %s (%s), package style %s\n"
	DetectProbedFmt        = "No release descriptor; found %s, using package style %s\n"
	DetectNoManager        = "No supported package manager found; system packages are assumed to be present"
	DetectWSLNote          = "Running inside WSL; desktop resources will be shared with the Windows host"
	DetectUnknownDistroFmt = "Distribution %q is not recognised; installation has not been tested here"
	DetectUnknownConfirm   = "Attempt installation anyway?"
	DetectTooOldFmt        = "%s %s is older than the oldest supported release (%s)"
	DetectTooOldConfirm    = "Installation will likely fail. Continue anyway?"

	DetectReadReleaseFmt     = "read release descriptor %s: %w"
	DetectEnvironmentUnknown = "unable to determine host environment"
	DetectParseVersionFmt    = "parse version %q: %w"
)
