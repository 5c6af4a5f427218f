package messages

// Desktop integration messages.
const (
	DesktopHeading          = "Registering desktop launchers"
	DesktopCreateDirFmt     = "create directory %s: %w"
	DesktopWriteEntryFmt    = "write launcher %s: %w"
	DesktopEntryFmt         = "Installed launcher %s\n"
	DesktopReplacedFmt      = "Replaced launcher %s:\n%s"
	DesktopLegacyRemovedFmt = "Removed obsolete launcher %s\n"
	DesktopReadIconFmt      = "read master icon %s: %w"
	DesktopWriteIconFmt     = "write icon %s: %w"
	DesktopRasterSkipFmt    = "rsvg-convert not found; raster icons skipped (%v)\n"
	DesktopRasterFmt        = "render %dpx icon: %w"
	DesktopShareCopyFmt     = "move %s to shared location: %w"
	DesktopShareChownFmt    = "set ownership on %s: %w"
	DesktopShareVerifyFmt   = "shared install of %s did not land at %s"
	DesktopMenuCacheSkipFmt = "Menu cache not refreshed (%v); entries appear after next cache rebuild\n"
)

// Host bootstrap messages.
const (
	BootstrapHeading             = "Preparing Windows host"
	BootstrapNeedElevation       = "metarace-bootstrap must run from an elevated (Administrator) prompt"
	BootstrapFeatureCheckFmt     = "query virtual machine platform feature: %w"
	BootstrapEnableFeatureFmt    = "enable virtual machine platform feature: %w"
	BootstrapRestartRequired     = "Windows features were enabled. Restart Windows, then run metarace-bootstrap again."
	BootstrapNoHypervisor        = "no hypervisor is active; enable virtualization support in firmware setup and retry"
	BootstrapSubsystemPresent    = "WSL distribution already installed\n"
	BootstrapInstallSubsystemFmt = "install WSL distribution: %w"
	BootstrapFetchFmt            = "fetch %s: %w"
	BootstrapFetchStatusFmt      = "fetch %s: unexpected status %s"
	BootstrapStageFmt            = "stage %s: %w"
	BootstrapDelegateFmt         = "run installer inside subsystem: %w"
	BootstrapDone                = "Bootstrap complete; metarace-install finished inside the subsystem."
)
