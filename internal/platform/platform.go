// Package platform identifies the host operating system and maps it onto the
// fixed set of environments the metarace applications are provisioned for.
package platform

// Style names the family of native package-manager commands a distribution
// uses.
type Style string

// Supported package styles.
const (
	StyleApt     Style = "apt"
	StyleDnf     Style = "dnf"
	StylePacman  Style = "pacman"
	StyleApk     Style = "apk"
	StylePkg     Style = "pkg"
	StyleEmerge  Style = "emerge"
	StyleBrew    Style = "brew"
	StyleFlatpak Style = "flatpak"
	StyleNone    Style = "none"
	StyleUnknown Style = "unknown"
)

// TargetEnvironment captures everything later provisioning steps need to
// know about the host. It is created once per run and never mutated.
type TargetEnvironment struct {
	OSFamily      string
	DistroID      string
	DistroVersion string
	DistroName    string
	WSL           bool
	PackageStyle  Style
	// ProbedBinary is the package-manager executable that selected the
	// style when no release descriptor named a distribution.
	ProbedBinary   string
	TTYGroup       string
	PrinterGroup   string
	NeedsFontFetch bool
	Recognized     bool
}

// facts holds the per-distribution environment table. The zero MinVersion
// means any release is acceptable.
type facts struct {
	Style          Style
	TTYGroup       string
	PrinterGroup   string
	NeedsFontFetch bool
	MinVersion     int
}

// distroFacts is the reviewable set of supported platforms. Adding a
// distribution means adding a row here, not editing control flow.
var distroFacts = map[string]facts{
	"debian":    {Style: StyleApt, TTYGroup: "dialout", PrinterGroup: "lpadmin", MinVersion: 11},
	"ubuntu":    {Style: StyleApt, TTYGroup: "dialout", PrinterGroup: "lpadmin", MinVersion: 22},
	"linuxmint": {Style: StyleApt, TTYGroup: "dialout", PrinterGroup: "lpadmin", MinVersion: 21},
	"raspbian":  {Style: StyleApt, TTYGroup: "dialout", PrinterGroup: "lpadmin", MinVersion: 11},
	"fedora":    {Style: StyleDnf, TTYGroup: "dialout", PrinterGroup: "lp", MinVersion: 38},
	"arch":      {Style: StylePacman, TTYGroup: "uucp"},
	"alpine":    {Style: StyleApk, TTYGroup: "dialout", PrinterGroup: "lp", NeedsFontFetch: true, MinVersion: 3},
	"gentoo":    {Style: StyleEmerge, TTYGroup: "dialout", PrinterGroup: "lpadmin", NeedsFontFetch: true, MinVersion: 2},
	"freebsd":   {Style: StylePkg, TTYGroup: "dialer", PrinterGroup: "cups", NeedsFontFetch: true, MinVersion: 13},
}

// probeOrder lists package-manager executables checked when no release
// descriptor is available, highest priority first.
var probeOrder = []struct {
	binary string
	style  Style
}{
	{"apt-get", StyleApt},
	{"dnf", StyleDnf},
	{"pacman", StylePacman},
	{"apk", StyleApk},
	{"pkg", StylePkg},
	{"emerge", StyleEmerge},
	{"brew", StyleBrew},
	{"flatpak", StyleFlatpak},
}
