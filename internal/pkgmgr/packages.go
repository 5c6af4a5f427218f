package pkgmgr

import "github.com/ndf-zz/metarace-install/internal/platform"

// BrokerService is the MQTT broker enabled after the optional set installs.
const BrokerService = "mosquitto"

// packageSets lists the native package names per style. Mandatory packages
// cover the interpreter, GTK/cairo introspection and SVG rendering the
// applications need; the optional set carries the telemetry broker.
var packageSets = map[platform.Style]struct {
	Mandatory []string
	Optional  []string
}{
	platform.StyleApt: {
		Mandatory: []string{
			"python3-venv", "python3-pip", "python3-cairo", "python3-gi",
			"python3-gi-cairo", "python3-serial", "python3-paho-mqtt",
			"python3-dateutil", "python3-xlwt", "gir1.2-gtk-3.0",
			"gir1.2-rsvg-2.0", "gir1.2-pango-1.0", "librsvg2-bin",
			"fonts-texgyre", "fonts-noto",
		},
		Optional: []string{"mosquitto"},
	},
	platform.StyleDnf: {
		Mandatory: []string{
			"python3", "python3-pip", "python3-cairo", "python3-gobject",
			"gtk3", "librsvg2", "librsvg2-tools", "pango",
			"texlive-tex-gyre", "google-noto-sans-fonts",
		},
		Optional: []string{"mosquitto"},
	},
	platform.StylePacman: {
		Mandatory: []string{
			"python", "python-pip", "python-cairo", "python-gobject",
			"gtk3", "librsvg", "pango", "tex-gyre-fonts", "noto-fonts",
		},
		Optional: []string{"mosquitto"},
	},
	platform.StyleApk: {
		Mandatory: []string{
			"python3", "py3-pip", "py3-cairo", "py3-gobject3",
			"gtk+3.0", "librsvg", "pango", "font-noto",
		},
		Optional: []string{"mosquitto"},
	},
	platform.StylePkg: {
		Mandatory: []string{
			"python3", "py311-pip", "py311-cairo", "py311-gobject3",
			"gtk3", "librsvg2", "pango", "noto",
		},
		Optional: []string{"mosquitto"},
	},
	platform.StyleEmerge: {
		Mandatory: []string{
			"dev-lang/python", "dev-python/pip", "dev-python/pycairo",
			"dev-python/pygobject", "x11-libs/gtk+", "gnome-base/librsvg",
			"x11-libs/pango", "media-fonts/noto",
		},
		Optional: []string{"app-misc/mosquitto"},
	},
	platform.StyleBrew: {
		Mandatory: []string{
			"python@3.12", "pygobject3", "gtk+3", "librsvg", "pango",
		},
		Optional: []string{"mosquitto"},
	},
}

// MandatoryPackages returns the mandatory system package set for a style.
func MandatoryPackages(style platform.Style) []string {
	return packageSets[style].Mandatory
}

// OptionalPackages returns the optional system package set for a style.
func OptionalPackages(style platform.Style) []string {
	return packageSets[style].Optional
}
