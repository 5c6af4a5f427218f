// Package config loads the optional operator override file. Provisioning
// runs with built-in defaults; the file exists for mirrors and pinning.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/ndf-zz/metarace-install/internal/messages"
)

// DefaultFontArchiveURL is the remote Tex Gyre archive fetched on systems
// that do not package the fonts.
const DefaultFontArchiveURL = "https://install.metarace.com.au/fonts/texgyre-otf.tar.xz"

// Overrides are optional operator-supplied deviations from the defaults.
// Every field's zero value means "use the built-in default".
type Overrides struct {
	// DataPath replaces the fixed install root under the home directory.
	DataPath string `toml:"data_path"`
	// FontArchiveURL replaces the remote font archive location.
	FontArchiveURL string `toml:"font_archive_url"`
	// ExtraPackages are appended to the mandatory system package set.
	ExtraPackages []string `toml:"extra_packages"`
	// PipPackages replaces the application package roster, for pinning.
	PipPackages []string `toml:"pip_packages"`
}

// DefaultPath returns the conventional override file location.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "metarace", "install.toml"), nil
}

// Load reads overrides from path. A missing file is not an error; it yields
// the zero value so every default applies.
func Load(path string) (Overrides, error) {
	var o Overrides
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return o, nil
		}
		return o, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	if err := toml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf(messages.ConfigParseFailedFmt, path, err)
	}
	return o, nil
}

// FontURL resolves the effective font archive location.
func (o Overrides) FontURL() string {
	if o.FontArchiveURL != "" {
		return o.FontArchiveURL
	}
	return DefaultFontArchiveURL
}
