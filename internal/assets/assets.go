// Package assets embeds static resources shipped with the installer.
package assets

import (
	"embed"
)

//go:embed metarace_icon.svg
var files embed.FS

// LogoName is the master vector icon's file name in the data path.
const LogoName = "metarace_icon.svg"

// Logo returns the master application icon.
func Logo() ([]byte, error) {
	return files.ReadFile(LogoName)
}
