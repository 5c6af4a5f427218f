// Package desktop renders launcher definitions and installs them, with
// their icon sets, where the menu system can see them.
package desktop

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IconID is the shared icon name the application family installs under.
const IconID = "org.6_v.metarace"

// Action is an additional launch mode exposed on an entry's context menu.
type Action struct {
	ID   string
	Name string
	Args string
}

// Entry describes one installable application launcher. Entries come from
// the fixed roster; they are never discovered.
type Entry struct {
	AppID       string
	DisplayName string
	Comment     string
	Keywords    []string
	ExecName    string
	IconID      string
	Actions     []Action
	// LegacyNames are launcher filenames from previous naming schemes,
	// removed on install so renames do not leave orphaned duplicates.
	LegacyNames []string
}

// Filename returns the launcher's logical file name.
func (e Entry) Filename() string {
	return e.AppID + ".desktop"
}

// Render produces the launcher definition with the resolved executable
// directory embedded. Output is deterministic so re-runs are byte-stable.
func (e Entry) Render(execDir string) []byte {
	var b strings.Builder
	exec := filepath.Join(execDir, e.ExecName)
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", e.DisplayName)
	fmt.Fprintf(&b, "Comment=%s\n", e.Comment)
	if len(e.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords=%s;\n", strings.Join(e.Keywords, ";"))
	}
	fmt.Fprintf(&b, "Exec=%s %%f\n", exec)
	fmt.Fprintf(&b, "Icon=%s\n", e.IconID)
	b.WriteString("Terminal=false\n")
	b.WriteString("StartupNotify=true\n")
	b.WriteString("Categories=Utility;Sports;\n")
	if len(e.Actions) > 0 {
		ids := make([]string, len(e.Actions))
		for i, a := range e.Actions {
			ids[i] = a.ID
		}
		fmt.Fprintf(&b, "Actions=%s;\n", strings.Join(ids, ";"))
		for _, a := range e.Actions {
			fmt.Fprintf(&b, "\n[Desktop Action %s]\n", a.ID)
			fmt.Fprintf(&b, "Name=%s\n", a.Name)
			if a.Args != "" {
				fmt.Fprintf(&b, "Exec=%s %s\n", exec, a.Args)
			} else {
				fmt.Fprintf(&b, "Exec=%s\n", exec)
			}
		}
	}
	return []byte(b.String())
}

// Roster is the fixed set of GUI applications registered with the menu.
func Roster() []Entry {
	return []Entry{
		{
			AppID:       IconID + ".roadmeet",
			DisplayName: "Road Meet",
			Comment:     "Timing and results for road cycling meets",
			Keywords:    []string{"cycling", "timing", "results", "road"},
			ExecName:    "metarace-roadmeet",
			IconID:      IconID,
			Actions: []Action{
				{ID: "create", Name: "Create New Meet", Args: "--create"},
			},
			LegacyNames: []string{"metarace-roadmeet.desktop", "roadmeet.desktop"},
		},
		{
			AppID:       IconID + ".trackmeet",
			DisplayName: "Track Meet",
			Comment:     "Timing and results for track cycling meets",
			Keywords:    []string{"cycling", "timing", "results", "track", "velodrome"},
			ExecName:    "metarace-trackmeet",
			IconID:      IconID,
			Actions: []Action{
				{ID: "create", Name: "Create New Meet", Args: "--create"},
			},
			LegacyNames: []string{"metarace-trackmeet.desktop", "trackmeet.desktop"},
		},
	}
}
