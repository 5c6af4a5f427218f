package desktop

import (
	"strings"
	"testing"
)

func TestRenderDesktopEntry(t *testing.T) {
	t.Parallel()
	entry := Roster()[0]
	text := string(entry.Render("/home/rider/Documents/metarace/venv/bin"))

	for _, want := range []string{
		"[Desktop Entry]\n",
		"Type=Application\n",
		"Name=Road Meet\n",
		"Exec=/home/rider/Documents/metarace/venv/bin/metarace-roadmeet %f\n",
		"Icon=" + IconID + "\n",
		"Terminal=false\n",
		"Categories=Utility;Sports;\n",
		"Actions=create;\n",
		"[Desktop Action create]\n",
		"Exec=/home/rider/Documents/metarace/venv/bin/metarace-roadmeet --create\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered entry missing %q:\n%s", want, text)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()
	entry := Roster()[1]
	first := entry.Render("/opt/venv/bin")
	second := entry.Render("/opt/venv/bin")
	if string(first) != string(second) {
		t.Fatalf("renders of the same entry differ")
	}
}

func TestRosterFilenames(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for _, entry := range Roster() {
		name := entry.Filename()
		if !strings.HasPrefix(name, IconID+".") || !strings.HasSuffix(name, ".desktop") {
			t.Fatalf("unexpected launcher filename %q", name)
		}
		if seen[name] {
			t.Fatalf("duplicate launcher filename %q", name)
		}
		seen[name] = true
		if len(entry.LegacyNames) == 0 {
			t.Fatalf("entry %s carries no legacy names to clean up", entry.AppID)
		}
	}
}
