package desktop

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"

	"github.com/ndf-zz/metarace-install/internal/fsutil"
	"github.com/ndf-zz/metarace-install/internal/messages"
	"github.com/ndf-zz/metarace-install/internal/runner"
)

// IconSizes are the raster side lengths rendered from the master vector.
var IconSizes = []int{32, 48, 64, 128, 256}

// Scope selects where menu and icon artifacts land.
type Scope string

// Installation scopes.
const (
	// ScopeUser installs into the invoking user's private share.
	ScopeUser Scope = "user"
	// ScopeSystem installs into the system share. Required under WSL: the
	// Windows host menu only observes the shared location.
	ScopeSystem Scope = "system"
)

// Target is the resolved install destination for launchers and icons.
type Target struct {
	Scope           Scope
	ApplicationsDir string
	IconRoot        string
	Sizes           []int
}

// UserTarget returns the user-private target under home.
func UserTarget(home string) Target {
	share := filepath.Join(home, ".local", "share")
	return Target{
		Scope:           ScopeUser,
		ApplicationsDir: filepath.Join(share, "applications"),
		IconRoot:        filepath.Join(share, "icons", "hicolor"),
		Sizes:           IconSizes,
	}
}

// SystemTarget returns the system-shared target.
func SystemTarget() Target {
	return Target{
		Scope:           ScopeSystem,
		ApplicationsDir: "/usr/share/applications",
		IconRoot:        filepath.Join("/usr/share/icons", "hicolor"),
		Sizes:           IconSizes,
	}
}

// TargetFor picks the active target: WSL forces the system share.
func TargetFor(home string, wsl bool) Target {
	if wsl {
		return SystemTarget()
	}
	return UserTarget(home)
}

// System abstracts the filesystem operations the installer needs.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	MkdirAll(path string, perm os.FileMode) error
	Remove(name string) error
	MkdirTemp(dir string, pattern string) (string, error)
	RemoveAll(path string) error
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes the named file.
func (RealSystem) Remove(name string) error { return os.Remove(name) }

// MkdirTemp creates a new temporary directory.
func (RealSystem) MkdirTemp(dir string, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// RemoveAll removes path and any children it contains.
func (RealSystem) RemoveAll(path string) error { return os.RemoveAll(path) }

// WriteFileAtomic writes data to path atomically.
func (RealSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(filename, data, perm)
}

// Installer places launchers and icons into the active target.
type Installer struct {
	Sys System
	// Run executes unprivileged helper tools (rsvg-convert).
	Run runner.Runner
	// Elev executes elevated placement commands for the system scope.
	Elev   runner.Runner
	Out    io.Writer
	Target Target
}

// InstallEntries renders and places every launcher in the roster, replacing
// prior files of the same logical name and removing legacy-named launchers.
func (ins *Installer) InstallEntries(entries []Entry, execDir string) error {
	for _, entry := range entries {
		data := entry.Render(execDir)
		dest := filepath.Join(ins.Target.ApplicationsDir, entry.Filename())
		if prior, err := ins.Sys.ReadFile(dest); err == nil && string(prior) != string(data) {
			diff := udiff.Unified(entry.Filename()+" (installed)", entry.Filename()+" (new)",
				string(prior), string(data))
			_, _ = fmt.Fprintf(ins.Out, messages.DesktopReplacedFmt, entry.Filename(), diff)
		}
		if err := ins.place(dest, data, 0o644); err != nil {
			return fmt.Errorf(messages.DesktopWriteEntryFmt, dest, err)
		}
		_, _ = fmt.Fprintf(ins.Out, messages.DesktopEntryFmt, dest)
		for _, legacy := range entry.LegacyNames {
			if err := ins.removeLegacy(filepath.Join(ins.Target.ApplicationsDir, legacy)); err != nil {
				return err
			}
		}
	}
	return nil
}

// InstallIcons copies the master vector icon into the icon theme path and,
// when a raster converter is present, renders each declared pixel size.
// A missing converter only skips the rasters.
func (ins *Installer) InstallIcons(svgPath string) error {
	svg, err := ins.Sys.ReadFile(svgPath)
	if err != nil {
		return fmt.Errorf(messages.DesktopReadIconFmt, svgPath, err)
	}
	scalable := filepath.Join(ins.Target.IconRoot, "scalable", "apps", IconID+".svg")
	if err := ins.place(scalable, svg, 0o644); err != nil {
		return fmt.Errorf(messages.DesktopWriteIconFmt, scalable, err)
	}

	converter, err := ins.Run.LookPath("rsvg-convert")
	if err != nil {
		_, _ = fmt.Fprintf(ins.Out, messages.DesktopRasterSkipFmt, err)
		return nil
	}

	staging, err := ins.Sys.MkdirTemp("", "metarace-icons-")
	if err != nil {
		return fmt.Errorf(messages.DesktopWriteIconFmt, IconID, err)
	}
	defer func() {
		_ = ins.Sys.RemoveAll(staging)
	}()
	for _, size := range ins.Target.Sizes {
		raster := filepath.Join(staging, fmt.Sprintf("%d.png", size))
		side := fmt.Sprintf("%d", size)
		if err := ins.Run.Run(converter, "-w", side, "-h", side, "-o", raster, svgPath); err != nil {
			return fmt.Errorf(messages.DesktopRasterFmt, size, err)
		}
		data, err := ins.Sys.ReadFile(raster)
		if err != nil {
			return fmt.Errorf(messages.DesktopRasterFmt, size, err)
		}
		dest := filepath.Join(ins.Target.IconRoot,
			fmt.Sprintf("%dx%d", size, size), "apps", IconID+".png")
		if err := ins.place(dest, data, 0o644); err != nil {
			return fmt.Errorf(messages.DesktopWriteIconFmt, dest, err)
		}
	}
	return nil
}

// RefreshMenuCache rebuilds the menu cache best-effort; absence of the tool
// only delays menu updates until an unrelated cache rebuild.
func (ins *Installer) RefreshMenuCache() {
	run := ins.Run
	if ins.Target.Scope == ScopeSystem {
		run = ins.Elev
	}
	if _, err := ins.Run.LookPath("update-desktop-database"); err != nil {
		_, _ = fmt.Fprintf(ins.Out, messages.DesktopMenuCacheSkipFmt, err)
		return
	}
	if err := run.Run("update-desktop-database", ins.Target.ApplicationsDir); err != nil {
		_, _ = fmt.Fprintf(ins.Out, messages.DesktopMenuCacheSkipFmt, err)
	}
}

// place writes data to dest within the active scope. User-scope files are
// written atomically in place. System-scope files are staged unprivileged,
// installed with elevated ownership, then verified to have landed: declaring
// success on an unchecked elevated move hid failures in the past.
func (ins *Installer) place(dest string, data []byte, perm os.FileMode) error {
	if ins.Target.Scope == ScopeUser {
		if err := ins.Sys.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf(messages.DesktopCreateDirFmt, filepath.Dir(dest), err)
		}
		return ins.Sys.WriteFileAtomic(dest, data, perm)
	}

	staging, err := ins.Sys.MkdirTemp("", "metarace-share-")
	if err != nil {
		return fmt.Errorf(messages.DesktopShareCopyFmt, dest, err)
	}
	defer func() {
		_ = ins.Sys.RemoveAll(staging)
	}()
	staged := filepath.Join(staging, filepath.Base(dest))
	if err := ins.Sys.WriteFileAtomic(staged, data, perm); err != nil {
		return err
	}
	mode := fmt.Sprintf("%04o", perm)
	if err := ins.Elev.Run("install", "-D", "-m", mode, "-o", "root", "-g", "root", staged, dest); err != nil {
		return fmt.Errorf(messages.DesktopShareCopyFmt, dest, err)
	}
	if info, err := ins.Sys.Stat(dest); err != nil || info.Size() != int64(len(data)) {
		return fmt.Errorf(messages.DesktopShareVerifyFmt, filepath.Base(dest), dest)
	}
	return nil
}

// removeLegacy deletes an old-scheme launcher if present.
func (ins *Installer) removeLegacy(path string) error {
	if _, err := ins.Sys.Stat(path); err != nil {
		return nil
	}
	if ins.Target.Scope == ScopeSystem {
		if err := ins.Elev.Run("rm", "-f", path); err != nil {
			return fmt.Errorf(messages.DesktopShareCopyFmt, path, err)
		}
	} else if err := ins.Sys.Remove(path); err != nil {
		return fmt.Errorf(messages.DesktopWriteEntryFmt, path, err)
	}
	_, _ = fmt.Fprintf(ins.Out, messages.DesktopLegacyRemovedFmt, path)
	return nil
}
