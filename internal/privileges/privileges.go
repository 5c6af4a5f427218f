// Package privileges verifies the invoking principal and negotiates group
// membership for hardware and printer access.
package privileges

import (
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/ndf-zz/metarace-install/internal/messages"
	"github.com/ndf-zz/metarace-install/internal/prompt"
	"github.com/ndf-zz/metarace-install/internal/runner"
)

// System abstracts the identity lookups this package needs.
type System interface {
	Geteuid() int
	CurrentUser() (*user.User, error)
	GroupNames(u *user.User) ([]string, error)
}

// RealSystem implements System using os/user.
type RealSystem struct{}

// Geteuid returns the effective user id of the caller.
func (RealSystem) Geteuid() int {
	return os.Geteuid()
}

// CurrentUser returns the invoking user.
func (RealSystem) CurrentUser() (*user.User, error) {
	return user.Current()
}

// GroupNames resolves the names of every group u belongs to.
func (RealSystem) GroupNames(u *user.User) ([]string, error) {
	ids, err := u.GroupIds()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		g, err := user.LookupGroupId(id)
		if err != nil {
			// Stale entries in the group database are not fatal.
			continue
		}
		names = append(names, g.Name)
	}
	return names, nil
}

// EnsureUnprivileged refuses to provision a system-owned account.
func EnsureUnprivileged(sys System) error {
	if sys.Geteuid() == 0 {
		return fmt.Errorf(messages.PrivilegesRootRefused)
	}
	return nil
}

// SudoAvailable reports whether an elevation mechanism is on PATH.
func SudoAvailable(run runner.Runner) bool {
	_, err := run.LookPath("sudo")
	return err == nil
}

// MemberOf reports whether the invoking user already holds the named group.
func MemberOf(sys System, group string) (bool, error) {
	u, err := sys.CurrentUser()
	if err != nil {
		return false, fmt.Errorf(messages.PrivilegesLookupUserFmt, err)
	}
	names, err := sys.GroupNames(u)
	if err != nil {
		return false, fmt.Errorf(messages.PrivilegesListGroupsFmt, u.Username, err)
	}
	for _, name := range names {
		if name == group {
			return true, nil
		}
	}
	return false, nil
}

// GroupOffer names a group to negotiate and what it grants, for the prompt.
type GroupOffer struct {
	Group   string
	Purpose string
}

// OfferGroups asks to add the user to each group it does not already hold.
// Already-satisfied memberships are reported and skipped; accepted additions
// run through the elevated runner and surface the next-login requirement.
func OfferGroups(sys System, run runner.Runner, p prompt.Prompter, out io.Writer, offers []GroupOffer) error {
	u, err := sys.CurrentUser()
	if err != nil {
		return fmt.Errorf(messages.PrivilegesLookupUserFmt, err)
	}
	for _, offer := range offers {
		if offer.Group == "" {
			continue
		}
		held, err := MemberOf(sys, offer.Group)
		if err != nil {
			return err
		}
		if held {
			_, _ = fmt.Fprintf(out, messages.PrivilegesInGroupFmt, offer.Group)
			continue
		}
		ok, err := p.Confirm(fmt.Sprintf(messages.PrivilegesOfferGroupFmt, u.Username, offer.Group, offer.Purpose))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := run.Run("usermod", "-a", "-G", offer.Group, u.Username); err != nil {
			return fmt.Errorf(messages.PrivilegesAddGroupFmt, u.Username, offer.Group, err)
		}
		_, _ = fmt.Fprintf(out, messages.PrivilegesRelogNoteFmt, offer.Group)
	}
	return nil
}
