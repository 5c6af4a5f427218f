package privileges

import (
	"errors"
	"os/user"
	"strings"
	"testing"

	"github.com/ndf-zz/metarace-install/internal/prompt"
)

type mockSystem struct {
	geteuid     func() int
	currentUser func() (*user.User, error)
	groupNames  func(u *user.User) ([]string, error)
}

func (m mockSystem) Geteuid() int {
	if m.geteuid != nil {
		return m.geteuid()
	}
	return 1000
}

func (m mockSystem) CurrentUser() (*user.User, error) {
	if m.currentUser != nil {
		return m.currentUser()
	}
	return &user.User{Username: "rider", Uid: "1000"}, nil
}

func (m mockSystem) GroupNames(u *user.User) ([]string, error) {
	if m.groupNames != nil {
		return m.groupNames(u)
	}
	return []string{"rider", "users"}, nil
}

type fakeRunner struct {
	commands [][]string
	runErr   error
	sudo     bool
}

func (r *fakeRunner) Run(name string, args ...string) error {
	r.commands = append(r.commands, append([]string{name}, args...))
	return r.runErr
}

func (r *fakeRunner) Output(name string, args ...string) ([]byte, error) {
	return nil, nil
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	if r.sudo && name == "sudo" {
		return "/usr/bin/sudo", nil
	}
	return "", errors.New("not found")
}

type scriptedPrompter struct {
	answers []bool
}

func (p *scriptedPrompter) Confirm(message string) (bool, error) {
	if len(p.answers) == 0 {
		return false, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *scriptedPrompter) ConfirmOrAbort(message string) error {
	return nil
}

func TestEnsureUnprivilegedRefusesRoot(t *testing.T) {
	t.Parallel()
	err := EnsureUnprivileged(mockSystem{geteuid: func() int { return 0 }})
	if err == nil {
		t.Fatalf("expected refusal for euid 0")
	}
	if err := EnsureUnprivileged(mockSystem{}); err != nil {
		t.Fatalf("unprivileged user refused: %v", err)
	}
}

func TestSudoAvailable(t *testing.T) {
	t.Parallel()
	if !SudoAvailable(&fakeRunner{sudo: true}) {
		t.Fatalf("sudo on PATH not reported")
	}
	if SudoAvailable(&fakeRunner{}) {
		t.Fatalf("missing sudo reported as available")
	}
}

func TestMemberOf(t *testing.T) {
	t.Parallel()
	sys := mockSystem{groupNames: func(*user.User) ([]string, error) {
		return []string{"rider", "dialout"}, nil
	}}
	held, err := MemberOf(sys, "dialout")
	if err != nil || !held {
		t.Fatalf("MemberOf(dialout) = %v, %v; want true", held, err)
	}
	held, err = MemberOf(sys, "lpadmin")
	if err != nil || held {
		t.Fatalf("MemberOf(lpadmin) = %v, %v; want false", held, err)
	}
}

func TestOfferGroupsAddsAcceptedGroup(t *testing.T) {
	t.Parallel()
	run := &fakeRunner{}
	var out strings.Builder
	err := OfferGroups(mockSystem{}, run, &scriptedPrompter{answers: []bool{true}}, &out,
		[]GroupOffer{{Group: "dialout", Purpose: "timing hardware"}})
	if err != nil {
		t.Fatalf("OfferGroups error: %v", err)
	}
	if len(run.commands) != 1 {
		t.Fatalf("expected one usermod call, got %v", run.commands)
	}
	got := strings.Join(run.commands[0], " ")
	if got != "usermod -a -G dialout rider" {
		t.Fatalf("unexpected usermod invocation %q", got)
	}
	if !strings.Contains(out.String(), "next login") {
		t.Fatalf("expected relog notice, got %q", out.String())
	}
}

func TestOfferGroupsDeclinedIsNotAnError(t *testing.T) {
	t.Parallel()
	run := &fakeRunner{}
	var out strings.Builder
	err := OfferGroups(mockSystem{}, run, &scriptedPrompter{answers: []bool{false}}, &out,
		[]GroupOffer{{Group: "dialout", Purpose: "timing hardware"}})
	if err != nil {
		t.Fatalf("OfferGroups error: %v", err)
	}
	if len(run.commands) != 0 {
		t.Fatalf("declined offer must not run usermod, ran %v", run.commands)
	}
}

func TestOfferGroupsSkipsHeldAndEmptyGroups(t *testing.T) {
	t.Parallel()
	sys := mockSystem{groupNames: func(*user.User) ([]string, error) {
		return []string{"dialout"}, nil
	}}
	run := &fakeRunner{}
	var out strings.Builder
	err := OfferGroups(sys, run, &scriptedPrompter{}, &out, []GroupOffer{
		{Group: "dialout", Purpose: "timing hardware"},
		{Group: "", Purpose: "printing"},
	})
	if err != nil {
		t.Fatalf("OfferGroups error: %v", err)
	}
	if len(run.commands) != 0 {
		t.Fatalf("no usermod expected, ran %v", run.commands)
	}
	if !strings.Contains(out.String(), "Already a member of group dialout") {
		t.Fatalf("expected membership notice, got %q", out.String())
	}
}

func TestOfferGroupsUsermodFailureIsFatal(t *testing.T) {
	t.Parallel()
	run := &fakeRunner{runErr: errors.New("usermod: permission denied")}
	var out strings.Builder
	err := OfferGroups(mockSystem{}, run, &scriptedPrompter{answers: []bool{true}}, &out,
		[]GroupOffer{{Group: "dialout", Purpose: "timing hardware"}})
	if err == nil {
		t.Fatalf("expected error when usermod fails")
	}
}

var _ prompt.Prompter = (*scriptedPrompter)(nil)
