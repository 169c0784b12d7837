package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Signup(ctx context.Context) error {
	f.calls = append(f.calls, "signup")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}
func (f *fakeExec) Reset(ctx context.Context) error {
	f.calls = append(f.calls, "reset")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Avatar(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "avatar")
	f.args = append(f.args, args)
	return nil
}

func TestRunREPL_Commands(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"status",
		"avatar me.png 10 10 50",
		"avatar",
		"foobar",
		"logout",
		"signup",
		"reset",
		"exit",
		"login",
	}, "\n")

	var buf bytes.Buffer
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(s) " }, bufio.NewReader(strings.NewReader(input)), &buf)

	require.Equal(t, []string{"login", "status", "avatar", "logout", "signup", "reset"}, exec.calls)
	require.Equal(t, [][]string{{"me.png", "10", "10", "50"}}, exec.args)

	out := buf.String()
	require.Contains(t, out, "Available commands: signup, login, status, reset, exit")
	require.Contains(t, out, "Available commands: status, avatar <path> [x y size], logout, reset, exit")
	require.Contains(t, out, "Usage: avatar <path> [x y size]")
	require.Contains(t, out, "Unknown command: foobar")
	require.Contains(t, out, "skillip (s) > ")
	require.Contains(t, out, "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("status")), io.Discard)
	require.Equal(t, []string{"status"}, exec.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("status\n")), io.Discard)
	require.Empty(t, exec.calls)
}
