package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/skillip/internal/client/crop"
	"github.com/dmitrijs2005/skillip/internal/client/models"
	"github.com/dmitrijs2005/skillip/internal/client/session"
	"github.com/dmitrijs2005/skillip/internal/client/validate"
	"github.com/dmitrijs2005/skillip/internal/common"
	"github.com/dmitrijs2005/skillip/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

const pingInterval = 30 * time.Second

// getSimpleText and getPassword are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Shell runs the interactive commands against the shared session store
// and crop workflow.
type Shell struct {
	store    *session.Store
	workflow *crop.Workflow
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time

	mu   sync.Mutex
	mode Mode
}

func NewShell(store *session.Store, workflow *crop.Workflow, log logging.Logger, in io.Reader, out io.Writer) *Shell {
	if log == nil {
		log = logging.Nop{}
	}
	return &Shell{
		store:    store,
		workflow: workflow,
		log:      log.With("component", "shell"),
		reader:   bufio.NewReader(in),
		out:      out,
		now:      time.Now,
	}
}

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sh := NewShell(a.Store, a.Workflow, a.Log, cmd.InOrStdin(), cmd.OutOrStdout())
			sh.Run(cmd.Context())
			return nil
		},
	}
}

// Run starts the connectivity watcher and blocks in the REPL until the
// user exits or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(s.out, "Welcome to skillip (type 'help' for commands)")

	go s.watchConnectivity(ctx, pingInterval)

	runREPL(ctx, s, s.prompt, s.reader, s.out)
}

func (s *Shell) prompt() string {
	var who string
	if u, ok := s.store.Session().User.Get(); ok {
		who = u.Email
	}

	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()

	switch {
	case who != "" && mode != ModeUnknown:
		return fmt.Sprintf("(%s %s) ", who, mode)
	case who != "":
		return fmt.Sprintf("(%s) ", who)
	case mode != ModeUnknown:
		return fmt.Sprintf("(%s) ", mode)
	default:
		return ""
	}
}

func (s *Shell) setMode(ctx context.Context, mode Mode) {
	s.mu.Lock()
	changed := s.mode != mode
	s.mode = mode
	s.mu.Unlock()

	if changed {
		s.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (s *Shell) checkConnectivity(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.store.Ping(pingCtx); err != nil {
		s.setMode(ctx, ModeOffline)
		return
	}
	s.setMode(ctx, ModeOnline)
}

// watchConnectivity pings the backend every interval until ctx is done.
func (s *Shell) watchConnectivity(ctx context.Context, interval time.Duration) {
	s.checkConnectivity(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.checkConnectivity(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Shell) isLoggedIn() bool {
	return s.store.Session().Authenticated
}

// Signup asks for an email and the password twice and creates the account.
func (s *Shell) Signup(ctx context.Context) error {
	email, err := getSimpleText(s.reader, "Enter email", s.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", s.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Enter password again", s.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	err = s.store.Signup(ctx, models.SignupForm{
		Email:           email,
		Password:        string(password),
		PasswordConfirm: string(confirm),
	})
	if err != nil {
		fmt.Fprintln(s.out, session.Message(err))
		return err
	}

	fmt.Fprintln(s.out, "Signup Successful!")
	return nil
}

func (s *Shell) Login(ctx context.Context) error {
	email, err := getSimpleText(s.reader, "Enter email", s.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", s.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = s.store.Login(ctx, models.Credentials{Email: email, Password: string(password)})
	if err != nil {
		msg := session.Message(err)
		if !errors.Is(err, validate.ErrInvalidEmail) {
			msg = "Login failed. " + msg
		}
		fmt.Fprintln(s.out, msg)
		return err
	}

	fmt.Fprintln(s.out, "Login Successful!")
	return nil
}

func (s *Shell) Logout(ctx context.Context) error {
	if err := s.store.Logout(ctx); err != nil {
		fmt.Fprintln(s.out, session.Message(err))
		return err
	}
	fmt.Fprintln(s.out, "Logged out")
	return nil
}

// Reset asks for confirmation and then wipes local storage: the session,
// the seal salt and any saved draft.
func (s *Shell) Reset(ctx context.Context) error {
	answer, err := getSimpleText(s.reader, "This removes all local data. Type 'yes' to continue", s.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Fprintln(s.out, "Reset cancelled")
		return nil
	}

	if err := s.store.Reset(ctx); err != nil {
		fmt.Fprintln(s.out, session.Message(err))
		return err
	}
	fmt.Fprintln(s.out, "Local data cleared")
	return nil
}

// Status prints who is signed in, the profile image state and whether the
// backend answers.
func (s *Shell) Status(ctx context.Context) error {
	u, ok := s.store.Session().User.Get()
	if !ok {
		fmt.Fprintln(s.out, "Not signed in")
	} else {
		fmt.Fprintf(s.out, "Signed in as %s <%s>\n", u.Name(), u.Email)
		switch img := u.ProfileImage(s.now()).(type) {
		case models.CurrentImage:
			if img.Expires.IsZero() {
				fmt.Fprintf(s.out, "Profile image: %s\n", img.URL)
			} else {
				fmt.Fprintf(s.out, "Profile image: %s (link valid until %s)\n", img.URL, img.Expires.Local().Format(time.DateTime))
			}
		case models.ExpiredImage:
			fmt.Fprintln(s.out, "Profile image: link expired, upload again to refresh")
		default:
			fmt.Fprintln(s.out, "Profile image: none")
		}
	}

	s.checkConnectivity(ctx)
	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()
	fmt.Fprintf(s.out, "Backend: %s\n", mode)
	return nil
}

// Avatar crops the picture at args[0] and uploads it. Optional x, y and
// size are percentages of the image; without them the whole image is used.
func (s *Shell) Avatar(ctx context.Context, args []string) error {
	if !s.isLoggedIn() {
		fmt.Fprintln(s.out, session.ErrNotAuthenticated.Error())
		return session.ErrNotAuthenticated
	}

	rect, err := parseCropArgs(args[1:])
	if err != nil {
		fmt.Fprintln(s.out, "Usage: avatar <path> [x y size]")
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Cannot open %s\n", args[0])
		return err
	}
	defer f.Close()

	sel, err := s.workflow.Select(ctx, filepath.Base(args[0]), f)
	if err != nil {
		if errors.Is(err, crop.ErrImageTooLarge) {
			fmt.Fprintln(s.out, "Image is too large")
		} else {
			fmt.Fprintln(s.out, session.ErrInvalidImage.Error())
		}
		return err
	}
	if sel == nil {
		fmt.Fprintln(s.out, "No file selected")
		return nil
	}

	if _, err := s.workflow.Confirm(ctx, rect); err != nil {
		s.workflow.Cancel(ctx)
		if errors.Is(err, crop.ErrEmptySelection) {
			fmt.Fprintln(s.out, "Select an area to crop")
		} else {
			fmt.Fprintln(s.out, session.ErrInvalidImage.Error())
		}
		return err
	}

	res, err := s.workflow.Upload(ctx)
	if err != nil {
		fmt.Fprintln(s.out, session.Message(err))
		return err
	}
	if res == nil {
		return nil
	}

	fmt.Fprintln(s.out, "Profile updated successfully!")
	return nil
}

func parseCropArgs(args []string) (crop.Rect, error) {
	switch len(args) {
	case 0:
		return crop.DefaultRect(), nil
	case 3:
	default:
		return crop.Rect{}, fmt.Errorf("expected x y size, got %d values", len(args))
	}

	var v [3]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return crop.Rect{}, fmt.Errorf("parse %q: %w", a, err)
		}
		v[i] = f
	}
	return crop.Rect{Unit: crop.Percent, X: v[0], Y: v[1], Width: v[2], Height: v[2]}, nil
}
