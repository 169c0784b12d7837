// Package session owns the authentication state of the client: whether a
// user is signed in and which user record backs that.
//
// The state is mirrored in local storage under a single key. A Store is
// authenticated exactly when a valid user record is stored there, so the
// signed-in state survives restarts and logout is a single delete.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillip/internal/client/client"
	"github.com/dmitrijs2005/skillip/internal/client/models"
	"github.com/dmitrijs2005/skillip/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/skillip/internal/client/validate"
	"github.com/dmitrijs2005/skillip/internal/common"
	"github.com/dmitrijs2005/skillip/internal/cryptox"
	"github.com/dmitrijs2005/skillip/internal/logging"
)

const (
	DefaultKey           = "token"
	DefaultUploadTimeout = 30 * time.Second

	saltKey = "seal_salt"
)

var (
	ErrInvalidImage     = errors.New("Invalid image file")
	ErrNotAuthenticated = errors.New("User not authenticated")
	ErrAPINotConfigured = errors.New("API URL not configured")
)

// Session is a snapshot of the authentication state.
type Session struct {
	Authenticated bool
	User          models.Optional[models.User]
}

type Options struct {
	// Key is the storage key holding the user record.
	Key string
	// APIURL is the configured backend base URL. Uploads refuse to run
	// without one.
	APIURL        string
	UploadTimeout time.Duration
	// Secret, when set, seals the stored record with AES-GCM.
	Secret []byte
	Now    func() time.Time
}

type Store struct {
	repo localstore.Repository
	api  client.Client
	log  logging.Logger

	key           string
	apiURL        string
	uploadTimeout time.Duration
	secret        []byte
	now           func() time.Time

	mu       sync.Mutex
	sealer   *cryptox.Sealer
	session  Session
	onLogout []func(ctx context.Context) error
}

func NewStore(repo localstore.Repository, api client.Client, log logging.Logger, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = DefaultUploadTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &Store{
		repo:          repo,
		api:           api,
		log:           log.With("component", "session"),
		key:           opts.Key,
		apiURL:        opts.APIURL,
		uploadTimeout: opts.UploadTimeout,
		secret:        opts.Secret,
		now:           opts.Now,
	}
}

// OnLogout registers fn to run after the user record is removed. Hook
// errors are logged and do not undo the logout.
func (s *Store) OnLogout(fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Load reads the stored record. An unreadable or expired record is removed
// and leaves the store unauthenticated; only storage failures are returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if u, ok := s.session.User.Get(); ok {
		s.log.Debug(ctx, "session restored", "email", u.Email)
	}
	return nil
}

// Session returns the current state as recorded in storage. Another process
// sharing the database may have signed in or out since the last call, so the
// record is read every time. If storage cannot be read the last known state
// is returned.
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.refresh(ctx); err != nil {
		s.log.Error(ctx, "failed to read session", "error", err)
	}
	return s.session
}

// refresh re-derives s.session from the stored record. A record that cannot
// be decoded or whose token has expired is deleted. Callers hold s.mu.
func (s *Store) refresh(ctx context.Context) error {
	if err := s.ensureSealer(ctx); err != nil {
		return err
	}

	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return err
	}
	if raw == nil {
		s.session = Session{}
		return nil
	}

	user, err := s.decode(raw)
	if err != nil && s.sealer != nil {
		// the salt may have been replaced by a reset in another process
		s.sealer = nil
		if serr := s.ensureSealer(ctx); serr != nil {
			return serr
		}
		user, err = s.decode(raw)
	}
	if err == nil {
		err = user.Validate(s.now())
	}
	if err != nil {
		s.log.Info(ctx, "discarding stored session", "email", user.Email, "error", err)
		if derr := s.repo.Delete(ctx, s.key); derr != nil {
			return fmt.Errorf("clear session: %w", derr)
		}
		s.session = Session{}
		return nil
	}

	s.session = Session{Authenticated: true, User: models.Some(user)}
	return nil
}

func (s *Store) Login(ctx context.Context, creds models.Credentials) error {
	if err := validate.Email(creds.Email); err != nil {
		return err
	}

	user, err := s.api.Login(ctx, creds)
	if err != nil {
		s.log.Warn(ctx, "login failed", "email", creds.Email, "error", err)
		return fmt.Errorf("login: %w", err)
	}

	if err := s.establish(ctx, *user, creds.Email); err != nil {
		return err
	}
	s.log.Info(ctx, "signed in", "email", creds.Email)
	return nil
}

// Signup creates the account and signs the new user in.
func (s *Store) Signup(ctx context.Context, form models.SignupForm) error {
	if err := validate.Email(form.Email); err != nil {
		return err
	}
	if err := validate.Passwords(form.Password, form.PasswordConfirm); err != nil {
		return err
	}

	user, err := s.api.Register(ctx, form.Credentials())
	if err != nil {
		s.log.Warn(ctx, "signup failed", "email", form.Email, "error", err)
		return fmt.Errorf("signup: %w", err)
	}

	if err := s.establish(ctx, *user, form.Email); err != nil {
		return err
	}
	s.log.Info(ctx, "signed up", "email", form.Email)
	return nil
}

func (s *Store) establish(ctx context.Context, user models.User, email string) error {
	if user.Email == "" {
		user.Email = email
	}
	if err := user.Validate(s.now()); err != nil {
		return fmt.Errorf("invalid user record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(ctx, user); err != nil {
		return err
	}
	s.session = Session{Authenticated: true, User: models.Some(user)}
	return nil
}

func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if err := s.repo.Delete(ctx, s.key); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("logout: %w", err)
	}
	s.session = Session{}
	hooks := append([]func(context.Context) error(nil), s.onLogout...)
	s.mu.Unlock()

	for _, fn := range hooks {
		if err := fn(ctx); err != nil {
			s.log.Error(ctx, "logout hook failed", "error", err)
		}
	}
	s.log.Info(ctx, "signed out")
	return nil
}

// Reset wipes every key in local storage, including the seal salt and any
// saved draft, and then runs the logout hooks.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	if err := s.repo.Clear(ctx); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("reset: %w", err)
	}
	s.session = Session{}
	s.sealer = nil
	hooks := append([]func(context.Context) error(nil), s.onLogout...)
	s.mu.Unlock()

	for _, fn := range hooks {
		if err := fn(ctx); err != nil {
			s.log.Error(ctx, "logout hook failed", "error", err)
		}
	}
	s.log.Info(ctx, "local storage cleared")
	return nil
}

// UpdateProfileImage uploads upload as the user's picture and stores the
// returned image URL on the user record. The request is bounded by the
// configured upload timeout.
func (s *Store) UpdateProfileImage(ctx context.Context, upload *models.Upload) (*models.UploadResult, error) {
	if upload.Empty() {
		return nil, ErrInvalidImage
	}

	user, ok := s.Session().User.Get()
	if !ok || user.Email == "" {
		return nil, ErrNotAuthenticated
	}
	if s.apiURL == "" {
		return nil, ErrAPINotConfigured
	}

	uctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	res, err := s.api.UploadProfileImage(uctx, user.Email, user.Token, upload)
	if err != nil {
		s.log.Error(ctx, "profile image upload failed", "email", user.Email, "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, fmt.Errorf("reload session: %w", err)
	}
	current, ok := s.session.User.Get()
	if !ok || current.Email != user.Email {
		s.log.Warn(ctx, "session changed during upload, image not stored", "email", user.Email)
		return res, nil
	}

	updated := current.WithProfileImage(*res)
	if err := s.write(ctx, updated); err != nil {
		return nil, err
	}
	s.session.User = models.Some(updated)
	s.log.Info(ctx, "profile image updated", "email", user.Email)
	return res, nil
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.api.Ping(ctx)
}

// write persists user. Callers hold s.mu.
func (s *Store) write(ctx context.Context, user models.User) error {
	if err := s.ensureSealer(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if s.sealer != nil {
		raw = s.sealer.Seal(raw)
	}
	if err := s.repo.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) decode(raw []byte) (models.User, error) {
	var user models.User
	if s.sealer != nil {
		plain, err := s.sealer.Open(raw)
		if err != nil {
			return user, fmt.Errorf("open sealed session: %w", err)
		}
		raw = plain
	}
	if err := json.Unmarshal(raw, &user); err != nil {
		return user, fmt.Errorf("decode session: %w", err)
	}
	return user, nil
}

// ensureSealer builds the sealer on first use, creating the salt if the
// database has none yet. Callers hold s.mu.
func (s *Store) ensureSealer(ctx context.Context) error {
	if len(s.secret) == 0 || s.sealer != nil {
		return nil
	}

	salt, err := s.repo.SetIfAbsent(ctx, saltKey, common.GenerateRandByteArray(cryptox.SaltSize))
	if err != nil {
		return fmt.Errorf("load seal salt: %w", err)
	}

	key := cryptox.DeriveKey(s.secret, salt)
	defer common.WipeByteArray(key)

	sealer, err := cryptox.NewSealer(key)
	if err != nil {
		return fmt.Errorf("init sealer: %w", err)
	}
	s.sealer = sealer
	return nil
}
