// Package web serves the browser front-end: server-rendered pages over the
// shared session store, the crop workflow and the talent drafts.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/skillip/internal/client/blob"
	"github.com/dmitrijs2005/skillip/internal/client/crop"
	"github.com/dmitrijs2005/skillip/internal/client/guard"
	"github.com/dmitrijs2005/skillip/internal/client/session"
	"github.com/dmitrijs2005/skillip/internal/client/talent"
	"github.com/dmitrijs2005/skillip/internal/logging"
)

//go:embed templates static
var assets embed.FS

const (
	PathHome    = "/"
	PathSignin  = "/signin"
	PathSignup  = "/signup"
	PathTalent  = "/get_hired_form"
	PathCrop    = "/get_hired_form/crop"
	PathProfile = "/profile"
)

const (
	msgLoginOK   = "Login Successful! Redirecting..."
	msgSignupOK  = "Signup Successful!"
	msgProfileOK = "Profile updated successfully!"

	msgImageTooLarge = "Image is too large"
)

type Deps struct {
	Store    *session.Store
	Workflow *crop.Workflow
	Blobs    blob.Store
	Drafts   *talent.Drafts
	Log      logging.Logger

	// MaxUploadBytes caps the size of a selected image.
	MaxUploadBytes int64
	CORSOrigins    []string
	// Now defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	deps  Deps
	log   logging.Logger
	pages map[string]*page
	now   func() time.Time
}

func New(d Deps) (*Server, error) {
	if d.Store == nil || d.Workflow == nil || d.Blobs == nil || d.Drafts == nil {
		return nil, fmt.Errorf("web: store, workflow, blobs and drafts are required")
	}
	if d.Log == nil {
		d.Log = logging.Nop{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 10 << 20
	}

	pages, err := parsePages(assets)
	if err != nil {
		return nil, err
	}

	return &Server{
		deps:  d,
		log:   d.Log.With("component", "web"),
		pages: pages,
		now:   d.Now,
	}, nil
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	origins := normalizeOrigins(s.deps.CORSOrigins)
	if len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(s.sameOrigin(origins))
	r.Use(s.withSession)

	static, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/session", s.handleSessionInfo)

	r.Get(PathHome, s.handleHome)
	r.Get(PathSignin, s.handleSigninPage)
	r.Post(PathSignin, s.handleSignin)
	r.Get(PathSignup, s.handleSignupPage)
	r.Post(PathSignup, s.handleSignup)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(guard.Require(PathSignin))

		r.Get(PathTalent, s.handleTalentPage)
		r.Post(PathTalent, s.handleTalentSave)
		r.Post(PathTalent+"/image", s.handleImageSelect)
		r.Get(PathCrop, s.handleCropPage)
		r.Post(PathCrop, s.handleCropConfirm)
		r.Post(PathCrop+"/cancel", s.handleCropCancel)
		r.Post(PathTalent+"/upload", s.handleUpload)
		r.Get(PathProfile, s.handleProfile)
		r.Get("/blobs/{id}", s.handleBlob)
	})

	return r
}

func normalizeOrigins(in []string) []string {
	var out []string
	for _, o := range in {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
