package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "flash"

type flashKind string

const (
	flashSuccess flashKind = "success"
	flashError   flashKind = "error"
)

// flash is a one-shot notification carried across a redirect.
type flash struct {
	Kind    flashKind
	Message string
}

func setFlash(w http.ResponseWriter, kind flashKind, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    string(kind) + "." + base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearFlash(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// popFlash reads the pending notification and clears it. Malformed cookies
// are dropped.
func popFlash(w http.ResponseWriter, r *http.Request) *flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	clearFlash(w)

	kind, enc, ok := strings.Cut(c.Value, ".")
	if !ok {
		return nil
	}
	msg, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return nil
	}
	switch flashKind(kind) {
	case flashSuccess, flashError:
		return &flash{Kind: flashKind(kind), Message: string(msg)}
	default:
		return nil
	}
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, to string, kind flashKind, msg string) {
	if msg != "" {
		setFlash(w, kind, msg)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
