// Package guard keeps unauthenticated visitors out of protected pages.
package guard

import (
	"net/http"

	"github.com/dmitrijs2005/skillip/internal/client/session"
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Evaluate decides access from a session snapshot. There is no pending
// state: the session is loaded before any request is served.
func Evaluate(s session.Session) State {
	if s.Authenticated {
		if _, ok := s.User.Get(); ok {
			return Authenticated
		}
	}
	return Unauthenticated
}

// Require redirects requests without an authenticated session to
// signinPath. The session store is taken from the request context.
func Require(signinPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := session.FromContext(r.Context())
			if store == nil || Evaluate(store.Session()) != Authenticated {
				http.Redirect(w, r, signinPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
