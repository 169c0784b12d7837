package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/skillip/internal/client/models"
	"github.com/dmitrijs2005/skillip/internal/client/session"
	"github.com/dmitrijs2005/skillip/internal/client/validate"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", s.newView(w, r, "Home"))
}

func (s *Server) handleSigninPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "signin", s.newView(w, r, "Sign In"))
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	creds := models.Credentials{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}

	if err := s.deps.Store.Login(r.Context(), creds); err != nil {
		s.log.Info(r.Context(), "login failed", "email", creds.Email, "error", err)

		msg := session.Message(err)
		if !isValidation(err) {
			msg = "Login failed. " + msg
		}
		v := s.newView(w, r, "Sign In")
		v.Email = creds.Email
		v.Flash = &flash{Kind: flashError, Message: msg}
		s.render(w, r, http.StatusUnprocessableEntity, "signin", v)
		return
	}

	s.redirect(w, r, PathHome, flashSuccess, msgLoginOK)
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "signup", s.newView(w, r, "Sign Up"))
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := models.SignupForm{
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		PasswordConfirm: r.PostForm.Get("password_confirm"),
	}

	if err := s.deps.Store.Signup(r.Context(), form); err != nil {
		s.log.Info(r.Context(), "signup failed", "email", form.Email, "error", err)

		v := s.newView(w, r, "Sign Up")
		v.Email = form.Email
		v.Flash = &flash{Kind: flashError, Message: session.Message(err)}
		s.render(w, r, http.StatusUnprocessableEntity, "signup", v)
		return
	}

	s.redirect(w, r, PathHome, flashSuccess, msgSignupOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Store.Logout(r.Context()); err != nil {
		s.log.Error(r.Context(), "logout failed", "error", err)
		s.redirect(w, r, PathHome, flashError, session.Message(err))
		return
	}
	s.redirect(w, r, PathHome, "", "")
}

func isValidation(err error) bool {
	return errors.Is(err, validate.ErrInvalidEmail) || errors.Is(err, validate.ErrPasswordMismatch)
}
