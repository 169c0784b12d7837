package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/skillip/internal/client/blob"
)

type sessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	Avatar        string `json:"avatar"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	v := s.newView(w, r, "")
	info := sessionInfo{
		Authenticated: v.Session.Authenticated,
		Avatar:        v.Avatar,
	}
	if v.Session.Authenticated {
		info.Email = v.User.Email
		info.Name = v.User.Name()
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleBlob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, ct, err := s.deps.Blobs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.log.Error(r.Context(), "failed to read blob", "id", id, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
