package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/dmitrijs2005/skillip/internal/client/crop"
	"github.com/dmitrijs2005/skillip/internal/client/models"
	"github.com/dmitrijs2005/skillip/internal/client/session"
	"github.com/dmitrijs2005/skillip/internal/client/talent"
)

const (
	layoutRoot  = "root"
	layoutNoNav = "nonav"
)

type page struct {
	tmpl   *template.Template
	layout string
}

var pageLayouts = map[string]string{
	"home":           layoutRoot,
	"signin":         layoutNoNav,
	"signup":         layoutNoNav,
	"get_hired_form": layoutRoot,
	"crop":           layoutRoot,
	"profile":        layoutRoot,
}

func parsePages(fsys fs.FS) (map[string]*page, error) {
	pages := make(map[string]*page, len(pageLayouts))
	for name, layout := range pageLayouts {
		t, err := template.ParseFS(fsys,
			"templates/layouts/*.html",
			"templates/partials.html",
			"templates/pages/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = &page{tmpl: t, layout: layout}
	}
	return pages, nil
}

// view is the data every page template renders from.
type view struct {
	Title   string
	Session session.Session
	User    models.User
	Avatar  string
	Flash   *flash

	Email string

	Talent    talent.Form
	Catalog   []string
	Selection *crop.Selection
	Pending   *models.Upload

	ImageExpired bool
}

func (s *Server) newView(w http.ResponseWriter, r *http.Request, title string) view {
	sess := s.deps.Store.Session()
	v := view{
		Title:   title,
		Session: sess,
		Avatar:  models.DefaultProfileImage,
		Flash:   popFlash(w, r),
	}
	if u, ok := sess.User.Get(); ok {
		v.User = u
		img := u.ProfileImage(s.now())
		v.Avatar = models.AvatarURL(img)
		_, v.ImageExpired = img.(models.ExpiredImage)
	}
	return v
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, v view) {
	p, ok := s.pages[name]
	if !ok {
		s.log.Error(r.Context(), "unknown page", "page", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, p.layout, v); err != nil {
		s.log.Error(r.Context(), "failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
