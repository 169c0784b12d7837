package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/skillip/internal/client/crop"
	"github.com/dmitrijs2005/skillip/internal/client/session"
	"github.com/dmitrijs2005/skillip/internal/client/talent"
)

func (s *Server) handleTalentPage(w http.ResponseWriter, r *http.Request) {
	v := s.newView(w, r, "Get Hired")
	v.Catalog = talent.Catalog

	form, err := s.deps.Drafts.Load(r.Context())
	if err != nil {
		s.log.Warn(r.Context(), "failed to load talent draft", "error", err)
	}
	v.Talent = form

	if sel, ok := s.deps.Workflow.Selection(); ok {
		v.Selection = &sel
	}
	v.Pending = s.deps.Workflow.Pending()

	s.render(w, r, http.StatusOK, "get_hired_form", v)
}

func (s *Server) handleTalentSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	if err := s.deps.Drafts.Save(r.Context(), talent.Parse(r.PostForm)); err != nil {
		s.log.Error(r.Context(), "failed to save talent draft", "error", err)
		s.redirect(w, r, PathTalent, flashError, "Failed to save profile")
		return
	}
	s.redirect(w, r, PathTalent, flashSuccess, msgProfileOK)
}

func (s *Server) handleImageSelect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.deps.MaxUploadBytes)

	file, hdr, err := r.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			s.redirect(w, r, PathTalent, flashError, msgImageTooLarge)
		case errors.Is(err, http.ErrMissingFile):
			s.redirect(w, r, PathTalent, "", "")
		default:
			s.redirect(w, r, PathTalent, flashError, session.ErrInvalidImage.Error())
		}
		return
	}
	defer file.Close()

	sel, err := s.deps.Workflow.Select(r.Context(), hdr.Filename, file)
	if err != nil {
		s.log.Info(r.Context(), "image rejected", "name", hdr.Filename, "error", err)
		msg := session.ErrInvalidImage.Error()
		if errors.Is(err, crop.ErrImageTooLarge) {
			msg = msgImageTooLarge
		}
		s.redirect(w, r, PathTalent, flashError, msg)
		return
	}
	if sel == nil {
		s.redirect(w, r, PathTalent, "", "")
		return
	}
	s.redirect(w, r, PathCrop, "", "")
}

func (s *Server) handleCropPage(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.deps.Workflow.Selection()
	if !ok {
		http.Redirect(w, r, PathTalent, http.StatusFound)
		return
	}
	v := s.newView(w, r, "Crop Image")
	v.Selection = &sel
	s.render(w, r, http.StatusOK, "crop", v)
}

func (s *Server) handleCropConfirm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	rect, err := parseRect(r)
	if err != nil {
		s.redirect(w, r, PathCrop, flashError, err.Error())
		return
	}

	// Keep what the user typed so the crop page shows it again.
	_ = s.deps.Workflow.Adjust(rect)

	_, err = s.deps.Workflow.Confirm(r.Context(), rect)
	switch {
	case err == nil:
		s.redirect(w, r, PathTalent, "", "")
	case errors.Is(err, crop.ErrEmptySelection):
		s.redirect(w, r, PathCrop, flashError, "Select an area to crop")
	case errors.Is(err, crop.ErrNoSelection):
		s.redirect(w, r, PathTalent, "", "")
	default:
		s.log.Error(r.Context(), "crop failed", "error", err)
		s.redirect(w, r, PathTalent, flashError, session.ErrInvalidImage.Error())
	}
}

func (s *Server) handleCropCancel(w http.ResponseWriter, r *http.Request) {
	s.deps.Workflow.Cancel(r.Context())
	s.redirect(w, r, PathTalent, "", "")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Workflow.Upload(r.Context())
	if err != nil {
		s.log.Warn(r.Context(), "profile image upload failed", "error", err)
		s.redirect(w, r, PathTalent, flashError, session.Message(err))
		return
	}
	if res == nil {
		s.redirect(w, r, PathTalent, "", "")
		return
	}
	s.redirect(w, r, PathTalent, flashSuccess, msgProfileOK)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "profile", s.newView(w, r, "Profile"))
}

func parseRect(r *http.Request) (crop.Rect, error) {
	rect := crop.Rect{Unit: crop.Unit(r.PostForm.Get("unit"))}
	if rect.Unit != crop.Pixel {
		rect.Unit = crop.Percent
	}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"x", &rect.X},
		{"y", &rect.Y},
		{"width", &rect.Width},
		{"height", &rect.Height},
	}
	for _, f := range fields {
		raw := r.PostForm.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return crop.Rect{}, errors.New("Invalid crop " + f.name)
		}
		*f.dst = v
	}
	return rect, nil
}
