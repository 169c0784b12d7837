package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/skillip/internal/filex"
	"github.com/google/uuid"
)

const (
	typeSuffix = ".type"

	// StaleAfter is how long a staged file may sit on disk. Older files
	// found when a store opens were left by a process that exited mid-crop.
	StaleAfter = time.Hour
)

// FileStore keeps objects as files in one directory and hands out
// /blobs/{id} URLs served by the web frontend. The content type of each
// object sits next to it in {id}.type, so any process sharing the
// directory can serve it.
type FileStore struct {
	dir     string
	urlBase string
}

// NewFileStore opens dir, creating it if needed, and removes objects older
// than StaleAfter.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	s := &FileStore{dir: abs, urlBase: "/blobs/"}
	if _, err := s.Sweep(time.Now().Add(-StaleAfter)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Put(ctx context.Context, name, contentType string, data []byte) (Object, error) {
	id := uuid.NewString()
	if err := os.WriteFile(s.path(id), data, 0o600); err != nil {
		return Object{}, fmt.Errorf("write blob %s: %w", id, err)
	}
	if err := os.WriteFile(s.path(id)+typeSuffix, []byte(contentType), 0o600); err != nil {
		_ = os.Remove(s.path(id))
		return Object{}, fmt.Errorf("write blob %s: %w", id, err)
	}

	return Object{ID: id, Name: name, ContentType: contentType, URL: s.urlBase + id, Size: len(data)}, nil
}

func (s *FileStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	if !validID(id) {
		return nil, "", ErrNotFound
	}
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("read blob %s: %w", id, err)
	}

	ct, err := os.ReadFile(s.path(id) + typeSuffix)
	if err == nil && len(ct) > 0 {
		return data, string(ct), nil
	}
	// no sidecar: every staged object is an image
	sniffed, serr := filex.SniffImage(data)
	if serr != nil {
		sniffed = "application/octet-stream"
	}
	return data, sniffed, nil
}

func (s *FileStore) Revoke(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove blob %s: %w", id, err)
	}
	if err := os.Remove(s.path(id) + typeSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob %s: %w", id, err)
	}
	return nil
}

// Sweep removes objects last written before cutoff and returns how many
// files it deleted. Files that are not blobs are left alone.
func (s *FileStore) Sweep(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("list blobs: %w", err)
	}

	var removed int
	for _, e := range entries {
		if !e.Type().IsRegular() || !validID(strings.TrimSuffix(e.Name(), typeSuffix)) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove stale blob %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
