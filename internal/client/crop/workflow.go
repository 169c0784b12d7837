// Package crop turns a user-selected picture into the square JPEG that is
// uploaded as a profile image.
//
// A Workflow walks through select, adjust, confirm and upload. The bytes of
// the selected file are staged in a blob.Store for preview; that staged
// object is revoked exactly once, when the selection is confirmed,
// cancelled or replaced.
package crop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/skillip/internal/client/blob"
	"github.com/dmitrijs2005/skillip/internal/client/models"
	"github.com/dmitrijs2005/skillip/internal/filex"
	"github.com/dmitrijs2005/skillip/internal/logging"
)

const (
	CroppedName        = "cropped-image.jpg"
	CroppedContentType = "image/jpeg"
)

var (
	ErrNoSelection   = errors.New("no image selected")
	ErrImageTooLarge = errors.New("image is too large")
)

// Uploader receives the confirmed crop.
type Uploader interface {
	UpdateProfileImage(ctx context.Context, upload *models.Upload) (*models.UploadResult, error)
}

// Selection is a picked file waiting to be cropped.
type Selection struct {
	Source blob.Object
	Rect   Rect
	Width  int
	Height int
}

type Options struct {
	MaxSide int
	Quality int
	// MaxPixels caps width*height of a selected image, since decoding
	// allocates for every pixel regardless of the file size.
	MaxPixels int
}

type Workflow struct {
	blobs    blob.Store
	uploader Uploader
	log      logging.Logger
	opts     Options

	mu        sync.Mutex
	selection *Selection
	pending   *models.Upload
}

func NewWorkflow(blobs blob.Store, uploader Uploader, log logging.Logger, opts Options) *Workflow {
	if opts.MaxSide == 0 {
		opts.MaxSide = DefaultMaxSide
	}
	if opts.Quality <= 0 {
		opts.Quality = DefaultQuality
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &Workflow{blobs: blobs, uploader: uploader, log: log.With("component", "crop"), opts: opts}
}

// Select stages the file read from r and starts a new crop with the
// default rectangle. An empty file is ignored and returns (nil, nil).
func (w *Workflow) Select(ctx context.Context, filename string, r io.Reader) (*Selection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	ct, err := filex.SniffImage(data)
	if err != nil {
		return nil, err
	}
	width, height, err := Dimensions(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", filex.ErrNotImage, err)
	}
	if int64(width)*int64(height) > int64(w.opts.MaxPixels) {
		w.log.Warn(ctx, "image rejected", "name", filename, "width", width, "height", height)
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, width, height)
	}

	w.mu.Lock()
	prev := w.selection
	w.selection = nil
	w.mu.Unlock()
	w.revoke(ctx, prev)

	obj, err := w.blobs.Put(ctx, filename, ct, data)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", filename, err)
	}

	sel := &Selection{Source: obj, Rect: DefaultRect(), Width: width, Height: height}

	w.mu.Lock()
	stale := w.selection
	w.selection = sel
	w.mu.Unlock()
	w.revoke(ctx, stale)

	w.log.Debug(ctx, "image selected", "name", filename, "type", ct, "width", width, "height", height)
	out := *sel
	return &out, nil
}

// Selection returns the active selection, if any.
func (w *Workflow) Selection() (Selection, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selection == nil {
		return Selection{}, false
	}
	return *w.selection, true
}

// Adjust records the rectangle the user is working with.
func (w *Workflow) Adjust(r Rect) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selection == nil {
		return ErrNoSelection
	}
	w.selection.Rect = r
	return nil
}

// Confirm crops the selection to r and keeps the result as the pending
// upload. A rectangle with no area is rejected and leaves the selection in
// place; any other outcome ends the selection and revokes its source.
func (w *Workflow) Confirm(ctx context.Context, r Rect) (*models.Upload, error) {
	w.mu.Lock()
	sel := w.selection
	if sel == nil {
		w.mu.Unlock()
		return nil, ErrNoSelection
	}
	if _, err := Normalize(r, sel.Width, sel.Height); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.selection = nil
	w.mu.Unlock()

	defer w.revoke(ctx, sel)

	src, _, err := w.blobs.Get(ctx, sel.Source.ID)
	if err != nil {
		return nil, fmt.Errorf("load staged image: %w", err)
	}

	out, err := Rasterize(src, r, w.opts.MaxSide, w.opts.Quality)
	if err != nil {
		return nil, err
	}

	upload := &models.Upload{Name: CroppedName, ContentType: CroppedContentType, Data: out}

	w.mu.Lock()
	w.pending = upload
	w.mu.Unlock()

	w.log.Debug(ctx, "crop confirmed", "bytes", len(out))
	return upload, nil
}

// Cancel drops the selection. Calling it without one is a no-op.
func (w *Workflow) Cancel(ctx context.Context) {
	w.mu.Lock()
	sel := w.selection
	w.selection = nil
	w.mu.Unlock()
	w.revoke(ctx, sel)
}

// Pending returns the confirmed crop awaiting upload, or nil.
func (w *Workflow) Pending() *models.Upload {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

// Upload sends the pending crop. Without one it does nothing and returns
// (nil, nil). The pending crop is kept when the upload fails.
func (w *Workflow) Upload(ctx context.Context) (*models.UploadResult, error) {
	w.mu.Lock()
	p := w.pending
	w.mu.Unlock()

	if p == nil {
		return nil, nil
	}

	res, err := w.uploader.UpdateProfileImage(ctx, p)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.pending == p {
		w.pending = nil
	}
	w.mu.Unlock()
	return res, nil
}

// Reset cancels any selection and forgets the pending crop.
func (w *Workflow) Reset(ctx context.Context) error {
	w.Cancel(ctx)
	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()
	return nil
}

func (w *Workflow) revoke(ctx context.Context, sel *Selection) {
	if sel == nil {
		return
	}
	if err := w.blobs.Revoke(ctx, sel.Source.ID); err != nil {
		w.log.Warn(ctx, "failed to revoke staged image", "id", sel.Source.ID, "error", err)
	}
}
