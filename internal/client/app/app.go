// Package app builds the object graph shared by the web server and the
// shell: one local database, one session store, one crop workflow.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/skillip/internal/client/blob"
	"github.com/dmitrijs2005/skillip/internal/client/client"
	"github.com/dmitrijs2005/skillip/internal/client/config"
	"github.com/dmitrijs2005/skillip/internal/client/crop"
	"github.com/dmitrijs2005/skillip/internal/client/migrations"
	"github.com/dmitrijs2005/skillip/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/skillip/internal/client/session"
	"github.com/dmitrijs2005/skillip/internal/client/talent"
	"github.com/dmitrijs2005/skillip/internal/client/web"
	"github.com/dmitrijs2005/skillip/internal/dbx"
	"github.com/dmitrijs2005/skillip/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Config   *config.Config
	Log      logging.Logger
	Store    *session.Store
	Blobs    blob.Store
	Workflow *crop.Workflow
	Drafts   *talent.Drafts

	db *sql.DB
}

// New opens local storage, restores the persisted session and wires the
// components together. Close releases the database.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop{}
	}

	db, err := dbx.OpenSQLite(ctx, cfg.DBPath, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	repo := localstore.NewSQLiteRepository(db)
	api := client.NewHTTPClient(cfg.APIURL, nil)

	var secret []byte
	if cfg.StorageSecret != "" {
		secret = []byte(cfg.StorageSecret)
	}

	store := session.NewStore(repo, api, log, session.Options{
		Key:           cfg.SessionKey,
		APIURL:        cfg.APIURL,
		UploadTimeout: cfg.UploadTimeout,
		Secret:        secret,
	})

	workflow := crop.NewWorkflow(blobs, store, log, crop.Options{
		MaxSide:   cfg.CropMaxSide,
		Quality:   cfg.CropQuality,
		MaxPixels: cfg.CropMaxPixels,
	})
	drafts := talent.NewDrafts(repo)

	store.OnLogout(drafts.Clear)
	store.OnLogout(workflow.Reset)

	if err := store.Load(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session restore error: %w", err)
	}

	return &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Blobs:    blobs,
		Workflow: workflow,
		Drafts:   drafts,
		db:       db,
	}, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.BlobStore {
	case config.BlobStoreS3:
		c, err := blob.NewS3Client(ctx, blob.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			URLTTL:       cfg.S3URLTTL,
		})
		if err != nil {
			return nil, err
		}
		return blob.NewS3Store(c, cfg.S3Bucket, cfg.S3URLTTL), nil
	default:
		return blob.NewFileStore(cfg.BlobDir)
	}
}

// Handler builds the web front-end over the shared components.
func (a *App) Handler() (http.Handler, error) {
	srv, err := web.New(web.Deps{
		Store:          a.Store,
		Workflow:       a.Workflow,
		Blobs:          a.Blobs,
		Drafts:         a.Drafts,
		Log:            a.Log,
		MaxUploadBytes: a.Config.MaxUploadBytes,
		CORSOrigins:    a.Config.CORSOrigins,
	})
	if err != nil {
		return nil, err
	}
	return srv.Routes(), nil
}

// Serve runs the web front-end on ln until ctx is cancelled, then shuts
// it down gracefully.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	h, err := a.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.Log.Info(ctx, "skillip web interface available", "addr", ln.Addr().String(), "url", "http://"+ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		a.Log.Info(context.Background(), "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.Log.Error(shutdownCtx, "server shutdown failed", "error", err)
			return err
		}
		a.Log.Info(shutdownCtx, "server stopped")
		return nil
	case err, ok := <-serverErr:
		if !ok {
			return nil
		}
		return err
	}
}

// ListenAndServe listens on the configured address and calls Serve.
func (a *App) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.ListenAddr, err)
	}
	return a.Serve(ctx, ln)
}

func (a *App) Close() error {
	return a.db.Close()
}
