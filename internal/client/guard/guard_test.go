package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/skillip/internal/client/migrations"
	"github.com/dmitrijs2005/skillip/internal/client/models"
	"github.com/dmitrijs2005/skillip/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/skillip/internal/client/session"
	"github.com/dmitrijs2005/skillip/internal/dbx"
	"github.com/dmitrijs2005/skillip/internal/logging"
	"github.com/stretchr/testify/require"
)

type stubClient struct{}

func (stubClient) Ping(context.Context) error { return nil }
func (stubClient) Login(_ context.Context, c models.Credentials) (*models.User, error) {
	return &models.User{Email: c.Email}, nil
}
func (stubClient) Register(_ context.Context, c models.Credentials) (*models.User, error) {
	return &models.User{Email: c.Email}, nil
}
func (stubClient) UploadProfileImage(context.Context, string, string, *models.Upload) (*models.UploadResult, error) {
	return &models.UploadResult{}, nil
}

func newStore(t *testing.T) *session.Store {
	t.Helper()
	db, err := dbx.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "guard.db"), migrations.FS)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := session.NewStore(localstore.NewSQLiteRepository(db), stubClient{}, logging.Nop{}, session.Options{})
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestEvaluate(t *testing.T) {
	require.Equal(t, Unauthenticated, Evaluate(session.Session{}))
	require.Equal(t, Unauthenticated, Evaluate(session.Session{Authenticated: true}))
	require.Equal(t, Authenticated, Evaluate(session.Session{Authenticated: true, User: models.Some(models.User{Email: "a@b.co"})}))
	require.Equal(t, "authenticated", Authenticated.String())
	require.Equal(t, "unauthenticated", Unauthenticated.String())
}

func serve(store *session.Store) (*httptest.ResponseRecorder, *bool) {
	ran := false
	h := Require("/signin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	if store != nil {
		req = req.WithContext(session.NewContext(req.Context(), store))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, &ran
}

func TestRequire_RedirectsWhenSignedOut(t *testing.T) {
	rec, ran := serve(newStore(t))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/signin", rec.Header().Get("Location"))
	require.False(t, *ran)
}

func TestRequire_RedirectsWithoutStore(t *testing.T) {
	rec, ran := serve(nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.False(t, *ran)
}

func TestRequire_PassesWhenSignedIn(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Login(context.Background(), models.Credentials{Email: "a@b.co", Password: "pw"}))

	rec, ran := serve(store)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, *ran)

	require.NoError(t, store.Logout(context.Background()))
	rec, ran = serve(store)
	require.Equal(t, http.StatusFound, rec.Code)
	require.False(t, *ran)
}
