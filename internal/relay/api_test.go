package relay

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hotwinter/IDArl1ng/internal/database"
	"github.com/hotwinter/IDArl1ng/wire"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newTestStore(t)
	hub := NewFeedHub()
	api := NewAPI(store, t.TempDir())
	return Router(api, NewSocketServer(store, hub), NewFeedHandler(store, hub))
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRepoLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/repos",
		wire.CreateRepoRequest{Name: "sample", Hash: "abcd", File: "sample.exe"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate names conflict.
	rec = doJSON(t, router, http.MethodPost, "/v1/repos", wire.CreateRepoRequest{Name: "sample"})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Missing name is a bad request.
	rec = doJSON(t, router, http.MethodPost, "/v1/repos", wire.CreateRepoRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/repos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list wire.RepoListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Repos, 1)
	require.Equal(t, "sample", list.Repos[0].Name)
}

func TestBranchLifecycle(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/v1/repos", wire.CreateRepoRequest{Name: "sample"})

	rec := doJSON(t, router, http.MethodPost, "/v1/repos/sample/branches",
		wire.CreateBranchRequest{Name: "main"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var branch wire.Branch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &branch))
	require.NotEmpty(t, branch.UUID)

	// Unknown repository.
	rec = doJSON(t, router, http.MethodPost, "/v1/repos/missing/branches",
		wire.CreateBranchRequest{Name: "main"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/repos/sample/branches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list wire.BranchListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Branches, 1)
}

func TestCreateSurfacesLookupFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "relay.db"))
	require.NoError(t, err)
	store := NewStore(db.DB)
	hub := NewFeedHub()
	router := Router(NewAPI(store, t.TempDir()), NewSocketServer(store, hub), NewFeedHandler(store, hub))

	// A broken store must surface as a server error on the duplicate
	// check, not fall through to the insert.
	require.NoError(t, db.Close())

	rec := doJSON(t, router, http.MethodPost, "/v1/repos", wire.CreateRepoRequest{Name: "sample"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFileUploadDownload(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/v1/repos", wire.CreateRepoRequest{Name: "sample"})
	doJSON(t, router, http.MethodPost, "/v1/repos/sample/branches", wire.CreateBranchRequest{Name: "main"})

	payload := []byte("pretend this is a database")
	req := httptest.NewRequest(http.MethodPut, "/v1/repos/sample/branches/main/file", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/repos/sample/branches/main/file", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, payload, rec.Body.Bytes())

	// No upload yet for another branch.
	doJSON(t, router, http.MethodPost, "/v1/repos/sample/branches", wire.CreateBranchRequest{Name: "dev"})
	rec = doJSON(t, router, http.MethodGet, "/v1/repos/sample/branches/dev/file", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedHubPublishSubscribe(t *testing.T) {
	hub := NewFeedHub()

	ch := hub.subscribe("sample", "main")
	defer hub.unsubscribe("sample", "main", ch)

	env, err := wire.NewEnvelope(wire.UndefinedEvent{EA: 0x1}, 4)
	require.NoError(t, err)

	// Other sessions never leak into this subscription.
	hub.Publish("sample", "dev", env)
	hub.Publish("sample", "main", env)

	select {
	case got := <-ch:
		require.Equal(t, uint64(4), got.Tick)
	default:
		t.Fatal("expected a published envelope")
	}
	require.Empty(t, ch)
}
