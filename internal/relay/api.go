package relay

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hotwinter/IDArl1ng/pkg/logger"
	"github.com/hotwinter/IDArl1ng/wire"
)

// API serves the repository and branch management endpoints plus database
// file upload/download.
type API struct {
	store    *Store
	filesDir string
}

// NewAPI returns the HTTP API over store, storing uploaded database files
// under filesDir.
func NewAPI(store *Store, filesDir string) *API {
	return &API{store: store, filesDir: filesDir}
}

// Router assembles the gin engine: the JSON API, the socket.io endpoint,
// and the read-only feed.
func Router(api *API, live *SocketServer, feed *FeedHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.GET("/repos", api.ListRepos)
		v1.POST("/repos", api.CreateRepo)
		v1.GET("/repos/:repo/branches", api.ListBranches)
		v1.POST("/repos/:repo/branches", api.CreateBranch)
		v1.PUT("/repos/:repo/branches/:branch/file", api.UploadFile)
		v1.GET("/repos/:repo/branches/:branch/file", api.DownloadFile)
		v1.GET("/feed", feed.Serve)
	}

	router.Any("/socket.io/*any", live.Handler())

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debugf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}

// ListRepos handles GET /v1/repos.
func (a *API) ListRepos(c *gin.Context) {
	repos, err := a.store.ListRepos()
	if err != nil {
		logger.Errorf("list repos: %v", err)
		c.JSON(http.StatusInternalServerError, wire.ErrorResponse{Error: "failed to list repositories"})
		return
	}
	c.JSON(http.StatusOK, wire.RepoListResponse{Repos: repos})
}

// CreateRepo handles POST /v1/repos.
func (a *API) CreateRepo(c *gin.Context) {
	var req wire.CreateRepoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, wire.ErrorResponse{Error: "repository name is required"})
		return
	}
	_, exists, err := a.store.GetRepo(req.Name)
	if err != nil {
		logger.Errorf("create repo: %v", err)
		c.JSON(http.StatusInternalServerError, wire.ErrorResponse{Error: "failed to create repository"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, wire.ErrorResponse{Error: "repository already exists"})
		return
	}

	repo, err := a.store.CreateRepo(wire.Repository{Name: req.Name, Hash: req.Hash, File: req.File})
	if err != nil {
		logger.Errorf("create repo: %v", err)
		c.JSON(http.StatusInternalServerError, wire.ErrorResponse{Error: "failed to create repository"})
		return
	}
	c.JSON(http.StatusCreated, repo)
}

// ListBranches handles GET /v1/repos/:repo/branches.
func (a *API) ListBranches(c *gin.Context) {
	repo := c.Param("repo")
	if _, ok, err := a.store.GetRepo(repo); err != nil || !ok {
		c.JSON(http.StatusNotFound, wire.ErrorResponse{Error: "repository not found"})
		return
	}

	branches, err := a.store.ListBranches(repo)
	if err != nil {
		logger.Errorf("list branches: %v", err)
		c.JSON(http.StatusInternalServerError, wire.ErrorResponse{Error: "failed to list branches"})
		return
	}
	c.JSON(http.StatusOK, wire.BranchListResponse{Branches: branches})
}

// CreateBranch handles POST /v1/repos/:repo/branches.
func (a *API) CreateBranch(c *gin.Context) {
	repo := c.Param("repo")
	if _, ok, err := a.store.GetRepo(repo); err != nil || !ok {
		c.JSON(http.StatusNotFound, wire.ErrorResponse{Error: "repository not found"})
		return
	}

	var req wire.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, wire.ErrorResponse{Error: "branch name is required"})
		return
	}
	_, exists, err := a.store.GetBranch(repo, req.Name)
	if err != nil {
		logger.Errorf("create branch: %v", err)
		c.JSON(http.StatusInternalServerError, wire.ErrorResponse{Error: "failed to create branch"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, wire.ErrorResponse{Error: "branch already exists"})
		return
	}

	branch, err := a.store.CreateBranch(repo, req.Name)
	if err != nil {
		logger.Errorf("create branch: %v", err)
		c.JSON(http.StatusInternalServerError, wire.ErrorResponse{Error: "failed to create branch"})
		return
	}
	c.JSON(http.StatusCreated, branch)
}

// UploadFile handles PUT /v1/repos/:repo/branches/:branch/file. The body
// is the raw database payload, streamed to disk and renamed into place so
// concurrent downloads never see a half-written file.
func (a *API) UploadFile(c *gin.Context) {
	repo, branch := c.Param("repo"), c.Param("branch")
	if _, ok, err := a.store.GetBranch(repo, branch); err != nil || !ok {
		c.JSON(http.StatusNotFound, wire.ErrorResponse{Error: "branch not found"})
		return
	}

	path := a.branchFilePath(repo, branch)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		logger.Errorf("upload file: %v", err)
		c.JSON(http.StatusInternalServerError, wire.ErrorResponse{Error: "failed to store file"})
		return
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		logger.Errorf("upload file: %v", err)
		c.JSON(http.StatusInternalServerError, wire.ErrorResponse{Error: "failed to store file"})
		return
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, c.Request.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		logger.Errorf("upload file: %v", err)
		c.JSON(http.StatusInternalServerError, wire.ErrorResponse{Error: "failed to store file"})
		return
	}

	logger.Infof("stored database for %s/%s (%d bytes)", repo, branch, written)
	c.JSON(http.StatusOK, gin.H{"size": written})
}

// DownloadFile handles GET /v1/repos/:repo/branches/:branch/file.
func (a *API) DownloadFile(c *gin.Context) {
	repo, branch := c.Param("repo"), c.Param("branch")
	if _, ok, err := a.store.GetBranch(repo, branch); err != nil || !ok {
		c.JSON(http.StatusNotFound, wire.ErrorResponse{Error: "branch not found"})
		return
	}

	path := a.branchFilePath(repo, branch)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, wire.ErrorResponse{Error: "no database uploaded for this branch"})
		return
	}
	c.FileAttachment(path, fmt.Sprintf("%s_%s.bin", repo, branch))
}

// branchFilePath maps a session to its database file, flattening the
// names so they cannot escape filesDir.
func (a *API) branchFilePath(repo, branch string) string {
	sanitize := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch r {
			case '/', '\\', '.':
				return '_'
			}
			return r
		}, s)
	}
	return filepath.Join(a.filesDir, sanitize(repo)+"_"+sanitize(branch)+".bin")
}
