// Package relay implements the server side of the session protocol: the
// SQLite-backed event log, the socket.io live-session endpoint, the HTTP
// API for repositories, branches and database files, and a read-only
// websocket feed.
package relay

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hotwinter/IDArl1ng/wire"
)

// Store wraps the relay's SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore returns a store over an opened, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateRepo inserts a new repository row.
func (s *Store) CreateRepo(repo wire.Repository) (wire.Repository, error) {
	repo.CreatedAt = time.Now().UnixMilli()
	_, err := s.db.Exec(
		"INSERT INTO repos (name, hash, file, created_at) VALUES (?, ?, ?, ?)",
		repo.Name, repo.Hash, repo.File, repo.CreatedAt,
	)
	if err != nil {
		return wire.Repository{}, fmt.Errorf("create repo %s: %w", repo.Name, err)
	}
	return repo, nil
}

// GetRepo returns one repository by name. ok is false when it does not
// exist.
func (s *Store) GetRepo(name string) (wire.Repository, bool, error) {
	var repo wire.Repository
	err := s.db.QueryRow(
		"SELECT name, hash, file, created_at FROM repos WHERE name = ?", name,
	).Scan(&repo.Name, &repo.Hash, &repo.File, &repo.CreatedAt)
	if err == sql.ErrNoRows {
		return wire.Repository{}, false, nil
	}
	if err != nil {
		return wire.Repository{}, false, fmt.Errorf("get repo %s: %w", name, err)
	}
	return repo, true, nil
}

// ListRepos returns every repository, oldest first.
func (s *Store) ListRepos() ([]wire.Repository, error) {
	rows, err := s.db.Query("SELECT name, hash, file, created_at FROM repos ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("list repos: %w", err)
	}
	defer rows.Close()

	repos := []wire.Repository{}
	for rows.Next() {
		var repo wire.Repository
		if err := rows.Scan(&repo.Name, &repo.Hash, &repo.File, &repo.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan repo: %w", err)
		}
		repos = append(repos, repo)
	}
	return repos, rows.Err()
}

// CreateBranch inserts a new branch row, assigning it a UUID.
func (s *Store) CreateBranch(repo, name string) (wire.Branch, error) {
	branch := wire.Branch{
		Repo:      repo,
		Name:      name,
		UUID:      uuid.NewString(),
		CreatedAt: time.Now().UnixMilli(),
	}
	_, err := s.db.Exec(
		"INSERT INTO branches (repo, name, uuid, created_at) VALUES (?, ?, ?, ?)",
		branch.Repo, branch.Name, branch.UUID, branch.CreatedAt,
	)
	if err != nil {
		return wire.Branch{}, fmt.Errorf("create branch %s/%s: %w", repo, name, err)
	}
	return branch, nil
}

// GetBranch returns one branch. ok is false when it does not exist.
func (s *Store) GetBranch(repo, name string) (wire.Branch, bool, error) {
	var branch wire.Branch
	err := s.db.QueryRow(
		"SELECT repo, name, uuid, created_at FROM branches WHERE repo = ? AND name = ?",
		repo, name,
	).Scan(&branch.Repo, &branch.Name, &branch.UUID, &branch.CreatedAt)
	if err == sql.ErrNoRows {
		return wire.Branch{}, false, nil
	}
	if err != nil {
		return wire.Branch{}, false, fmt.Errorf("get branch %s/%s: %w", repo, name, err)
	}
	return branch, true, nil
}

// ListBranches returns a repository's branches, oldest first.
func (s *Store) ListBranches(repo string) ([]wire.Branch, error) {
	rows, err := s.db.Query(
		"SELECT repo, name, uuid, created_at FROM branches WHERE repo = ? ORDER BY created_at",
		repo,
	)
	if err != nil {
		return nil, fmt.Errorf("list branches of %s: %w", repo, err)
	}
	defer rows.Close()

	branches := []wire.Branch{}
	for rows.Next() {
		var branch wire.Branch
		if err := rows.Scan(&branch.Repo, &branch.Name, &branch.UUID, &branch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, branch)
	}
	return branches, rows.Err()
}

// LastTick returns the highest stored tick for a session; zero when the
// log is empty.
func (s *Store) LastTick(repo, branch string) (uint64, error) {
	var tick sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(tick) FROM events WHERE repo = ? AND branch = ?", repo, branch,
	).Scan(&tick)
	if err != nil {
		return 0, fmt.Errorf("last tick of %s/%s: %w", repo, branch, err)
	}
	if !tick.Valid {
		return 0, nil
	}
	return uint64(tick.Int64), nil
}

// IngestEvent appends an envelope to a session's log. Envelopes whose tick
// is not past the stored history are re-stamped to lastTick+1 first (the
// sender was de-synchronized); the returned envelope carries the tick the
// event was stored under.
func (s *Store) IngestEvent(repo, branch string, env wire.Envelope) (wire.Envelope, error) {
	last, err := s.LastTick(repo, branch)
	if err != nil {
		return wire.Envelope{}, err
	}
	if env.Tick <= last {
		env.Tick = last + 1
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return wire.Envelope{}, fmt.Errorf("encode event payload: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO events (repo, branch, tick, payload) VALUES (?, ?, ?, ?)",
		repo, branch, env.Tick, payload,
	)
	if err != nil {
		return wire.Envelope{}, fmt.Errorf("store event at tick %d: %w", env.Tick, err)
	}
	return env, nil
}

// EventsAfter returns every stored envelope with tick > after, in
// ascending tick order.
func (s *Store) EventsAfter(repo, branch string, after uint64) ([]wire.Envelope, error) {
	rows, err := s.db.Query(
		"SELECT payload FROM events WHERE repo = ? AND branch = ? AND tick > ? ORDER BY tick",
		repo, branch, after,
	)
	if err != nil {
		return nil, fmt.Errorf("events of %s/%s after %d: %w", repo, branch, after, err)
	}
	defer rows.Close()

	var envs []wire.Envelope
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var env wire.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil, fmt.Errorf("decode stored event: %w", err)
		}
		envs = append(envs, env)
	}
	return envs, rows.Err()
}
