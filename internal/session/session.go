// Package session owns the binding between the local database and the
// shared history: which repository and branch it belongs to and the tick
// of the last event it has seen. The binding is persisted in the
// database-bound key-value node so it survives reopens and travels with
// file copies.
package session

import (
	"fmt"
	"strconv"

	"github.com/hotwinter/IDArl1ng/internal/host"
	"github.com/hotwinter/IDArl1ng/internal/storage"
	"github.com/hotwinter/IDArl1ng/pkg/logger"
	"github.com/hotwinter/IDArl1ng/wire"
)

// Netnode keys for the persisted identity.
const (
	keyRepo   = "repo"
	keyBranch = "branch"
	keyTick   = "tick"
)

// Dispatcher accepts session control commands for transmission.
type Dispatcher interface {
	SendCommand(cmd wire.Command)
}

// Hooks is the notification surface the manager turns on and off as the
// session moves in and out of the subscribed state.
type Hooks interface {
	Attach()
	Detach()
}

// Connector issues a connection request to a relay.
type Connector interface {
	Connect(host string, port int) error
}

// Manager tracks the (repo, branch, tick) binding and drives the
// subscribe/unsubscribe workflow. It runs on the host's notification
// thread; no locking.
//
// The manager is a three-state machine: unbound (no repo/branch),
// bound-unsubscribed (identity known, hooks off), and bound-subscribed
// (hooks on, one Subscribe sent). Ready and Closing move between them;
// Connected re-issues the subscription after a transient disconnect.
type Manager struct {
	node       host.Netnode
	dispatcher Dispatcher
	hooks      Hooks

	repo   string
	branch string
	tick   uint64

	subscribed bool

	launchPath string
	launch     storage.LaunchState
}

// NewManager returns a manager persisting identity into node and sending
// commands through dispatcher. launchPath locates the launch-state file.
func NewManager(node host.Netnode, dispatcher Dispatcher, hooks Hooks, launchPath string) *Manager {
	return &Manager{
		node:       node,
		dispatcher: dispatcher,
		hooks:      hooks,
		launchPath: launchPath,
	}
}

// Repo returns the bound repository name; empty when unbound.
func (m *Manager) Repo() string { return m.repo }

// Branch returns the bound branch name; empty when unbound.
func (m *Manager) Branch() string { return m.branch }

// Tick returns the last-known position in the shared history.
func (m *Manager) Tick() uint64 { return m.tick }

// Subscribed reports whether a Subscribe has been sent and hooks are on.
func (m *Manager) Subscribed() bool { return m.subscribed }

// Load reads the persisted identity from the database-bound node. Missing
// entries mean no prior session and load to the zero values.
func (m *Manager) Load() {
	m.repo, _ = m.node.Get(keyRepo)
	m.branch, _ = m.node.Get(keyBranch)
	m.tick = 0
	if raw, ok := m.node.Get(keyTick); ok {
		tick, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			logger.Warnf("ignoring malformed persisted tick %q: %v", raw, err)
		} else {
			m.tick = tick
		}
	}
	if m.repo != "" {
		logger.Debugf("loaded session %s/%s at tick %d", m.repo, m.branch, m.tick)
	}
}

// SetRepo binds the database to a repository and persists the identity.
func (m *Manager) SetRepo(repo string) error {
	m.repo = repo
	return m.save()
}

// SetBranch binds the database to a branch and persists the identity.
func (m *Manager) SetBranch(branch string) error {
	m.branch = branch
	return m.save()
}

// SetTick advances the last-known position and persists the identity.
func (m *Manager) SetTick(tick uint64) error {
	m.tick = tick
	return m.save()
}

// save writes the full identity to the node. Empty and zero fields are
// skipped, mirroring the zero defaults Load falls back to.
func (m *Manager) save() error {
	if m.repo != "" {
		if err := m.node.Set(keyRepo, m.repo); err != nil {
			return fmt.Errorf("persist repo: %w", err)
		}
	}
	if m.branch != "" {
		if err := m.node.Set(keyBranch, m.branch); err != nil {
			return fmt.Errorf("persist branch: %w", err)
		}
	}
	if m.tick != 0 {
		if err := m.node.Set(keyTick, strconv.FormatUint(m.tick, 10)); err != nil {
			return fmt.Errorf("persist tick: %w", err)
		}
	}
	return nil
}

// Join binds the database to a session explicitly, resetting the tick to
// the given starting position.
func (m *Manager) Join(repo, branch string, tick uint64) error {
	m.repo = repo
	m.branch = branch
	m.tick = tick
	if err := m.save(); err != nil {
		return err
	}
	m.subscribe()
	return nil
}

// Ready is called once the host signals it is ready to interact. When a
// repo/branch binding is present the manager subscribes and turns the
// hooks on; otherwise it stays bound-unsubscribed until an explicit Join.
func (m *Manager) Ready() {
	if m.subscribed || m.repo == "" || m.branch == "" {
		return
	}
	m.subscribe()
}

// Connected is called when the network layer (re)establishes a
// connection. A bound session re-issues its subscription so the relay can
// replay anything missed during the outage.
func (m *Manager) Connected() {
	if m.repo == "" || m.branch == "" {
		return
	}
	m.subscribe()
}

func (m *Manager) subscribe() {
	m.dispatcher.SendCommand(wire.SubscribeCommand{Repo: m.repo, Branch: m.branch, Tick: m.tick})
	m.hooks.Attach()
	m.subscribed = true
	logger.Infof("subscribed to %s/%s at tick %d", m.repo, m.branch, m.tick)
}

// Closing is called when the database is closing. A subscribed session
// unsubscribes and turns the hooks off; the in-memory identity is reset
// either way. The persisted identity is left untouched so the next open
// resumes where this one stopped.
func (m *Manager) Closing() {
	if m.subscribed {
		m.dispatcher.SendCommand(wire.UnsubscribeCommand{})
		m.hooks.Detach()
		m.subscribed = false
	}
	m.repo = ""
	m.branch = ""
	m.tick = 0
}

// Servers returns the known relay list from the launch state.
func (m *Manager) Servers() []storage.Server { return m.launch.Servers }

// SetServers replaces the known relay list and persists the launch state.
func (m *Manager) SetServers(servers []storage.Server) error {
	m.launch.Servers = servers
	return storage.SaveLaunchState(m.launchPath, m.launch)
}

// SaveLaunch records the teardown connection snapshot and persists the
// launch state. remove names a transient database copy whose sibling
// index files the next run should clean up; empty when none exists.
func (m *Manager) SaveLaunch(connected bool, host string, port int, remove string) error {
	m.launch.Connect = connected
	m.launch.Host = host
	m.launch.Port = port
	m.launch.Remove = remove
	return storage.SaveLaunchState(m.launchPath, m.launch)
}

// LoadLaunch reads the launch state written by the previous run and, when
// it recorded an active connection, resumes it: a connect request goes to
// the recorded relay and the stale sibling index files are deleted best
// effort. Connection failures are logged, not surfaced; the user can
// always reconnect by hand.
func (m *Manager) LoadLaunch(conn Connector) error {
	st, ok, err := storage.LoadLaunchState(m.launchPath)
	if err != nil {
		return err
	}
	m.launch = st
	if !ok || !st.Connect {
		return nil
	}

	logger.Infof("resuming connection to %s:%d", st.Host, st.Port)
	if err := conn.Connect(st.Host, st.Port); err != nil {
		logger.Warnf("resume connect to %s:%d failed: %v", st.Host, st.Port, err)
	}
	if st.Remove != "" {
		storage.RemoveSiblingIndexes(st.Remove)
	}
	return nil
}
