// Package config loads agent and relay configuration from environment
// variables, with explicit overrides for flag plumbing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hotwinter/IDArl1ng/pkg/logger"
)

// Agent holds client-side configuration.
type Agent struct {
	// ServerHost is the default relay host.
	ServerHost string
	// ServerPort is the default relay port.
	ServerPort int
	// DataDir is where the launch state and temporary database copies live.
	DataDir string
	// LogLevel is the logging verbosity threshold.
	LogLevel logger.Level
}

// LaunchStatePath returns the path of the launch state file.
func (a *Agent) LaunchStatePath() string {
	return filepath.Join(a.DataDir, "state.json")
}

// AgentOverrides optionally overrides agent values from the environment.
//
// A nil pointer means "use the environment/default value".
type AgentOverrides struct {
	ServerHost *string
	ServerPort *int
	DataDir    *string
	LogLevel   *string
}

// LoadAgent loads agent configuration from environment variables and
// applies any explicit overrides.
func LoadAgent(overrides AgentOverrides) (*Agent, error) {
	host := os.Getenv("IDARL1NG_SERVER_HOST")
	if overrides.ServerHost != nil {
		host = *overrides.ServerHost
	}

	port := 31013
	if portStr := os.Getenv("IDARL1NG_SERVER_PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid IDARL1NG_SERVER_PORT %q: %w", portStr, err)
		}
		port = p
	}
	if overrides.ServerPort != nil {
		port = *overrides.ServerPort
	}

	dataDir := os.Getenv("IDARL1NG_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".idarl1ng")
	}
	if overrides.DataDir != nil {
		dataDir = *overrides.DataDir
	}

	levelStr := os.Getenv("IDARL1NG_LOG_LEVEL")
	if overrides.LogLevel != nil {
		levelStr = *overrides.LogLevel
	}
	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}

	return &Agent{
		ServerHost: host,
		ServerPort: port,
		DataDir:    dataDir,
		LogLevel:   level,
	}, nil
}

// Relay holds server-side configuration.
type Relay struct {
	// Addr is the listen address for the HTTP server.
	Addr string
	// DatabasePath locates the SQLite event log.
	DatabasePath string
	// FilesDir is where uploaded database files are stored.
	FilesDir string
	// Debug enables verbose logging and gin debug mode.
	Debug bool
	// AnnounceHost is the host advertised by discovery replies; empty
	// disables the discovery responder.
	AnnounceHost string
	// AnnouncePort is the port advertised by discovery replies.
	AnnouncePort int
}

// RelayOverrides optionally overrides relay values from the environment.
type RelayOverrides struct {
	Addr         *string
	DatabasePath *string
	FilesDir     *string
	Debug        *bool
	AnnounceHost *string
	AnnouncePort *int
}

// LoadRelay loads relay configuration from environment variables and
// applies any explicit overrides.
func LoadRelay(overrides RelayOverrides) (*Relay, error) {
	port := 31013
	if portStr := os.Getenv("IDARL1NG_PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid IDARL1NG_PORT %q: %w", portStr, err)
		}
		port = p
	}
	addr := fmt.Sprintf(":%d", port)
	if overrides.Addr != nil {
		addr = *overrides.Addr
	}

	dbPath := os.Getenv("IDARL1NG_DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./idarl1ng.db"
	}
	if overrides.DatabasePath != nil {
		dbPath = *overrides.DatabasePath
	}

	filesDir := os.Getenv("IDARL1NG_FILES_DIR")
	if filesDir == "" {
		filesDir = "./files"
	}
	if overrides.FilesDir != nil {
		filesDir = *overrides.FilesDir
	}

	debug := false
	if debugStr := os.Getenv("DEBUG"); debugStr == "true" || debugStr == "1" {
		debug = true
	}
	if overrides.Debug != nil {
		debug = *overrides.Debug
	}

	announceHost := os.Getenv("IDARL1NG_ANNOUNCE_HOST")
	if overrides.AnnounceHost != nil {
		announceHost = *overrides.AnnounceHost
	}
	announcePort := port
	if overrides.AnnouncePort != nil {
		announcePort = *overrides.AnnouncePort
	}

	return &Relay{
		Addr:         addr,
		DatabasePath: dbPath,
		FilesDir:     filesDir,
		Debug:        debug,
		AnnounceHost: announceHost,
		AnnouncePort: announcePort,
	}, nil
}
