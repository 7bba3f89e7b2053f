// Package storage persists the small launch state document that lets the
// agent resume a session across plugin restarts.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Server is one known relay endpoint. It marshals as a [host, port] pair,
// the layout established by earlier clients of the launch-state file.
type Server struct {
	Host string
	Port int
}

// MarshalJSON implements json.Marshaler.
func (s Server) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Host, s.Port})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Server) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("server pair has %d elements, want 2", len(pair))
	}
	host, ok := pair[0].(string)
	if !ok {
		return fmt.Errorf("server host is %T, want string", pair[0])
	}
	port, ok := pair[1].(float64)
	if !ok {
		return fmt.Errorf("server port is %T, want number", pair[1])
	}
	s.Host = host
	s.Port = int(port)
	return nil
}

// LaunchState is written on teardown and read once at the next startup.
// Connect records whether a connection was active so the next run can
// resume it; Remove points at a transient database copy whose sibling
// index files should be cleaned up.
type LaunchState struct {
	// Servers is the ordered list of known relays.
	Servers []Server `json:"servers"`
	// Connect is true when a connection was active at teardown.
	Connect bool `json:"connect"`
	// Host is the connected relay host; only meaningful when Connect is set.
	Host string `json:"host,omitempty"`
	// Port is the connected relay port; only meaningful when Connect is set.
	Port int `json:"port,omitempty"`
	// Remove is the path of a transient database copy whose sibling index
	// files should be deleted on resume.
	Remove string `json:"remove,omitempty"`
}

// LoadLaunchState reads the launch state file. ok is false when no file
// exists, which is not an error.
func LoadLaunchState(path string) (st LaunchState, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LaunchState{}, false, nil
		}
		return LaunchState{}, false, fmt.Errorf("read launch state: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return LaunchState{}, false, fmt.Errorf("parse launch state: %w", err)
	}
	return st, true, nil
}

// SaveLaunchState writes the launch state file atomically.
func SaveLaunchState(path string, st LaunchState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create launch state dir: %w", err)
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode launch state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write launch state: %w", err)
	}
	return os.Rename(tmp, path)
}

// siblingExts are the index files the host keeps next to a database copy.
var siblingExts = []string{".id0", ".id1", ".nam", ".til", ".seg"}

// RemoveSiblingIndexes deletes the index files sharing the stem of path.
// Deletion is best effort: files that are missing or locked are skipped.
func RemoveSiblingIndexes(path string) {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range siblingExts {
		os.Remove(stem + ext)
	}
}
