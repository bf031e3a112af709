// Package session remembers where the cursor was in each file so a file
// reopens at the same place.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// MaxPlaces bounds the number of files remembered; the oldest are dropped.
const MaxPlaces = 500

// FileState stores the state of a single file
type FileState struct {
	Offset int       `json:"offset"`
	Seen   time.Time `json:"seen"`
}

// Session is the persisted form of the store.
type Session struct {
	Files     map[string]FileState `json:"files"`
	LastSaved time.Time            `json:"last_saved"`
}

// Manager keeps places in memory and writes them out on Save. It is used
// from the editor loop only and is not safe for concurrent use.
type Manager struct {
	session Session
	path    string
	dirty   bool
	now     func() time.Time
}

// NewManager loads the places file from the state directory.
func NewManager() (*Manager, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	return Open(path), nil
}

// Open loads the places file at path. A missing or unreadable file starts
// an empty session.
func Open(path string) *Manager {
	m := &Manager{
		session: Session{Files: make(map[string]FileState)},
		path:    path,
		now:     time.Now,
	}
	m.load()
	return m
}

func sessionPath() (string, error) {
	// XDG state directory
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "qmacs", "places.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return
	}
	if session.Files == nil {
		session.Files = make(map[string]FileState)
	}
	m.session = session
}

// Path is the file the session is stored in.
func (m *Manager) Path() string { return m.path }

// Place returns the remembered cursor offset for path.
func (m *Manager) Place(path string) (int, bool) {
	state, ok := m.session.Files[key(path)]
	return state.Offset, ok
}

// SetPlace records the cursor offset for path.
func (m *Manager) SetPlace(path string, offset int) {
	if path == "" {
		return
	}
	m.session.Files[key(path)] = FileState{Offset: max(offset, 0), Seen: m.now()}
	m.dirty = true
}

// Save persists the session to disk
func (m *Manager) Save() error {
	if !m.dirty {
		return nil
	}
	m.trim()
	m.session.LastSaved = m.now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

// trim drops the least recently seen files above MaxPlaces.
func (m *Manager) trim() {
	if len(m.session.Files) <= MaxPlaces {
		return
	}
	paths := make([]string, 0, len(m.session.Files))
	for p := range m.session.Files {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		return m.session.Files[paths[i]].Seen.After(m.session.Files[paths[j]].Seen)
	})
	for _, p := range paths[MaxPlaces:] {
		delete(m.session.Files, p)
	}
}

func key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
