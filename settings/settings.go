// Package settings persists per-user session state between editor runs.
package settings

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	AppName = "rig_editor"

	sessionObject   = "session"
	sessionProperty = "current"

	// MaxRecent bounds the recent file list.
	MaxRecent = 8
)

// Session is what the editor restores on start.
type Session struct {
	Recent     []string `yaml:"recent"`
	Zoom       float64  `yaml:"zoom"`
	PanX       float64  `yaml:"pan_x"`
	PanY       float64  `yaml:"pan_y"`
	Loop       bool     `yaml:"loop"`
	LastScript string   `yaml:"last_script"`
}

func DefaultSession() *Session {
	return &Session{Zoom: 1, Loop: true}
}

// Store loads and saves the session. A nil manager keeps the session in
// memory only.
type Store struct {
	manager *gdata.Manager
	session *Session
}

// Open opens the platform data directory for AppName. Failure is not fatal:
// the returned store works in memory.
func Open() *Store {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("settings: storage unavailable: %v (session will not persist)", err)
		m = nil
	}
	return NewStore(m)
}

func NewStore(m *gdata.Manager) *Store {
	s := &Store{manager: m, session: DefaultSession()}
	if err := s.Load(); err != nil {
		log.Printf("settings: warning: %v (using defaults)", err)
	}
	return s
}

func (s *Store) Load() error {
	if s.manager == nil {
		s.session = DefaultSession()
		return nil
	}
	if !s.manager.ObjectPropExists(sessionObject, sessionProperty) {
		s.session = DefaultSession()
		return nil
	}
	data, err := s.manager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		s.session = DefaultSession()
		return fmt.Errorf("settings: load session: %w", err)
	}
	loaded := DefaultSession()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		s.session = DefaultSession()
		return fmt.Errorf("settings: unmarshal session: %w", err)
	}
	if loaded.Zoom <= 0 {
		loaded.Zoom = 1
	}
	s.session = loaded
	return nil
}

func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.session)
	if err != nil {
		return fmt.Errorf("settings: marshal session: %w", err)
	}
	if err := s.manager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("settings: save session: %w", err)
	}
	return nil
}

// Persistent reports whether Save writes to disk.
func (s *Store) Persistent() bool {
	return s.manager != nil
}

func (s *Store) Session() *Session {
	return s.session
}

// Touch moves path to the front of the recent list.
func (s *Store) Touch(path string) {
	if path == "" {
		return
	}
	recent := []string{path}
	for _, p := range s.session.Recent {
		if p != path && len(recent) < MaxRecent {
			recent = append(recent, p)
		}
	}
	s.session.Recent = recent
}

func (s *Store) SetView(zoom, panX, panY float64) {
	if zoom > 0 {
		s.session.Zoom = zoom
	}
	s.session.PanX, s.session.PanY = panX, panY
}
