// Package prefs persists viewer preferences and the uploaded photo list
// between sessions.
package prefs

import (
	"fmt"
	"log/slog"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName is the gdata application directory.
const AppName = "ornament"

const (
	prefsObject   = "prefs"
	prefsProperty = "viewer"
)

// Prefs is the persisted application state. None of it affects the
// animation itself.
type Prefs struct {
	// CameraEnabled records whether hand tracking was switched on.
	CameraEnabled bool `yaml:"cameraEnabled"`
	// UserPhotos are uploaded photo URLs, newest first.
	UserPhotos []string `yaml:"userPhotos,omitempty"`
	ShowHUD    bool     `yaml:"showHUD"`
}

// Defaults returns the preferences of a fresh install.
func Defaults() Prefs {
	return Prefs{ShowHUD: true}
}

// Store loads and saves Prefs through gdata. A Store with a nil manager
// runs in degraded mode: preferences live in memory only.
type Store struct {
	manager *gdata.Manager
	prefs   Prefs
	log     *slog.Logger
}

// Open creates a gdata manager for AppName and loads saved preferences. If
// the platform storage cannot be opened the store degrades to memory only.
func Open(log *slog.Logger) *Store {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Warn("prefs storage unavailable, using memory only", "error", err)
		m = nil
	}
	return New(m, log)
}

// New wraps m, which may be nil, and loads saved preferences. Load errors
// are logged and leave the defaults in place.
func New(m *gdata.Manager, log *slog.Logger) *Store {
	s := &Store{manager: m, prefs: Defaults(), log: log}
	if err := s.Load(); err != nil {
		log.Warn("failed to load prefs, using defaults", "error", err)
	}
	return s
}

// Load replaces the in-memory preferences with the saved ones. Missing data
// yields the defaults.
func (s *Store) Load() error {
	if s.manager == nil || !s.manager.ObjectPropExists(prefsObject, prefsProperty) {
		s.prefs = Defaults()
		return nil
	}
	data, err := s.manager.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		s.prefs = Defaults()
		return fmt.Errorf("failed to load prefs: %w", err)
	}
	loaded := Defaults()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		s.prefs = Defaults()
		return fmt.Errorf("failed to unmarshal prefs: %w", err)
	}
	s.prefs = loaded
	s.log.Debug("prefs loaded", "photos", len(loaded.UserPhotos))
	return nil
}

// Save writes the in-memory preferences. It is a no-op in degraded mode.
func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	if err := s.manager.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("failed to save prefs: %w", err)
	}
	return nil
}

// Persistent reports whether preferences survive a restart.
func (s *Store) Persistent() bool { return s.manager != nil }

// Prefs returns a copy of the current preferences.
func (s *Store) Prefs() Prefs {
	p := s.prefs
	p.UserPhotos = append([]string(nil), s.prefs.UserPhotos...)
	return p
}

// SetCameraEnabled updates the camera preference in memory; call Save to
// persist it.
func (s *Store) SetCameraEnabled(enabled bool) {
	s.prefs.CameraEnabled = enabled
}

// SetShowHUD updates the HUD preference in memory.
func (s *Store) SetShowHUD(show bool) {
	s.prefs.ShowHUD = show
}

// SetUserPhotos replaces the saved photo list in memory.
func (s *Store) SetUserPhotos(urls []string) {
	s.prefs.UserPhotos = append([]string(nil), urls...)
}
