package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session is the locally persisted client state. Pincode is the last postal
// code searched and survives logout.
type Session struct {
	AccessToken  string    `json:"accessToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Email        string    `json:"email,omitempty"`
	Name         string    `json:"name,omitempty"`
	Pincode      string    `json:"pincode,omitempty"`
}

// LoggedIn reports whether the session holds an access token valid at now.
func (s Session) LoggedIn(now time.Time) bool {
	return s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// SessionStore keeps a Session in a JSON file.
type SessionStore struct {
	path string
	mu   sync.Mutex
}

// NewSessionStore stores the session at path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionPath is the session file under the user's config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "service-directory", "session.json"), nil
}

// Load returns the stored session. A missing file is an empty session.
func (s *SessionStore) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SaveLogin stores the credential fields of session and keeps the cached
// postal code.
func (s *SessionStore) SaveLogin(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	session.Pincode = current.Pincode
	return s.save(session)
}

// ClearLogin drops the credentials and keeps the cached postal code.
func (s *SessionStore) ClearLogin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	return s.save(Session{Pincode: current.Pincode})
}

// SetPincode caches the last postal code used.
func (s *SessionStore) SetPincode(pincode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	current.Pincode = pincode
	return s.save(current)
}

func (s *SessionStore) load() (Session, error) {
	var session Session
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return session, nil
	}
	if err != nil {
		return session, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

// save writes through a temp file so a crash never leaves a torn session.
func (s *SessionStore) save(session Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
