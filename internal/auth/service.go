// Package auth provides optional API-key authentication for the
// daemon. With no key file present the API is open, which is the normal
// deployment on a trusted management network.
package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const keyFileName = "apikey"

// Service holds the configured API key, hot-reloaded when the key file
// changes.
type Service struct {
	mu        sync.RWMutex
	configDir string
	key       string
	watcher   *fsnotify.Watcher
}

// NewService creates an auth service watching the given config
// directory for its key file.
func NewService(configDir string) (*Service, error) {
	s := &Service{configDir: configDir}

	if err := s.Reload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Watch for changes
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("auth: could not create fsnotify watcher", "err", err)
		return s, nil
	}
	s.watcher = watcher

	keyPath := s.keyPath()
	if err := watcher.Add(configDir); err != nil {
		slog.Warn("auth: could not watch config directory", "err", err)
		watcher.Close()
		s.watcher = nil
		return s, nil
	}

	go s.watchLoop(keyPath)
	return s, nil
}

func (s *Service) keyPath() string {
	return filepath.Join(s.configDir, keyFileName)
}

// Reload re-reads the key file. A missing file clears the key and
// reopens the API.
func (s *Service) Reload() error {
	data, err := os.ReadFile(s.keyPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.mu.Lock()
			s.key = ""
			s.mu.Unlock()
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.key = strings.TrimSpace(string(data))
	s.mu.Unlock()
	slog.Debug("auth: reloaded api key")
	return nil
}

// IsOpenMode returns true when no key is configured and all requests
// are allowed.
func (s *Service) IsOpenMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key == ""
}

// VerifyKey returns true if the given key matches the configured one.
// Uses constant-time comparison to prevent timing attacks.
func (s *Service) VerifyKey(key string) bool {
	if key == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.key)) == 1
}

// Close stops the file watcher.
func (s *Service) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}

func (s *Service) watchLoop(keyPath string) {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name == keyPath && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove)) {
				if err := s.Reload(); err != nil {
					slog.Warn("auth: failed to reload key", "err", err)
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("auth: watcher error", "err", err)
		}
	}
}
