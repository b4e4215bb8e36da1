package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"sales-tracker-scraper/internal/logger"
)

const (
	sessionFile = "linkedin-session.json"
	legacyFile  = "linkedin-cookies.json"
	mirrorDir   = "sessions"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// fileBlob is the on-disk session format.
type fileBlob struct {
	OwnerID   string     `json:"ownerId,omitempty"`
	Cookies   []Cookie   `json:"cookies"`
	UserAgent string     `json:"userAgent,omitempty"`
	Platform  string     `json:"platform,omitempty"`
	SavedAt   time.Time  `json:"savedAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// FileCache keeps sessions as JSON files under one directory:
// the shared session blob, the legacy cookies-only export, and one
// mirror file per owner.
type FileCache struct {
	mu     sync.Mutex
	dir    string
	logger logger.Logger
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string, log logger.Logger) *FileCache {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("Failed to create session cache directory", logger.String("dir", dir), logger.Err(err))
	}
	return &FileCache{dir: dir, logger: log}
}

// Save writes s to the owner's mirror file, or to the shared blob when s has no owner.
func (fc *FileCache) Save(s *Session) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	path := fc.path(s.OwnerID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(fileBlob{
		OwnerID:   s.OwnerID,
		Cookies:   s.Cookies,
		UserAgent: s.UserAgent,
		Platform:  s.Platform,
		SavedAt:   s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Load returns the owner's mirror, then the shared blob, then the legacy
// cookies file. The first usable one wins; ErrNotFound otherwise.
func (fc *FileCache) Load(ownerID string, now time.Time) (*Session, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	paths := []string{fc.path("")}
	if ownerID != "" {
		paths = append([]string{fc.path(ownerID)}, paths...)
	}
	for _, path := range paths {
		s, err := fc.readBlob(path)
		if err != nil {
			continue
		}
		if s.Usable(now) {
			return s, nil
		}
	}

	s, err := fc.readLegacy()
	if err == nil && s.Usable(now) {
		return s, nil
	}
	return nil, ErrNotFound
}

// Exists reports whether any cache artifact is on disk.
func (fc *FileCache) Exists() bool {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	for _, name := range []string{sessionFile, legacyFile} {
		if _, err := os.Stat(filepath.Join(fc.dir, name)); err == nil {
			return true
		}
	}
	entries, err := os.ReadDir(filepath.Join(fc.dir, mirrorDir))
	return err == nil && len(entries) > 0
}

// Clear removes the shared blob and the legacy file, plus the owner's
// mirror when ownerID is set. Files that are already gone do not count as
// errors. It returns how many files were removed.
func (fc *FileCache) Clear(ownerID string) (int, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	paths := []string{filepath.Join(fc.dir, sessionFile), filepath.Join(fc.dir, legacyFile)}
	if ownerID != "" {
		paths = append(paths, fc.path(ownerID))
	}

	removed := 0
	var errs []error
	for _, path := range paths {
		err := os.Remove(path)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, os.ErrNotExist):
		default:
			errs = append(errs, err)
		}
	}
	return removed, errors.Join(errs...)
}

func (fc *FileCache) path(ownerID string) string {
	if ownerID == "" {
		return filepath.Join(fc.dir, sessionFile)
	}
	return filepath.Join(fc.dir, mirrorDir, unsafeName.ReplaceAllString(ownerID, "_")+".json")
}

func (fc *FileCache) readBlob(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fc.logger.Warn("Failed to read session file", logger.String("path", path), logger.Err(err))
		}
		return nil, err
	}

	var blob fileBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		fc.logger.Warn("Failed to parse session file", logger.String("path", path), logger.Err(err))
		return nil, err
	}
	return &Session{
		OwnerID:   blob.OwnerID,
		Cookies:   blob.Cookies,
		UserAgent: blob.UserAgent,
		Platform:  blob.Platform,
		CreatedAt: blob.SavedAt,
		UpdatedAt: blob.SavedAt,
		ExpiresAt: blob.ExpiresAt,
	}, nil
}

// readLegacy loads the cookies-only export as a session with no user agent.
func (fc *FileCache) readLegacy() (*Session, error) {
	path := filepath.Join(fc.dir, legacyFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		fc.logger.Warn("Failed to parse legacy cookies file", logger.String("path", path), logger.Err(err))
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &Session{Cookies: cookies, CreatedAt: info.ModTime(), UpdatedAt: info.ModTime()}, nil
}
