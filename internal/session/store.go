package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sales-tracker-scraper/internal/logger"
)

// ClearResult is what Clear reports back to callers.
type ClearResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Store combines the owner-scoped repository with the file cache.
// The repository is optional; without one the file cache is the only store.
type Store struct {
	repo   Repository
	files  *FileCache
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
}

// NewStore builds a Store. A zero ttl means saved sessions never expire.
func NewStore(repo Repository, files *FileCache, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		repo:   repo,
		files:  files,
		ttl:    ttl,
		logger: log,
		now:    time.Now,
	}
}

// Save stores cookies for ownerID, replacing any earlier session of that owner.
// With an owner the repository is authoritative and the file mirror is best
// effort. Without one the file cache is the only store and its error is returned.
func (s *Store) Save(ctx context.Context, ownerID string, cookies []Cookie, userAgent, platform string) (*Session, error) {
	if len(cookies) == 0 {
		return nil, ErrNoCookies
	}

	now := s.now()
	sess := &Session{
		OwnerID:   ownerID,
		Cookies:   cookies,
		UserAgent: userAgent,
		Platform:  platform,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.ttl > 0 {
		expires := now.Add(s.ttl)
		sess.ExpiresAt = &expires
	}

	if ownerID == "" || s.repo == nil {
		if err := s.files.Save(sess); err != nil {
			return nil, fmt.Errorf("save session file: %w", err)
		}
		s.logger.Info("Session saved to file cache",
			logger.String("owner_id", ownerID),
			logger.Int("cookies", len(cookies)),
		)
		return sess, nil
	}

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session for %s: %w", ownerID, err)
	}
	if err := s.files.Save(sess); err != nil {
		s.logger.Warn("Failed to mirror session to file cache", logger.String("owner_id", ownerID), logger.Err(err))
	}
	s.logger.Info("Session saved",
		logger.String("owner_id", ownerID),
		logger.Int("cookies", len(cookies)),
	)
	return sess, nil
}

// Load returns the session for ownerID. The owner's repository entry is
// checked first, then the file cache. Expired or empty sessions are absent
// and reported as ErrNotFound.
func (s *Store) Load(ctx context.Context, ownerID string) (*Session, error) {
	now := s.now()

	if ownerID != "" && s.repo != nil {
		sess, err := s.repo.Load(ctx, ownerID)
		switch {
		case err == nil && sess.Usable(now):
			return sess, nil
		case err != nil && !errors.Is(err, ErrNotFound):
			s.logger.Warn("Session repository lookup failed, falling back to file cache",
				logger.String("owner_id", ownerID),
				logger.Err(err),
			)
		}
	}

	sess, err := s.files.Load(ownerID, now)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Using file-cached session",
		logger.String("owner_id", ownerID),
		logger.Bool("legacy", sess.UserAgent == ""),
	)
	return sess, nil
}

// HasSaved reports whether any file cache artifact exists. It is not
// owner-scoped.
func (s *Store) HasSaved() bool {
	return s.files.Exists()
}

// Clear removes the file cache artifacts. When ownerID is set the owner's
// repository entry is deleted as well, so a cleared session cannot come back
// from the authoritative store.
func (s *Store) Clear(ctx context.Context, ownerID string) (ClearResult, error) {
	if ownerID != "" && s.repo != nil {
		if err := s.repo.Delete(ctx, ownerID); err != nil {
			return ClearResult{}, fmt.Errorf("delete session for %s: %w", ownerID, err)
		}
	}

	removed, err := s.files.Clear(ownerID)
	if err != nil {
		return ClearResult{}, fmt.Errorf("clear session files: %w", err)
	}

	s.logger.Info("Sessions cleared", logger.String("owner_id", ownerID), logger.Int("files_removed", removed))
	if removed == 0 && ownerID == "" {
		return ClearResult{Success: true, Message: "No cookies to clear"}, nil
	}
	return ClearResult{Success: true, Message: "Cookies cleared"}, nil
}

// PurgeExpired deletes expired entries from the repository.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	n, err := s.repo.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return n, nil
}
