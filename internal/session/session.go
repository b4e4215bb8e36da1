// Package session persists the authentication material (cookies, user agent,
// platform) needed to browse session-gated job boards.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrNoCookies = errors.New("session has no cookies")

	// ErrAuthRequired means no session exists for a site that needs one.
	ErrAuthRequired = errors.New("authentication required")
	// ErrSessionExpired means a session was installed but the site rejected it.
	ErrSessionExpired = errors.New("authentication expired or invalid")
)

// Cookie is a browser cookie as exported by Playwright, Puppeteer or a
// browser extension.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// UnmarshalJSON accepts the extension export format too: expiry in
// expirationDate and sameSite values like "no_restriction".
func (c *Cookie) UnmarshalJSON(data []byte) error {
	type plain Cookie
	var raw struct {
		plain
		ExpirationDate *float64 `json:"expirationDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Cookie(raw.plain)
	if c.Expires <= 0 && raw.ExpirationDate != nil {
		c.Expires = *raw.ExpirationDate
	}
	c.SameSite = normalizeSameSite(c.SameSite)
	return nil
}

func normalizeSameSite(v string) string {
	switch strings.ToLower(v) {
	case "lax":
		return "Lax"
	case "strict":
		return "Strict"
	case "none", "no_restriction":
		return "None"
	default:
		return ""
	}
}

// Session is the authentication material for one owner. An empty OwnerID
// is the shared legacy slot.
type Session struct {
	OwnerID   string
	Cookies   []Cookie
	UserAgent string
	Platform  string
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt *time.Time
}

// Usable reports whether s can be installed in a browser at now.
// A session without cookies counts as absent.
func (s *Session) Usable(now time.Time) bool {
	if s == nil || len(s.Cookies) == 0 {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// Repository is the authoritative owner-scoped store. One live session per
// owner: Save replaces whatever the owner had before.
type Repository interface {
	Save(ctx context.Context, s *Session) error
	// Load returns ErrNotFound when the owner has no unexpired session.
	Load(ctx context.Context, ownerID string) (*Session, error)
	Delete(ctx context.Context, ownerID string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
