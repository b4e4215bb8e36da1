package jobscraper

import (
	"context"
	"errors"
	"strings"

	"sales-tracker-scraper/internal/browser"
	"sales-tracker-scraper/internal/session"
)

// User-facing failure messages.
const (
	MsgTimeout        = "Request timed out. The page took too long to load. Please try again or enter details manually."
	MsgInvalidURL     = "Invalid URL. Please check the URL and try again."
	MsgNavigation     = "Could not load the page. Please check the URL or enter details manually."
	MsgAuthRequired   = "LinkedIn authentication required. Please upload your LinkedIn cookies to scrape LinkedIn job postings."
	MsgSessionExpired = "LinkedIn authentication expired or invalid. Please re-upload your LinkedIn cookies."
)

// UserMessage turns a scrape error into the text shown to the end user.
// Errors outside the known classes keep their own message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case isTimeout(err):
		return MsgTimeout
	case strings.Contains(msg, "ERR_NAME_NOT_RESOLVED"):
		return MsgInvalidURL
	case errors.Is(err, browser.ErrNavigation):
		return MsgNavigation
	case errors.Is(err, session.ErrAuthRequired):
		return MsgAuthRequired
	case errors.Is(err, session.ErrSessionExpired):
		return MsgSessionExpired
	default:
		return msg
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Timeout") || strings.Contains(msg, "timeout")
}
