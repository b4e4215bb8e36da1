// Package api exposes the scraper and the session store over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"sales-tracker-scraper/internal/jobscraper"
	"sales-tracker-scraper/internal/logger"
	"sales-tracker-scraper/internal/session"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller identity set by the upstream auth layer.
const UserIDHeader = "X-User-ID"

// Scraper is what the handlers need from jobscraper.Service.
type Scraper interface {
	ScrapeJobPosting(ctx context.Context, rawURL, ownerID string) jobscraper.Result
	InteractiveLogin(ctx context.Context) jobscraper.LoginResult
	UploadSession(ctx context.Context, ownerID string, cookies []session.Cookie, userAgent, platform string) (jobscraper.UploadResult, error)
	HasSavedCookies() bool
	ClearCookies(ctx context.Context, ownerID string) (session.ClearResult, error)
}

type Handler struct {
	svc    Scraper
	logger logger.Logger
}

func NewHandler(svc Scraper, log logger.Logger) *Handler {
	return &Handler{svc: svc, logger: log}
}

type scrapeRequest struct {
	URL string `json:"url"`
}

type uploadRequest struct {
	Cookies   []session.Cookie `json:"cookies"`
	UserAgent string           `json:"userAgent"`
	Platform  string           `json:"platform"`
}

// Scrape handles POST /api/job-postings/scrape.
func (h *Handler) Scrape(c *gin.Context) {
	var req scrapeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "URL is required"})
		return
	}

	result := h.svc.ScrapeJobPosting(c.Request.Context(), req.URL, c.GetHeader(UserIDHeader))
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Status handles GET /api/linkedin-auth/status.
func (h *Handler) Status(c *gin.Context) {
	hasAuth := h.svc.HasSavedCookies()
	message := "No LinkedIn authentication found. Admin needs to authenticate."
	if hasAuth {
		message = "LinkedIn cookies are saved and ready to use"
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": hasAuth, "message": message})
}

// UploadCookies handles POST /api/linkedin-auth/upload-cookies.
func (h *Handler) UploadCookies(c *gin.Context) {
	var req uploadRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil || req.Cookies == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cookies format. Expected array of cookie objects."})
		return
	}

	ownerID := c.GetHeader(UserIDHeader)
	result, err := h.svc.UploadSession(c.Request.Context(), ownerID, req.Cookies, req.UserAgent, req.Platform)
	if err != nil {
		if errors.Is(err, session.ErrNoCookies) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cookies format. Expected at least one cookie."})
			return
		}
		h.logger.Error("Cookie upload failed", logger.String("owner_id", ownerID), logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading cookies: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Logout handles DELETE /api/linkedin-auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	result, err := h.svc.ClearCookies(c.Request.Context(), c.GetHeader(UserIDHeader))
	if err != nil {
		h.logger.Error("Clearing cookies failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error clearing cookies"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Login handles POST /api/linkedin-auth/login. It blocks until the human
// finishes signing in or the five-minute wait runs out.
func (h *Handler) Login(c *gin.Context) {
	result := h.svc.InteractiveLogin(c.Request.Context())
	if !result.Success {
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
