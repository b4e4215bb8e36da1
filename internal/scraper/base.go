// Package scraper holds the pieces shared by every job-board extractor:
// site classification, the rendered page snapshot, field probes and the
// extracted JobPosting.
package scraper

import (
	"errors"
	"fmt"

	"sales-tracker-scraper/internal/session"
)

var (
	// ErrLoginPrompt means the extracted title is a sign-in prompt. It is a
	// flavour of session.ErrSessionExpired.
	ErrLoginPrompt = fmt.Errorf("%w: the page shows a login prompt instead of the job posting", session.ErrSessionExpired)

	ErrUnsupportedURL = errors.New("unsupported URL")
)

// JobPosting is the structured result of one extraction.
type JobPosting struct {
	JobTitle        string   `json:"job_title"`
	CompanyName     string   `json:"company_name"`
	SalaryRange     *string  `json:"salary_range"`
	SalaryMin       *int     `json:"salary_min"`
	SalaryMax       *int     `json:"salary_max"`
	ExperienceLevel *string  `json:"experience_level"`
	AlignedSector   []string `json:"aligned_sector"`
}

// Extractor pulls a JobPosting out of a rendered page. Implementations
// should degrade to empty fields rather than fail.
type Extractor interface {
	Extract(page *Page) (*JobPosting, error)
}
