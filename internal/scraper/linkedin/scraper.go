package linkedin

import (
	"strings"

	"sales-tracker-scraper/internal/logger"
	"sales-tracker-scraper/internal/scraper"
)

// LinkedIn ships several generations of markup at once; newest selectors first.
var (
	titleProbes = scraper.Selectors(
		"h1.top-card-layout__title",
		"h1.topcard__title",
		".job-details-jobs-unified-top-card__job-title",
		"h1.jobs-unified-top-card__job-title",
		"h1",
		`[class*="job-title"]`,
	)
	companyProbes = scraper.Selectors(
		".topcard__org-name-link",
		".job-details-jobs-unified-top-card__company-name",
		".jobs-unified-top-card__company-name",
		`[class*="company-name"]`,
		".top-card-layout__card a",
	)
	salaryProbes = scraper.Selectors(
		"button .tvm__text strong",
		".tvm__text strong",
		`[class*="salary"]`,
		".job-details-jobs-unified-top-card__job-insight",
	)
	descriptionProbes = []scraper.Probe{
		scraper.Raw(".description__text"),
		scraper.Raw(".jobs-description"),
		scraper.Raw(`[class*="description"]`),
		scraper.Raw("body"),
	}
)

type Extractor struct {
	logger logger.Logger
}

func New(log logger.Logger) *Extractor {
	return &Extractor{logger: log}
}

func (e *Extractor) Extract(page *scraper.Page) (*scraper.JobPosting, error) {
	job := &scraper.JobPosting{
		JobTitle:    scraper.FirstOf(page, titleProbes...),
		CompanyName: scraper.FirstCompany(page, companyProbes...),
	}
	e.logger.Debug("LinkedIn top card",
		logger.String("url", page.URL.String()),
		logger.String("page_title", page.Title),
		logger.String("job_title", job.JobTitle),
		logger.String("company", job.CompanyName),
	)

	// a login wall rendered as the job title
	lowerTitle := strings.ToLower(job.JobTitle)
	if strings.Contains(lowerTitle, "sign in") || strings.Contains(lowerTitle, "login") {
		return nil, scraper.ErrLoginPrompt
	}

	description := scraper.FirstOf(page, descriptionProbes...)

	// top-card salary only counts when it carries a currency amount
	salaryText := scraper.FirstOf(page, salaryProbes...)
	if !strings.Contains(salaryText, "$") {
		salaryText = scraper.FindSalaryText(description)
		if salaryText != "" {
			e.logger.Debug("Salary found in description", logger.String("salary", salaryText))
		}
	}

	return scraper.Finish(job, salaryText, job.JobTitle+" "+description), nil
}
