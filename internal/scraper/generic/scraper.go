// Package generic extracts postings from job pages of unknown sites using
// heuristics that hold for most hand-built career pages.
package generic

import (
	"sales-tracker-scraper/internal/scraper"
)

var (
	titleProbes = scraper.Selectors(
		"h1",
		`[class*="job-title"]`,
		`[class*="title"]`,
		"title",
	)
	companyProbes = scraper.Selectors(
		`[class*="company-name"]`,
		"[data-company]",
	)
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(page *scraper.Page) (*scraper.JobPosting, error) {
	title := scraper.FirstOf(page, titleProbes...)
	if title == "" {
		title = page.Title
	}

	company := scraper.FirstCompany(page, companyProbes...)
	if company == "" {
		company = scraper.CompanyFromHost(page.URL.Hostname())
	}

	body := page.BodyText()
	job := &scraper.JobPosting{JobTitle: title, CompanyName: company}
	return scraper.Finish(job, scraper.FindSalaryText(body), title+" "+body), nil
}
