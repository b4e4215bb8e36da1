package greenhouse

import (
	"strings"

	"sales-tracker-scraper/internal/scraper"
)

var (
	titleProbes  = scraper.Selectors("h1.app-title", "h1", "title")
	salaryProbes = scraper.Selectors(".pay-range", `[class*="pay-range"]`, `[class*="salary"]`)
)

// boardHosts are Greenhouse's own subdomains, never a company name.
var boardHosts = map[string]bool{"boards": true, "job-boards": true}

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(page *scraper.Page) (*scraper.JobPosting, error) {
	job := &scraper.JobPosting{
		JobTitle:    scraper.FirstOf(page, titleProbes...),
		CompanyName: companyName(page),
	}

	body := page.BodyText()
	salaryText := scraper.FindSalaryText(scraper.FirstOf(page, salaryProbes...))
	if salaryText == "" {
		salaryText = scraper.FindSalaryText(body)
	}

	return scraper.Finish(job, salaryText, job.JobTitle+" "+body), nil
}

// companyName prefers the board slug in the path (/acme-corp/jobs/123),
// which is steadier than page content, then the first host label.
func companyName(page *scraper.Page) string {
	if name := scraper.CompanyFromPath(page.URL); name != "" {
		return name
	}
	label, _, _ := strings.Cut(page.URL.Hostname(), ".")
	if label == "" || boardHosts[label] {
		return ""
	}
	return scraper.TitleWords(label)
}
