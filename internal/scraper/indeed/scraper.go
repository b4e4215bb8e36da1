package indeed

import (
	"sales-tracker-scraper/internal/scraper"
)

var (
	titleProbes = scraper.Selectors(
		"h1.jobsearch-JobInfoHeader-title",
		`h1[class*="jobTitle"]`,
		"h1",
	)
	companyProbes = scraper.Selectors(
		`[data-company-name="true"]`,
		`[data-testid="inlineHeader-companyName"]`,
		`[class*="company"]`,
		".icl-u-lg-mr--sm",
	)
	salaryProbes = scraper.Selectors(
		"#salaryInfoAndJobType",
		`[class*="salary"]`,
	)
	descriptionProbes = []scraper.Probe{
		scraper.Raw("#jobDescriptionText"),
		scraper.Raw(`[class*="description"]`),
		scraper.Raw("body"),
	}
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(page *scraper.Page) (*scraper.JobPosting, error) {
	job := &scraper.JobPosting{
		JobTitle:    scraper.FirstOf(page, titleProbes...),
		CompanyName: scraper.FirstCompany(page, companyProbes...),
	}

	salaryText := scraper.FindSalaryText(scraper.FirstOf(page, salaryProbes...))
	if salaryText == "" {
		salaryText = scraper.FindSalaryText(page.BodyText())
	}

	description := scraper.FirstOf(page, descriptionProbes...)
	return scraper.Finish(job, salaryText, job.JobTitle+" "+description), nil
}
