package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"sales-tracker-scraper/internal/classify"
	"sales-tracker-scraper/internal/salary"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	amountPart = `\$[\d,]+(?:\.\d+)?(?:\s*k\b)?`
	unitPart   = `(?:\s*/\s*(?:hour|hr|year|yr|annually|annual|month|mo)\b)?`
	sepPart    = `\s*(?:-|–|—|to)\s*`
)

// salaryPatterns are tried in order against long text; the first hit wins.
var salaryPatterns = []*regexp.Regexp{
	// $120,000 - $180,000, $120k-$180k, $85.10/hour to $251,000/year
	regexp.MustCompile(`(?i)` + amountPart + unitPart + sepPart + amountPart + unitPart),
	// $120 - 180k
	regexp.MustCompile(`(?i)` + amountPart + unitPart + sepPart + `\$?[\d,]+(?:\.\d+)?(?:\s*k\b)?` + unitPart),
	// a single figure that looks like pay: $95,000, $95k, $45/hour
	regexp.MustCompile(`(?i)\$(?:\d{1,3}(?:,\d{3})+|\d{4,})(?:\.\d+)?` + unitPart + `|\$\d+(?:\.\d+)?(?:\s*k\b|\s*/\s*(?:hour|hr)\b)`),
}

// FindSalaryText returns the first dollar amount or range found in text.
func FindSalaryText(text string) string {
	for _, re := range salaryPatterns {
		if m := re.FindString(text); m != "" {
			return collapse(m)
		}
	}
	return ""
}

// PlausibleCompany rejects DOM text that looks like a form label rather
// than a company name.
func PlausibleCompany(text string) bool {
	text = strings.TrimSpace(text)
	n := utf8.RuneCountInString(text)
	return n > 2 && n < 50 && !strings.Contains(text, "*") && !strings.HasSuffix(text, ":")
}

// FirstCompany returns the first probe result that passes PlausibleCompany.
func FirstCompany(p *Page, probes ...Probe) string {
	for _, probe := range probes {
		if v := probe(p); v != "" && PlausibleCompany(v) {
			return v
		}
	}
	return ""
}

// CompanyFromPath derives a company from the first path segment, as in
// boards.greenhouse.io/acme-corp/jobs/123. Embedded boards carry it in the
// "for" query parameter instead.
func CompanyFromPath(u *url.URL) string {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	slug := segments[0]
	if slug == "embed" {
		slug = u.Query().Get("for")
	}
	if slug == "" {
		return ""
	}
	return TitleWords(slug)
}

// CompanyFromHost derives a company from the registrable domain label:
// careers.healthee.com -> Healthee.
func CompanyFromHost(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	if host == "" {
		return ""
	}

	label := ""
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		label, _, _ = strings.Cut(domain, ".")
	} else {
		parts := strings.Split(host, ".")
		label = parts[0]
		if len(parts) >= 2 {
			label = parts[len(parts)-2]
		}
	}
	return TitleWords(label)
}

// TitleWords turns a slug like "acme-corp" into "Acme Corp".
func TitleWords(slug string) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(words, " "))
}

// Finish normalizes salaryText and classifies analysisText into job.
func Finish(job *JobPosting, salaryText, analysisText string) *JobPosting {
	if salaryText = strings.TrimSpace(salaryText); salaryText != "" {
		parsed := salary.Parse(salaryText)
		job.SalaryRange = parsed.Range
		job.SalaryMin = parsed.Min
		job.SalaryMax = parsed.Max
	}
	if level := classify.ExperienceLevel(analysisText); level != "" {
		job.ExperienceLevel = &level
	}
	job.AlignedSector = classify.Sector(analysisText)
	return job
}
