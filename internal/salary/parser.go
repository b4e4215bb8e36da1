// Package salary turns free-text compensation strings into annualized USD figures.
package salary

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	hoursPerYear  = 2080
	monthsPerYear = 12

	minPlausible = 1_000
	maxPlausible = 10_000_000
)

var (
	// perksRegex cuts trailing bonus/benefits clauses before numbers are scanned.
	perksRegex      = regexp.MustCompile(`\+?\s*(bonus|equity|benefits|stock|401k|insurance|pto|vacation).*$`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	amountRegex     = regexp.MustCompile(`\$\s*([\d,]+\.?\d*)\s*(k)?\s*(?:/\s*)?(?:(hourly|hours|hour|hrs|hr|year|yr|annually|annual|monthly|month|mo)\b)?`)
	bareRangeRegex  = regexp.MustCompile(`([\d,]+)\s*[-–to]\s*([\d,]+)\s*(k)?`)
)

// Result is the normalized view of a salary string.
// Range echoes the trimmed input; Min and Max are annual USD amounts.
type Result struct {
	Range *string `json:"salary_range"`
	Min   *int    `json:"salary_min"`
	Max   *int    `json:"salary_max"`
}

// Parse extracts annualized min/max figures from text. It never fails:
// anything it cannot read leaves Min and Max nil.
func Parse(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}
	}

	clean := strings.ToLower(whitespaceRegex.ReplaceAllString(trimmed, " "))
	clean = strings.TrimSpace(perksRegex.ReplaceAllString(clean, ""))

	candidates := scanAmounts(clean)
	if len(candidates) == 0 {
		candidates = scanBareRange(clean)
	}

	var plausible []int
	for _, c := range candidates {
		if c >= minPlausible && c <= maxPlausible {
			plausible = append(plausible, int(c))
		}
	}

	res := Result{Range: &trimmed}
	switch len(plausible) {
	case 0:
	case 1:
		// a lone figure is a ceiling, not a range
		hi := plausible[0]
		res.Max = &hi
	default:
		lo, hi := plausible[0], plausible[0]
		for _, c := range plausible[1:] {
			lo = min(lo, c)
			hi = max(hi, c)
		}
		res.Min = &lo
		res.Max = &hi
	}
	return res
}

func scanAmounts(text string) []float64 {
	var amounts []float64
	for _, m := range amountRegex.FindAllStringSubmatch(text, -1) {
		amount, ok := parseNumber(m[1])
		if !ok {
			continue
		}
		if m[2] != "" {
			amount *= 1000
		}
		switch unit := m[3]; {
		case strings.HasPrefix(unit, "h"):
			amount *= hoursPerYear
		case strings.HasPrefix(unit, "month") || unit == "mo":
			amount *= monthsPerYear
		}
		amounts = append(amounts, math.Round(amount))
	}
	return amounts
}

func scanBareRange(text string) []float64 {
	m := bareRangeRegex.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	multiplier := 1.0
	if m[3] != "" {
		multiplier = 1000
	}

	var amounts []float64
	for _, raw := range m[1:3] {
		if n, ok := parseNumber(raw); ok {
			amounts = append(amounts, math.Round(n*multiplier))
		}
	}
	return amounts
}

func parseNumber(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// FormatRange renders min/max for display, e.g. "$120K - $180K", "Up to $95K".
// It returns "" when neither bound is set.
func FormatRange(lo, hi *int) string {
	switch {
	case lo != nil && hi != nil:
		return formatAmount(*lo) + " - " + formatAmount(*hi)
	case hi != nil:
		return "Up to " + formatAmount(*hi)
	case lo != nil:
		return "From " + formatAmount(*lo)
	}
	return ""
}

func formatAmount(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("$%dK", int(math.Round(float64(n)/1000)))
	}
	return fmt.Sprintf("$%d", n)
}
