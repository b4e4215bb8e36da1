// Package classify tags job text with an experience level and a sector
// using ordered keyword cascades. The first rule that matches wins.
package classify

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	LevelSenior = "Senior"
	LevelMid    = "Mid-Level"
	LevelEntry  = "Entry Level"

	SectorOther = "Other"
)

type rule struct {
	label string
	regex *regexp.Regexp
}

// senior is checked before mid so "Senior engineer, 3+ years" stays Senior.
var levelRules = []rule{
	{LevelSenior, regexp.MustCompile(`\b(senior|lead|principal|staff)\b|\bsr\.`)},
	{LevelMid, regexp.MustCompile(`\b(mid|intermediate)\b|\b\d+\+?\s*years`)},
	{LevelEntry, regexp.MustCompile(`\b(junior|entry|associate)\b|\bjr\.`)},
}

// Healthcare goes first: it is the most specific vocabulary.
var sectorRules = []rule{
	{"Healthcare", regexp.MustCompile(`\b(health\w*|medical|hospitals?|clinic\w*|nurs(e|es|ing)|doctors?|patients?|pharma\w*|care|caregiv\w*)\b`)},
	{"Software Engineer", regexp.MustCompile(`\b(software|developers?|engineer\w*|tech\w*|programming|code|coding|web|apps?|data|cloud|ai|machine learning)\b`)},
	{"Finance", regexp.MustCompile(`\b(financ\w*|banking|investments?|accounting|trading|analysts?)\b`)},
	{"Manufacturing", regexp.MustCompile(`\b(manufactur\w*|production|factory|industrial|assembly)\b`)},
	{"Retail", regexp.MustCompile(`\b(retail|stores?|sales|customer service|merchandis\w*)\b`)},
	{"Construction", regexp.MustCompile(`\b(construction|building|contractors?|architect\w*|civil engineer\w*)\b`)},
	{"Professional Services", regexp.MustCompile(`\b(consulting|professional services|advisory|legal|law)\b`)},
	{"Education", regexp.MustCompile(`\b(education\w*|teachers?|professors?|schools?|universit\w*|academic|training)\b`)},
}

// NormalizeText strips diacritics and lowercases s.
func NormalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}

// ExperienceLevel returns LevelSenior, LevelMid, LevelEntry, or "" when
// nothing in text hints at seniority.
func ExperienceLevel(text string) string {
	return firstMatch(levelRules, NormalizeText(text), "")
}

// Sector returns a one-element sector set for text, SectorOther by default.
func Sector(text string) []string {
	return []string{firstMatch(sectorRules, NormalizeText(text), SectorOther)}
}

func firstMatch(rules []rule, text, fallback string) string {
	for _, r := range rules {
		if r.regex.MatchString(text) {
			return r.label
		}
	}
	return fallback
}
