package classify

import (
	"testing"
)

func TestExperienceLevel(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "senior title", text: "Senior Software Engineer", expected: LevelSenior},
		{name: "senior wins over years", text: "Senior Backend Developer, 3+ years of Go", expected: LevelSenior},
		{name: "abbreviated senior", text: "Sr. Data Analyst", expected: LevelSenior},
		{name: "staff", text: "Staff Engineer, Platform", expected: LevelSenior},
		{name: "years pattern", text: "Backend Developer - 3+ years experience", expected: LevelMid},
		{name: "mid level", text: "Mid-Level QA Engineer", expected: LevelMid},
		{name: "junior", text: "Junior Frontend Developer", expected: LevelEntry},
		{name: "entry level", text: "Entry-level Sales Representative", expected: LevelEntry},
		{name: "accented text", text: "Développeur SÉNIOR", expected: LevelSenior},
		{name: "leadership is not lead", text: "Account Manager with leadership skills", expected: ""},
		{name: "nothing", text: "Software Engineer", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExperienceLevel(tt.text); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSector(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "healthcare first", text: "Software Engineer at a hospital network", expected: "Healthcare"},
		{name: "software", text: "Senior Software Engineer, $150k-$200k", expected: "Software Engineer"},
		{name: "career is not care", text: "Grow your career as a Developer", expected: "Software Engineer"},
		{name: "finance", text: "Investment Banking Associate", expected: "Finance"},
		{name: "manufacturing", text: "Production Line Supervisor", expected: "Manufacturing"},
		{name: "retail", text: "Store Manager", expected: "Retail"},
		{name: "construction", text: "Construction Project Manager", expected: "Construction"},
		{name: "professional services", text: "Legal Counsel", expected: "Professional Services"},
		{name: "education", text: "High School Teacher", expected: "Education"},
		{name: "other", text: "Chief of Staff", expected: SectorOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sector(tt.text)
			if len(got) != 1 || got[0] != tt.expected {
				t.Errorf("got %v, want [%s]", got, tt.expected)
			}
		})
	}
}
