package salary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMin *int
		wantMax *int
	}{
		{name: "plain range", input: "$120,000 - $180,000", wantMin: intPtr(120000), wantMax: intPtr(180000)},
		{name: "hourly to yearly with bonus", input: "$85.10/hour to $251,000/year + bonus", wantMin: intPtr(177008), wantMax: intPtr(251000)},
		{name: "hourly spelled out", input: "$50/hourly", wantMax: intPtr(104000)},
		{name: "hrs unit", input: "$60 hrs", wantMax: intPtr(124800)},
		{name: "single figure is a ceiling", input: "$95,000", wantMax: intPtr(95000)},
		{name: "k suffix", input: "$120k-$180k", wantMin: intPtr(120000), wantMax: intPtr(180000)},
		{name: "uppercase K and yr", input: "$85.10/yr - $251K/yr", wantMax: intPtr(251000)},
		{name: "monthly", input: "$5,000/month - $7,500/month", wantMin: intPtr(60000), wantMax: intPtr(90000)},
		{name: "per year suffix", input: "$150,000 - $200,000 per year", wantMin: intPtr(150000), wantMax: intPtr(200000)},
		{name: "bare range without dollar", input: "120 - 180k", wantMin: intPtr(120000), wantMax: intPtr(180000)},
		{name: "implausibly low", input: "$50 - $90"},
		{name: "no numbers", input: "competitive salary"},
		{name: "equity clause stripped", input: "$140,000 - $160,000 plus equity of $2,000,000,000", wantMin: intPtr(140000), wantMax: intPtr(160000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			require.NotNil(t, got.Range)
			assert.Equal(t, tt.input, *got.Range)
			assert.Equal(t, tt.wantMin, got.Min)
			assert.Equal(t, tt.wantMax, got.Max)
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		got := Parse(input)
		assert.Nil(t, got.Range)
		assert.Nil(t, got.Min)
		assert.Nil(t, got.Max)
	}
}

func TestParse_KeepsOriginalText(t *testing.T) {
	got := Parse("  Competitive   salary  ")
	require.NotNil(t, got.Range)
	assert.Equal(t, "Competitive   salary", *got.Range)
	assert.Nil(t, got.Min)
	assert.Nil(t, got.Max)
}

func TestParse_NeverPanicsAndKeepsOrder(t *testing.T) {
	inputs := []string{
		"$", "$$$", "$,", "$.", "$1,,,", "- - -", "$9999999999999999999999999",
		"to to to", "$100k most", "401k match", "$1e9", "１２０,０００", "$120,000-$90,000",
		"$3.5/hr - $400/hr", "$ 70 k - $ 80 k", "between 90,000 and 110,000",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() {
			got := Parse(input)
			if got.Min != nil && got.Max != nil {
				assert.LessOrEqual(t, *got.Min, *got.Max, input)
			}
			if got.Min != nil {
				assert.GreaterOrEqual(t, *got.Min, minPlausible, input)
			}
			if got.Max != nil {
				assert.LessOrEqual(t, *got.Max, maxPlausible, input)
			}
		})
	}
}

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "$120K - $180K", FormatRange(intPtr(120000), intPtr(180000)))
	assert.Equal(t, "Up to $95K", FormatRange(nil, intPtr(95000)))
	assert.Equal(t, "From $80K", FormatRange(intPtr(80000), nil))
	assert.Equal(t, "$500 - $151K", FormatRange(intPtr(500), intPtr(150500)))
	assert.Equal(t, "", FormatRange(nil, nil))
}
