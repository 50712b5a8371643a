package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsers(t *testing.T) {
	t.Run("modes", func(t *testing.T) {
		m, err := ParseMode("2-Wheeler")
		require.NoError(t, err)
		assert.Equal(t, ModeTwoWheeler, m)

		_, err = ParseMode("2 Wheeler")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("default weights cover every mode", func(t *testing.T) {
		w := DefaultWeights()
		require.NoError(t, w.Validate())
		assert.Len(t, w, len(Modes))
		for _, m := range Modes {
			assert.Contains(t, w, m)
		}
	})

	t.Run("day types", func(t *testing.T) {
		d, err := ParseDayType("")
		require.NoError(t, err)
		assert.Equal(t, DayNormal, d)
		assert.Equal(t, 1.0, d.Multiplier())

		d, err = ParseDayType("Holiday/Festival")
		require.NoError(t, err)
		assert.Equal(t, 0.6, d.Multiplier())

		d, err = ParseDayType("Special Event")
		require.NoError(t, err)
		assert.Equal(t, 1.4, d.Multiplier())

		_, err = ParseDayType("Monsoon")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("sites and directions", func(t *testing.T) {
		s, err := ParseSite("")
		require.NoError(t, err)
		assert.Equal(t, SiteAristocratHotel, s)

		s, err = ParseSite("Near Biswa Bangla Gate")
		require.NoError(t, err)
		assert.Equal(t, SiteBiswaBanglaGate, s)

		_, err = ParseSite("Salt Lake")
		assert.ErrorIs(t, err, ErrInvalidInput)

		d, err := ParseDirection("Kolkata Bound")
		require.NoError(t, err)
		assert.Equal(t, DirectionKolkata, d)

		_, err = ParseDirection("North")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("alert levels", func(t *testing.T) {
		l, err := ParseAlertLevel("critical")
		require.NoError(t, err)
		assert.Equal(t, AlertCritical, l)
		assert.Equal(t, "red", l.Advice().Color)
		assert.Contains(t, l.Advice().Action, "emergency services")

		l, err = ParseAlertLevel("")
		require.NoError(t, err)
		assert.Equal(t, AlertNone, l.Advice().Level)

		_, err = ParseAlertLevel("Extreme")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestIncidentReportValidate(t *testing.T) {
	r := IncidentReport{Type: IncidentBreakdown, Location: "  Action Area 1  ", Severity: SeverityMedium}
	require.NoError(t, r.Validate())
	assert.Equal(t, "Action Area 1", r.Location)

	cases := map[string]IncidentReport{
		"bad type":       {Type: "Flood", Location: "x", Severity: SeverityLow},
		"bad severity":   {Type: IncidentAccident, Location: "x", Severity: "Extreme"},
		"blank location": {Type: IncidentAccident, Location: "   ", Severity: SeverityLow},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, tc.Validate(), ErrInvalidInput)
		})
	}
}

func TestNormalizeFeedback(t *testing.T) {
	text, err := NormalizeFeedback("  signal stuck on red  ")
	require.NoError(t, err)
	assert.Equal(t, "signal stuck on red", text)

	_, err = NormalizeFeedback(" \n\t ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NormalizeFeedback(strings.Repeat("x", MaxFeedbackLength+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Multi-byte text is cut on rune boundaries in the error value.
	_, err = NormalizeFeedback(strings.Repeat("যানজট", MaxFeedbackLength))
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.True(t, utf8.ValidString(inputErr.Value))
	assert.Equal(t, 32, utf8.RuneCountInString(inputErr.Value))
}

func TestModeCountHelpers(t *testing.T) {
	c := sampleCounts()
	assert.Equal(t, 103, c.Total())

	clone := c.Clone()
	clone[ModeCar] = 0
	assert.Equal(t, 50, c[ModeCar])
}
