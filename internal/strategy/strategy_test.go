package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-analyzer/poker"
)

func testTable() *Table {
	return NewTable(Database{
		"BTN_vs_BB": {
			"100bb": {
				"AKs": {Action: ActionRaise, Frequency: 1.0, EV: 2.3},
				"72o": {Action: ActionFold, Frequency: 1.0, EV: -0.8},
				"T9s": {
					Action: ActionRaise, Frequency: 0.7, EV: 0.4,
					AlternativeAction: ActionFold, AlternativeFrequency: 0.3,
				},
			},
			"20bb": {
				"AKs": {Action: ActionAllIn, Frequency: 1.0, EV: 1.9},
			},
		},
	})
}

func TestParsePosition(t *testing.T) {
	for _, s := range []string{"BTN", "btn", " Sb ", "UTG", "mp", "CO", "bb"} {
		_, err := ParsePosition(s)
		assert.NoError(t, err, "position %q", s)
	}

	_, err := ParsePosition("UTG+1")
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = ParsePosition("")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestSuggestionLookup(t *testing.T) {
	table := testTable()

	s, found := table.Suggestion("BTN_vs_BB", "100bb", "AKs")
	assert.True(t, found)
	assert.Equal(t, ActionRaise, s.Action)
	assert.Equal(t, 2.3, s.EV)

	// Unknown hand falls back to the default fold.
	s, found = table.Suggestion("BTN_vs_BB", "100bb", "QQ")
	assert.False(t, found)
	assert.Equal(t, DefaultSuggestion, s)

	_, found = table.Suggestion("UTG_vs_BB", "100bb", "AKs")
	assert.False(t, found)
}

func TestNearestStack(t *testing.T) {
	table := testTable()

	tests := []struct {
		stack int
		want  string
	}{
		{100, "100bb"},
		{80, "100bb"},
		{30, "20bb"},
		{15, "20bb"},
		{200, "100bb"},
		// Equidistant resolves to the smaller bucket.
		{60, "20bb"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, table.NearestStack("BTN_vs_BB", tc.stack), "stack %d", tc.stack)
	}

	// Unknown scenario falls back to the standard depths.
	assert.Equal(t, "50bb", NewTable(nil).NearestStack("CO_vs_BB", 60))
	assert.Equal(t, "20bb", NewTable(nil).NearestStack("CO_vs_BB", 35))
}

func TestAnalyzeSpot(t *testing.T) {
	table := testTable()

	analysis, err := table.AnalyzeSpot(BTN, BB, 100, poker.MustParseCards("AhKh"))
	require.NoError(t, err)
	assert.Equal(t, "AKs", analysis.Hand)
	assert.Equal(t, "BTN_vs_BB", analysis.Scenario)
	assert.Equal(t, "100bb", analysis.Stack)
	assert.Equal(t, ActionRaise, analysis.Suggestion.Action)
	assert.True(t, analysis.FoundInTable)

	// Hand missing from the table reports the fold default and FoundInTable=false.
	analysis, err = table.AnalyzeSpot(BTN, BB, 100, poker.MustParseCards("QcQd"))
	require.NoError(t, err)
	assert.Equal(t, "QQ", analysis.Hand)
	assert.False(t, analysis.FoundInTable)
	assert.Equal(t, ActionFold, analysis.Suggestion.Action)

	// Stack matching is nearest-neighbor within the scenario.
	analysis, err = table.AnalyzeSpot(BTN, BB, 25, poker.MustParseCards("AhKh"))
	require.NoError(t, err)
	assert.Equal(t, "20bb", analysis.Stack)
	assert.Equal(t, ActionAllIn, analysis.Suggestion.Action)
}

func TestAnalyzeSpotValidation(t *testing.T) {
	table := testTable()
	hole := poker.MustParseCards("AhKh")

	_, err := table.AnalyzeSpot("LJ", BB, 100, hole)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = table.AnalyzeSpot(BTN, "HJ", 100, hole)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = table.AnalyzeSpot(BTN, BB, 100, poker.MustParseCards("Ah"))
	assert.ErrorIs(t, err, poker.ErrInvalidHandSize)

	dup := []poker.Card{hole[0], hole[0]}
	_, err = table.AnalyzeSpot(BTN, BB, 100, dup)
	assert.ErrorIs(t, err, poker.ErrDuplicateCard)
}

func TestLoadMissingFile(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.True(t, table.Empty())

	// Lookups against an empty table still answer with the fold default.
	s, found := table.Suggestion("BTN_vs_BB", "100bb", "AA")
	assert.False(t, found)
	assert.Equal(t, DefaultSuggestion, s)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranges.json")
	db := Generate()
	require.NoError(t, Save(db, path))

	table, err := Load(path)
	require.NoError(t, err)
	assert.False(t, table.Empty())

	s, found := table.Suggestion("BTN_vs_BB", "100bb", "AA")
	assert.True(t, found)
	assert.Equal(t, ActionRaise, s.Action)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
