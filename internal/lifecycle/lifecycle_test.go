package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want Phase
	}{
		{name: "before start", now: start.Add(-time.Nanosecond), want: Upcoming},
		{name: "at start", now: start, want: Active},
		{name: "inside window", now: start.Add(time.Hour), want: Active},
		{name: "just before end", now: end.Add(-time.Nanosecond), want: Active},
		{name: "at end", now: end, want: Closed},
		{name: "after end", now: end.Add(time.Hour), want: Closed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(start, end, tt.now))
		})
	}
}

func TestPhaseRules(t *testing.T) {
	tests := []struct {
		phase          Phase
		votable        bool
		editable       bool
		resultsVisible bool
		talliesAnon    bool
		talliesAuth    bool
	}{
		{phase: Upcoming, votable: false, editable: true, resultsVisible: false, talliesAnon: true, talliesAuth: true},
		{phase: Active, votable: true, editable: true, resultsVisible: false, talliesAnon: false, talliesAuth: true},
		{phase: Closed, votable: false, editable: false, resultsVisible: true, talliesAnon: true, talliesAuth: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			assert.Equal(t, tt.votable, tt.phase.Votable())
			assert.Equal(t, tt.editable, tt.phase.Editable())
			assert.Equal(t, tt.resultsVisible, tt.phase.ResultsVisible())
			assert.Equal(t, tt.talliesAnon, tt.phase.TalliesVisible(false))
			assert.Equal(t, tt.talliesAuth, tt.phase.TalliesVisible(true))
		})
	}
}

func TestClosingInstantLocksEditsAndUnlocksResults(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)

	phase := Classify(start, end, end)
	assert.False(t, phase.Editable())
	assert.True(t, phase.ResultsVisible())
	assert.False(t, phase.Votable())
}
