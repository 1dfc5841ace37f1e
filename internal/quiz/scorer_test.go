package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorerRatio(t *testing.T) {
	s := NewScorer(DefaultAcceptThreshold)

	tests := []struct {
		name      string
		submitted string
		expected  string
		want      float64
	}{
		{"exact", "abandon", "abandon", 1},
		{"surrounding whitespace", "  abandon\t", "abandon", 1},
		{"both empty", "", "", 1},
		{"empty answer", "", "abandon", 0},
		{"blank answer", "   ", "abandon", 0},
		{"classic pair", "kitten", "sitting", 8.0 / 13},
		{"one vowel off", "hello", "hallo", 0.8},
		{"case sensitive", "Abandon", "abandon", 12.0 / 14},
		{"nothing shared", "xyz", "abc", 0},
		{"multibyte runes", "café", "cafe", 6.0 / 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := s.Score(tt.submitted, tt.expected)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScorerThreshold(t *testing.T) {
	_, accepted := NewScorer(0.75).Score("hello", "hallo")
	assert.True(t, accepted)

	_, accepted = NewScorer(0.85).Score("hello", "hallo")
	assert.False(t, accepted)

	_, accepted = NewScorer(DefaultAcceptThreshold).Score("abandon", "abandon")
	assert.True(t, accepted)

	assert.Equal(t, 0.85, NewScorer(0.85).Threshold())
}

func TestParseQuota(t *testing.T) {
	tests := []struct {
		in       string
		want     int
		wantMode QuotaMode
		wantErr  bool
	}{
		{in: "0", want: 0, wantMode: QuotaCount},
		{in: "3", want: 3, wantMode: QuotaCount},
		{in: "50%", want: 50, wantMode: QuotaPercentage},
		{in: " 100% ", want: 100, wantMode: QuotaPercentage},
		{in: "101%", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "half", wantErr: true},
		{in: "%", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, mode, err := ParseQuota(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuota)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMode, mode)
		})
	}
}

func TestPracticeCount(t *testing.T) {
	assert.Equal(t, 2, practiceCount(4, 50, QuotaPercentage))
	assert.Equal(t, 1, practiceCount(3, 50, QuotaPercentage), "percentages round down")
	assert.Equal(t, 0, practiceCount(10, 0, QuotaPercentage))
	assert.Equal(t, 3, practiceCount(10, 3, QuotaCount))
}
