package amount

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordsExact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "Zéro (0) Francs CFA"},
		{0.75, "Zéro (0) Francs CFA"},
		{1, "Un (1) Francs CFA"},
		{16, "Seize (16) Francs CFA"},
		{17, "Dix-sept (17) Francs CFA"},
		{21, "Vingt-et-un (21) Francs CFA"},
		{71, "Soixante-et-onze (71) Francs CFA"},
		{77, "Soixante-dix-sept (77) Francs CFA"},
		{80, "Quatre-vingts (80) Francs CFA"},
		{81, "Quatre-vingt-un (81) Francs CFA"},
		{92, "Quatre-vingt-douze (92) Francs CFA"},
		{99, "Quatre-vingt-dix-neuf (99) Francs CFA"},
		{100, "Cent (100) Francs CFA"},
		{200, "Deux cents (200) Francs CFA"},
		{250, "Deux cent cinquante (250) Francs CFA"},
		{-42.9, "Quarante-deux (42) Francs CFA"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.in))
		})
	}
}

func TestWordsLargeAmounts(t *testing.T) {
	tests := []struct {
		in     float64
		prefix string
	}{
		{1000, "Mille ("},
		{1200, "Mille deux cents ("},
		{2000, "Deux-mille ("},
		{21000, "Vingt-et-un-mille ("},
		{1_000_000, "Un million ("},
		{2_500_000, "Deux millions cinq cents-mille ("},
		{1_000_000_000, "Un milliard ("},
		{3_000_000_001, "Trois milliards un ("},
		{1e12, "Mille milliards ("},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := Words(tt.in)
			assert.True(t, strings.HasPrefix(got, tt.prefix), "got %q", got)
			assert.True(t, strings.HasSuffix(got, ") "+Currency), "got %q", got)
		})
	}
}

func TestWordsMille(t *testing.T) {
	got := strings.ToLower(Words(1000))
	assert.Contains(t, got, "mille")
	assert.NotContains(t, got, "un-mille")
	assert.Contains(t, strings.ToLower(Words(2000)), "deux-mille")
	assert.Contains(t, strings.ToLower(Words(200)), "deux cents")
	assert.Contains(t, Words(71), "oixante-et-onze")
}

func TestWordsGroupsNumeral(t *testing.T) {
	// Locale separators are collapsed to plain spaces.
	assert.Equal(t, "Un million (1 000 000) Francs CFA", Words(1_000_000))
	assert.Equal(t, "Cent-mille (100 000) Francs CFA", Words(100_000))
}

func TestWordsInvalid(t *testing.T) {
	assert.Equal(t, Invalid, Words(math.NaN()))
	assert.Equal(t, Invalid, Words(math.Inf(1)))
	assert.Equal(t, Invalid, Words(math.Inf(-1)))
}

func TestWordsDeterministic(t *testing.T) {
	require.Equal(t, Words(123456), Words(123456))
}

func TestFormat(t *testing.T) {
	norm := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	assert.Equal(t, "1 250 000", norm(Format(decimal.NewFromInt(1_250_000))))
	assert.Equal(t, "0", Format(decimal.Zero))
	assert.Equal(t, "12,5", Format(decimal.RequireFromString("12.5")))
}
