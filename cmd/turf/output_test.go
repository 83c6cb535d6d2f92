package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/turf-analytics/internal/models"
)

func TestParseDay(t *testing.T) {
	now := time.Date(2026, 10, 19, 22, 15, 0, 0, time.UTC)

	d, err := parseDay("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDay("2026-10-12", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDay("12/10/2026", now)
	assert.Error(t, err)
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{input: "3,7,1", want: []int{3, 7, 1}},
		{input: " 4 , 9 ,", want: []int{4, 9}},
		{input: "5", want: []int{5}},
		{input: "", wantErr: true},
		{input: "3,x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSelection(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWeights(t *testing.T) {
	weights, err := parseWeights([]string{"ai_win=30", " Elo_Horse = 12.5"})
	require.NoError(t, err)
	assert.Equal(t, map[models.Criterion]float64{
		models.CriterionAIWin:    30,
		models.CriterionEloHorse: 12.5,
	}, weights)

	_, err = parseWeights([]string{"ai_win"})
	assert.Error(t, err)

	_, err = parseWeights([]string{"ai_win=lots"})
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1,234.50 €", formatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.00 €", formatMoney(decimal.Zero))
}

func TestPrintStatistics(t *testing.T) {
	var buf bytes.Buffer
	printStatistics(&buf, models.LedgerStatistics{
		Count:          3,
		PendingCount:   1,
		SettledCount:   2,
		HitCount:       1,
		TotalStake:     decimal.NewFromInt(30),
		TotalPayout:    decimal.NewFromInt(45),
		ROIPercent:     50,
		HitRatePercent: 50,
	})

	out := buf.String()
	assert.Contains(t, out, "Bets: 3 (1 pending, 2 settled)")
	assert.Contains(t, out, "Profit: 15.00 €")
	assert.Contains(t, out, "ROI: 50.00%")
	assert.Contains(t, out, "Hit rate: 50.00% (1 hits)")
}

func TestPrintRecommendationsWithheld(t *testing.T) {
	var buf bytes.Buffer
	printRecommendations(&buf, &models.RecommendationSet{Reason: models.InsufficientConfidenceReason, Confidence: 42})
	assert.Contains(t, buf.String(), "No recommendation (insufficient_confidence)")
}
