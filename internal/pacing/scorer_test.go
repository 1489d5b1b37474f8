package pacing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func showIn(days int, capacity int) Show {
	return Show{
		Date:     testNow.Add(time.Duration(days) * 24 * time.Hour),
		Capacity: &capacity,
	}
}

func snapshotSold(sold int) *Snapshot {
	return &Snapshot{CapturedAt: testNow, TicketsSold: sold}
}

func TestAssessRisk_Bands(t *testing.T) {
	tests := []struct {
		name      string
		show      Show
		latest    *Snapshot
		wantLevel RiskLevel
		wantScore float64
	}{
		{
			name:      "past show is healthy with zero score",
			show:      showIn(-2, 100),
			latest:    snapshotSold(10),
			wantLevel: RiskHealthy,
			wantScore: 0,
		},
		{
			name:      "strong pace far out is healthy",
			show:      showIn(20, 100),
			latest:    snapshotSold(70),
			wantLevel: RiskHealthy,
			wantScore: 0, // max(0, 40-70)
		},
		{
			name:      "mid sell-through close to show needs attention",
			show:      showIn(10, 100),
			latest:    snapshotSold(35),
			wantLevel: RiskNeedsAttention,
			wantScore: 73, // 60 + (40-35) + (14-10)*2
		},
		{
			name:      "low sell-through final week is at risk",
			show:      showIn(5, 100),
			latest:    snapshotSold(20),
			wantLevel: RiskAtRisk,
			wantScore: 96, // 80 + (30-20) + (7-5)*3
		},
		{
			name:      "soft early pacing needs attention",
			show:      showIn(40, 100),
			latest:    snapshotSold(20),
			wantLevel: RiskNeedsAttention,
			wantScore: 75, // 45 + (50-20)
		},
		{
			name:      "unmatched band falls back to healthy",
			show:      showIn(10, 100),
			latest:    snapshotSold(20),
			wantLevel: RiskHealthy,
			wantScore: 20, // max(0, 40-20)
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AssessRisk(tc.show, tc.latest, testNow)
			assert.Equal(t, tc.wantLevel, got.Level)
			assert.InDelta(t, tc.wantScore, got.Score, 0.0001)
			assert.NotEmpty(t, got.Reasoning)
		})
	}
}

func TestAssessRisk_ScoreClamped(t *testing.T) {
	// 0% sold the day before the show blows past 100 before clamping:
	// 80 + 30 + 6*3 = 128.
	got := AssessRisk(showIn(1, 100), snapshotSold(0), testNow)

	assert.Equal(t, RiskAtRisk, got.Level)
	assert.Equal(t, 100.0, got.Score)
}

func TestAssessRisk_MissingSnapshotDefaultsToZeroSold(t *testing.T) {
	got := AssessRisk(showIn(40, 100), nil, testNow)

	assert.Equal(t, 0, got.TicketsSold)
	assert.Equal(t, 0.0, got.SellThroughPct)
	assert.Equal(t, RiskNeedsAttention, got.Level)
}

func TestAssessRisk_CapacityDefaults(t *testing.T) {
	show := Show{Date: testNow.Add(20 * 24 * time.Hour)}
	got := AssessRisk(show, snapshotSold(600), testNow)

	assert.Equal(t, 1000, got.Capacity)
	assert.Equal(t, 60.0, got.SellThroughPct)
	assert.Equal(t, RiskHealthy, got.Level)
}

func TestAssessRisk_Recommendations(t *testing.T) {
	t.Run("at risk carries full remediation list", func(t *testing.T) {
		got := AssessRisk(showIn(5, 100), snapshotSold(20), testNow)
		require.Len(t, got.Recommendations, 4)
		assert.Contains(t, got.Recommendations, "Cut ticket prices by 15%")
	})

	t.Run("needs attention hints depend on inputs", func(t *testing.T) {
		// 35% sold, 10 days out: price-cut hint plus reminder email, but
		// no final-week marketing push yet.
		got := AssessRisk(showIn(10, 100), snapshotSold(35), testNow)
		require.Len(t, got.Recommendations, 2)
		assert.Contains(t, got.Recommendations[0], "price cut")

		// 45% sold, 6 days out: marketing push but no price-cut hint.
		got = AssessRisk(showIn(6, 100), snapshotSold(45), testNow)
		require.Len(t, got.Recommendations, 2)
		assert.Contains(t, got.Recommendations[0], "marketing spend")
	})

	t.Run("healthy has none", func(t *testing.T) {
		got := AssessRisk(showIn(20, 100), snapshotSold(70), testNow)
		assert.Empty(t, got.Recommendations)
	})
}
