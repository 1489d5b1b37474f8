package pacing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapAt(daysAgo int, sold int, gross float64) Snapshot {
	return Snapshot{
		CapturedAt:  testNow.Add(-time.Duration(daysAgo) * 24 * time.Hour),
		TicketsSold: sold,
		GrossSales:  gross,
	}
}

func TestVelocity(t *testing.T) {
	t.Run("requires at least two snapshots", func(t *testing.T) {
		assert.Equal(t, 0.0, Velocity(nil))
		assert.Equal(t, 0.0, Velocity([]Snapshot{snapAt(0, 100, 0)}))
	})

	t.Run("zero time span yields zero", func(t *testing.T) {
		snaps := []Snapshot{snapAt(0, 10, 0), snapAt(0, 50, 0)}
		assert.Equal(t, 0.0, Velocity(snaps))
	})

	t.Run("tickets per day over the window", func(t *testing.T) {
		snaps := []Snapshot{snapAt(2, 10, 0), snapAt(0, 60, 0)}
		assert.InDelta(t, 25.0, Velocity(snaps), 0.0001)
	})

	t.Run("only the seven most recent snapshots count", func(t *testing.T) {
		// Ten daily snapshots; a huge early jump outside the window must
		// not skew the estimate.
		var snaps []Snapshot
		for i := 9; i >= 0; i-- {
			sold := (10 - i) * 10
			if i == 9 {
				sold = -1000
			}
			snaps = append(snaps, snapAt(i, sold, 0))
		}
		// Window covers days 6..0: sold goes 40 -> 100 over 6 days.
		assert.InDelta(t, 10.0, Velocity(snaps), 0.0001)
	})

	t.Run("unsorted input is sorted first", func(t *testing.T) {
		snaps := []Snapshot{snapAt(0, 60, 0), snapAt(2, 10, 0)}
		assert.InDelta(t, 25.0, Velocity(snaps), 0.0001)
	})
}

func TestCurve(t *testing.T) {
	capacity := 200
	show := Show{Date: testNow.Add(10 * 24 * time.Hour), Capacity: &capacity}

	snaps := []Snapshot{
		snapAt(0, 100, 2500),
		snapAt(5, 20, 500),
		snapAt(2, 60, 1500),
	}

	curve := Curve(show, snaps)
	require.Len(t, curve, 3)

	assert.Equal(t, []int{20, 60, 100}, []int{curve[0].TicketsSold, curve[1].TicketsSold, curve[2].TicketsSold})
	assert.Equal(t, 10.0, curve[0].SellThroughPct)
	assert.Equal(t, 15, curve[0].DaysUntilShow)
	assert.Equal(t, 10, curve[2].DaysUntilShow)
	assert.Equal(t, 500.0, curve[0].GrossSales)
}

func TestPredict(t *testing.T) {
	capacity := 2000

	t.Run("no snapshots degrades to low confidence zeros", func(t *testing.T) {
		p := Predict(Show{Date: testNow, Capacity: &capacity}, nil, testNow)
		assert.Equal(t, ConfidenceLow, p.Confidence)
		assert.Zero(t, p.ProjectedSellThroughPct)
		assert.Zero(t, p.ProjectedGross)
		assert.NotEmpty(t, p.Note)
	})

	t.Run("early curve is damped", func(t *testing.T) {
		show := Show{Date: testNow.Add(20 * 24 * time.Hour), Capacity: &capacity}
		// Velocity 50/day, latest sold 50 at $50 average.
		snaps := []Snapshot{snapAt(1, 0, 0), snapAt(0, 50, 2500)}

		p := Predict(show, snaps, testNow)
		// 50 + 50*20*0.8 = 850 of 2000.
		assert.InDelta(t, 42.5, p.ProjectedSellThroughPct, 0.0001)
		assert.InDelta(t, 850*50, p.ProjectedGross, 0.0001)
	})

	t.Run("last-minute rush is amplified", func(t *testing.T) {
		show := Show{Date: testNow.Add(2 * 24 * time.Hour), Capacity: &capacity}
		snaps := []Snapshot{snapAt(1, 0, 0), snapAt(0, 50, 2500)}

		p := Predict(show, snaps, testNow)
		// 50 + 50*2*1.3 = 180 of 2000.
		assert.InDelta(t, 9.0, p.ProjectedSellThroughPct, 0.0001)
	})

	t.Run("projection never exceeds capacity", func(t *testing.T) {
		small := 100
		show := Show{Date: testNow.Add(10 * 24 * time.Hour), Capacity: &small}
		snaps := []Snapshot{snapAt(1, 0, 0), snapAt(0, 90, 4500)}

		p := Predict(show, snaps, testNow)
		assert.Equal(t, 100.0, p.ProjectedSellThroughPct)
	})

	t.Run("price falls back to list price then default", func(t *testing.T) {
		price := 80.0
		show := Show{Date: testNow.Add(10 * 24 * time.Hour), Capacity: &capacity, TicketPrice: &price}
		// Velocity 10/day but no gross on record, so the average ticket
		// price cannot be derived from the snapshot.
		snaps := []Snapshot{snapAt(2, 0, 0), snapAt(0, 20, 0)}

		// 20 + 10*10 = 120 projected tickets at the $80 list price.
		p := Predict(show, snaps, testNow)
		assert.InDelta(t, 120*80.0, p.ProjectedGross, 0.0001)

		// Without a list price the $50 default applies.
		show.TicketPrice = nil
		p = Predict(show, snaps, testNow)
		assert.InDelta(t, 120*50.0, p.ProjectedGross, 0.0001)
	})

	t.Run("confidence tiers", func(t *testing.T) {
		show := Show{Date: testNow.Add(10 * 24 * time.Hour), Capacity: &capacity}

		high := []Snapshot{snapAt(5, 10, 0), snapAt(4, 20, 0), snapAt(3, 30, 0), snapAt(2, 40, 0), snapAt(1, 50, 0)}
		assert.Equal(t, ConfidenceHigh, Predict(show, high, testNow).Confidence)

		medium := high[:3]
		assert.Equal(t, ConfidenceMedium, Predict(show, medium, testNow).Confidence)

		low := high[:2]
		assert.Equal(t, ConfidenceLow, Predict(show, low, testNow).Confidence)

		// Plenty of snapshots but no runway only rates medium.
		soon := Show{Date: testNow.Add(2 * 24 * time.Hour), Capacity: &capacity}
		assert.Equal(t, ConfidenceMedium, Predict(soon, high, testNow).Confidence)
	})
}
