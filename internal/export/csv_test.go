package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourline/internal/store"
)

func TestWriteSettlementCSV(t *testing.T) {
	rows := []store.SettlementRow{
		{
			ShowID:       1,
			ShowDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			VenueName:    "Red Rocks",
			GrossSales:   90000,
			Expenses:     12000,
			ArtistPayout: 55000,
			PromoterNet:  23000,
			SettledAt:    time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			ShowID:       2,
			ShowDate:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			VenueName:    "The Fillmore",
			GrossSales:   40000,
			Expenses:     8000,
			ArtistPayout: 24000,
			PromoterNet:  8000,
			SettledAt:    time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSettlementCSV(&buf, "Summer Run", rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + 2 rows + totals

	assert.Equal(t, "show_id", records[0][0])
	assert.Equal(t, []string{"1", "2025-06-01", "Red Rocks", "90000.00", "12000.00", "55000.00", "23000.00", "2025-06-03"}, records[1])

	total := records[3]
	assert.Equal(t, "TOTAL (Summer Run)", total[2])
	assert.Equal(t, "130000.00", total[3])
	assert.Equal(t, "20000.00", total[4])
	assert.Equal(t, "79000.00", total[5])
	assert.Equal(t, "31000.00", total[6])
}

func TestWriteSettlementCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSettlementCSV(&buf, "Empty Tour", nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "0.00", records[1][3])
}
