package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"tourline/internal/store"
)

// WriteSettlementCSV renders a tour's settlement sheet, one row per
// settled show, with a totals row at the bottom.
func WriteSettlementCSV(w io.Writer, tourName string, rows []store.SettlementRow) error {
	cw := csv.NewWriter(w)

	header := []string{"show_id", "date", "venue", "gross_sales", "expenses", "artist_payout", "promoter_net", "settled_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	var gross, expenses, payout, net float64
	for _, r := range rows {
		record := []string{
			fmt.Sprintf("%d", r.ShowID),
			r.ShowDate.Format("2006-01-02"),
			r.VenueName,
			money(r.GrossSales),
			money(r.Expenses),
			money(r.ArtistPayout),
			money(r.PromoterNet),
			r.SettledAt.Format("2006-01-02"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
		gross += r.GrossSales
		expenses += r.Expenses
		payout += r.ArtistPayout
		net += r.PromoterNet
	}

	total := []string{"", "", "TOTAL (" + tourName + ")", money(gross), money(expenses), money(payout), money(net), ""}
	if err := cw.Write(total); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
