package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deal holds the agreed terms for one show: a guarantee, the artist's
// percentage of gross after expenses, and the promoter's expense estimate.
type Deal struct {
	ID               int64     `json:"id"`
	ShowID           int64     `json:"show_id"`
	Guarantee        float64   `json:"guarantee"`
	SplitPct         float64   `json:"split_pct"`
	ExpensesEstimate float64   `json:"expenses_estimate"`
	Terms            *string   `json:"terms,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Settlement is the computed close-out of a show night.
type Settlement struct {
	ID           int64     `json:"id"`
	ShowID       int64     `json:"show_id"`
	GrossSales   float64   `json:"gross_sales"`
	Expenses     float64   `json:"expenses"`
	ArtistPayout float64   `json:"artist_payout"`
	PromoterNet  float64   `json:"promoter_net"`
	SettledAt    time.Time `json:"settled_at"`
}

// SettlementRow is the flattened view used by the tour settlement export.
type SettlementRow struct {
	ShowID       int64
	ShowDate     time.Time
	VenueName    string
	GrossSales   float64
	Expenses     float64
	ArtistPayout float64
	PromoterNet  float64
	SettledAt    time.Time
}

type DealsStore struct {
	db *pgxpool.Pool
}

// Upsert writes a show's deal terms, replacing any previous terms. One deal
// per show.
func (s *DealsStore) Upsert(ctx context.Context, deal *Deal) error {
	query := `
		INSERT INTO deals (show_id, guarantee, split_pct, expenses_estimate, terms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (show_id) DO UPDATE
		SET guarantee = EXCLUDED.guarantee,
		    split_pct = EXCLUDED.split_pct,
		    expenses_estimate = EXCLUDED.expenses_estimate,
		    terms = EXCLUDED.terms,
		    updated_at = now()
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		deal.ShowID,
		deal.Guarantee,
		deal.SplitPct,
		deal.ExpensesEstimate,
		deal.Terms,
	).Scan(&deal.ID, &deal.CreatedAt, &deal.UpdatedAt)
}

func (s *DealsStore) GetByShow(ctx context.Context, showID int64) (*Deal, error) {
	query := `
		SELECT id, show_id, guarantee, split_pct, expenses_estimate, terms, created_at, updated_at
		FROM deals
		WHERE show_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var d Deal
	err := s.db.QueryRow(ctx, query, showID).Scan(
		&d.ID, &d.ShowID, &d.Guarantee, &d.SplitPct, &d.ExpensesEstimate,
		&d.Terms, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *DealsStore) CreateSettlement(ctx context.Context, st *Settlement) error {
	query := `
		INSERT INTO settlements (show_id, gross_sales, expenses, artist_payout, promoter_net, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		st.ShowID,
		st.GrossSales,
		st.Expenses,
		st.ArtistPayout,
		st.PromoterNet,
		st.SettledAt,
	).Scan(&st.ID)
}

func (s *DealsStore) GetSettlementByShow(ctx context.Context, showID int64) (*Settlement, error) {
	query := `
		SELECT id, show_id, gross_sales, expenses, artist_payout, promoter_net, settled_at
		FROM settlements
		WHERE show_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var st Settlement
	err := s.db.QueryRow(ctx, query, showID).Scan(
		&st.ID, &st.ShowID, &st.GrossSales, &st.Expenses,
		&st.ArtistPayout, &st.PromoterNet, &st.SettledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (s *DealsStore) ListSettlementsByTour(ctx context.Context, tourID int64) ([]SettlementRow, error) {
	query := `
		SELECT st.show_id, sh.date, v.name, st.gross_sales, st.expenses,
		       st.artist_payout, st.promoter_net, st.settled_at
		FROM settlements st
		JOIN shows sh ON sh.id = st.show_id
		JOIN venues v ON v.id = sh.venue_id
		WHERE sh.tour_id = $1
		ORDER BY sh.date
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SettlementRow
	for rows.Next() {
		var r SettlementRow
		if err := rows.Scan(
			&r.ShowID, &r.ShowDate, &r.VenueName, &r.GrossSales,
			&r.Expenses, &r.ArtistPayout, &r.PromoterNet, &r.SettledAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
