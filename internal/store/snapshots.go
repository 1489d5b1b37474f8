package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketSnapshot is an append-only reading of a show's box office at a
// point in time. Snapshots are never updated in place.
type TicketSnapshot struct {
	ID               int64     `json:"id"`
	ShowID           int64     `json:"show_id"`
	CapturedAt       time.Time `json:"captured_at"`
	TicketsSold      int       `json:"tickets_sold"`
	TicketsAvailable int       `json:"tickets_available"`
	GrossSales       float64   `json:"gross_sales"`
}

type SnapshotsStore struct {
	db *pgxpool.Pool
}

func (s *SnapshotsStore) Create(ctx context.Context, snap *TicketSnapshot) error {
	query := `
		INSERT INTO ticket_snapshots (show_id, captured_at, tickets_sold, tickets_available, gross_sales)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		snap.ShowID,
		snap.CapturedAt,
		snap.TicketsSold,
		snap.TicketsAvailable,
		snap.GrossSales,
	).Scan(&snap.ID)
}

func (s *SnapshotsStore) ListByShow(ctx context.Context, showID int64) ([]TicketSnapshot, error) {
	query := `
		SELECT id, show_id, captured_at, tickets_sold, tickets_available, gross_sales
		FROM ticket_snapshots
		WHERE show_id = $1
		ORDER BY captured_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []TicketSnapshot
	for rows.Next() {
		var snap TicketSnapshot
		if err := rows.Scan(
			&snap.ID, &snap.ShowID, &snap.CapturedAt,
			&snap.TicketsSold, &snap.TicketsAvailable, &snap.GrossSales,
		); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *SnapshotsStore) LatestByShow(ctx context.Context, showID int64) (*TicketSnapshot, error) {
	query := `
		SELECT id, show_id, captured_at, tickets_sold, tickets_available, gross_sales
		FROM ticket_snapshots
		WHERE show_id = $1
		ORDER BY captured_at DESC
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var snap TicketSnapshot
	err := s.db.QueryRow(ctx, query, showID).Scan(
		&snap.ID, &snap.ShowID, &snap.CapturedAt,
		&snap.TicketsSold, &snap.TicketsAvailable, &snap.GrossSales,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &snap, nil
}
