package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Show statuses. A show starts as a hold on a date, gets confirmed, and is
// settled after the night closes out.
const (
	ShowStatusHold      = "hold"
	ShowStatusConfirmed = "confirmed"
	ShowStatusSettled   = "settled"
	ShowStatusCanceled  = "canceled"
)

var ErrInvalidTransition = errors.New("invalid show status transition")

type Show struct {
	ID          int64     `json:"id"`
	OrgID       int64     `json:"org_id"`
	TourID      int64     `json:"tour_id"`
	VenueID     int64     `json:"venue_id"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	TicketPrice *float64  `json:"ticket_price,omitempty"`
	Capacity    *int      `json:"capacity,omitempty"` // overrides the venue's capacity when set
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// validTransitions encodes the show lifecycle; canceled is reachable from
// anything except settled.
var validTransitions = map[string][]string{
	ShowStatusHold:      {ShowStatusConfirmed, ShowStatusCanceled},
	ShowStatusConfirmed: {ShowStatusSettled, ShowStatusCanceled},
}

func transitionAllowed(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type ShowsStore struct {
	db *pgxpool.Pool
}

// Create inserts a show as a hold. A unique index on (venue_id, date) for
// non-canceled shows surfaces double-booking as ErrConflict.
func (s *ShowsStore) Create(ctx context.Context, show *Show) error {
	query := `
		INSERT INTO shows (org_id, tour_id, venue_id, date, status, ticket_price, capacity, notes)
		VALUES ($1, $2, $3, $4, 'hold', $5, $6, $7)
		RETURNING id, status, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		show.OrgID,
		show.TourID,
		show.VenueID,
		show.Date,
		show.TicketPrice,
		show.Capacity,
		show.Notes,
	).Scan(&show.ID, &show.Status, &show.CreatedAt, &show.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *ShowsStore) GetByID(ctx context.Context, orgID, showID int64) (*Show, error) {
	query := `
		SELECT id, org_id, tour_id, venue_id, date, status, ticket_price, capacity, notes,
		       created_at, updated_at
		FROM shows
		WHERE id = $1 AND org_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var sh Show
	err := s.db.QueryRow(ctx, query, showID, orgID).Scan(
		&sh.ID, &sh.OrgID, &sh.TourID, &sh.VenueID, &sh.Date, &sh.Status,
		&sh.TicketPrice, &sh.Capacity, &sh.Notes, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sh, nil
}

func (s *ShowsStore) ListByTour(ctx context.Context, tourID int64) ([]Show, error) {
	query := `
		SELECT id, org_id, tour_id, venue_id, date, status, ticket_price, capacity, notes,
		       created_at, updated_at
		FROM shows
		WHERE tour_id = $1
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShows(rows)
}

func (s *ShowsStore) ListByDateRange(ctx context.Context, orgID int64, from, to time.Time) ([]Show, error) {
	query := `
		SELECT id, org_id, tour_id, venue_id, date, status, ticket_price, capacity, notes,
		       created_at, updated_at
		FROM shows
		WHERE org_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, orgID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShows(rows)
}

func scanShows(rows pgx.Rows) ([]Show, error) {
	var shows []Show
	for rows.Next() {
		var sh Show
		if err := rows.Scan(
			&sh.ID, &sh.OrgID, &sh.TourID, &sh.VenueID, &sh.Date, &sh.Status,
			&sh.TicketPrice, &sh.Capacity, &sh.Notes, &sh.CreatedAt, &sh.UpdatedAt,
		); err != nil {
			return nil, err
		}
		shows = append(shows, sh)
	}
	return shows, rows.Err()
}

// UpdateStatus moves a show through its lifecycle, enforcing the
// hold -> confirmed -> settled transitions.
func (s *ShowsStore) UpdateStatus(ctx context.Context, orgID, showID int64, status string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx,
		`SELECT status FROM shows WHERE id = $1 AND org_id = $2 FOR UPDATE`,
		showID, orgID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if !transitionAllowed(current, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE shows SET status = $1, updated_at = now() WHERE id = $2`,
		status, showID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *ShowsStore) Update(ctx context.Context, orgID, showID int64, updateData map[string]interface{}) error {
	allowed := map[string]bool{
		"date": true, "venue_id": true, "ticket_price": true, "capacity": true, "notes": true,
	}

	query := "UPDATE shows SET "
	args := []interface{}{}
	argCounter := 1

	for key, value := range updateData {
		if !allowed[key] {
			continue
		}
		query += fmt.Sprintf("%s = $%d, ", key, argCounter)
		args = append(args, value)
		argCounter++
	}
	if len(args) == 0 {
		return nil
	}

	query += fmt.Sprintf("updated_at = now() WHERE id = $%d AND org_id = $%d", argCounter, argCounter+1)
	args = append(args, showID, orgID)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ShowsStore) Delete(ctx context.Context, orgID, showID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM shows WHERE id = $1 AND org_id = $2`, showID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
