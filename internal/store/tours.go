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

type Tour struct {
	ID        int64      `json:"id"`
	OrgID     int64      `json:"org_id"`
	ArtistID  int64      `json:"artist_id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"` // planning, announced, active, completed
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	ShareCode *string    `json:"share_code,omitempty"`
	CreatedBy int64      `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type ToursStore struct {
	db *pgxpool.Pool
}

func (s *ToursStore) Create(ctx context.Context, tour *Tour) error {
	query := `
		INSERT INTO tours (org_id, artist_id, name, status, start_date, end_date, created_by)
		VALUES ($1, $2, $3, 'planning', $4, $5, $6)
		RETURNING id, status, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, query,
		tour.OrgID,
		tour.ArtistID,
		tour.Name,
		tour.StartDate,
		tour.EndDate,
		tour.CreatedBy,
	).Scan(&tour.ID, &tour.Status, &tour.CreatedAt, &tour.UpdatedAt)
	if err != nil {
		return err
	}

	// The creator is always a member.
	_, err = tx.Exec(ctx, `
		INSERT INTO tour_members (tour_id, user_id, role)
		VALUES ($1, $2, 'owner')
	`, tour.ID, tour.CreatedBy)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *ToursStore) GetByID(ctx context.Context, orgID, tourID int64) (*Tour, error) {
	query := `
		SELECT id, org_id, artist_id, name, status, start_date, end_date, share_code,
		       created_by, created_at, updated_at
		FROM tours
		WHERE id = $1 AND org_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var t Tour
	err := s.db.QueryRow(ctx, query, tourID, orgID).Scan(
		&t.ID, &t.OrgID, &t.ArtistID, &t.Name, &t.Status, &t.StartDate,
		&t.EndDate, &t.ShareCode, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByShareCode resolves a public share link; no org scoping, the code is
// the capability.
func (s *ToursStore) GetByShareCode(ctx context.Context, code string) (*Tour, error) {
	query := `
		SELECT id, org_id, artist_id, name, status, start_date, end_date, share_code,
		       created_by, created_at, updated_at
		FROM tours
		WHERE share_code = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var t Tour
	err := s.db.QueryRow(ctx, query, code).Scan(
		&t.ID, &t.OrgID, &t.ArtistID, &t.Name, &t.Status, &t.StartDate,
		&t.EndDate, &t.ShareCode, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *ToursStore) List(ctx context.Context, orgID int64) ([]Tour, error) {
	query := `
		SELECT id, org_id, artist_id, name, status, start_date, end_date, share_code,
		       created_by, created_at, updated_at
		FROM tours
		WHERE org_id = $1
		ORDER BY start_date NULLS LAST, name
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tours []Tour
	for rows.Next() {
		var t Tour
		if err := rows.Scan(
			&t.ID, &t.OrgID, &t.ArtistID, &t.Name, &t.Status, &t.StartDate,
			&t.EndDate, &t.ShareCode, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

func (s *ToursStore) Update(ctx context.Context, orgID, tourID int64, updateData map[string]interface{}) error {
	allowed := map[string]bool{
		"name": true, "status": true, "start_date": true, "end_date": true,
	}

	query := "UPDATE tours SET "
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
	args = append(args, tourID, orgID)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ToursStore) Delete(ctx context.Context, orgID, tourID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM tours WHERE id = $1 AND org_id = $2`, tourID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ToursStore) SetShareCode(ctx context.Context, tourID int64, code string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`UPDATE tours SET share_code = $1, updated_at = now() WHERE id = $2`,
		code, tourID,
	)
	return err
}

func (s *ToursStore) AddMember(ctx context.Context, tourID, userID int64, role string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx, `
		INSERT INTO tour_members (tour_id, user_id, role)
		VALUES ($1, $2, $3)
	`, tourID, userID, role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *ToursStore) RemoveMember(ctx context.Context, tourID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx,
		`DELETE FROM tour_members WHERE tour_id = $1 AND user_id = $2`,
		tourID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ToursStore) IsMember(ctx context.Context, tourID, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM tour_members WHERE tour_id = $1 AND user_id = $2)
	`, tourID, userID).Scan(&exists)
	return exists, err
}
