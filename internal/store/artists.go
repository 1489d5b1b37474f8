package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Artist struct {
	ID        int64     `json:"id"`
	OrgID     int64     `json:"org_id"`
	Name      string    `json:"name"`
	Genre     *string   `json:"genre,omitempty"`
	HomeCity  *string   `json:"home_city,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	DrawSize  *int      `json:"draw_size,omitempty"` // typical headcount the act pulls
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ArtistsStore struct {
	db *pgxpool.Pool
}

func (s *ArtistsStore) Create(ctx context.Context, artist *Artist) error {
	query := `
		INSERT INTO artists (org_id, name, genre, home_city, bio, draw_size, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		artist.OrgID,
		artist.Name,
		artist.Genre,
		artist.HomeCity,
		artist.Bio,
		artist.DrawSize,
		artist.ImageURL,
	).Scan(&artist.ID, &artist.CreatedAt, &artist.UpdatedAt)
}

func (s *ArtistsStore) GetByID(ctx context.Context, orgID, artistID int64) (*Artist, error) {
	query := `
		SELECT id, org_id, name, genre, home_city, bio, draw_size, image_url, created_at, updated_at
		FROM artists
		WHERE id = $1 AND org_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var a Artist
	err := s.db.QueryRow(ctx, query, artistID, orgID).Scan(
		&a.ID, &a.OrgID, &a.Name, &a.Genre, &a.HomeCity, &a.Bio,
		&a.DrawSize, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *ArtistsStore) List(ctx context.Context, orgID int64) ([]Artist, error) {
	query := `
		SELECT id, org_id, name, genre, home_city, bio, draw_size, image_url, created_at, updated_at
		FROM artists
		WHERE org_id = $1
		ORDER BY name
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(
			&a.ID, &a.OrgID, &a.Name, &a.Genre, &a.HomeCity, &a.Bio,
			&a.DrawSize, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

func (s *ArtistsStore) Update(ctx context.Context, orgID, artistID int64, updateData map[string]interface{}) error {
	allowed := map[string]bool{
		"name": true, "genre": true, "home_city": true, "bio": true, "draw_size": true,
	}

	query := "UPDATE artists SET "
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
	args = append(args, artistID, orgID)

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

func (s *ArtistsStore) Delete(ctx context.Context, orgID, artistID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM artists WHERE id = $1 AND org_id = $2`, artistID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ArtistsStore) SetImageURL(ctx context.Context, artistID int64, imageURL string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`UPDATE artists SET image_url = $1, updated_at = now() WHERE id = $2`,
		imageURL, artistID,
	)
	return err
}
