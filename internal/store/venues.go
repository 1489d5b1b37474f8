package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Climate mirrors one month of a venue's climate profile. The full profile
// is stored as a JSONB object keyed by month number (1-12).
type Climate struct {
	AvgHighC    float64 `json:"avg_high_c"`
	AvgLowC     float64 `json:"avg_low_c"`
	PrecipDays  float64 `json:"precip_days"`
	HotDaysPct  float64 `json:"hot_days_pct"`
	ColdDaysPct float64 `json:"cold_days_pct"`
}

type Venue struct {
	ID        int64           `json:"id"`
	OrgID     int64           `json:"org_id"`
	Name      string          `json:"name"`
	Address   *string         `json:"address,omitempty"`
	City      string          `json:"city"`
	State     string          `json:"state"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
	Capacity  *int            `json:"capacity,omitempty"`
	Outdoor   bool            `json:"outdoor"`
	Climate   map[int]Climate `json:"climate,omitempty"`
	ImageURLs []string        `json:"image_urls,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type VenueFilter struct {
	OrgID       int64
	States      []string
	MinCapacity *int
	MaxCapacity *int
}

type VenuesStore struct {
	db *pgxpool.Pool
}

func (s *VenuesStore) Create(ctx context.Context, venue *Venue) error {
	query := `
		INSERT INTO venues (org_id, name, address, city, state, latitude, longitude,
		                    capacity, outdoor, climate, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	climate, err := json.Marshal(venue.Climate)
	if err != nil {
		return fmt.Errorf("marshaling climate profile: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		venue.OrgID,
		venue.Name,
		venue.Address,
		venue.City,
		venue.State,
		venue.Latitude,
		venue.Longitude,
		venue.Capacity,
		venue.Outdoor,
		climate,
		venue.ImageURLs,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
}

func (s *VenuesStore) GetByID(ctx context.Context, orgID, venueID int64) (*Venue, error) {
	query := `
		SELECT id, org_id, name, address, city, state, latitude, longitude,
		       capacity, outdoor, climate, COALESCE(image_urls, '{}'), created_at, updated_at
		FROM venues
		WHERE id = $1 AND org_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var v Venue
	var climate []byte
	err := s.db.QueryRow(ctx, query, venueID, orgID).Scan(
		&v.ID, &v.OrgID, &v.Name, &v.Address, &v.City, &v.State,
		&v.Latitude, &v.Longitude, &v.Capacity, &v.Outdoor, &climate,
		&v.ImageURLs, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(climate) > 0 {
		if err := json.Unmarshal(climate, &v.Climate); err != nil {
			return nil, fmt.Errorf("unmarshaling climate profile: %w", err)
		}
	}
	return &v, nil
}

func (s *VenuesStore) List(ctx context.Context, filter VenueFilter) ([]Venue, error) {
	query := `
		SELECT id, org_id, name, address, city, state, latitude, longitude,
		       capacity, outdoor, climate, COALESCE(image_urls, '{}'), created_at, updated_at
		FROM venues
		WHERE org_id = $1
	`
	args := []interface{}{filter.OrgID}
	argCounter := 2

	if len(filter.States) > 0 {
		query += fmt.Sprintf(" AND upper(state) = ANY($%d)", argCounter)
		upper := make([]string, len(filter.States))
		for i, st := range filter.States {
			upper[i] = strings.ToUpper(st)
		}
		args = append(args, upper)
		argCounter++
	}
	if filter.MinCapacity != nil {
		query += fmt.Sprintf(" AND capacity >= $%d", argCounter)
		args = append(args, *filter.MinCapacity)
		argCounter++
	}
	if filter.MaxCapacity != nil {
		query += fmt.Sprintf(" AND capacity <= $%d", argCounter)
		args = append(args, *filter.MaxCapacity)
		argCounter++
	}
	query += " ORDER BY name"

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []Venue
	for rows.Next() {
		var v Venue
		var climate []byte
		if err := rows.Scan(
			&v.ID, &v.OrgID, &v.Name, &v.Address, &v.City, &v.State,
			&v.Latitude, &v.Longitude, &v.Capacity, &v.Outdoor, &climate,
			&v.ImageURLs, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(climate) > 0 {
			if err := json.Unmarshal(climate, &v.Climate); err != nil {
				return nil, fmt.Errorf("unmarshaling climate profile: %w", err)
			}
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

func (s *VenuesStore) Update(ctx context.Context, orgID, venueID int64, updateData map[string]interface{}) error {
	allowed := map[string]bool{
		"name": true, "address": true, "city": true, "state": true,
		"latitude": true, "longitude": true, "capacity": true, "outdoor": true,
		"climate": true,
	}

	query := "UPDATE venues SET "
	args := []interface{}{}
	argCounter := 1

	for key, value := range updateData {
		if !allowed[key] {
			continue
		}
		if key == "climate" {
			raw, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("marshaling climate profile: %w", err)
			}
			value = raw
		}
		query += fmt.Sprintf("%s = $%d, ", key, argCounter)
		args = append(args, value)
		argCounter++
	}
	if len(args) == 0 {
		return nil
	}

	query += fmt.Sprintf("updated_at = now() WHERE id = $%d AND org_id = $%d", argCounter, argCounter+1)
	args = append(args, venueID, orgID)

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

func (s *VenuesStore) Delete(ctx context.Context, orgID, venueID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM venues WHERE id = $1 AND org_id = $2`, venueID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *VenuesStore) AddPhotoURL(ctx context.Context, venueID int64, photoURL string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`UPDATE venues SET image_urls = array_append(image_urls, $1) WHERE id = $2`,
		photoURL, venueID,
	)
	if err != nil {
		return fmt.Errorf("failed to add photo URL: %w", err)
	}
	return nil
}

func (s *VenuesStore) RemovePhotoURL(ctx context.Context, venueID int64, photoURL string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`UPDATE venues SET image_urls = array_remove(image_urls, $1) WHERE id = $2`,
		photoURL, venueID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove photo URL: %w", err)
	}
	return nil
}
