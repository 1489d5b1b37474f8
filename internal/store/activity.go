package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Activity is one row of the org-wide audit feed.
type Activity struct {
	ID         int64     `json:"id"`
	OrgID      int64     `json:"org_id"`
	UserID     int64     `json:"user_id"`
	Verb       string    `json:"verb"` // created, updated, deleted, confirmed, settled, ...
	ObjectType string    `json:"object_type"`
	ObjectID   int64     `json:"object_id"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ActivityStore struct {
	db *pgxpool.Pool
}

func (s *ActivityStore) Log(ctx context.Context, a *Activity) error {
	query := `
		INSERT INTO activity_log (org_id, user_id, verb, object_type, object_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		a.OrgID, a.UserID, a.Verb, a.ObjectType, a.ObjectID, a.Detail,
	).Scan(&a.ID, &a.CreatedAt)
}

func (s *ActivityStore) ListByOrg(ctx context.Context, orgID int64, limit int) ([]Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, org_id, user_id, verb, object_type, object_id, detail, created_at
		FROM activity_log
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(
			&a.ID, &a.OrgID, &a.UserID, &a.Verb, &a.ObjectType,
			&a.ObjectID, &a.Detail, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
