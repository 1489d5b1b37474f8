package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PushTokensStore struct {
	db *pgxpool.Pool
}

func (s *PushTokensStore) Register(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx, `
		INSERT INTO push_tokens (user_id, token)
		VALUES ($1, $2)
		ON CONFLICT (user_id, token) DO NOTHING
	`, userID, token)
	return err
}

func (s *PushTokensStore) Delete(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`DELETE FROM push_tokens WHERE user_id = $1 AND token = $2`,
		userID, token,
	)
	return err
}

// ListByOrg returns every device token registered by members of the org,
// for risk-alert fan-out.
func (s *PushTokensStore) ListByOrg(ctx context.Context, orgID int64) ([]string, error) {
	query := `
		SELECT pt.token
		FROM push_tokens pt
		JOIN users u ON u.id = pt.user_id
		WHERE u.org_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
