package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail   = errors.New("a user with that email already exists")
	ErrTokenExpired     = errors.New("activation token is invalid or has expired")
	ErrAccountNotActive = errors.New("account has not been activated")
)

// User belongs to exactly one organization; every resource in the system is
// scoped by the org id carried here.
type User struct {
	ID           int64     `json:"id"`
	OrgID        int64     `json:"org_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"` // owner, manager, viewer
	Password     password  `json:"-"`
	RefreshToken string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type password struct {
	text *string
	hash []byte
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.text = &text
	p.hash = hash
	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

type UsersStore struct {
	db *pgxpool.Pool
}

func (s *UsersStore) GetByID(ctx context.Context, userID int64) (*User, error) {
	query := `
		SELECT id, org_id, first_name, last_name, email, role, password_hash,
		       COALESCE(refresh_token, ''), is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var user User
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.OrgID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Role,
		&user.Password.hash,
		&user.RefreshToken,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UsersStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, org_id, first_name, last_name, email, role, password_hash,
		       COALESCE(refresh_token, ''), is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var user User
	err := s.db.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&user.ID,
		&user.OrgID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Role,
		&user.Password.hash,
		&user.RefreshToken,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateAndInvite creates the user's organization, the user, and an
// activation invitation in one transaction, so a failed invite never leaves
// an orphaned account behind.
func (s *UsersStore) CreateAndInvite(ctx context.Context, user *User, orgName, token string, exp time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if orgName == "" {
		orgName = fmt.Sprintf("%s %s", user.FirstName, user.LastName)
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO organizations (name) VALUES ($1) RETURNING id`,
		orgName,
	).Scan(&user.OrgID)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO users (org_id, first_name, last_name, email, role, password_hash)
		VALUES ($1, $2, $3, $4, 'owner', $5)
		RETURNING id, role, created_at, updated_at
	`,
		user.OrgID,
		user.FirstName,
		user.LastName,
		strings.ToLower(user.Email),
		user.Password.hash,
	).Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_invitations (token, user_id, expiry)
		VALUES ($1, $2, $3)
	`, token, user.ID, time.Now().Add(exp))
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Activate flips the user active and burns the invitation token.
func (s *UsersStore) Activate(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx, `
		SELECT user_id FROM user_invitations
		WHERE token = $1 AND expiry > now()
	`, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTokenExpired
		}
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET is_active = true, updated_at = now() WHERE id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_invitations WHERE user_id = $1`, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *UsersStore) UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`UPDATE users SET refresh_token = $1, updated_at = now() WHERE id = $2`,
		refreshToken, userID,
	)
	return err
}

func (s *UsersStore) ClearRefreshToken(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`UPDATE users SET refresh_token = NULL, updated_at = now() WHERE id = $1`,
		userID,
	)
	return err
}

// UpdateUser applies a partial update from a column->value map. Only
// whitelisted columns are touched.
func (s *UsersStore) UpdateUser(ctx context.Context, userID int64, updateData map[string]interface{}) error {
	allowed := map[string]bool{"first_name": true, "last_name": true}

	query := "UPDATE users SET "
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

	query += fmt.Sprintf("updated_at = now() WHERE id = $%d", argCounter)
	args = append(args, userID)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx, query, args...)
	return err
}
