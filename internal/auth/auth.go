package auth

import "github.com/golang-jwt/jwt/v5"

// Authenticator issues and validates the access/refresh token pair used by
// the API. GenerateTokens returns (access, refresh); the refresh token is
// persisted on the user row so logout can revoke it.
type Authenticator interface {
	GenerateTokens(userID int64, role string) (string, string, error)
	ValidateAccessToken(token string) (*jwt.Token, error)
	ValidateRefreshToken(token string) (*jwt.Token, error)
}
