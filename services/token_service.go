package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long an issued identity token stays valid.
const TokenTTL = 24 * time.Hour

var (
	// ErrTokenMissing means no credential was supplied at all. Callers map
	// this to 401, as opposed to ErrTokenInvalid which maps to 403.
	ErrTokenMissing = errors.New("missing token")
	// ErrTokenInvalid covers bad signatures, malformed tokens and expiry.
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// Identity is the verified content of a token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// TokenService is responsible for creating and validating JWTs.
type TokenService struct {
	secretKey []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secretKey: []byte(secret)}
}

// Issue creates a signed token embedding the user id, email and role.
func (s *TokenService) Issue(userID, email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   now.Add(TokenTTL).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Verify parses and validates a token string and returns the embedded
// identity. An empty string fails with ErrTokenMissing; anything that does
// not verify fails with ErrTokenInvalid.
func (s *TokenService) Verify(tokenStr string) (*Identity, error) {
	if tokenStr == "" {
		return nil, ErrTokenMissing
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || email == "" {
		return nil, ErrTokenInvalid
	}

	return &Identity{UserID: sub, Email: email, Role: role}, nil
}
