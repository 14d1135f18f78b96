// Package auth verifies the bearer credential a client presents when
// joining a class and yields the identity the session layer consumes.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chessclass/liveboard/internal/domain"
)

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
)

// Verifier turns a bearer credential into an identity.
type Verifier interface {
	Verify(token string) (domain.Identity, error)
}

// claims mirrors what the account service puts into its HS256 tokens.
// The subject lives in the legacy "id" claim, not "sub".
type claims struct {
	jwt.RegisteredClaims
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// JWTVerifier validates HMAC-signed tokens issued by the account
// service.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, ErrNoToken
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID := parsed.ID
	if userID == "" {
		userID = parsed.Subject
	}
	if userID == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing user id claim", ErrInvalidToken)
	}

	name := parsed.Name
	if name == "" {
		name = "Usuario"
	}
	id, err := domain.NewIdentity(userID, name, parsed.Role)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return id, nil
}
