package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no_token")
	ErrInvalidToken = errors.New("invalid_token")
)

// Identity is the verified subject of a bearer token.
type Identity struct {
	UID string
}

// Verifier checks an opaque bearer token and resolves the caller.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type jwtVerifier struct {
	secret []byte
}

func NewVerifier(cfg config.Config) Verifier {
	return &jwtVerifier{secret: []byte(cfg.AuthJWTSecret)}
}

func (v *jwtVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, ErrNoToken
	}
	if len(v.secret) == 0 {
		return Identity{}, ErrInvalidToken
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UID: sub}, nil
}
