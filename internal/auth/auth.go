// Package auth reads the caller identity from a bearer token. Identity is
// optional: requests without a valid token are served anonymously.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type User struct {
	ID       string
	Username string
	Email    string
}

type Claims struct {
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret       string
	PublicKeyPEM string
	Issuer       string
}

type Verifier struct {
	key     any
	methods []string
	issuer  string
}

// NewVerifier returns nil when neither a secret nor a public key is set.
func NewVerifier(cfg Config) (*Verifier, error) {
	switch {
	case cfg.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse jwt public key: %w", err)
		}
		return &Verifier{key: key, methods: []string{"RS256", "RS384", "RS512"}, issuer: cfg.Issuer}, nil
	case cfg.Secret != "":
		return &Verifier{key: []byte(cfg.Secret), methods: []string{"HS256", "HS384", "HS512"}, issuer: cfg.Issuer}, nil
	default:
		return nil, nil
	}
}

var ErrNoSubject = errors.New("token has no subject")

func (v *Verifier) Verify(tokenString string) (User, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods(v.methods), jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return User{}, err
	}
	if claims.Subject == "" {
		return User{}, ErrNoSubject
	}

	return User{
		ID:       claims.Subject,
		Username: claims.PreferredUsername,
		Email:    claims.Email,
	}, nil
}

type contextKey struct{}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

func UserFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(contextKey{}).(User)
	return u, ok && u.ID != ""
}

// Middleware attaches the verified user to the request context. It never
// rejects a request; a nil verifier disables it.
func Middleware(v *Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if v == nil {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return next(c)
			}

			user, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				slog.Debug("ignoring invalid bearer token", slog.String("error", err.Error()))
				return next(c)
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithUser(req.Context(), user)))
			return next(c)
		}
	}
}
