// Package live implements D4: an optional websocket transport that pushes
// failure reports to connected dashboards as they happen, adapted from the
// teacher's internal/infrastructure/websocket package (hub.go fan-out, plus
// auth.go's JWT authenticator).
package live

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("live: missing authentication token")
	ErrInvalidToken = errors.New("live: invalid authentication token")
	ErrExpiredToken = errors.New("live: token has expired")
)

// Authenticator validates an incoming websocket upgrade request and returns
// the subscriber identity allowed to connect.
type Authenticator interface {
	Authenticate(r *http.Request) (subscriberID string, err error)
}

// JWTAuth authenticates connections with an HMAC-signed JWT, checked in the
// Authorization header or, for browser websocket clients that can't set
// custom headers, the "token" query parameter.
type JWTAuth struct {
	secretKey string
}

// NewJWTAuth returns a JWTAuth using secretKey to verify tokens.
func NewJWTAuth(secretKey string) *JWTAuth {
	return &JWTAuth{secretKey: secretKey}
}

// Authenticate implements Authenticator.
func (a *JWTAuth) Authenticate(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return a.validateToken(strings.TrimPrefix(authHeader, "Bearer "))
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return a.validateToken(token)
	}

	return "", ErrMissingToken
}

type claims struct {
	SubscriberID string `json:"subscriber_id"`
	jwt.RegisteredClaims
}

func (a *JWTAuth) validateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(a.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	id := c.SubscriberID
	if id == "" {
		id = c.Subject
	}
	if id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}

// GenerateToken issues a token for subscriberID, for use by tooling that
// dispenses dashboard access.
func (a *JWTAuth) GenerateToken(subscriberID string, expiresAt time.Time) (string, error) {
	c := claims{
		SubscriberID: subscriberID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subscriberID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(a.secretKey))
}

// NoAuth accepts every connection as an anonymous subscriber; useful for
// local development.
type NoAuth struct{}

// Authenticate implements Authenticator.
func (NoAuth) Authenticate(r *http.Request) (string, error) { return "anonymous", nil }
