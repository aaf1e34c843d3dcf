package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the user id in sub and the admin flag.
type Claims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider validates HS256 bearer tokens signed with a shared secret.
type JWTProvider struct {
	secret []byte
	now    func() time.Time
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), now: time.Now}
}

func (p *JWTProvider) Resolve(r *http.Request) (Session, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return Session{}, ErrNoIdentity
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return Session{}, fmt.Errorf("%w: authorization header must be a bearer token", ErrInvalidCredentials)
	}
	return p.Parse(strings.TrimSpace(token))
}

// Parse validates a raw token and returns its session.
func (p *JWTProvider) Parse(raw string) (Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if !token.Valid {
		return Session{}, ErrInvalidCredentials
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Session{}, fmt.Errorf("%w: subject must be a positive user id", ErrInvalidCredentials)
	}
	return Session{UserID: userID, IsAdmin: claims.Admin}, nil
}

// Issue signs a token for the session. Used by tests and local tooling.
func (p *JWTProvider) Issue(s Session, ttl time.Duration) (string, error) {
	if s.UserID <= 0 {
		return "", errors.New("session requires a user id")
	}
	now := p.now()
	claims := Claims{
		Admin: s.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(s.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
