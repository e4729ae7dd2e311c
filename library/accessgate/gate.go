package accessgate

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

const (
	defaultTokenTTL = 7 * 24 * time.Hour
	issuer          = "library-lending-ledger"
)

var (
	// ErrEmptySecret is returned when a Gate is created without a signing secret.
	ErrEmptySecret = errors.New("token signing secret must not be empty")

	// ErrMissingToken is returned when a request carries no token.
	ErrMissingToken = core.NewKindError(core.ErrUnauthorized, "Not authorized, no token")

	// ErrInvalidToken is returned when a token can not be verified.
	ErrInvalidToken = core.NewKindError(core.ErrUnauthorized, "Not authorized, token failed")

	// ErrAdminRequired is returned when a non-admin calls an admin route.
	ErrAdminRequired = core.NewKindError(core.ErrForbidden, "Not authorized as an admin")
)

// Identity is the authenticated caller.
type Identity struct {
	ID   core.ReaderIDString
	Role core.RoleString
}

// IsAdmin reports whether the caller has the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == core.RoleAdmin
}

// Claims are the JWT claims carried by a token.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Gate signs and verifies HS256 tokens.
type Gate struct {
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithTokenTTL sets how long issued tokens stay valid. Non-positive values are ignored.
func WithTokenTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithClock replaces time.Now as the source of issue and expiry times.
func WithClock(clock func() time.Time) Option {
	return func(g *Gate) {
		g.clock = clock
	}
}

// NewGate creates a Gate signing with the given secret.
func NewGate(secret []byte, opts ...Option) (*Gate, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	g := &Gate{
		secret: secret,
		ttl:    defaultTokenTTL,
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Issue signs a token for the identity.
func (g *Gate) Issue(identity Identity) (string, error) {
	now := g.clock()

	claims := Claims{
		ID:   identity.ID,
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Resolve verifies the token and returns the identity it was issued for.
func (g *Gate) Resolve(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(g.clock),
	)
	if err != nil {
		return Identity{}, errors.Join(ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.ID == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{ID: claims.ID, Role: claims.Role}, nil
}
