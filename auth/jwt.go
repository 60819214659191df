package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNotConfigured is returned when no auth base URL is set.
var ErrNotConfigured = errors.New("NEON_AUTH_BASE_URL is not set")

// Verifier validates Neon Auth JWTs against the provider's JWKS. The key set
// is fetched on first use and refreshed in the background after that.
type Verifier struct {
	issuer  string
	jwksURL string
	methods []string

	once    sync.Once
	keyfunc jwt.Keyfunc
	initErr error
}

// NewVerifier returns a verifier for the Neon Auth base URL (e.g. from
// NEON_AUTH_BASE_URL). An empty baseURL yields a verifier that rejects
// everything with ErrNotConfigured.
func NewVerifier(baseURL string) (*Verifier, error) {
	if baseURL == "" {
		return &Verifier{initErr: ErrNotConfigured}, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	return &Verifier{
		issuer:  u.Scheme + "://" + u.Host,
		jwksURL: strings.TrimSuffix(baseURL, "/") + "/.well-known/jwks.json",
		methods: []string{"EdDSA"},
	}, nil
}

// NewStaticVerifier checks tokens with a fixed key function, for tests and
// deployments that do not publish a JWKS.
func NewStaticVerifier(issuer string, kf jwt.Keyfunc, methods ...string) *Verifier {
	v := &Verifier{issuer: issuer, keyfunc: kf, methods: methods}
	v.once.Do(func() {})
	return v
}

// Configured reports whether tokens can be verified at all.
func (v *Verifier) Configured() bool {
	return v != nil && !errors.Is(v.initErr, ErrNotConfigured)
}

func (v *Verifier) init() {
	v.once.Do(func() {
		if v.initErr != nil {
			return
		}
		jwks, err := keyfunc.NewDefault([]string{v.jwksURL})
		if err != nil {
			v.initErr = fmt.Errorf("loading jwks: %w", err)
			return
		}
		v.keyfunc = jwks.Keyfunc
	})
}

// Verify parses and validates tokenString and returns its claims.
func (v *Verifier) Verify(tokenString string) (jwt.MapClaims, error) {
	if v == nil {
		return nil, ErrNotConfigured
	}
	v.init()
	if v.initErr != nil {
		return nil, v.initErr
	}
	token, err := jwt.Parse(tokenString, v.keyfunc,
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods(v.methods))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// FirstNameFromClaims returns the first word of the "name" claim, or a fallback.
func FirstNameFromClaims(claims jwt.MapClaims) string {
	name, _ := claims["name"].(string)
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "Player"
	}
	return parts[0]
}

// UserIDFromClaims returns the user id from claims ("sub" or "id").
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}
