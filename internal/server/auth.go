package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var errNoAccessToken = errors.New("no access token on request")

type contextKey string

const contextKeyPrincipal contextKey = "principal"

// Principal is the verified identity carried by an access token.
type Principal struct {
	UserID uuid.UUID
	Email  string
}

func contextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal, p)
}

func principalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKeyPrincipal).(Principal)
	return p, ok
}

type Authenticator interface {
	Authenticate(r *http.Request) (Principal, error)
}

// keySetSource is satisfied by *jwk.Cache.
type keySetSource interface {
	Lookup(ctx context.Context, url string) (jwk.Set, error)
}

// JWTAuthenticator reads the access token from the Authorization header or,
// failing that, from an encrypted cookie, and verifies it against a JWKS.
type JWTAuthenticator struct {
	keys       keySetSource
	jwksURL    string
	issuer     string
	cookieName string
	cookie     *securecookie.SecureCookie
}

type JWTAuthenticatorOption func(*JWTAuthenticator)

func WithIssuer(issuer string) JWTAuthenticatorOption {
	return func(a *JWTAuthenticator) { a.issuer = issuer }
}

// WithCookie enables the cookie fallback. The cookie value is decoded with sc.
func WithCookie(name string, sc *securecookie.SecureCookie) JWTAuthenticatorOption {
	return func(a *JWTAuthenticator) {
		a.cookieName = name
		a.cookie = sc
	}
}

func NewJWTAuthenticator(keys keySetSource, jwksURL string, opts ...JWTAuthenticatorOption) *JWTAuthenticator {
	a := &JWTAuthenticator{keys: keys, jwksURL: jwksURL}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *JWTAuthenticator) Authenticate(r *http.Request) (Principal, error) {
	raw, err := a.accessToken(r)
	if err != nil {
		return Principal{}, err
	}

	set, err := a.keys.Lookup(r.Context(), a.jwksURL)
	if err != nil {
		return Principal{}, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	parseOpts := []jwt.ParseOption{
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	}
	if a.issuer != "" {
		parseOpts = append(parseOpts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.Parse([]byte(raw), parseOpts...)
	if err != nil {
		return Principal{}, fmt.Errorf("failed to parse JWT: %w", err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return Principal{}, errors.New("no user ID in JWT subject claim")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return Principal{}, fmt.Errorf("JWT subject is not a user id: %w", err)
	}

	// email is optional
	var email string
	_ = token.Get("email", &email)

	return Principal{UserID: userID, Email: email}, nil
}

func (a *JWTAuthenticator) accessToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", errors.New("malformed authorization header")
		}
		return strings.TrimSpace(token), nil
	}

	if a.cookie == nil {
		return "", errNoAccessToken
	}

	cookie, err := r.Cookie(a.cookieName)
	if err != nil {
		return "", errNoAccessToken
	}

	var token string
	if err := a.cookie.Decode(a.cookieName, cookie.Value, &token); err != nil {
		return "", fmt.Errorf("failed to decrypt access token: %w", err)
	}

	return token, nil
}
