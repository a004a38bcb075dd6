package auth

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const resetAudience = "password-reset"

// Issuer signs tokens with the same secret the JWTVerifier checks. The API
// only uses it for password-reset links; tests and the admin console use it
// to mint ID tokens.
type Issuer struct {
	secret []byte
	issuer string
}

func NewIssuer(secret, issuer string) *Issuer {
	return &Issuer{secret: []byte(secret), issuer: issuer}
}

func (i *Issuer) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// IDToken returns a signed token for userID valid for ttl.
func (i *Issuer) IDToken(userID, email, audience string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	return i.sign(claims)
}

// ResetLinker builds time-limited password-reset links that the identity
// provider's reset page redeems.
type ResetLinker struct {
	issuer  *Issuer
	baseURL string
	ttl     time.Duration
}

func NewResetLinker(issuer *Issuer, baseURL string, ttl time.Duration) *ResetLinker {
	return &ResetLinker{issuer: issuer, baseURL: baseURL, ttl: ttl}
}

func (l *ResetLinker) PasswordResetLink(_ context.Context, email string) (string, error) {
	u, err := url.Parse(l.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing reset url: %w", err)
	}

	now := time.Now()

	code, err := l.issuer.sign(Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    l.issuer.issuer,
			Audience:  jwt.ClaimStrings{resetAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(l.ttl)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("signing reset code: %w", err)
	}

	q := u.Query()
	q.Set("mode", "resetPassword")
	q.Set("oobCode", code)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
