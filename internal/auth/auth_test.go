package auth_test

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgie/internal/auth"
)

const secret = "test-secret"

func TestJWTVerifier_Verify(t *testing.T) {
	issuer := auth.NewIssuer(secret, "budgie-idp")

	valid, err := issuer.IDToken("uid-1", "a@example.com", "budgie", time.Hour)
	require.NoError(t, err)

	expired, err := issuer.IDToken("uid-1", "a@example.com", "budgie", -time.Hour)
	require.NoError(t, err)

	wrongAudience, err := issuer.IDToken("uid-1", "a@example.com", "other", time.Hour)
	require.NoError(t, err)

	foreign, err := auth.NewIssuer("another-secret", "budgie-idp").IDToken("uid-1", "", "budgie", time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "uid-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		want    auth.Identity
		wantErr bool
	}{
		{name: "Valid", token: valid, want: auth.Identity{UserID: "uid-1", Email: "a@example.com"}},
		{name: "Expired", token: expired, wantErr: true},
		{name: "WrongAudience", token: wrongAudience, wantErr: true},
		{name: "WrongSecret", token: foreign, wantErr: true},
		{name: "UnsignedToken", token: noneAlg, wantErr: true},
		{name: "Garbage", token: "not-a-jwt", wantErr: true},
	}

	v := auth.NewJWTVerifier(secret, "budgie-idp", "budgie")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Verify(context.Background(), tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, auth.ErrInvalidToken)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJWTVerifier_UserIDClaimFallback(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: "legacy-uid",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	got, err := auth.NewJWTVerifier(secret, "", "").Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "legacy-uid", got.UserID)
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "Bearer", header: "Bearer abc.def", want: "abc.def"},
		{name: "LowercaseScheme", header: "bearer abc", want: "abc"},
		{name: "Missing", header: "", wantErr: true},
		{name: "WrongScheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "NoToken", header: "Bearer ", wantErr: true},
		{name: "NoSeparator", header: "Bearerabc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			got, err := auth.TokenFromRequest(r)
			if tt.wantErr {
				assert.ErrorIs(t, err, auth.ErrMissingToken)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()

	_, ok := auth.UserIDFromContext(ctx)
	assert.False(t, ok)
	assert.False(t, auth.IsAdmin(ctx))

	ctx = auth.WithAdmin(auth.WithUserID(ctx, "uid-9"))

	id, ok := auth.UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "uid-9", id)
	assert.True(t, auth.IsAdmin(ctx))
}

func TestJWTVerifier_RejectsResetCodes(t *testing.T) {
	issuer := auth.NewIssuer(secret, "budgie-idp")

	link, err := auth.NewResetLinker(issuer, "https://app.example.com/reset", time.Hour).
		PasswordResetLink(context.Background(), "a@example.com")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)

	// No configured audience, so only the reset marker can tell the code apart.
	v := auth.NewJWTVerifier(secret, "budgie-idp", "")

	_, err = v.Verify(context.Background(), u.Query().Get("oobCode"))
	require.ErrorIs(t, err, auth.ErrInvalidToken)

	idToken, err := issuer.IDToken("uid-1", "a@example.com", "", time.Hour)
	require.NoError(t, err)

	got, err := v.Verify(context.Background(), idToken)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", got.UserID)
}

func TestResetLinker_PasswordResetLink(t *testing.T) {
	linker := auth.NewResetLinker(auth.NewIssuer(secret, "budgie-idp"), "https://app.example.com/reset", 15*time.Minute)

	link, err := linker.PasswordResetLink(context.Background(), "a@example.com")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "app.example.com", u.Host)
	assert.Equal(t, "resetPassword", u.Query().Get("mode"))

	claims := &auth.Claims{}
	_, err = jwt.ParseWithClaims(u.Query().Get("oobCode"), claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithAudience("password-reset"))
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)
}
