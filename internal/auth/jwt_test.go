package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-bytes-minimum----"

func TestGenerateAndCurrentUser(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "authenticated")

	token, err := m.Generate(User{ID: "user-1", Email: "officer@example.org", Role: "authenticated"}, time.Hour)
	require.NoError(t, err)

	user, err := m.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "user-1", Email: "officer@example.org", Role: "authenticated"}, user)
}

func TestCurrentUserRejects(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "authenticated")

	expired, err := m.Generate(User{ID: "user-1"}, -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewJWTManager("another-secret-that-is-long-enough", "authenticated").Generate(User{ID: "user-1"}, time.Hour)
	require.NoError(t, err)

	wrongAudience, err := NewJWTManager(testSecret, "service_role").Generate(User{ID: "user-1"}, time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Audience: jwt.ClaimStrings{"authenticated"}},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	testCases := []struct {
		name     string
		token    string
		expected error
	}{
		{name: "Empty", token: "  ", expected: ErrMissingToken},
		{name: "Garbage", token: "not.a.jwt", expected: ErrInvalidToken},
		{name: "Expired", token: expired, expected: ErrInvalidToken},
		{name: "Wrong secret", token: otherSecret, expected: ErrInvalidToken},
		{name: "Wrong audience", token: wrongAudience, expected: ErrInvalidToken},
		{name: "No expiry", token: noExpiry, expected: ErrInvalidToken},
		{name: "Unexpected algorithm", token: hs512, expected: ErrInvalidToken},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			user, err := m.CurrentUser(context.Background(), tc.token)
			assert.Nil(t, user)
			assert.True(t, errors.Is(err, tc.expected), "got %v", err)
		})
	}
}

func TestGenerateRequiresSubject(t *testing.T) {
	t.Parallel()

	_, err := NewJWTManager(testSecret, "").Generate(User{}, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		header      string
		cookie      *http.Cookie
		expected    string
		expectedErr error
	}{
		{name: "Bearer", header: "Bearer abc", expected: "abc"},
		{name: "Lowercase bearer", header: "bearer abc", expected: "abc"},
		{name: "Cookie", cookie: &http.Cookie{Name: "session", Value: "from-cookie"}, expected: "from-cookie"},
		{name: "Header wins", header: "Bearer abc", cookie: &http.Cookie{Name: "session", Value: "x"}, expected: "abc"},
		{name: "Malformed header", header: "Basic abc", expectedErr: ErrMissingToken},
		{name: "Other cookie", cookie: &http.Cookie{Name: "other", Value: "x"}, expectedErr: ErrMissingToken},
		{name: "Nothing", expectedErr: ErrMissingToken},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}

			token, err := TokenFromRequest(req, "session")
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, token)
		})
	}
}
