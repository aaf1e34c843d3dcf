package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTProvider_RoundTrip(t *testing.T) {
	p := NewJWTProvider("secret")
	token, err := p.Issue(Session{UserID: 42, IsAdmin: true}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	session, err := p.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, Session{UserID: 42, IsAdmin: true}, session)
}

func TestJWTProvider_RejectsBadTokens(t *testing.T) {
	p := NewJWTProvider("secret")
	other, err := NewJWTProvider("other").Issue(Session{UserID: 1}, time.Hour)
	require.NoError(t, err)
	expired, err := p.Issue(Session{UserID: 1}, -time.Minute)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"wrong secret": "Bearer " + other,
		"expired":      "Bearer " + expired,
		"basic scheme": "Basic dXNlcjpwYXNz",
		"garbage":      "Bearer not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", header)
			_, err := p.Resolve(req)
			require.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}

	_, err = p.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	require.ErrorIs(t, err, ErrNoIdentity)
}

func TestHeaderProvider(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "7")
	req.Header.Set(HeaderAdmin, "true")
	session, err := HeaderProvider{}.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, Session{UserID: 7, IsAdmin: true}, session)

	req.Header.Set(HeaderUserID, "abc")
	_, err = HeaderProvider{}.Resolve(req)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChain_FirstProviderWithCredentialsWins(t *testing.T) {
	chain := Chain{NewJWTProvider("secret"), HeaderProvider{}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "9")

	session, err := chain.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, int64(9), session.UserID)

	_, err = chain.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	require.ErrorIs(t, err, ErrNoIdentity)
}

func TestMiddleware_Guards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware(HeaderProvider{}))
	router.GET("/open", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/user", RequireUser(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		path   string
		userID string
		admin  string
		want   int
	}{
		{"/open", "", "", http.StatusNoContent},
		{"/user", "", "", http.StatusUnauthorized},
		{"/user", "5", "", http.StatusNoContent},
		{"/user", "-5", "", http.StatusUnauthorized},
		{"/admin", "5", "false", http.StatusForbidden},
		{"/admin", "5", "true", http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.userID != "" {
			req.Header.Set(HeaderUserID, tc.userID)
		}
		if tc.admin != "" {
			req.Header.Set(HeaderAdmin, tc.admin)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "%s user=%q admin=%q", tc.path, tc.userID, tc.admin)
	}
}
