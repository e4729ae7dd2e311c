package accessgate_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/library/accessgate"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

var secret = []byte("test-secret")

func newGate(t *testing.T, opts ...accessgate.Option) *accessgate.Gate {
	t.Helper()

	gate, err := accessgate.NewGate(secret, opts...)
	require.NoError(t, err)

	return gate
}

func Test_NewGate_RequiresSecret(t *testing.T) {
	_, err := accessgate.NewGate(nil)

	assert.ErrorIs(t, err, accessgate.ErrEmptySecret)
}

func Test_Gate_IssueAndResolve(t *testing.T) {
	// arrange
	gate := newGate(t)
	identity := accessgate.Identity{ID: "reader-1", Role: core.RoleAdmin}

	// act
	token, err := gate.Issue(identity)
	require.NoError(t, err)
	resolved, err := gate.Resolve(token)

	// assert
	require.NoError(t, err)
	assert.Equal(t, identity, resolved)
	assert.True(t, resolved.IsAdmin())
}

func Test_Gate_Resolve_RejectsInvalidTokens(t *testing.T) {
	now := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	gate := newGate(t, accessgate.WithClock(func() time.Time { return now }))

	expiredIssuer := newGate(t,
		accessgate.WithClock(func() time.Time { return now.Add(-8 * 24 * time.Hour) }),
	)
	expired, err := expiredIssuer.Issue(accessgate.Identity{ID: "reader-1", Role: core.RoleUser})
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessgate.Claims{ID: "reader-1", Role: core.RoleAdmin}).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, accessgate.Claims{ID: "reader-1", Role: core.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "foreign secret", token: foreign},
		{name: "unsigned", token: unsigned},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gate.Resolve(tc.token)

			assert.ErrorIs(t, err, accessgate.ErrInvalidToken)
			assert.ErrorIs(t, err, core.ErrUnauthorized)
		})
	}
}

func newRouter(gate *accessgate.Gate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/user", gate.RequireAuth(), func(c *gin.Context) {
		identity, _ := accessgate.IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": identity.ID})
	})
	router.GET("/admin", gate.RequireAuth(), accessgate.RequireRole(core.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return router
}

func Test_Middleware(t *testing.T) {
	gate := newGate(t)
	router := newRouter(gate)

	userToken, err := gate.Issue(accessgate.Identity{ID: "reader-1", Role: core.RoleUser})
	require.NoError(t, err)
	adminToken, err := gate.Issue(accessgate.Identity{ID: "admin-1", Role: core.RoleAdmin})
	require.NoError(t, err)

	testCases := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{name: "no token", path: "/user", wantStatus: http.StatusUnauthorized},
		{name: "bad token", path: "/user", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "user via header", path: "/user", header: "Bearer " + userToken, wantStatus: http.StatusOK},
		{name: "user via query", path: "/user?token=" + userToken, wantStatus: http.StatusOK},
		{name: "user on admin route", path: "/admin", header: "Bearer " + userToken, wantStatus: http.StatusForbidden},
		{name: "admin on admin route", path: "/admin", header: "Bearer " + adminToken, wantStatus: http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
