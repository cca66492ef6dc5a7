package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtected(t *testing.T, svc jwt.Service, guard func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired(svc))
	if guard != nil {
		r.Use(guard)
	}
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(p.UserID + ":" + p.Role))
	})
	return r
}

func call(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	svc, err := jwt.NewJWTService("secret", "1h")
	require.NoError(t, err)
	h := newProtected(t, svc, nil)

	token, exp, err := svc.GenerateAccessToken("u1", "Sato", user.RoleStaff)
	require.NoError(t, err)

	rec := call(h, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1:staff", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(h, "not-a-jwt").Code)

	svc.RevokeToken(token, exp)
	assert.Equal(t, http.StatusUnauthorized, call(h, token).Code)
}

func TestRoleGuards(t *testing.T) {
	svc, err := jwt.NewJWTService("secret", "1h")
	require.NoError(t, err)
	staffToken, _, err := svc.GenerateAccessToken("u1", "Sato", user.RoleStaff)
	require.NoError(t, err)
	adminToken, _, err := svc.GenerateAccessToken("a1", "Boss", user.RoleAdmin)
	require.NoError(t, err)

	admin := newProtected(t, svc, RequireAdmin)
	staff := newProtected(t, svc, RequireStaff)

	assert.Equal(t, http.StatusOK, call(admin, adminToken).Code)
	assert.Equal(t, http.StatusForbidden, call(admin, staffToken).Code)
	assert.Equal(t, http.StatusOK, call(staff, staffToken).Code)
	assert.Equal(t, http.StatusForbidden, call(staff, adminToken).Code)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/{id}", "418"))
	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
	}
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/{id}", "418"))

	assert.Equal(t, 2.0, after-before)
}
