package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthMiddleware(t *testing.T) {
	secret := []byte("test-secret")
	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/welds/schedule", "", http.StatusUnauthorized},
		{"bad signature", http.MethodGet, "/api/v1/welds/schedule", mustToken(t, []byte("other"), "unit-300", "viewer", time.Hour), http.StatusUnauthorized},
		{"expired", http.MethodGet, "/api/v1/welds/schedule", mustToken(t, secret, "unit-300", "viewer", -time.Minute), http.StatusUnauthorized},
		{"unknown role", http.MethodGet, "/api/v1/welds/schedule", mustToken(t, secret, "unit-300", "operator", time.Hour), http.StatusUnauthorized},
		{"viewer reads", http.MethodGet, "/api/v1/welds/schedule.xlsx", mustToken(t, secret, "unit-300", "viewer", time.Hour), http.StatusOK},
		{"viewer cannot number", http.MethodPost, "/api/v1/welds/numbers", mustToken(t, secret, "unit-300", "viewer", time.Hour), http.StatusForbidden},
		{"engineer numbers", http.MethodPost, "/api/v1/welds/numbers", mustToken(t, secret, "unit-300", "engineer", time.Hour), http.StatusOK},
		{"engineer outside welds", http.MethodPost, "/api/v1/other", mustToken(t, secret, "unit-300", "engineer", time.Hour), http.StatusForbidden},
		{"health exempt", http.MethodGet, "/healthz", "", http.StatusOK},
		{"non api open", http.MethodGet, "/metrics", "", http.StatusOK},
	}

	mw := NewMiddleware(secret, NewDefaultPolicy("/healthz"))
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestAuthMiddleware_IdentityInContext(t *testing.T) {
	secret := []byte("test-secret")
	mw := NewMiddleware(secret, NewDefaultPolicy())
	var project, subject string
	var role Role
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		project = ProjectIDFromContext(r.Context())
		subject = SubjectFromContext(r.Context())
		role = RoleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/welds/properties", nil)
	req.Header.Set("Authorization", "bearer "+mustToken(t, secret, "unit-300", "admin", time.Hour))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if project != "unit-300" || subject != "user-1" || role != RoleAdmin {
		t.Fatalf("unexpected identity: project=%q subject=%q role=%q", project, subject, role)
	}
}

func mustToken(t *testing.T, secret []byte, projectID, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		ProjectID: projectID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
