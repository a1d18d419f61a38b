package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leavedesk/internal/domain/auth"
)

const testSecret = "test-secret"

func token(t *testing.T, roleName string) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, auth.Claims{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		RoleName:   roleName,
	}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Fatal("response header must echo the request id")
	}
}

func TestRequestIDPreserved(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "req-abc" {
		t.Fatalf("request id = %q, want the caller's value", seen)
	}
}

func TestAuthAttachesUser(t *testing.T) {
	var user auth.UserContext
	var found bool
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, found = GetUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, auth.RoleManager))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !found {
		t.Fatal("expected a user on the context")
	}
	if user.EmployeeID != "emp-1" || user.RoleName != auth.RoleManager {
		t.Fatalf("user = %+v", user)
	}
}

func TestAuthIgnoresBadToken(t *testing.T) {
	var found bool
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = GetUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Fatal("invalid token must not attach a user")
	}
}

func TestRequirePermission(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	protected := Auth(testSecret)(RequirePermission(auth.PermLeaveApprove)(next))

	cases := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"manager allowed", auth.RoleManager, http.StatusNoContent},
		{"employee denied", auth.RoleEmployee, http.StatusForbidden},
		{"hr allowed", auth.RoleHR, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token(t, tc.role))
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestRequirePermissionAnonymous(t *testing.T) {
	protected := RequirePermission(auth.PermLeaveRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
