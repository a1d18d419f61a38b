package authhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pquerna/otp/totp"

	"leavedesk/internal/domain/auth"
)

type fakeCredStore struct {
	byEmail map[string]auth.Credentials
}

func (f *fakeCredStore) CredentialsByEmail(_ context.Context, email string) (auth.Credentials, error) {
	creds, ok := f.byEmail[email]
	if !ok {
		return auth.Credentials{}, auth.ErrBadCredentials
	}
	return creds, nil
}

func (f *fakeCredStore) MFASecret(_ context.Context, employeeID string) (string, error) {
	for _, creds := range f.byEmail {
		if creds.EmployeeID == employeeID {
			return creds.MFASecret, nil
		}
	}
	return "", auth.ErrMFANotSetUp
}

func (f *fakeCredStore) SetMFASecret(_ context.Context, employeeID, secret string) error {
	for email, creds := range f.byEmail {
		if creds.EmployeeID == employeeID {
			creds.MFASecret = secret
			creds.MFAEnabled = false
			f.byEmail[email] = creds
			return nil
		}
	}
	return auth.ErrMFANotSetUp
}

func (f *fakeCredStore) SetMFAEnabled(_ context.Context, employeeID string, enabled bool) error {
	for email, creds := range f.byEmail {
		if creds.EmployeeID == employeeID {
			creds.MFAEnabled = enabled
			f.byEmail[email] = creds
			return nil
		}
	}
	return auth.ErrMFANotSetUp
}

func newCredStore(t *testing.T) *fakeCredStore {
	t.Helper()
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &fakeCredStore{byEmail: map[string]auth.Credentials{
		"ada@example.com": {
			EmployeeID: "emp-1", CompanyID: "company-1", RoleName: auth.RoleHR, PasswordHash: hash,
		},
	}}
}

func newTestRouter(t *testing.T, store *fakeCredStore) http.Handler {
	t.Helper()
	svc := auth.NewService(store, "test-secret", time.Hour)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func postLogin(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginSuccess(t *testing.T) {
	router := newTestRouter(t, newCredStore(t))

	rec := postLogin(t, router, `{"email":"ada@example.com","password":"s3cret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token    string `json:"token"`
			RoleName string `json:"roleName"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success || envelope.Data.Token == "" {
		t.Fatalf("envelope = %+v", envelope)
	}

	claims, err := auth.ParseToken("test-secret", envelope.Data.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.EmployeeID != "emp-1" || claims.RoleName != auth.RoleHR {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginBadPassword(t *testing.T) {
	router := newTestRouter(t, newCredStore(t))

	rec := postLogin(t, router, `{"email":"ada@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	router := newTestRouter(t, newCredStore(t))

	rec := postLogin(t, router, `{"email":"nobody@example.com","password":"s3cret"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	router := newTestRouter(t, newCredStore(t))

	rec := postLogin(t, router, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func armMFA(t *testing.T, store *fakeCredStore, email string) string {
	t.Helper()
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "test", AccountName: email})
	if err != nil {
		t.Fatalf("generate secret: %v", err)
	}
	creds := store.byEmail[email]
	creds.MFAEnabled = true
	creds.MFASecret = key.Secret()
	store.byEmail[email] = creds
	return key.Secret()
}

func TestLoginMFARequired(t *testing.T) {
	store := newCredStore(t)
	armMFA(t, store, "ada@example.com")
	router := newTestRouter(t, store)

	rec := postLogin(t, router, `{"email":"ada@example.com","password":"s3cret"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mfa_required") {
		t.Fatalf("body = %s, want mfa_required", rec.Body.String())
	}
}

func TestLoginMFAValidCode(t *testing.T) {
	store := newCredStore(t)
	secret := armMFA(t, store, "ada@example.com")
	router := newTestRouter(t, store)

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	rec := postLogin(t, router,
		fmt.Sprintf(`{"email":"ada@example.com","password":"s3cret","mfaCode":"%s"}`, code))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestLoginMFAWrongCode(t *testing.T) {
	store := newCredStore(t)
	armMFA(t, store, "ada@example.com")
	router := newTestRouter(t, store)

	rec := postLogin(t, router,
		`{"email":"ada@example.com","password":"s3cret","mfaCode":"000000"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mfa_invalid") {
		t.Fatalf("body = %s, want mfa_invalid", rec.Body.String())
	}
}
