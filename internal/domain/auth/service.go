package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"leavedesk/internal/platform/querier"
)

var (
	ErrBadCredentials = errors.New("invalid email or password")
	ErrMFARequired    = errors.New("mfa code required")
	ErrMFAInvalid     = errors.New("invalid mfa code")
	ErrMFANotSetUp    = errors.New("mfa setup required")
)

type Credentials struct {
	EmployeeID   string
	CompanyID    string
	DepartmentID string
	RoleName     string
	PasswordHash string
	MFAEnabled   bool
	MFASecret    string
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CredentialsByEmail(ctx context.Context, email string) (Credentials, error) {
	var creds Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, COALESCE(department_id::text, ''), role_name, password_hash, mfa_enabled, mfa_secret
    FROM employees
    WHERE email = $1 AND status = 'active'
  `, email).Scan(&creds.EmployeeID, &creds.CompanyID, &creds.DepartmentID, &creds.RoleName,
		&creds.PasswordHash, &creds.MFAEnabled, &creds.MFASecret)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credentials{}, ErrBadCredentials
	}
	if err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func (s *Store) MFASecret(ctx context.Context, employeeID string) (string, error) {
	var secret string
	err := s.DB.QueryRow(ctx,
		"SELECT mfa_secret FROM employees WHERE id = $1", employeeID).Scan(&secret)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrMFANotSetUp
	}
	return secret, err
}

// SetMFASecret stores a fresh secret and disarms MFA until the owner confirms
// a code against it.
func (s *Store) SetMFASecret(ctx context.Context, employeeID, secret string) error {
	_, err := s.DB.Exec(ctx,
		"UPDATE employees SET mfa_secret = $1, mfa_enabled = false WHERE id = $2", secret, employeeID)
	return err
}

func (s *Store) SetMFAEnabled(ctx context.Context, employeeID string, enabled bool) error {
	_, err := s.DB.Exec(ctx,
		"UPDATE employees SET mfa_enabled = $1 WHERE id = $2", enabled, employeeID)
	return err
}

type StoreAPI interface {
	CredentialsByEmail(ctx context.Context, email string) (Credentials, error)
	MFASecret(ctx context.Context, employeeID string) (string, error)
	SetMFASecret(ctx context.Context, employeeID, secret string) error
	SetMFAEnabled(ctx context.Context, employeeID string, enabled bool) error
}

type Service struct {
	Store    StoreAPI
	Secret   string
	TokenTTL time.Duration
	Issuer   string
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: ttl, Issuer: "LeaveDesk"}
}

// Login verifies credentials and issues the session token. The token is the
// only way actor identity enters the engine. When the account has MFA armed,
// a valid TOTP code must accompany the password.
func (s *Service) Login(ctx context.Context, email, password, mfaCode string) (string, Claims, error) {
	creds, err := s.Store.CredentialsByEmail(ctx, email)
	if err != nil {
		return "", Claims{}, err
	}
	if err := CheckPassword(creds.PasswordHash, password); err != nil {
		return "", Claims{}, ErrBadCredentials
	}

	if creds.MFAEnabled {
		if mfaCode == "" {
			return "", Claims{}, ErrMFARequired
		}
		if creds.MFASecret == "" || !totp.Validate(mfaCode, creds.MFASecret) {
			return "", Claims{}, ErrMFAInvalid
		}
	}

	claims := Claims{
		EmployeeID:   creds.EmployeeID,
		CompanyID:    creds.CompanyID,
		DepartmentID: creds.DepartmentID,
		RoleName:     creds.RoleName,
	}
	token, err := GenerateToken(s.Secret, claims, s.TokenTTL)
	if err != nil {
		return "", Claims{}, err
	}
	return token, claims, nil
}

// MFASetup generates a new TOTP secret for the employee. The secret is stored
// disarmed; MFAEnable confirms the authenticator before login starts
// demanding codes.
func (s *Service) MFASetup(ctx context.Context, employeeID string) (secret, otpauthURL string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: employeeID,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return "", "", err
	}
	if err := s.Store.SetMFASecret(ctx, employeeID, key.Secret()); err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func (s *Service) MFAEnable(ctx context.Context, employeeID, code string) error {
	return s.setMFA(ctx, employeeID, code, true)
}

func (s *Service) MFADisable(ctx context.Context, employeeID, code string) error {
	return s.setMFA(ctx, employeeID, code, false)
}

func (s *Service) setMFA(ctx context.Context, employeeID, code string, enabled bool) error {
	secret, err := s.Store.MFASecret(ctx, employeeID)
	if err != nil {
		return err
	}
	if secret == "" {
		return ErrMFANotSetUp
	}
	if !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	return s.Store.SetMFAEnabled(ctx, employeeID, enabled)
}
