package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	claims := Claims{
		EmployeeID:   "emp-1",
		CompanyID:    "co-1",
		DepartmentID: "dept-1",
		RoleName:     RoleManager,
	}

	token, err := GenerateToken("secret", claims, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	parsed, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if parsed.EmployeeID != "emp-1" || parsed.CompanyID != "co-1" || parsed.RoleName != RoleManager {
		t.Fatalf("unexpected claims: %+v", parsed)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{EmployeeID: "emp-1"}, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestHasPermission(t *testing.T) {
	if !HasPermission(RoleEmployee, PermLeaveWrite) {
		t.Fatal("employees should be able to submit leave")
	}
	if HasPermission(RoleEmployee, PermLeaveApprove) {
		t.Fatal("employees must not approve leave")
	}
	if !HasPermission(RoleHR, PermWorkflowWrite) {
		t.Fatal("hr should manage workflows")
	}
	if HasPermission(RoleManager, PermWorkflowWrite) {
		t.Fatal("managers must not manage workflows")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := CheckPassword(hash, "Secret123!"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
