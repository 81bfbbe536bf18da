package account_test

import (
	"testing"
	"time"

	"resiplan/internal/domain/account"
)

// TestAccountValidation tests validation of Account.
func TestAccountValidation(t *testing.T) {
	tests := []struct {
		name    string
		acct    account.Account
		wantErr bool
	}{
		{"valid admin", account.Account{Email: "ana@example.com", Role: account.RoleAdmin}, false},
		{"valid operator", account.Account{Email: "luis@example.com", Role: account.RoleOperator}, false},
		{"empty email", account.Account{Email: " ", Role: account.RoleAdmin}, true},
		{"missing @", account.Account{Email: "not-an-email", Role: account.RoleAdmin}, true},
		{"invalid role", account.Account{Email: "ana@example.com", Role: "coach"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.acct.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Account.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestPasswordRoundTrip tests hashing and verification.
func TestPasswordRoundTrip(t *testing.T) {
	var a account.Account
	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("SetPassword(short) error = %v, want ErrPasswordTooShort", err)
	}
	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("SetPassword(empty) error = %v, want ErrEmptyPassword", err)
	}

	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword error = %v", err)
	}
	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("CheckPassword(correct) error = %v", err)
	}
	if err := a.CheckPassword("wrong password!"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) error = %v, want ErrWrongPassword", err)
	}
}

// TestLockout tests the failed-login lockout behaviour.
func TestLockout(t *testing.T) {
	var a account.Account
	for i := 0; i < 4; i++ {
		a.RecordFailedLogin()
	}
	if a.IsLocked() {
		t.Error("account locked before 5 failures")
	}
	a.RecordFailedLogin()
	if !a.IsLocked() {
		t.Error("account not locked after 5 failures")
	}

	a.ResetFailedLogins()
	if a.IsLocked() || a.FailedLogins != 0 || !a.LockedUntil.Equal(time.Time{}) {
		t.Error("ResetFailedLogins did not clear lock state")
	}
}
