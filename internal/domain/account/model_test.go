package account_test

import (
	"testing"
	"time"

	"gymhub/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr bool
	}{
		{"valid admin", account.Account{Email: "admin@gymhub.test", Role: account.RoleAdmin}, false},
		{"valid trainer", account.Account{Email: "coach@gymhub.test", Role: account.RoleTrainer}, false},
		{"valid member", account.Account{Email: "member@gymhub.test", Role: account.RoleMember}, false},
		{"empty email", account.Account{Email: "", Role: account.RoleMember}, true},
		{"email without at", account.Account{Email: "member.gymhub.test", Role: account.RoleMember}, true},
		{"unknown role", account.Account{Email: "guest@gymhub.test", Role: "guest"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidatePassword covers length, upper-case and digit rules.
func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"", account.ErrEmptyPassword},
		{"Short1", account.ErrPasswordTooShort},
		{"lowercase1", account.ErrPasswordNoUpper},
		{"NoDigitsHere", account.ErrPasswordNoDigit},
		{"Strongpass1", nil},
	}
	for _, tt := range tests {
		if got := account.ValidatePassword(tt.password); got != tt.want {
			t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

// TestAccount_SetAndCheckPassword round-trips a bcrypt hash.
func TestAccount_SetAndCheckPassword(t *testing.T) {
	var a account.Account
	if err := a.SetPassword("Strongpass1"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := a.CheckPassword("Strongpass1"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := a.CheckPassword("Wrongpass1"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
}

// TestAccount_Lockout locks after the fifth failure and clears on reset.
func TestAccount_Lockout(t *testing.T) {
	var a account.Account
	now := time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC)
	for i := 0; i < account.MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("locked too early")
	}
	a.RecordFailedLogin(now)
	if !a.IsLocked(now) {
		t.Fatal("expected lock after limit")
	}
	if a.IsLocked(now.Add(account.LockoutDuration + time.Second)) {
		t.Error("lock should expire")
	}
	a.ResetFailedLogins()
	if a.FailedLogins != 0 || a.IsLocked(now) {
		t.Errorf("after reset: %+v", a)
	}
}
