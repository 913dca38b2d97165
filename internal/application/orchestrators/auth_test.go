package orchestrators

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"gymhub/internal/adapters/email"
	"gymhub/internal/adapters/identity"
	"gymhub/internal/domain/account"
	"gymhub/internal/domain/member"
)

const testPassword = "Passw0rdOK"

func testAccount(t *testing.T, id, addr, role string) account.Account {
	t.Helper()
	a := account.Account{ID: id, Email: addr, Role: role, CreatedAt: fixedTime}
	if err := a.SetPassword(testPassword); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	return a
}

// TestExecuteLogin_SuccessResetsFailures clears earlier failures.
func TestExecuteLogin_SuccessResetsFailures(t *testing.T) {
	a := testAccount(t, "acc-1", "admin@gym.test", account.RoleAdmin)
	a.FailedLogins = 3
	accounts := newFakeAccounts(a)

	res, err := ExecuteLogin(context.Background(), LoginInput{Email: " Admin@Gym.test", Password: testPassword}, LoginDeps{Accounts: accounts, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AccountID != "acc-1" || res.Role != account.RoleAdmin {
		t.Errorf("result = %+v", res)
	}
	if accounts.accounts["acc-1"].FailedLogins != 0 {
		t.Errorf("FailedLogins = %d, want 0", accounts.accounts["acc-1"].FailedLogins)
	}
}

// TestExecuteLogin_Lockout locks after repeated wrong passwords.
func TestExecuteLogin_Lockout(t *testing.T) {
	accounts := newFakeAccounts(testAccount(t, "acc-1", "m@gym.test", account.RoleMember))
	deps := LoginDeps{Accounts: accounts, Now: fixedNow}
	ctx := context.Background()

	for i := 0; i < account.MaxFailedLogins; i++ {
		if _, err := ExecuteLogin(ctx, LoginInput{Email: "m@gym.test", Password: "Wrong1234"}, deps); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: error = %v, want ErrInvalidCredentials", i+1, err)
		}
	}
	if _, err := ExecuteLogin(ctx, LoginInput{Email: "m@gym.test", Password: testPassword}, deps); !errors.Is(err, ErrAccountLocked) {
		t.Errorf("error = %v, want ErrAccountLocked", err)
	}

	deps.Now = func() time.Time { return fixedTime.Add(account.LockoutDuration + time.Second) }
	if _, err := ExecuteLogin(ctx, LoginInput{Email: "m@gym.test", Password: testPassword}, deps); err != nil {
		t.Errorf("login after lockout expired: %v", err)
	}
}

// TestExecuteLogin_UnknownEmail does not reveal whether the account exists.
func TestExecuteLogin_UnknownEmail(t *testing.T) {
	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "ghost@gym.test", Password: testPassword}, LoginDeps{Accounts: newFakeAccounts()})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func tokenFromLink(t *testing.T, html string) string {
	t.Helper()
	i := strings.Index(html, "?token=")
	if i < 0 {
		t.Fatalf("no token in %q", html)
	}
	rest := html[i+len("?token="):]
	if j := strings.IndexByte(rest, '"'); j >= 0 {
		rest = rest[:j]
	}
	tok, err := url.QueryUnescape(rest)
	if err != nil {
		t.Fatalf("unescape token: %v", err)
	}
	return tok
}

// TestPasswordReset_Roundtrip resets once and refuses the same link again.
func TestPasswordReset_Roundtrip(t *testing.T) {
	accounts := newFakeAccounts(testAccount(t, "acc-1", "m@gym.test", account.RoleMember))
	sender := email.NewNoopSender()
	deps := PasswordResetDeps{Accounts: accounts, Email: sender, Secret: []byte("test-secret"), LinkBase: "https://gym.test/reset", Now: fixedNow}
	ctx := context.Background()

	if err := ExecuteRequestPasswordReset(ctx, "M@gym.test", deps); err != nil {
		t.Fatal(err)
	}
	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("emails = %d, want 1", len(sent))
	}
	token := tokenFromLink(t, sent[0].HTML)

	if err := ExecuteResetPassword(ctx, token, "NewPassw0rd", deps); err != nil {
		t.Fatalf("reset: %v", err)
	}
	acct := accounts.accounts["acc-1"]
	if err := acct.CheckPassword("NewPassw0rd"); err != nil {
		t.Error("new password not set")
	}
	if err := ExecuteResetPassword(ctx, token, "Another0ne", deps); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("reuse error = %v, want ErrInvalidResetToken", err)
	}
}

// TestPasswordReset_Rejects covers expiry, wrong key and unknown email.
func TestPasswordReset_Rejects(t *testing.T) {
	a := testAccount(t, "acc-1", "m@gym.test", account.RoleMember)
	accounts := newFakeAccounts(a)
	secret := []byte("test-secret")
	token, err := IssueResetToken(a.ID, a.PasswordHash, secret, fixedTime)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	late := PasswordResetDeps{Accounts: accounts, Secret: secret, Now: func() time.Time { return fixedTime.Add(ResetTokenTTL) }}
	if err := ExecuteResetPassword(ctx, token, "NewPassw0rd", late); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("expired error = %v", err)
	}
	wrongKey := PasswordResetDeps{Accounts: accounts, Secret: []byte("other"), Now: fixedNow}
	if err := ExecuteResetPassword(ctx, token, "NewPassw0rd", wrongKey); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("wrong key error = %v", err)
	}

	sender := email.NewNoopSender()
	if err := ExecuteRequestPasswordReset(ctx, "ghost@gym.test", PasswordResetDeps{Accounts: accounts, Email: sender, Secret: secret}); err != nil {
		t.Errorf("unknown email should succeed silently, got %v", err)
	}
	if len(sender.Sent()) != 0 {
		t.Error("no email should be sent for an unknown address")
	}
}

// TestExecuteGoogleSignIn links existing accounts and creates new members.
func TestExecuteGoogleSignIn(t *testing.T) {
	existing := testAccount(t, "acc-1", "jane@gym.test", account.RoleTrainer)
	accounts := newFakeAccounts(existing)
	members := newFakeMembers()
	deps := GoogleSignInDeps{
		Accounts: accounts,
		Members:  members,
		Verifier: identity.Static{
			"tok-jane": {Subject: "g-jane", Email: "jane@gym.test", Name: "Jane"},
			"tok-new":  {Subject: "g-new", Email: "new@gym.test", Name: "Newcomer"},
		},
		GenerateID: seqIDs("id"),
		Now:        fixedNow,
	}
	ctx := context.Background()

	res, err := ExecuteGoogleSignIn(ctx, "tok-jane", deps)
	if err != nil {
		t.Fatal(err)
	}
	if res.AccountID != "acc-1" || accounts.accounts["acc-1"].GoogleSubject != "g-jane" {
		t.Errorf("link result = %+v", res)
	}

	res, err = ExecuteGoogleSignIn(ctx, "tok-new", deps)
	if err != nil {
		t.Fatal(err)
	}
	created := accounts.accounts[res.AccountID]
	if created.Role != account.RoleMember || created.GoogleSubject != "g-new" || created.MemberID == "" {
		t.Errorf("created account = %+v", created)
	}
	m, ok := members.members[created.MemberID]
	if !ok || m.Name != "Newcomer" || m.Status != member.StatusActive {
		t.Errorf("member profile = %+v, ok=%v", m, ok)
	}

	saves := accounts.saves
	again, err := ExecuteGoogleSignIn(ctx, "tok-new", deps)
	if err != nil || again.AccountID != res.AccountID {
		t.Errorf("repeat sign-in = %+v, %v", again, err)
	}
	if accounts.saves != saves {
		t.Error("repeat sign-in must not write the account")
	}

	if _, err := ExecuteGoogleSignIn(ctx, "forged", deps); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

// TestExecuteChangePassword checks the current password first.
func TestExecuteChangePassword(t *testing.T) {
	accounts := newFakeAccounts(testAccount(t, "acc-1", "m@gym.test", account.RoleMember))
	ctx := context.Background()

	tests := []struct {
		name    string
		input   ChangePasswordInput
		wantErr error
	}{
		{"wrong current", ChangePasswordInput{AccountID: "acc-1", CurrentPassword: "Nope12345", NewPassword: "Fresh1234"}, ErrCurrentPasswordWrong},
		{"same password", ChangePasswordInput{AccountID: "acc-1", CurrentPassword: testPassword, NewPassword: testPassword}, ErrNewPasswordSame},
		{"weak password", ChangePasswordInput{AccountID: "acc-1", CurrentPassword: testPassword, NewPassword: "short"}, account.ErrPasswordTooShort},
		{"missing field", ChangePasswordInput{AccountID: "acc-1"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ExecuteChangePassword(ctx, tt.input, accounts); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := ExecuteChangePassword(ctx, ChangePasswordInput{AccountID: "acc-1", CurrentPassword: testPassword, NewPassword: "Fresh1234"}, accounts); err != nil {
		t.Fatalf("change: %v", err)
	}
	acct := accounts.accounts["acc-1"]
	if err := acct.CheckPassword("Fresh1234"); err != nil {
		t.Error("password was not changed")
	}
}

// TestExecuteSeedAdmin creates the admin once.
func TestExecuteSeedAdmin(t *testing.T) {
	accounts := newFakeAccounts()
	ctx := context.Background()
	created, err := ExecuteSeedAdmin(ctx, "Admin@Gym.test", testPassword, SeedAdminDeps{Accounts: accounts})
	if err != nil || !created {
		t.Fatalf("first seed = %v, %v", created, err)
	}
	created, err = ExecuteSeedAdmin(ctx, "admin@gym.test", testPassword, SeedAdminDeps{Accounts: accounts})
	if err != nil || created {
		t.Errorf("second seed = %v, %v", created, err)
	}
	if len(accounts.accounts) != 1 {
		t.Errorf("accounts = %d, want 1", len(accounts.accounts))
	}
}
