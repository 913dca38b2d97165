package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/adapters/identity"
	"gymhub/internal/adapters/storage"
	"gymhub/internal/domain/account"
	domainEvent "gymhub/internal/domain/eventlog"
)

// Auth errors
var (
	ErrInvalidCredentials   = account.ErrInvalidCredentials
	ErrAccountLocked        = account.ErrAccountLocked
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrNewPasswordSame      = errors.New("new password must be different from current password")
)

// AccountStore is the account persistence surface used by auth commands.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// LoginInput carries credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the identity placed in the session.
type LoginResult struct {
	AccountID string
	Email     string
	Role      string
	MemberID  string
}

func loginResult(a account.Account) LoginResult {
	return LoginResult{AccountID: a.ID, Email: a.Email, Role: a.Role, MemberID: a.MemberID}
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Accounts AccountStore
	Now      func() time.Time
	Events   eventlog.Logger
}

// ExecuteLogin checks credentials and returns the identity for a new session.
// Unknown emails and wrong passwords return the same error.
// PRE: Email and Password non-empty
// POST: a wrong password increments FailedLogins; success resets it
// INVARIANT: a locked account cannot log in until LockedUntil passes
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	now := nowFrom(deps.Now)

	acct, err := deps.Accounts.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		emit(ctx, deps.Events, domainEvent.New(domainEvent.EventLoginFailed, "email", email, "reason", "not_found").WithSeverity(domainEvent.SeverityWarning))
		return LoginResult{}, ErrInvalidCredentials
	}
	if acct.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}
	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now)
		if saveErr := deps.Accounts.Save(ctx, acct); saveErr != nil {
			slog.Error("auth_event", "event", "login_save_failed", "account_id", acct.ID, "error", saveErr)
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		emit(ctx, deps.Events, domainEvent.New(domainEvent.EventLoginFailed,
			"email", email, "reason", "wrong_password", "failed_logins", acct.FailedLogins).WithActor(acct.ID).WithSeverity(domainEvent.SeverityWarning))
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if err := deps.Accounts.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "login_save_failed", "account_id", acct.ID, "error", err)
		}
	}
	slog.Info("auth_event", "event", "login_success", "email", email, "role", acct.Role)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventLoginSucceeded, "method", "password").WithActor(acct.ID))
	return loginResult(acct), nil
}

// GoogleAccountStore adds the Google subject lookup.
type GoogleAccountStore interface {
	AccountStore
	GetByGoogleSubject(ctx context.Context, subject string) (account.Account, error)
}

// GoogleSignInDeps holds dependencies for GoogleSignIn.
type GoogleSignInDeps struct {
	Accounts   GoogleAccountStore
	Members    MemberStore // optional; creates the member profile on first sign-in
	Verifier   identity.Verifier
	GenerateID func() string
	Now        func() time.Time
	Events     eventlog.Logger
}

// ExecuteGoogleSignIn verifies a Google ID token and returns the matching account.
// An existing password account with the same email is linked to the Google subject.
// A first-time user gets a member account and profile.
// POST: returned account has GoogleSubject = token subject
func ExecuteGoogleSignIn(ctx context.Context, idToken string, deps GoogleSignInDeps) (LoginResult, error) {
	claims, err := deps.Verifier.Verify(ctx, idToken)
	if err != nil {
		slog.Info("auth_event", "event", "google_login_failed", "error", err)
		return LoginResult{}, ErrInvalidCredentials
	}
	now := nowFrom(deps.Now)

	acct, err := deps.Accounts.GetByGoogleSubject(ctx, claims.Subject)
	if err == nil {
		if acct.IsLocked(now) {
			return LoginResult{}, ErrAccountLocked
		}
		emit(ctx, deps.Events, domainEvent.New(domainEvent.EventLoginSucceeded, "method", "google").WithActor(acct.ID))
		return loginResult(acct), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return LoginResult{}, fmt.Errorf("failed to look up google account: %w", err)
	}

	acct, err = deps.Accounts.GetByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		if acct.IsLocked(now) {
			return LoginResult{}, ErrAccountLocked
		}
		acct.GoogleSubject = claims.Subject
	case errors.Is(err, storage.ErrNotFound):
		acct, err = newGoogleAccount(ctx, claims, now, deps)
		if err != nil {
			return LoginResult{}, err
		}
	default:
		return LoginResult{}, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := deps.Accounts.Save(ctx, acct); err != nil {
		return LoginResult{}, fmt.Errorf("failed to save account: %w", err)
	}
	slog.Info("auth_event", "event", "google_login_linked", "account_id", acct.ID)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventLoginSucceeded, "method", "google", "linked", true).WithActor(acct.ID))
	return loginResult(acct), nil
}

func newGoogleAccount(ctx context.Context, claims identity.Claims, now time.Time, deps GoogleSignInDeps) (account.Account, error) {
	acct := account.Account{
		ID:            newID(deps.GenerateID),
		Email:         claims.Email,
		Role:          account.RoleMember,
		GoogleSubject: claims.Subject,
		CreatedAt:     now,
	}
	if deps.Members != nil {
		name := claims.Name
		if name == "" {
			name = claims.Email
		}
		m, err := addMember(ctx, AddMemberInput{Name: name, Email: claims.Email, ActorID: acct.ID}, AddMemberDeps{
			Members: deps.Members, GenerateID: deps.GenerateID, Now: deps.Now, Events: deps.Events,
		})
		switch {
		case err == nil:
			acct.MemberID = m.ID
		case errors.Is(err, ErrEmailTaken):
			existing, gerr := deps.Members.GetByEmail(ctx, claims.Email)
			if gerr != nil {
				return account.Account{}, fmt.Errorf("failed to load member profile: %w", gerr)
			}
			acct.MemberID = existing.ID
		default:
			return account.Account{}, err
		}
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	return acct, nil
}

// ChangePasswordInput carries a password change.
type ChangePasswordInput struct {
	AccountID       string
	CurrentPassword string
	NewPassword     string
}

// ExecuteChangePassword replaces a password after checking the current one.
// PRE: NewPassword satisfies the password policy
// POST: PasswordHash is updated
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, accounts AccountStore) error {
	if input.AccountID == "" || input.CurrentPassword == "" || input.NewPassword == "" {
		return fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	acct, err := accounts.GetByID(ctx, input.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if err := acct.CheckPassword(input.CurrentPassword); err != nil {
		return ErrCurrentPasswordWrong
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := accounts.Save(ctx, acct); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	slog.Info("auth_event", "event", "password_changed", "account_id", input.AccountID)
	return nil
}
