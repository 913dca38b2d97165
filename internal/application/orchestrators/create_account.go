package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gymhub/internal/adapters/storage"
	"gymhub/internal/domain/account"
)

// CreateAccountInput carries a new login.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     string
	MemberID string // links a member account to its profile
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	Accounts   AccountStore
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateAccount creates an email/password account.
// PRE: password satisfies the password policy; role is admin, trainer or member
// POST: account stored with a bcrypt hash
// INVARIANT: emails are unique across accounts
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := deps.Accounts.GetByEmail(ctx, email); err == nil {
		return account.Account{}, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return account.Account{}, fmt.Errorf("failed to check email: %w", err)
	}

	acct := account.Account{
		ID:        newID(deps.GenerateID),
		Email:     email,
		Role:      input.Role,
		MemberID:  input.MemberID,
		CreatedAt: nowFrom(deps.Now),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}
	if err := deps.Accounts.Save(ctx, acct); err != nil {
		return account.Account{}, fmt.Errorf("failed to save account: %w", err)
	}
	slog.Info("auth_event", "event", "account_created", "email", email, "role", acct.Role)
	return acct, nil
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	Accounts AccountStore
}

// ExecuteSeedAdmin creates the bootstrap admin account unless the email already exists.
// POST: created reports whether a new account was written
func ExecuteSeedAdmin(ctx context.Context, adminEmail, password string, deps SeedAdminDeps) (bool, error) {
	if adminEmail == "" || password == "" {
		return false, nil
	}
	_, err := ExecuteCreateAccount(ctx, CreateAccountInput{Email: adminEmail, Password: password, Role: account.RoleAdmin},
		CreateAccountDeps{Accounts: deps.Accounts})
	if errors.Is(err, ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to seed admin account: %w", err)
	}
	slog.Info("auth_event", "event", "admin_seeded", "email", adminEmail)
	return true, nil
}
