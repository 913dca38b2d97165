package orchestrators

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"gymhub/internal/adapters/email"
	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/adapters/storage"
	domainEvent "gymhub/internal/domain/eventlog"

	"github.com/golang-jwt/jwt/v4"
)

// ResetTokenTTL is how long a password-reset link stays valid.
const ResetTokenTTL = time.Hour

const resetPurpose = "password_reset"

// ErrInvalidResetToken covers malformed, expired and already-used reset tokens.
var ErrInvalidResetToken = errors.New("password reset link is invalid or has expired")

// resetClaims binds a token to the password hash it was issued against,
// so a token stops working once the password changes.
type resetClaims struct {
	Purpose     string `json:"purpose"`
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

func hashFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

// PasswordResetDeps holds dependencies for the reset flow.
type PasswordResetDeps struct {
	Accounts AccountStore
	Email    EmailSender
	Outbox   OutboxSaver // optional
	Secret   []byte      // HMAC key for reset tokens
	LinkBase string      // e.g. https://gym.example/reset-password
	Now      func() time.Time
	Events   eventlog.Logger
}

// IssueResetToken signs a reset token for an account.
func IssueResetToken(accountID, passwordHash string, secret []byte, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("reset secret is not configured")
	}
	claims := resetClaims{
		Purpose:     resetPurpose,
		Fingerprint: hashFingerprint(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseResetToken(token string, secret []byte, now time.Time) (resetClaims, error) {
	var claims resetClaims
	// Time claims are checked below against the injected clock.
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return secret, nil }); err != nil {
		return resetClaims{}, ErrInvalidResetToken
	}
	if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) || claims.Purpose != resetPurpose || claims.Subject == "" {
		return resetClaims{}, ErrInvalidResetToken
	}
	return claims, nil
}

// ExecuteRequestPasswordReset emails a reset link when the address belongs to an account.
// Unknown addresses succeed silently so the endpoint does not reveal who has an account.
func ExecuteRequestPasswordReset(ctx context.Context, emailAddr string, deps PasswordResetDeps) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	acct, err := deps.Accounts.GetByEmail(ctx, emailAddr)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info("auth_event", "event", "password_reset_unknown_email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	now := nowFrom(deps.Now)
	token, err := IssueResetToken(acct.ID, acct.PasswordHash, deps.Secret, now)
	if err != nil {
		return err
	}
	link := deps.LinkBase + "?token=" + url.QueryEscape(token)
	req := email.Message(acct.Email, "Reset your password",
		fmt.Sprintf("Someone asked to reset your password.\n\n[Choose a new password](%s)\n\nThe link expires in one hour. If this wasn't you, ignore this email.", link))
	if err := deliverEmail(ctx, deps.Email, deps.Outbox, req, now); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "password_reset_sent", "account_id", acct.ID)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventPasswordResetSent).WithActor(acct.ID))
	return nil
}

// ExecuteResetPassword sets a new password using a reset token.
// PRE: token was issued by IssueResetToken within ResetTokenTTL
// POST: password replaced, failed logins cleared; the token cannot be reused
func ExecuteResetPassword(ctx context.Context, token, newPassword string, deps PasswordResetDeps) error {
	now := nowFrom(deps.Now)
	claims, err := parseResetToken(token, deps.Secret, now)
	if err != nil {
		return err
	}
	acct, err := deps.Accounts.GetByID(ctx, claims.Subject)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if hashFingerprint(acct.PasswordHash) != claims.Fingerprint {
		return ErrInvalidResetToken
	}
	if err := acct.SetPassword(newPassword); err != nil {
		return err
	}
	acct.ResetFailedLogins()
	if err := deps.Accounts.Save(ctx, acct); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	slog.Info("auth_event", "event", "password_reset", "account_id", acct.ID)
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventPasswordReset).WithActor(acct.ID))
	return nil
}
