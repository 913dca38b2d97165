package web

import (
	"log/slog"
	"net/http"

	"gymhub/internal/adapters/http/middleware"
	"gymhub/internal/application/orchestrators"
	domainTheme "gymhub/internal/domain/theme"
)

// sessionView is the signed-in account as the client sees it.
type sessionView struct {
	AccountID string `json:"AccountID"`
	Email     string `json:"Email"`
	Role      string `json:"Role"`
	MemberID  string `json:"MemberID"`
}

// startSession creates a session for a signed-in account and sets the cookie.
func startSession(w http.ResponseWriter, res orchestrators.LoginResult) bool {
	token, err := sessions.Create(res.AccountID, res.Email, res.Role, res.MemberID)
	if err != nil {
		internalError(w, err)
		return false
	}
	middleware.SetSessionCookie(w, token, options.Secure)
	writeJSON(w, http.StatusOK, sessionView(res))
	return true
}

// handleLogin handles POST /api/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"Email"`
		Password string `json:"Password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	res, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	}, orchestrators.LoginDeps{
		Accounts: stores.AccountStore,
		Now:      timeNow,
		Events:   services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	startSession(w, res)
}

// handleGoogleLogin handles POST /api/login/google
func handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		IDToken string `json:"IDToken"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	res, err := orchestrators.ExecuteGoogleSignIn(r.Context(), input.IDToken, orchestrators.GoogleSignInDeps{
		Accounts:   stores.AccountStore,
		Members:    stores.MemberStore,
		Verifier:   services.Identity,
		GenerateID: generateID,
		Now:        timeNow,
		Events:     services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	startSession(w, res)
}

// handleLogout handles POST /api/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/me
func handleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionView{
		AccountID: sess.AccountID,
		Email:     sess.Email,
		Role:      sess.Role,
		MemberID:  sess.MemberID,
	})
}

func passwordResetDeps() orchestrators.PasswordResetDeps {
	return orchestrators.PasswordResetDeps{
		Accounts: stores.AccountStore,
		Email:    services.Email,
		Outbox:   stores.OutboxStore,
		Secret:   options.ResetSecret,
		LinkBase: options.ResetLinkBase,
		Now:      timeNow,
		Events:   services.Events,
	}
}

// handleForgotPassword handles POST /api/password/forgot
// Always answers 202 so the response does not reveal whether the address has an account.
func handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"Email"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteRequestPasswordReset(r.Context(), input.Email, passwordResetDeps()); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleResetPassword handles POST /api/password/reset
func handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Token    string `json:"Token"`
		Password string `json:"Password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteResetPassword(r.Context(), input.Token, input.Password, passwordResetDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChangePassword handles POST /api/password/change
// Every other session of the account is signed out.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		CurrentPassword string `json:"CurrentPassword"`
		NewPassword     string `json:"NewPassword"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	}, stores.AccountStore)
	if err != nil {
		writeError(w, err)
		return
	}
	sessions.DeleteAccount(sess.AccountID)
	token, err := sessions.Create(sess.AccountID, sess.Email, sess.Role, sess.MemberID)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, options.Secure)
	slog.Info("auth_event", "event", "sessions_rotated", "account_id", sess.AccountID)
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateAccount handles POST /api/accounts (admin)
func handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"Email"`
		Password string `json:"Password"`
		Role     string `json:"Role"`
		MemberID string `json:"MemberID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	acct, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		MemberID: input.MemberID,
	}, orchestrators.CreateAccountDeps{
		Accounts:   stores.AccountStore,
		GenerateID: generateID,
		Now:        timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView{
		AccountID: acct.ID,
		Email:     acct.Email,
		Role:      acct.Role,
		MemberID:  acct.MemberID,
	})
}

// themeView is the stored preferences plus the CSS variables they produce.
type themeView struct {
	domainTheme.Preferences
	CSSVariables map[string]string `json:"CSSVariables"`
}

func newThemeView(p domainTheme.Preferences) themeView {
	return themeView{Preferences: p, CSSVariables: p.CSSVariables()}
}

// handleGetTheme handles GET /api/theme
func handleGetTheme(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	p, err := orchestrators.LoadTheme(r.Context(), sess.AccountID, stores.ThemeStore)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newThemeView(p))
}

// handleUpdateTheme handles POST /api/theme
func handleUpdateTheme(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		Action         string `json:"Action"`
		PrimaryColor   string `json:"PrimaryColor"`
		SecondaryColor string `json:"SecondaryColor"`
		FontSize       string `json:"FontSize"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	p, err := orchestrators.ExecuteUpdateTheme(r.Context(), orchestrators.UpdateThemeInput{
		AccountID:      sess.AccountID,
		Action:         input.Action,
		PrimaryColor:   input.PrimaryColor,
		SecondaryColor: input.SecondaryColor,
		FontSize:       input.FontSize,
	}, orchestrators.UpdateThemeDeps{
		Themes: stores.ThemeStore,
		Now:    timeNow,
		Events: services.Events,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newThemeView(p))
}
