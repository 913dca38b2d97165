package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/adapters/storage"
	domainEvent "gymhub/internal/domain/eventlog"
	"gymhub/internal/domain/theme"
)

// Theme actions accepted by UpdateTheme.
const (
	ThemeToggleMode         = "toggle_mode"
	ThemeSetColors          = "set_colors"
	ThemeSetFontSize        = "set_font_size"
	ThemeToggleHighContrast = "toggle_high_contrast"
	ThemeToggleDyslexiaFont = "toggle_dyslexia_font"
)

// ErrUnknownThemeAction is returned for an unsupported action.
var ErrUnknownThemeAction = errors.New("unknown theme action")

// ThemeStore reads and writes per-account preferences.
type ThemeStore interface {
	Get(ctx context.Context, accountID string) (theme.Preferences, error)
	Save(ctx context.Context, p theme.Preferences) error
}

// LoadTheme returns the stored preferences or the defaults.
func LoadTheme(ctx context.Context, accountID string, store ThemeStore) (theme.Preferences, error) {
	p, err := store.Get(ctx, accountID)
	if errors.Is(err, storage.ErrNotFound) {
		return theme.Default(accountID), nil
	}
	if err != nil {
		return theme.Preferences{}, fmt.Errorf("failed to load theme: %w", err)
	}
	return p, nil
}

// UpdateThemeInput carries one preference change.
type UpdateThemeInput struct {
	AccountID      string
	Action         string
	PrimaryColor   string
	SecondaryColor string
	FontSize       string
}

// UpdateThemeDeps holds dependencies for UpdateTheme.
type UpdateThemeDeps struct {
	Themes ThemeStore
	Now    func() time.Time
	Events eventlog.Logger
}

// ExecuteUpdateTheme applies one action to the account's preferences and saves them.
// POST: the saved preferences validate
func ExecuteUpdateTheme(ctx context.Context, input UpdateThemeInput, deps UpdateThemeDeps) (theme.Preferences, error) {
	p, err := LoadTheme(ctx, input.AccountID, deps.Themes)
	if err != nil {
		return theme.Preferences{}, err
	}
	switch input.Action {
	case ThemeToggleMode:
		p.ToggleMode()
	case ThemeSetColors:
		err = p.SetColors(input.PrimaryColor, input.SecondaryColor)
	case ThemeSetFontSize:
		err = p.SetFontSize(input.FontSize)
	case ThemeToggleHighContrast:
		p.ToggleHighContrast()
	case ThemeToggleDyslexiaFont:
		p.ToggleDyslexiaFont()
	default:
		return theme.Preferences{}, fmt.Errorf("%w: %q", ErrUnknownThemeAction, input.Action)
	}
	if err != nil {
		return theme.Preferences{}, err
	}
	p.UpdatedAt = nowFrom(deps.Now)
	if err := p.Validate(); err != nil {
		return theme.Preferences{}, err
	}
	if err := deps.Themes.Save(ctx, p); err != nil {
		return theme.Preferences{}, fmt.Errorf("failed to save theme: %w", err)
	}
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventThemeUpdated, "action", input.Action).WithActor(input.AccountID))
	return p, nil
}
