package theme

import (
	"errors"
	"regexp"
	"time"
)

// Mode constants
const (
	ModeLight = "light"
	ModeDark  = "dark"
)

// Font stacks applied through --font-family.
const (
	FontDefault  = "Arial, sans-serif"
	FontDyslexia = `"OpenDyslexic", Arial, sans-serif`
)

// Domain errors
var (
	ErrInvalidMode     = errors.New("mode must be 'light' or 'dark'")
	ErrInvalidColor    = errors.New("color must be a hex value like #27ae60")
	ErrInvalidFontSize = errors.New("font size must be between 10px and 32px")
)

var (
	hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	pxSize   = regexp.MustCompile(`^(1[0-9]|2[0-9]|3[0-2])px$`)
)

// Preferences are an account's presentation settings.
type Preferences struct {
	AccountID      string
	Mode           string
	PrimaryColor   string
	SecondaryColor string
	FontSize       string
	HighContrast   bool
	DyslexiaFont   bool
	UpdatedAt      time.Time
}

// Default returns the preferences used before an account saves any.
func Default(accountID string) Preferences {
	return Preferences{
		AccountID:      accountID,
		Mode:           ModeLight,
		PrimaryColor:   "#27ae60",
		SecondaryColor: "#2ecc71",
		FontSize:       "16px",
	}
}

// Validate checks the preference values.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (p *Preferences) Validate() error {
	if p.Mode != ModeLight && p.Mode != ModeDark {
		return ErrInvalidMode
	}
	if !hexColor.MatchString(p.PrimaryColor) || !hexColor.MatchString(p.SecondaryColor) {
		return ErrInvalidColor
	}
	if !pxSize.MatchString(p.FontSize) {
		return ErrInvalidFontSize
	}
	return nil
}

// ToggleMode flips between light and dark.
func (p *Preferences) ToggleMode() {
	if p.Mode == ModeDark {
		p.Mode = ModeLight
		return
	}
	p.Mode = ModeDark
}

// SetColors replaces both theme colours.
func (p *Preferences) SetColors(primary, secondary string) error {
	if !hexColor.MatchString(primary) || !hexColor.MatchString(secondary) {
		return ErrInvalidColor
	}
	p.PrimaryColor = primary
	p.SecondaryColor = secondary
	return nil
}

// SetFontSize sets the base font size, e.g. "18px".
func (p *Preferences) SetFontSize(size string) error {
	if !pxSize.MatchString(size) {
		return ErrInvalidFontSize
	}
	p.FontSize = size
	return nil
}

// ToggleHighContrast flips the high-contrast flag.
func (p *Preferences) ToggleHighContrast() { p.HighContrast = !p.HighContrast }

// ToggleDyslexiaFont flips the dyslexia-friendly font flag.
func (p *Preferences) ToggleDyslexiaFont() { p.DyslexiaFont = !p.DyslexiaFont }

// CSSVariables returns the custom properties to set on the document root.
// High contrast overrides the mode's background and text colours.
func (p *Preferences) CSSVariables() map[string]string {
	vars := map[string]string{
		"--background-color": "#fff",
		"--text-color":       "#333",
		"--primary-color":    p.PrimaryColor,
		"--secondary-color":  p.SecondaryColor,
		"--font-size":        p.FontSize,
		"--font-family":      FontDefault,
	}
	if p.Mode == ModeDark {
		vars["--background-color"] = "#222"
		vars["--text-color"] = "#ddd"
	}
	if p.HighContrast {
		vars["--background-color"] = "#000"
		vars["--text-color"] = "#fff"
	}
	if p.DyslexiaFont {
		vars["--font-family"] = FontDyslexia
	}
	return vars
}
