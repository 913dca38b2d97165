package theme_test

import (
	"testing"

	"gymhub/internal/domain/theme"
)

func TestDefault(t *testing.T) {
	p := theme.Default("a1")
	if err := p.Validate(); err != nil {
		t.Fatalf("default invalid: %v", err)
	}
	vars := p.CSSVariables()
	want := map[string]string{
		"--background-color": "#fff",
		"--text-color":       "#333",
		"--primary-color":    "#27ae60",
		"--secondary-color":  "#2ecc71",
		"--font-size":        "16px",
		"--font-family":      theme.FontDefault,
	}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("%s = %q, want %q", k, vars[k], v)
		}
	}
}

func TestCSSVariables_DarkAndHighContrast(t *testing.T) {
	p := theme.Default("a1")
	p.ToggleMode()
	if got := p.CSSVariables()["--background-color"]; got != "#222" {
		t.Errorf("dark background = %q", got)
	}
	p.ToggleHighContrast()
	vars := p.CSSVariables()
	if vars["--background-color"] != "#000" || vars["--text-color"] != "#fff" {
		t.Errorf("high contrast = %v", vars)
	}
	p.ToggleDyslexiaFont()
	if got := p.CSSVariables()["--font-family"]; got != theme.FontDyslexia {
		t.Errorf("font family = %q", got)
	}
	p.ToggleMode()
	if p.Mode != theme.ModeLight {
		t.Errorf("mode = %q after second toggle", p.Mode)
	}
}

func TestSetters(t *testing.T) {
	p := theme.Default("a1")
	if err := p.SetColors("#000", "red"); err != theme.ErrInvalidColor {
		t.Errorf("SetColors(red) = %v", err)
	}
	if err := p.SetColors("#112233", "#abc"); err != nil {
		t.Errorf("SetColors = %v", err)
	}
	if err := p.SetFontSize("40px"); err != theme.ErrInvalidFontSize {
		t.Errorf("SetFontSize(40px) = %v", err)
	}
	if err := p.SetFontSize("18px"); err != nil || p.FontSize != "18px" {
		t.Errorf("SetFontSize(18px) = %v, %q", err, p.FontSize)
	}
}
