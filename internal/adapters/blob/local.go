// Package blob stores uploaded files and returns a retrievable URL.
package blob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidName is returned for empty or path-escaping object names.
var ErrInvalidName = errors.New("invalid blob name")

// Store uploads objects keyed by name.
type Store interface {
	// Put writes data under name, replacing any existing object.
	// POST: returns a URL that serves the stored bytes
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_/]+`)

// SanitizeName replaces characters outside [a-zA-Z0-9._-/] with underscores.
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// Local writes objects beneath a directory served at BaseURL.
type Local struct {
	Dir     string
	BaseURL string // e.g. "/media"
}

// NewLocal creates a local store rooted at dir.
func NewLocal(dir, baseURL string) *Local {
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Put implements Store.
func (l *Local) Put(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = SanitizeName(name)
	clean := filepath.Clean(filepath.FromSlash(name))
	if name == "" || clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(l.Dir, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return l.BaseURL + "/" + (&url.URL{Path: filepath.ToSlash(clean)}).EscapedPath(), nil
}
