package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup that matched no row.
var ErrNotFound = errors.New("not found")

// NotFound wraps sql.ErrNoRows as ErrNotFound with the entity name; other errors pass through.
func NotFound(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return err
}
