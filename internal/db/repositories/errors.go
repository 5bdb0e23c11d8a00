package repositories

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Error kinds surfaced by the repositories. Callers test them with errors.Is;
// the wrapped driver error keeps the store's own message.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// Postgres SQLSTATE codes mapped onto the kinds above.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
	pqCheckViolation      = "23514"
	pqInvalidTextRepr     = "22P02"
	pqStringTooLong       = "22001"
	pqNumericOutOfRange   = "22003"
)

// classify tags a driver error with its kind. Unknown errors pass through
// untouched and are treated as internal by the API layer.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case pqUniqueViolation:
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case pqNotNullViolation, pqCheckViolation, pqInvalidTextRepr, pqStringTooLong, pqNumericOutOfRange:
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return err
}

// StoreMessage returns the underlying driver message for err, or err.Error()
// when it did not come from Postgres.
func StoreMessage(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Detail != "" {
			return pqErr.Message + ": " + pqErr.Detail
		}
		return pqErr.Message
	}
	return err.Error()
}
