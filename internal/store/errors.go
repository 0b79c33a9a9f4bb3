package store

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors returned by every store. Handlers map these to 404/409;
// anything else is an upstream fault and surfaces as a 500.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// translate converts gorm's errors into the store sentinels. Unique
// violations arrive as gorm.ErrDuplicatedKey because the connection is
// opened with TranslateError. Anything unrecognized passes through
// untouched so connectivity faults are never mistaken for conflicts.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}
