package service

import (
	"errors"
	"fmt"

	apperrors "storefront/internal/errors"
	"storefront/internal/repository"
)

// storeError translates a backend-neutral repository error into the domain
// taxonomy. notFound is returned in place of repository.ErrNotFound.
func storeError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, repository.ErrTimeout):
		return fmt.Errorf("%w: %v", apperrors.ErrTimeout, err)
	default:
		return err
	}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}
