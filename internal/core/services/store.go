package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"generate-recruit/internal/core/domain"

	"gorm.io/gorm"
)

// storeTimeout bounds every trip to the store so a wedged database
// surfaces as ErrStoreUnavailable instead of a hung request.
const storeTimeout = 5 * time.Second

// storeCtx derives a bounded context for one store operation
func storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

// mapStoreErr translates repository errors into the domain taxonomy.
// Domain sentinels pass through untouched; anything else is a store
// outage from the caller's point of view.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrAlreadyClaimed,
		domain.ErrNotClaimedByCaller,
		domain.ErrTerminal,
		domain.ErrInvalidDecision,
		domain.ErrValidation,
		domain.ErrAlreadyExists,
		domain.ErrUnauthorized,
		domain.ErrUnauthenticated,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
