package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/authsvc/domain"
)

// storeTimeout bounds every call against the backing store. A run-over
// surfaces as ErrStoreUnavailable; retries belong to the caller.
const storeTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

// storeErr maps context deadline failures onto the domain taxonomy and
// passes everything else through.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrStoreUnavailable
	}
	return err
}
