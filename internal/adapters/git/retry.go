package git

import (
	"context"
	"errors"
	"time"

	"go.rsplug.dev/rsplug/internal/core/domain"
)

// backoff is the retry schedule for transient remote errors: up to 2
// retries at 500ms then 2s. Not-found and auth errors are terminal and
// bypass this entirely.
var backoff = []time.Duration{500 * time.Millisecond, 2 * time.Second}

func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrRepoTransient) {
			return err
		}
		if attempt >= len(backoff) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff[attempt]):
		}
	}
}
