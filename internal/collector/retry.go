package collector

import (
	"context"
	"errors"
	"log"
	"time"
)

// retry calls fn up to attempts times with exponential backoff starting at
// base. Errors for which retryable returns false end the loop at once.
func retry(ctx context.Context, attempts int, base time.Duration, retryable func(error) bool, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	delay := base
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) || i == attempts-1 {
			return err
		}
		log.Printf("[WARN] fetch failed (attempt %d/%d): %v, retrying in %v", i+1, attempts, err, delay)
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
