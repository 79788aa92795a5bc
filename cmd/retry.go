package cmd

import (
	"context"

	"github.com/avast/retry-go/v4"

	"github.com/s0up4200/reelscout/catalog"
)

// withRetry calls fn until it succeeds, fails with a non-transient error or
// runs out of the configured attempts. It returns fn's last error.
func withRetry(ctx context.Context, fn func() *catalog.Error) *catalog.Error {
	var last *catalog.Error
	_ = retry.Do(
		func() error {
			last = fn()
			if last == nil {
				return nil
			}
			return last
		},
		retry.Context(ctx),
		retry.Attempts(cfg.Retry.Attempts),
		retry.Delay(cfg.Retry.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(catalog.IsTransient),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Err(err).Uint("attempt", n+1).Msg("Transient failure, retrying")
		}),
	)
	return last
}

// viewError turns a view error into a command error, adding remediation
// text for configuration problems.
func viewError(err *catalog.Error) error {
	if err == nil {
		return nil
	}
	if hint := err.Remediation(); hint != "" {
		return &remediatedError{err: err, hint: hint}
	}
	return err
}

type remediatedError struct {
	err  *catalog.Error
	hint string
}

func (e *remediatedError) Error() string {
	return e.err.Error() + "\n\n" + e.hint
}

func (e *remediatedError) Unwrap() error {
	return e.err
}
