package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/nluyan/pkgpad/internal/config"
	"github.com/nluyan/pkgpad/internal/protocol"
)

var (
	// ErrInitialization is returned by every operation when settings failed
	// to load at startup.
	ErrInitialization = config.ErrInitialization

	// ErrFatalSearch wraps an unexpected failure that aborts a whole search.
	ErrFatalSearch = errors.New("search failed")

	// ErrCanceled reports that the caller cancelled the operation. Callers
	// that cancel on purpose should discard it silently.
	ErrCanceled = errors.New("operation canceled")
)

// IsRecoverable reports whether err only concerns one registry source, so
// the search may skip that source and continue with the next one.
func IsRecoverable(err error) bool {
	var feedErr *protocol.FeedError
	return errors.As(err, &feedErr)
}

// IsCanceled reports whether err stems from cancellation. A bare
// context.DeadlineExceeded does not count: HTTP client timeouts match it too,
// and those are failures. A caller's own deadline reaches callers wrapped in
// ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

func canceled(err error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}
