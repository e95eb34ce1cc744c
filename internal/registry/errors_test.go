package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nluyan/pkgpad/internal/protocol"
)

func TestIsCanceled(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled sentinel", canceled(context.Canceled), true},
		{"caller deadline", canceled(context.DeadlineExceeded), true},
		{"context canceled", fmt.Errorf("fetching: %w", context.Canceled), true},
		{"client timeout", &protocol.FeedError{Source: "feed", Err: fmt.Errorf("Client.Timeout exceeded: %w", context.DeadlineExceeded)}, false},
		{"fatal timeout", fmt.Errorf("%w: %w", ErrFatalSearch, context.DeadlineExceeded), false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCanceled(tt.err); got != tt.want {
				t.Errorf("IsCanceled(%v) = %t, want %t", tt.err, got, tt.want)
			}
		})
	}
}
