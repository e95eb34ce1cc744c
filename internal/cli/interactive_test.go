package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nluyan/pkgpad/internal/registry"
	"github.com/nluyan/pkgpad/internal/session"
)

// stallingSearcher blocks every search until its context ends.
type stallingSearcher struct {
	started chan string
}

func (s *stallingSearcher) Search(ctx context.Context, req registry.SearchRequest) ([]registry.PackageResult, error) {
	s.started <- req.Term
	<-ctx.Done()
	return nil, fmt.Errorf("%w: %w", registry.ErrCanceled, ctx.Err())
}

func TestInteractStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &stallingSearcher{started: make(chan string, 2)}
	ctrl := session.New(s, nil, session.WithContext(ctx))
	defer ctrl.Close()

	go func() {
		<-s.started
		cancel()
	}()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- interact(ctx.Done(), strings.NewReader("serilog\nnewtonsoft\n"), &out, ctrl)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("interact() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("interact still waiting on a search after cancellation")
	}

	if n := len(s.started); n != 0 {
		t.Errorf("%d more searches started after cancellation", n)
	}
	if strings.Contains(out.String(), "search failed") {
		t.Errorf("cancellation printed as a failure:\n%s", out.String())
	}
}
