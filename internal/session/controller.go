package session

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nluyan/pkgpad/internal/registry"
	"github.com/nluyan/pkgpad/internal/telemetry"
	"go.uber.org/zap"
)

// Searcher runs one aggregated search. *registry.Aggregator satisfies it.
type Searcher interface {
	Search(ctx context.Context, req registry.SearchRequest) ([]registry.PackageResult, error)
}

// Status is the state of a session.
type Status int

const (
	Idle Status = iota
	Searching
	ResultsReady
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case ResultsReady:
		return "results-ready"
	default:
		return "unknown"
	}
}

// Snapshot is the observable state of a Controller at one point in time.
type Snapshot struct {
	Status     Status
	Term       string
	Prerelease bool
	ExactMatch bool
	Packages   []registry.PackageResult
	Searching  bool // an attempt is running, possibly a superseded one
	MenuOpen   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxResults caps the hits requested per search. Zero leaves the cap to
// the searcher.
func WithMaxResults(n int) Option {
	return func(c *Controller) { c.maxResults = n }
}

// WithDebounce delays each search by d. An edit arriving within d cancels the
// pending search before it reaches the registry.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithContext derives every search attempt from ctx, so cancelling ctx
// cancels the running attempt.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.parent = ctx }
}

// Controller runs at most one logically active search at a time: every new
// attempt cancels the previous one without waiting for it, and an attempt
// only publishes its outcome while it is still the latest.
type Controller struct {
	searcher   Searcher
	reporter   telemetry.Reporter
	parent     context.Context
	maxResults int
	debounce   time.Duration

	mu         sync.Mutex
	term       string
	prerelease bool
	exact      bool
	status     Status
	packages   []registry.PackageResult
	menuOpen   bool
	busy       int
	generation uint64
	cancel     context.CancelFunc
	observers  []func(Snapshot)
	installers []func(registry.PackageResult)

	wg sync.WaitGroup
}

// New returns an idle Controller. A nil reporter discards reports.
func New(searcher Searcher, reporter telemetry.Reporter, opts ...Option) *Controller {
	if reporter == nil {
		reporter = telemetry.Nop
	}
	c := &Controller{searcher: searcher, reporter: reporter, parent: context.Background()}
	for _, opt := range opts {
		opt(c)
	}
	if c.parent == nil {
		c.parent = context.Background()
	}
	return c
}

// OnChange registers fn to receive a snapshot after every state change.
// Observers run on the goroutine that caused the change.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// OnInstall registers fn to receive install requests.
func (c *Controller) OnInstall(fn func(registry.PackageResult)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.installers = append(c.installers, fn)
}

// State returns the current state.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetSearchTerm starts a search for term, superseding any running one. A
// blank term clears the results instead.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	if term == c.term {
		c.mu.Unlock()
		return
	}
	c.term = term
	c.restartLocked()
	c.publishLocked()
}

// SetPrerelease toggles prerelease results and searches again.
func (c *Controller) SetPrerelease(on bool) {
	c.mu.Lock()
	if on == c.prerelease {
		c.mu.Unlock()
		return
	}
	c.prerelease = on
	c.restartLocked()
	c.publishLocked()
}

// SetExactMatch sets exact matching for subsequent searches. It does not
// search by itself.
func (c *Controller) SetExactMatch(on bool) {
	c.mu.Lock()
	if on == c.exact {
		c.mu.Unlock()
		return
	}
	c.exact = on
	c.publishLocked()
}

// SetMenuOpen shows or hides the results menu.
func (c *Controller) SetMenuOpen(open bool) {
	c.mu.Lock()
	if open == c.menuOpen {
		c.mu.Unlock()
		return
	}
	c.menuOpen = open
	c.publishLocked()
}

// RequestInstall hands r to the install handlers. The controller itself does
// nothing else with it.
func (c *Controller) RequestInstall(r registry.PackageResult) {
	c.mu.Lock()
	installers := slices.Clone(c.installers)
	c.mu.Unlock()

	for _, fn := range installers {
		fn(r)
	}
}

// Wait blocks until every started attempt has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels the running attempt, if any, and waits for all attempts. A
// session that was searching goes back to Idle.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	if c.status == Searching {
		c.status = Idle
	}
	c.publishLocked()
	c.wg.Wait()
}

// restartLocked cancels the running attempt and starts a new one for the
// current inputs.
func (c *Controller) restartLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++

	term := strings.TrimSpace(c.term)
	if term == "" {
		c.status = Idle
		c.packages = nil
		c.menuOpen = false
		return
	}

	ctx, cancel := context.WithCancel(c.parent)
	c.cancel = cancel
	c.status = Searching
	c.busy++
	c.wg.Add(1)

	req := registry.SearchRequest{
		Term:              term,
		IncludePrerelease: c.prerelease,
		ExactMatch:        c.exact,
		MaxResults:        c.maxResults,
	}
	go c.run(ctx, c.generation, req)
}

func (c *Controller) run(ctx context.Context, generation uint64, req registry.SearchRequest) {
	defer c.wg.Done()
	defer c.release()

	if c.debounce > 0 {
		timer := time.NewTimer(c.debounce)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}

	results, err := c.searcher.Search(ctx, req)

	c.mu.Lock()
	if ctx.Err() != nil || generation != c.generation {
		// Superseded: the newer attempt owns the state.
		c.mu.Unlock()
		return
	}
	if err != nil {
		// ctx is still live, so only an explicit cancellation from below
		// counts. Request timeouts are failures.
		if registry.IsCanceled(err) {
			c.mu.Unlock()
			return
		}
		c.status = Idle
		c.packages = nil
		c.menuOpen = false
		c.publishLocked()

		zap.L().Sugar().Debugf("search for %q failed: %v", req.Term, err)
		c.reporter.ReportError(err)
		return
	}

	c.status = ResultsReady
	c.packages = results
	c.menuOpen = len(results) > 0
	c.publishLocked()
}

// release clears the busy mark taken for one attempt.
func (c *Controller) release() {
	c.mu.Lock()
	c.busy--
	c.publishLocked()
}

// publishLocked unlocks c.mu and notifies observers of the new state.
func (c *Controller) publishLocked() {
	snap := c.snapshotLocked()
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Status:     c.status,
		Term:       c.term,
		Prerelease: c.prerelease,
		ExactMatch: c.exact,
		Packages:   slices.Clone(c.packages),
		Searching:  c.busy > 0,
		MenuOpen:   c.menuOpen,
	}
}
