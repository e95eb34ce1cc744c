// Package telemetry receives errors reported by long-running components such
// as the search session. Reporting is fire-and-forget and never fails.
package telemetry

import (
	"sync"

	"go.uber.org/zap"
)

// Reporter receives errors for diagnostics.
type Reporter interface {
	ReportError(err error)
}

// Nop discards every report.
var Nop Reporter = nopReporter{}

type nopReporter struct{}

func (nopReporter) ReportError(error) {}

// LogReporter writes reports to a zap logger.
type LogReporter struct {
	logger *zap.Logger
}

// NewLogReporter returns a Reporter that logs at error level. A nil logger
// falls back to the global zap logger at report time.
func NewLogReporter(logger *zap.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// ReportError logs err. Nil errors are ignored.
func (r *LogReporter) ReportError(err error) {
	if err == nil {
		return
	}
	logger := r.logger
	if logger == nil {
		logger = zap.L()
	}
	logger.Error("operation failed", zap.Error(err))
}

// Recorder keeps every reported error in memory.
type Recorder struct {
	mu   sync.Mutex
	errs []error
}

// ReportError appends err.
func (r *Recorder) ReportError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// Errors returns a copy of the reported errors in report order.
func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}
