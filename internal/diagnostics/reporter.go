package diagnostics

import "sync"

// Reporter is the sink diagnostics are handed to. Implementations decide
// whether a diagnostic is fatal; callers never read it back.
type Reporter interface {
	Report(err *DiagnosticError)
}

// Collector is a Reporter that keeps every diagnostic in arrival order.
// It is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	errors []*DiagnosticError
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(err *DiagnosticError) {
	if err == nil {
		return
	}
	c.mu.Lock()
	c.errors = append(c.errors, err)
	c.mu.Unlock()
}

// Errors returns a snapshot of the collected diagnostics.
func (c *Collector) Errors() []*DiagnosticError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*DiagnosticError, len(c.errors))
	copy(out, c.errors)
	return out
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}

// ReportAll forwards every error to r.
func ReportAll(r Reporter, errs []*DiagnosticError) {
	for _, err := range errs {
		r.Report(err)
	}
}
