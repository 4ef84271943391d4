package pipeline

import "time"

const (
	defaultWorkers     = 1
	defaultCallTimeout = 60 * time.Second
)

type Option func(*Session)

// WithWorkers bounds concurrent extraction calls. Admission order is unaffected.
func WithWorkers(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithCallTimeout bounds each extraction call.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

// WithDiagnosticSink receives each diagnostic as soon as it is final, in input order.
func WithDiagnosticSink(fn func(Diagnostic)) Option {
	return func(s *Session) {
		s.sink = fn
	}
}
