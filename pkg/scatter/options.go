package scatter

import (
	"github.com/mash-protocol/mash-regs/pkg/log"
)

// DefaultGapThreshold is the maximum distance, in bytes, between a merge
// window's first address and any other address in the window.
const DefaultGapThreshold = 10

// Option configures a Registry.
type Option func(*Registry)

// WithGapThreshold sets the merge gap threshold. Negative values are
// treated as 0, which merges only registrations sharing an address.
func WithGapThreshold(n int) Option {
	return func(r *Registry) {
		if n < 0 {
			n = 0
		}
		r.gap = n
	}
}

// WithLogger sends transaction events to logger. A nil logger discards them.
func WithLogger(logger log.Logger) Option {
	return func(r *Registry) {
		if logger == nil {
			logger = log.NoopLogger{}
		}
		r.logger = logger
	}
}

// WithSessionID sets the session identifier stamped on transaction events.
func WithSessionID(id string) Option {
	return func(r *Registry) {
		r.session = id
	}
}

// WithDevice sets the device label stamped on transaction events.
func WithDevice(name string) Option {
	return func(r *Registry) {
		r.device = name
	}
}
