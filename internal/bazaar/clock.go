package bazaar

import "time"

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// RequestContext carries what the host environment knows about a single call:
// who is calling and when. It is passed explicitly into every service
// operation that needs it.
type RequestContext struct {
	Caller Identity
	Now    time.Time
}

// NewRequestContext captures the current time from clock for caller.
func NewRequestContext(caller Identity, clock Clock) RequestContext {
	return RequestContext{Caller: caller, Now: clock.Now()}
}
