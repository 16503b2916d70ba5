package healthcheck

// Status is the outcome of a single upstream check.
type Status int

const (
	// Unreachable covers timeouts, refused connections and any other
	// transport failure.
	Unreachable Status = iota
	// Reachable means the upstream answered 200 OK.
	Reachable
	// Degraded means the upstream answered with any other status code.
	Degraded
)

func (s Status) String() string {
	switch s {
	case Reachable:
		return "reachable"
	case Degraded:
		return "degraded"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Result carries the Status along with what produced it.
type Result struct {
	Status     Status
	StatusCode int
	Err        error
}
