package entity

import "fmt"

// Phase is a step of the request-scoped logging cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCapturing
	PhaseHandlerRunning
	PhaseSucceeded
	PhaseFailed
	PhaseRendering
	PhaseEmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseCapturing:
		return "CAPTURING"
	case PhaseHandlerRunning:
		return "HANDLER_RUNNING"
	case PhaseSucceeded:
		return "SUCCEEDED"
	case PhaseFailed:
		return "FAILED"
	case PhaseRendering:
		return "RENDERING"
	case PhaseEmitted:
		return "EMITTED"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

var allowedTransitions = map[Phase][]Phase{
	PhaseIdle:           {PhaseCapturing},
	PhaseCapturing:      {PhaseHandlerRunning},
	PhaseHandlerRunning: {PhaseSucceeded, PhaseFailed},
	PhaseSucceeded:      {PhaseRendering},
	PhaseFailed:         {PhaseRendering},
	PhaseRendering:      {PhaseEmitted},
	PhaseEmitted:        {PhaseIdle},
}

// Cycle tracks one logging cycle. It is owned by a single request and is not
// safe for concurrent use.
type Cycle struct {
	phase Phase
}

// NewCycle creates a cycle in the IDLE phase.
func NewCycle() *Cycle {
	return &Cycle{phase: PhaseIdle}
}

// Phase returns the current phase.
func (c *Cycle) Phase() Phase {
	return c.phase
}

// Advance moves the cycle to next, rejecting transitions the cycle does not allow.
func (c *Cycle) Advance(next Phase) error {
	for _, p := range allowedTransitions[c.phase] {
		if p == next {
			c.phase = next
			return nil
		}
	}
	return fmt.Errorf("invalid logging cycle transition %s -> %s", c.phase, next)
}

// CanEmit returns true only while rendering; emission is the single handoff point.
func (c *Cycle) CanEmit() bool {
	return c.phase == PhaseRendering
}
