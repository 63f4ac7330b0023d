package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts wall-clock time so seeding and trend math stay testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// NewSystem returns a Clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

// Module wires the system clock.
var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
