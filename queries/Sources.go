package queries

import (
	"context"

	"github.com/reaandrew/vmlint/core"
)

// InstanceSource enumerates the instances of a run scope.
type InstanceSource interface {
	Instances(ctx context.Context, rc *core.RunContext) (map[string]core.Instance, error)
}

// AvailabilityProbe reports whether serial port output can be retrieved at
// all for the scope. Rules probe once before iterating instances so an
// unavailable backend produces a single skip instead of one per instance.
type AvailabilityProbe interface {
	SerialOutputAvailable(ctx context.Context, rc *core.RunContext) (bool, error)
}

// Environment bundles the collaborators every serial-log rule needs.
type Environment interface {
	InstanceSource
	AvailabilityProbe
}
