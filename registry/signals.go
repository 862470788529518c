package registry

import "github.com/OmenApps/stratagem/pubsub"

// RegisteredPayload accompanies the Registered signal.
type RegisteredPayload struct {
	Registry *Registry
	Slug     string
	Record   Record
}

// UnregisteredPayload accompanies the Unregistered signal.
type UnregisteredPayload struct {
	Registry *Registry
	Slug     string
}

// ReloadedPayload accompanies the Reloaded signal.
type ReloadedPayload struct {
	Registry *Registry
}

// Lifecycle signals. Delivery is synchronous and after-the-fact; an event
// fires even when nothing is connected. The Reloaded signal is sent by the
// discovery orchestrator once a registry has been fully repopulated.
var (
	Registered   = pubsub.NewSignal[RegisteredPayload]()
	Unregistered = pubsub.NewSignal[UnregisteredPayload]()
	Reloaded     = pubsub.NewSignal[ReloadedPayload]()
)
