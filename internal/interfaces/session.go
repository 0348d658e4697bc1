package interfaces

import "context"

// Session is the single stateful connection to the template gateway. The sync
// core receives it already connected and never manages its lifecycle; all
// remote calls go through one session and are strictly sequential.
type Session interface {
	// Connect establishes the session, starting the local gateway container
	// first when the project runs in local mode.
	Connect(ctx context.Context) error
	// Restart tears the session down and re-establishes it. Used for
	// operator-driven recovery after a session-level failure.
	Restart(ctx context.Context) error
	// BaseURL returns the gateway base URL of the connected session.
	BaseURL() string
	Close() error
}

// SessionStatus describes the gateway container state in local mode.
type SessionStatus struct {
	Running       bool
	Healthy       bool
	ContainerName string
}
