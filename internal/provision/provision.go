// Package provision brings the virtual machines for a level online and
// tears them down again. The game engine only sees the Provisioner
// interface; the real implementation shells out to Vagrant.
package provision

import (
	"context"
	"time"
)

// Provisioner realizes levels as running machines.
type Provisioner interface {
	// BringUp brings the named boxes online, applying the configuration
	// selected by tag, and returns the wall-clock time it took. A nil or
	// empty box list means "everything" (the initial setup phase).
	// The call blocks until provisioning completes; callers wanting a
	// timeout wrap ctx themselves.
	BringUp(ctx context.Context, boxes []string, tag string) (time.Duration, error)

	// TearDown destroys all machines unconditionally. Best effort: partial
	// failures are reported but the caller resets its state regardless.
	TearDown(ctx context.Context) error
}
