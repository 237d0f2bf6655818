// Package flush implements the AsyncFlush collaborator: a concurrent
// transfer engine pushing encoded checkpoints to the parallel file
// system. Only the Start/Test/Wait/Stop contract is exercised by the
// core (spec.md §1); the real transfer protocol is out of scope. Stop
// is invoked only from teardown, never from the encode path.
package flush

import "context"

// Flush drives one asynchronous transfer of a directory's contents to
// the parallel file system.
type Flush interface {
	// Start begins transferring dir asynchronously and returns
	// immediately.
	Start(ctx context.Context, dir string) error

	// Test reports whether the in-flight transfer has completed,
	// without blocking.
	Test(ctx context.Context) (done bool, err error)

	// Wait blocks until the in-flight transfer completes.
	Wait(ctx context.Context) error

	// Stop cancels an in-flight transfer. Called only from teardown.
	Stop(ctx context.Context) error
}
