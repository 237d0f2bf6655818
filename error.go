package scrred

import "fmt"

// ErrorCode enumerates the redundancy-descriptor error taxonomy.
type ErrorCode int

const (
	// Unknown represents an unspecified error condition.
	Unknown ErrorCode = iota
	// ConfigInvalid marks a missing or malformed configuration subtree.
	ConfigInvalid
	// UnknownStore marks a store name that does not resolve in the StoreRegistry.
	UnknownStore
	// UnknownCopyType marks a TYPE value that isn't SINGLE, PARTNER or XOR.
	UnknownCopyType
	// UnknownGroup marks a failure-group name that does not resolve in the GroupRegistry.
	UnknownGroup
	// SchemeBuildFailed marks a failure to construct an erasure scheme.
	SchemeBuildFailed
	// FileInvalid marks a filemap entry reported incomplete, or a failed erasure-set add.
	FileInvalid
	// EncodeFailed marks an erasure Dispatch/Wait failure in the ENCODE direction.
	EncodeFailed
	// RebuildFailed marks an erasure Dispatch/Wait failure in the REBUILD direction.
	RebuildFailed
	// RemoveFailed marks an erasure Dispatch/Wait failure in the REMOVE direction.
	RemoveFailed
	// ConsensusFailure marks an operation disabled because at least one rank reported
	// any of the above and the all-true reduction came back false.
	ConsensusFailure
)

// Error is the redundancy-descriptor package's error type: a code, the wrapped
// cause and optional user data, matched across every rank by Code+UserData so
// callers can tell a local cause from a consensus-propagated one.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

// Error implements the error interface by formatting the code, user data, and wrapped error details.
func (e Error) Error() string {
	return fmt.Errorf("error code: %d, user data: %v, details: %w", e.Code, e.UserData, e.Err).Error()
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e Error) Unwrap() error {
	return e.Err
}
