// Package erasurelib defines the opaque erasure-scheme capability
// (Design Note #2) the redundancy-descriptor core drives but never
// implements the math of. The interface is intentionally independent of
// package reddesc: CopyKind and SetSize carry just enough shape for a
// scheme to be built, letting reddesc.CopyScheme convert itself into a
// CopyKind when calling CreateScheme without the two packages importing
// each other.
package erasurelib

import (
	"context"

	"github.com/sharedcode/scrred/collective"
)

// CopyKind mirrors reddesc.CopyScheme's three variants without
// depending on that package.
type CopyKind int

const (
	Single CopyKind = iota
	Partner
	Xor
)

// Direction selects which erasure library operation a Set drives.
type Direction int

const (
	Encode Direction = iota
	Rebuild
	Remove
)

// SchemeHandle is an opaque handle to a built erasure scheme. -1 denotes
// unbuilt or freed, matching RedDesc.erasure_scheme's zero/free state.
type SchemeHandle int

// UnbuiltScheme is the zero-state/freed scheme handle value.
const UnbuiltScheme SchemeHandle = -1

// Library builds erasure schemes and the sets that apply them.
type Library interface {
	// CreateScheme builds a scheme over world parameterized by kind and
	// (for Xor) setSize. Single asks for zero redundancy, Partner for a
	// world-size partner ring, Xor for setSize-way parity groups.
	CreateScheme(ctx context.Context, world collective.Group, kind CopyKind, setSize int) (SchemeHandle, error)

	// FreeScheme releases a scheme handle obtained from CreateScheme.
	FreeScheme(ctx context.Context, scheme SchemeHandle) error

	// CreateSet opens a new erasure set rooted at prefix, to be driven
	// in direction dir over world using intraNode for node-local shard
	// placement.
	CreateSet(ctx context.Context, world, intraNode collective.Group, prefix string, scheme SchemeHandle, dir Direction) (Set, error)
}

// Set is a single erasure operation in progress: a collection of files
// (added one at a time) driven through Dispatch/Wait/Free.
type Set interface {
	// Add enrolls the file at path into the set. A failure here marks
	// the caller's local file as invalid (spec.md §4.5 step 4); it does
	// not abort the whole set.
	Add(ctx context.Context, path string) error

	// Dispatch starts the erasure operation (encode, rebuild, or
	// remove, depending on the Set's Direction) for every added file.
	Dispatch(ctx context.Context) error

	// Wait blocks until Dispatch's work has completed.
	Wait(ctx context.Context) error

	// Free releases resources held by the set. Safe to call after a
	// failed Dispatch or Wait.
	Free(ctx context.Context) error
}
