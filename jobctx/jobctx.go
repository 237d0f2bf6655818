// Package jobctx bundles the per-rank, constructed-once context the
// redundancy-descriptor core is built and driven from: the world
// communicator, the store and failure-group registries, the erasure
// library capability, job identity, and the job's configuration tree.
// It exists to replace the package-level mutable registries a direct
// translation would otherwise reach for (Design Note #1): callers build
// one JobContext per rank at job start and pass it explicitly into
// RedDescBuilder, RedDescTable and both pipelines.
package jobctx

import (
	"github.com/sharedcode/scrred/collective"
	"github.com/sharedcode/scrred/erasurelib"
	"github.com/sharedcode/scrred/kvtree"
)

// StoreDescriptor describes one configured storage tier.
type StoreDescriptor struct {
	Index     int
	Enabled   bool
	MountPath string
	IntraNode collective.Group
}

// StoreRegistry resolves storage tier names ("ram", "ssd", ...) to their
// descriptor. Missing names must be reported with ok=false, never an
// error, matching spec.md §4.3 step 4's "missing -> enabled=0" contract.
type StoreRegistry interface {
	Resolve(name string) (StoreDescriptor, bool)
}

// GroupRegistry resolves failure-domain names ("NODE", "RACK", ...) to
// the collective.Group spanning the ranks sharing that failure domain.
type GroupRegistry interface {
	Resolve(name string) (collective.Group, bool)
}

// JobContext is the immutable per-rank context passed explicitly into
// every collective construction and pipeline call. It is built once per
// rank at job start (grounded on the teacher's one-shot
// NewReplicationTracker construction pattern) and never mutated.
type JobContext struct {
	World    collective.Group
	Stores   StoreRegistry
	Groups   GroupRegistry
	Erasure  erasurelib.Library
	Username string
	JobID    string
	Config   *kvtree.Tree
}

// New constructs a JobContext. It performs no I/O; registries and the
// erasure library are supplied by the caller, already wired to whatever
// backing store/cache the deployment uses.
func New(world collective.Group, stores StoreRegistry, groups GroupRegistry, erasure erasurelib.Library, username, jobID string, config *kvtree.Tree) JobContext {
	if config == nil {
		config = kvtree.New()
	}
	return JobContext{
		World:    world,
		Stores:   stores,
		Groups:   groups,
		Erasure:  erasure,
		Username: username,
		JobID:    jobID,
		Config:   config,
	}
}

// InMemoryStoreRegistry is a StoreRegistry backed by a plain map, useful
// for tests and the cmd/scrredctl smoke-test harness.
type InMemoryStoreRegistry struct {
	stores map[string]StoreDescriptor
}

// NewInMemoryStoreRegistry returns an empty registry; call Add to
// populate it.
func NewInMemoryStoreRegistry() *InMemoryStoreRegistry {
	return &InMemoryStoreRegistry{stores: make(map[string]StoreDescriptor)}
}

// Add registers a store descriptor under name, assigning it the next
// sequential index.
func (r *InMemoryStoreRegistry) Add(name string, enabled bool, mountPath string, intraNode collective.Group) {
	r.stores[name] = StoreDescriptor{
		Index:     len(r.stores),
		Enabled:   enabled,
		MountPath: mountPath,
		IntraNode: intraNode,
	}
}

// Resolve implements StoreRegistry.
func (r *InMemoryStoreRegistry) Resolve(name string) (StoreDescriptor, bool) {
	d, ok := r.stores[name]
	return d, ok
}

// InMemoryGroupRegistry is a GroupRegistry backed by a plain map.
type InMemoryGroupRegistry struct {
	groups map[string]collective.Group
}

// NewInMemoryGroupRegistry returns an empty registry; call Add to
// populate it.
func NewInMemoryGroupRegistry() *InMemoryGroupRegistry {
	return &InMemoryGroupRegistry{groups: make(map[string]collective.Group)}
}

// Add registers a failure-group communicator under name.
func (r *InMemoryGroupRegistry) Add(name string, group collective.Group) {
	r.groups[name] = group
}

// Resolve implements GroupRegistry.
func (r *InMemoryGroupRegistry) Resolve(name string) (collective.Group, bool) {
	g, ok := r.groups[name]
	return g, ok
}
