package reddesc

import (
	"context"
	"fmt"
	log "log/slog"
	"strconv"

	"github.com/sharedcode/scrred"
	"github.com/sharedcode/scrred/collective"
	"github.com/sharedcode/scrred/erasurelib"
	"github.com/sharedcode/scrred/jobctx"
	"github.com/sharedcode/scrred/kvtree"
)

// global defaults used when a config subtree omits a field (spec.md §4.3
// step 3).
const (
	defaultInterval = 1
	defaultOutput   = "0"
	defaultStore    = "ram"
	defaultType     = "SINGLE"
	defaultSetSize  = 2
	defaultGroup    = "NODE"
)

// Build constructs a RedDesc collectively (spec.md §4.3). It must be
// called identically (same config, same index) on every rank in
// jc.World, or the job deadlocks: every step it takes that touches the
// collective helpers is a barrier.
func Build(ctx context.Context, jc jobctx.JobContext, index int, config *kvtree.Tree) (RedDesc, error) {
	// Step 1: validate inputs locally, reduce with logical AND.
	localValid := config != nil
	globalValid := collective.AllTrue(jc.World, localValid)
	if !globalValid {
		d := New()
		d.Index = index
		return d, &scrred.Error{Code: scrred.ConfigInvalid, Err: fmt.Errorf("nil or invalid config subtree on at least one rank")}
	}

	// Step 2: initialize, tentatively enabled.
	d := New()
	d.Enabled = true
	d.Index = index

	// Step 3: read fields with defaults.
	enabledStr := config.GetOrDefault("ENABLED", "1")
	d.Enabled = d.Enabled && enabledStr != "0"
	d.Interval = parseIntDefault(config.GetOrDefault("INTERVAL", strconv.Itoa(defaultInterval)), defaultInterval)
	d.Output = config.GetOrDefault("OUTPUT", defaultOutput) != "0"
	storeName := config.GetOrDefault("STORE", defaultStore)
	typeName := config.GetOrDefault("TYPE", defaultType)
	groupName := config.GetOrDefault("GROUP", defaultGroup)
	setSize := parseIntDefault(config.GetOrDefault("SET_SIZE", strconv.Itoa(defaultSetSize)), defaultSetSize)

	var buildErr error

	// Step 4: resolve store.
	d.StoreName = storeName
	store, ok := jc.Stores.Resolve(storeName)
	if !ok {
		if jc.World.IsLeader() {
			log.Warn(fmt.Sprintf("redundancy descriptor %d: unknown store %q, disabling", index, storeName))
		}
		d.Enabled = false
		buildErr = &scrred.Error{Code: scrred.UnknownStore, Err: fmt.Errorf("unknown store %q", storeName), UserData: storeName}
	} else {
		d.StoreIndex = store.Index
	}

	// Step 5: derive directory.
	d.Directory = deriveDirectory(storeName, jc.Username, jc.JobID)

	// Step 6: parse copy type.
	copyType, err := ParseCopyScheme(typeName, setSize)
	if err != nil {
		if jc.World.IsLeader() {
			log.Warn(fmt.Sprintf("redundancy descriptor %d: unknown copy type %q, disabling", index, typeName))
		}
		d.Enabled = false
		if buildErr == nil {
			buildErr = err
		}
		copyType = NewSingle()
	}
	d.CopyType = copyType

	// Step 7: force Single for single-node jobs.
	d.FailureGroup = groupName
	nodeGroup, nodeOK := jc.Groups.Resolve("NODE")
	if nodeOK && nodeGroup.Size() == jc.World.Size() {
		if d.CopyType.Kind != Single && jc.World.IsLeader() {
			log.Warn(fmt.Sprintf("redundancy descriptor %d: single-node job, forcing copy type %s -> SINGLE", index, d.CopyType))
		}
		d.CopyType = NewSingle()
	}

	// Step 8: resolve failure group, derive a shared identifier chosen
	// by the group leader and broadcast to its members.
	failureGroup, groupResolved := jc.Groups.Resolve(groupName)
	if !groupResolved {
		if jc.World.IsLeader() {
			log.Warn(fmt.Sprintf("redundancy descriptor %d: unknown failure group %q, disabling", index, groupName))
		}
		d.Enabled = false
		if buildErr == nil {
			buildErr = &scrred.Error{Code: scrred.UnknownGroup, Err: fmt.Errorf("unknown failure group %q", groupName), UserData: groupName}
		}
	} else {
		// The leader's rank becomes the group's shared failure-domain
		// identifier; every member ends this call holding the same value.
		collective.BroadcastString(failureGroup, 0, strconv.Itoa(jc.World.Rank()))
	}

	// Step 9: build the erasure scheme over the world communicator.
	if d.Enabled {
		kind := toErasureKind(d.CopyType.Kind)
		handle, err := jc.Erasure.CreateScheme(ctx, jc.World, kind, d.CopyType.SetSize)
		if err != nil {
			if jc.World.IsLeader() {
				log.Warn(fmt.Sprintf("redundancy descriptor %d: erasure scheme build failed: %v", index, err))
			}
			d.Enabled = false
			if buildErr == nil {
				buildErr = &scrred.Error{Code: scrred.SchemeBuildFailed, Err: err}
			}
		} else {
			d.ErasureScheme = handle
		}
	}

	// Step 10: global consensus.
	d.Enabled = collective.AllTrue(jc.World, d.Enabled)
	if !d.Enabled {
		d.ErasureScheme = erasurelib.UnbuiltScheme
		if buildErr == nil {
			buildErr = &scrred.Error{Code: scrred.ConsensusFailure, Err: fmt.Errorf("redundancy descriptor %d disabled by consensus", index)}
		}
		return d, buildErr
	}

	return d, nil
}

func toErasureKind(k CopyKind) erasurelib.CopyKind {
	switch k {
	case Partner:
		return erasurelib.Partner
	case Xor:
		return erasurelib.Xor
	default:
		return erasurelib.Single
	}
}

func parseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
