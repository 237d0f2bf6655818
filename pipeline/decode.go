package pipeline

import (
	"context"

	"github.com/sharedcode/scrred"
	"github.com/sharedcode/scrred/cachepath"
	"github.com/sharedcode/scrred/collective"
	"github.com/sharedcode/scrred/erasurelib"
	"github.com/sharedcode/scrred/jobctx"
)

// Recover rebuilds the files protected under the hidden directory dir
// (spec.md §4.6). It operates purely on directory state -- no filemap
// is consulted, which is what makes it usable during restart before a
// filemap is loaded. The caller is responsible for registering the
// rebuilt files (discoverable under dir after Recover returns success)
// into a fresh Filemap.
func Recover(ctx context.Context, jc jobctx.JobContext, store jobctx.StoreDescriptor, dir string, scheme erasurelib.SchemeHandle) Result {
	return driveDirectionOnly(ctx, jc, store, dir, scheme, erasurelib.Rebuild, scrred.RebuildFailed, errRebuildFail)
}

// Unapply deletes the erasure artifacts under the hidden directory dir
// (spec.md §4.6). Like Recover, it consults only directory state.
func Unapply(ctx context.Context, jc jobctx.JobContext, store jobctx.StoreDescriptor, dir string, scheme erasurelib.SchemeHandle) Result {
	return driveDirectionOnly(ctx, jc, store, dir, scheme, erasurelib.Remove, scrred.RemoveFailed, errRemoveFail)
}

func driveDirectionOnly(ctx context.Context, jc jobctx.JobContext, store jobctx.StoreDescriptor, dir string, scheme erasurelib.SchemeHandle, direction erasurelib.Direction, code scrred.ErrorCode, sentinelErr error) Result {
	prefix := cachepath.ReddescPrefix(dir)

	intraNode := jc.World
	if store.IntraNode.Valid() {
		intraNode = store.IntraNode
	}

	set, err := jc.Erasure.CreateSet(ctx, jc.World, intraNode, prefix, scheme, direction)
	if err != nil {
		return Result{Success: false, Err: &scrred.Error{Code: code, Err: err}}
	}

	localSuccess := true
	if err := set.Dispatch(ctx); err != nil {
		localSuccess = false
	}
	if localSuccess {
		if err := set.Wait(ctx); err != nil {
			localSuccess = false
		}
	}
	_ = set.Free(ctx)

	globalSuccess := collective.AllTrue(jc.World, localSuccess)
	if !globalSuccess {
		return Result{Success: false, Err: &scrred.Error{Code: code, Err: sentinelErr}}
	}
	return Result{Success: true}
}
