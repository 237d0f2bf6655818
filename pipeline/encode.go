// Package pipeline implements EncodePipeline and DecodePipeline, the
// collective drivers that turn a RedDesc plus a Filemap into erasure
// artifacts on disk, and back.
package pipeline

import (
	"context"
	"crypto/crc32"
	log "log/slog"
	"os"
	"time"

	"github.com/sharedcode/scrred"
	"github.com/sharedcode/scrred/cachepath"
	"github.com/sharedcode/scrred/collective"
	"github.com/sharedcode/scrred/erasurelib"
	"github.com/sharedcode/scrred/filemap"
	"github.com/sharedcode/scrred/jobctx"
	"github.com/sharedcode/scrred/reddesc"
	"github.com/sharedcode/scrred/transferlog"
)

// Result is the outcome of a pipeline operation: globally-agreed success
// together with the reason a failure occurred, if any.
type Result struct {
	Success bool
	Err     error
}

// TransferLog is implemented by *transferlog.Log; EncodePipeline logs a
// record through it only when non-nil.
type TransferLog interface {
	Append(r transferlog.Record) error
}

// Apply wraps fm's files plus fm itself into an erasure set, validates
// locally, barriers globally, dispatches, and reports bytes transferred
// (spec.md §4.5). crcOnCopy mirrors the job's global CRC-on-copy flag;
// when true and desc.CopyType is not Partner, each file's CRC is
// computed and persisted into fm. tlog may be nil to skip recording a
// transfer log entry.
func Apply(ctx context.Context, jc jobctx.JobContext, fm filemap.Filemap, desc reddesc.RedDesc, id int, crcOnCopy bool, tlog TransferLog) (Result, float64) {
	// Step 1: resolve store, hidden cache directory.
	store, ok := jc.Stores.Resolve(desc.StoreName)
	if !ok {
		return Result{Success: false, Err: &scrred.Error{Code: scrred.UnknownStore, Err: errUnknownStore(desc.StoreName)}}, 0
	}
	hiddenDir := cachepath.HiddenDir(desc.Directory, id)

	// Step 2: reddesc_prefix.
	prefix := cachepath.ReddescPrefix(hiddenDir)

	// Step 3: create the erasure set.
	intraNode := jc.World
	if store.IntraNode.Valid() {
		intraNode = store.IntraNode
	}
	set, err := jc.Erasure.CreateSet(ctx, jc.World, intraNode, prefix, desc.ErasureScheme, erasurelib.Encode)
	if err != nil {
		return Result{Success: false, Err: &scrred.Error{Code: scrred.EncodeFailed, Err: err}}, 0
	}

	// Step 4: enumerate local files.
	entries, err := fm.Files(id)
	valid := err == nil
	var localBytes float64
	if valid {
		for _, entry := range entries {
			if !entry.Complete {
				valid = false
				continue
			}
			path, pathErr := fm.Path(id, entry.Name)
			if pathErr != nil {
				valid = false
				continue
			}
			if addErr := set.Add(ctx, path); addErr != nil {
				valid = false
				continue
			}
			localBytes += float64(entry.Size)

			if crcOnCopy && desc.CopyType.Kind != reddesc.Partner {
				if crc, crcErr := computeCRC(path); crcErr == nil {
					_ = fm.SetCRC(id, entry.Name, crc)
				}
			}
		}
	}

	// Step 5: protect the filemap itself.
	if valid {
		selfPath, selfErr := fm.Path(id, "")
		if selfErr != nil {
			valid = false
		} else if addErr := set.Add(ctx, selfPath); addErr != nil {
			valid = false
		}
	}

	// Step 6: global validity check.
	globalValid := collective.AllTrue(jc.World, valid)
	if !globalValid {
		_ = set.Free(ctx)
		return Result{Success: false, Err: &scrred.Error{Code: scrred.FileInvalid, Err: errInvalidFiles}}, 0
	}

	// Step 7: wall-clock timer on rank 0.
	start := time.Now()

	// Step 8: dispatch -> wait -> free.
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

	// Step 9: global result.
	globalSuccess := collective.AllTrue(jc.World, localSuccess)

	// Step 10: sum-reduce bytes.
	bytesTransferred := collective.ReduceSumDouble(jc.World, localBytes)

	if !globalSuccess {
		return Result{Success: false, Err: &scrred.Error{Code: scrred.EncodeFailed, Err: errEncodeFailed}}, bytesTransferred
	}

	// Step 11: rank-0 logging and optional transfer log record.
	if jc.World.IsLeader() {
		elapsed := time.Since(start).Seconds()
		aggregateMBps := 0.0
		if elapsed > 0 {
			aggregateMBps = (bytesTransferred / (1024 * 1024)) / elapsed
		}
		perRankMBps := aggregateMBps / float64(jc.World.Size())
		log.Info("encode pipeline applied",
			"checkpoint_id", id,
			"elapsed_seconds", elapsed,
			"bytes", bytesTransferred,
			"aggregate_mb_per_sec", aggregateMBps,
			"per_rank_mb_per_sec", perRankMBps,
		)
		if tlog != nil {
			_ = tlog.Append(transferlog.Record{
				TransferID:   scrred.NewUUID().String(),
				Operation:    "COPY",
				StoreBase:    desc.StoreName,
				TargetDir:    desc.Directory,
				CheckpointID: id,
				Timestamp:    start.Unix(),
				DurationSecs: elapsed,
				Bytes:        bytesTransferred,
			})
		}
	}

	return Result{Success: true}, bytesTransferred
}

func computeCRC(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return crc32.ChecksumIEEE(data), nil
}
