package erasurelib

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sharedcode/scrred/collective"
)

func Test_Single_Encode_RebuildAddRejectsMissingTarget(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "ckpt.bin")
	want := make([]byte, 4096)
	for i := range want {
		want[i] = byte(i % 251)
	}
	if err := os.WriteFile(srcPath, want, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	lib := NewReedSolomon()
	world := collective.NewSingleRankGroup()
	ctx := context.Background()

	handle, err := lib.CreateScheme(ctx, world, Single, 0)
	if err != nil {
		t.Fatalf("CreateScheme: %v", err)
	}

	prefix := filepath.Join(dir, "reddesc")
	set, err := lib.CreateSet(ctx, world, world, prefix, handle, Encode)
	if err != nil {
		t.Fatalf("CreateSet encode: %v", err)
	}
	if err := set.Add(ctx, srcPath); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := set.Dispatch(ctx); err != nil {
		t.Fatalf("Dispatch encode: %v", err)
	}
	if err := set.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if err := set.Free(ctx); err != nil {
		t.Fatalf("Free: %v", err)
	}

	if err := os.Remove(srcPath); err != nil {
		t.Fatalf("remove original: %v", err)
	}

	rebuildSet, err := lib.CreateSet(ctx, world, world, prefix, handle, Rebuild)
	if err != nil {
		t.Fatalf("CreateSet rebuild: %v", err)
	}
	if err := rebuildSet.Add(ctx, srcPath); err == nil {
		t.Fatalf("expected Add to fail: rebuild target does not exist yet")
	}
}

func Test_Partner_EncodeRebuildRemove(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "shard.bin")
	want := []byte("partner scheme protects this checkpoint payload exactly")
	if err := os.WriteFile(srcPath, want, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	lib := NewReedSolomon()
	world := collective.NewSingleRankGroup()
	ctx := context.Background()

	handle, err := lib.CreateScheme(ctx, world, Partner, 0)
	if err != nil {
		t.Fatalf("CreateScheme: %v", err)
	}
	prefix := filepath.Join(dir, "reddesc")

	encSet, err := lib.CreateSet(ctx, world, world, prefix, handle, Encode)
	if err != nil {
		t.Fatalf("CreateSet encode: %v", err)
	}
	if err := encSet.Add(ctx, srcPath); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := encSet.Dispatch(ctx); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if err := os.WriteFile(srcPath, []byte("corrupted"), 0o644); err != nil {
		t.Fatalf("corrupt original: %v", err)
	}

	rebuildSet, err := lib.CreateSet(ctx, world, world, prefix, handle, Rebuild)
	if err != nil {
		t.Fatalf("CreateSet rebuild: %v", err)
	}
	if err := rebuildSet.Add(ctx, srcPath); err != nil {
		t.Fatalf("Add rebuild: %v", err)
	}
	if err := rebuildSet.Dispatch(ctx); err != nil {
		t.Fatalf("Dispatch rebuild: %v", err)
	}

	got, err := os.ReadFile(srcPath)
	if err != nil {
		t.Fatalf("read rebuilt file: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("got %q, expected %q", got, want)
	}

	removeSet, err := lib.CreateSet(ctx, world, world, prefix, handle, Remove)
	if err != nil {
		t.Fatalf("CreateSet remove: %v", err)
	}
	if err := removeSet.Add(ctx, srcPath); err != nil {
		t.Fatalf("Add remove: %v", err)
	}
	if err := removeSet.Dispatch(ctx); err != nil {
		t.Fatalf("Dispatch remove: %v", err)
	}
	if _, err := os.Stat(removeSet.(*rsSet).shardPath(srcPath, 0)); !os.IsNotExist(err) {
		t.Errorf("expected shard 0 to be removed")
	}
}

func Test_Xor_RequiresSetSizeAtLeastTwo(t *testing.T) {
	lib := NewReedSolomon()
	world := collective.NewSingleRankGroup()
	if _, err := lib.CreateScheme(context.Background(), world, Xor, 1); err == nil {
		t.Errorf("expected error for set_size=1")
	}
}

func Test_CreateSet_UnknownHandle(t *testing.T) {
	lib := NewReedSolomon()
	world := collective.NewSingleRankGroup()
	if _, err := lib.CreateSet(context.Background(), world, world, "/tmp/x", SchemeHandle(999), Encode); err == nil {
		t.Errorf("expected error for unknown scheme handle")
	}
}

func Test_FreeScheme_ThenCreateSetFails(t *testing.T) {
	lib := NewReedSolomon()
	world := collective.NewSingleRankGroup()
	ctx := context.Background()
	handle, err := lib.CreateScheme(ctx, world, Single, 0)
	if err != nil {
		t.Fatalf("CreateScheme: %v", err)
	}
	if err := lib.FreeScheme(ctx, handle); err != nil {
		t.Fatalf("FreeScheme: %v", err)
	}
	if _, err := lib.CreateSet(ctx, world, world, "/tmp/x", handle, Encode); err == nil {
		t.Errorf("expected error using freed scheme handle")
	}
}
