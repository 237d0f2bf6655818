package reddesc

import (
	"testing"

	"github.com/sharedcode/scrred/erasurelib"
	"github.com/sharedcode/scrred/kvtree"
)

func Test_New_ZeroedState(t *testing.T) {
	d := New()
	if d.Enabled {
		t.Errorf("expected disabled by default")
	}
	if d.Index != -1 || d.Interval != -1 || d.StoreIndex != -1 {
		t.Errorf("expected index/interval/store_index == -1, got %d/%d/%d", d.Index, d.Interval, d.StoreIndex)
	}
	if d.ErasureScheme != erasurelib.UnbuiltScheme {
		t.Errorf("expected unbuilt erasure scheme")
	}
}

func Test_Usable(t *testing.T) {
	d := New()
	d.Enabled = true
	d.StoreIndex = 0
	d.ErasureScheme = erasurelib.SchemeHandle(0)

	if !d.Usable(true) {
		t.Errorf("expected usable")
	}
	if d.Usable(false) {
		t.Errorf("expected not usable when store is disabled")
	}
}

func Test_Serialize_OmitsRuntimeIndices(t *testing.T) {
	d := New()
	d.Enabled = true
	d.Interval = 4
	d.Output = true
	d.StoreName = "ssd"
	d.Directory = "/ssd/alice/scr.42"
	d.CopyType = NewXor(4)

	tr := kvtree.New()
	d.Serialize(tr)

	want := map[string]string{
		"ENABLED":   "1",
		"INTERVAL":  "4",
		"OUTPUT":    "1",
		"STORE":     "ssd",
		"DIRECTORY": "/ssd/alice/scr.42",
		"TYPE":      "XOR",
	}
	for k, v := range want {
		got, ok := tr.Get(k)
		if !ok || got != v {
			t.Errorf("key %q: got (%q, %v), expected %q", k, got, ok, v)
		}
	}
	for _, omitted := range []string{"INDEX", "STORE_INDEX", "GROUP_INDEX"} {
		if _, ok := tr.Get(omitted); ok {
			t.Errorf("expected %q to be omitted from serialization", omitted)
		}
	}
}

func Test_DeriveDirectory_PathReduced(t *testing.T) {
	got := deriveDirectory("/mnt/ssd/", "alice", "42")
	want := "/mnt/ssd/alice/scr.42"
	if got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
}
