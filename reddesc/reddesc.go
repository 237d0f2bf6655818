package reddesc

import (
	"path/filepath"
	"strconv"

	"github.com/sharedcode/scrred/erasurelib"
	"github.com/sharedcode/scrred/kvtree"
)

// RedDesc is a single redundancy descriptor (spec.md §3).
type RedDesc struct {
	Enabled       bool
	Index         int
	Interval      int
	Output        bool
	StoreName     string
	StoreIndex    int
	Directory     string
	CopyType      CopyScheme
	FailureGroup  string
	ErasureScheme erasurelib.SchemeHandle
}

// New returns a RedDesc in its zeroed construction state (spec.md §4.2):
// disabled, index/interval/store_index all -1, output false, no failure
// group, no erasure scheme.
func New() RedDesc {
	return RedDesc{
		Enabled:       false,
		Index:         -1,
		Interval:      -1,
		Output:        false,
		StoreIndex:    -1,
		ErasureScheme: erasurelib.UnbuiltScheme,
	}
}

// Usable reports whether the descriptor is currently fit to encode:
// enabled, resolved to a real store, and holding a built erasure scheme.
// storeEnabled is the live StoreRegistry entry's Enabled flag, passed in
// by the caller since RedDesc itself holds no registry reference.
func (d RedDesc) Usable(storeEnabled bool) bool {
	return d.Enabled && d.StoreIndex >= 0 && d.ErasureScheme != erasurelib.UnbuiltScheme && storeEnabled
}

// deriveDirectory computes <store>/<username>/scr.<jobid>, path-reduced
// (spec.md §4.3 step 5).
func deriveDirectory(store, username, jobID string) string {
	return filepath.Clean(filepath.Join(store, username, "scr."+jobID))
}

// Serialize writes the descriptor's configuration-facing fields into a
// KV subtree: ENABLED, INTERVAL, OUTPUT, STORE, DIRECTORY, TYPE. Runtime
// indices (INDEX, STORE_INDEX, GROUP_INDEX) are deliberately omitted
// (spec.md §4.2).
func (d RedDesc) Serialize(into *kvtree.Tree) {
	if d.Enabled {
		into.Set("ENABLED", "1")
	} else {
		into.Set("ENABLED", "0")
	}
	into.Set("INTERVAL", strconv.Itoa(d.Interval))
	if d.Output {
		into.Set("OUTPUT", "1")
	} else {
		into.Set("OUTPUT", "0")
	}
	into.Set("STORE", d.StoreName)
	into.Set("DIRECTORY", d.Directory)
	into.Set("TYPE", d.CopyType.String())
}
