// Package cachepath resolves the hidden cache directory a descriptor's
// erasure artifacts are written under, and the reddesc_prefix derived
// from it (spec.md §4.5 steps 1-2). The hidden-directory naming scheme
// itself is an external convention out of scope for this module; this
// package gives EncodePipeline and DecodePipeline a concrete, stable
// function to call.
package cachepath

import (
	"path/filepath"
	"strconv"
)

// hiddenDirName is the conventional hidden subdirectory name checkpoint
// artifacts for a given descriptor and checkpoint id live under.
const hiddenDirName = ".scrred_cache"

// HiddenDir resolves the hidden cache directory for (directory, id):
// <directory>/.scrred_cache/<id>, path-reduced.
func HiddenDir(directory string, id int) string {
	return filepath.Clean(filepath.Join(directory, hiddenDirName, strconv.Itoa(id)))
}

// ReddescPrefix computes the reddesc_prefix passed to the erasure
// library: <hidden_dir>/reddesc.
func ReddescPrefix(hiddenDir string) string {
	return filepath.Join(hiddenDir, "reddesc")
}
