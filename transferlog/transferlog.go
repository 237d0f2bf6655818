// Package transferlog implements the rank-0 transfer log record
// EncodePipeline optionally writes after a successful apply (spec.md
// §6).
package transferlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Record is one logged transfer event. TransferID is a scrred.UUID
// string stamped by the caller that identifies this one record; it is
// not the id of any erasure set.
type Record struct {
	TransferID   string  `json:"transfer_id"`
	Operation    string  `json:"operation"`
	StoreBase    string  `json:"store_base"`
	TargetDir    string  `json:"target_dir"`
	CheckpointID int     `json:"checkpoint_id"`
	Timestamp    int64   `json:"timestamp"`
	DurationSecs float64 `json:"duration_seconds"`
	Bytes        float64 `json:"bytes"`
}

// Log appends Records to an on-disk, newline-delimited JSON file.
type Log struct {
	path string
}

// Open returns a Log appending to path, creating it (and its parent
// directory) if necessary.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Log{path: path}, nil
}

// Append writes r as one newline-delimited JSON record.
func (l *Log) Append(r Record) error {
	ba, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("transferlog: marshal record: %w", err)
	}
	ba = append(ba, '\n')

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("transferlog: open %q: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.Write(ba); err != nil {
		return fmt.Errorf("transferlog: write record: %w", err)
	}
	return nil
}
