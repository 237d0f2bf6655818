package transferlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func Test_Append_WritesNewlineDelimitedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "transfer.log")
	log, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	r1 := Record{Operation: "COPY", StoreBase: "/ssd", TargetDir: "/ssd/alice/scr.42", CheckpointID: 7, Timestamp: 1700000000, DurationSecs: 1.5, Bytes: 8388608}
	r2 := Record{Operation: "COPY", StoreBase: "/ssd", TargetDir: "/ssd/alice/scr.42", CheckpointID: 14, Timestamp: 1700000100, DurationSecs: 2.0, Bytes: 4194304}

	if err := log.Append(r1); err != nil {
		t.Fatalf("Append r1: %v", err)
	}
	if err := log.Append(r2); err != nil {
		t.Fatalf("Append r2: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open for read: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var got []Record
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		got = append(got, r)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, expected 2", len(got))
	}
	if got[0].CheckpointID != 7 || got[1].CheckpointID != 14 {
		t.Errorf("unexpected checkpoint ids: %d, %d", got[0].CheckpointID, got[1].CheckpointID)
	}
}
