// Package filemap implements the Filemap collaborator: a persisted
// mapping from checkpoint id to file names and per-file metadata (size,
// CRC, completeness flag). Its semantics (what "complete" means, how
// entries are populated) are the caller's; this package only gives
// EncodePipeline and DecodePipeline a concrete, testable collaborator to
// drive.
package filemap

// Entry is one file's metadata within a checkpoint's filemap.
type Entry struct {
	Name     string
	Size     int64
	CRC      uint32
	Complete bool
}

// Filemap is a persisted mapping from checkpoint id to file entries.
type Filemap interface {
	// Files returns the entries registered for checkpoint id.
	Files(id int) ([]Entry, error)

	// Path returns the on-disk path of a named file, or the filemap's
	// own on-disk path if name is empty (spec.md §4.5 step 5: "protect
	// the filemap itself").
	Path(id int, name string) (string, error)

	// SetCRC persists a computed CRC for a named file under checkpoint
	// id (spec.md §4.5 step 4: CRC-on-copy).
	SetCRC(id int, name string, crc uint32) error
}
