package filemap

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
	retry "github.com/sethvargo/go-retry"

	"github.com/sharedcode/scrred"
)

// Cassandra is a Filemap backed by a Cassandra table, grounded on the
// teacher's cassandra.storeRepository query shape: one prepared
// statement per operation, session-scoped consistency, explicit error
// propagation (no panics on query failure).
type Cassandra struct {
	session  *gocql.Session
	keyspace string
	root     string
}

// NewCassandra returns a Filemap backed by session, scoped to keyspace.
// root is used to resolve Path for non-empty file names, matching
// InMemory's convention. CreateSchema must be called once before first
// use against a fresh keyspace.
func NewCassandra(session *gocql.Session, keyspace, root string) *Cassandra {
	return &Cassandra{session: session, keyspace: keyspace, root: root}
}

// CreateSchema creates the filemap table if it does not already exist.
func (c *Cassandra) CreateSchema() error {
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s.filemap (checkpoint_id int, name text, size bigint, crc int, complete boolean, PRIMARY KEY(checkpoint_id, name));",
		c.keyspace)
	return c.execWithRetry(stmt)
}

// Files implements Filemap.
func (c *Cassandra) Files(id int) ([]Entry, error) {
	stmt := fmt.Sprintf("SELECT name, size, crc, complete FROM %s.filemap WHERE checkpoint_id = ?;", c.keyspace)

	var entries []Entry
	err := scrred.Retry(context.Background(), func(ctx context.Context) error {
		entries = nil
		iter := c.session.Query(stmt, id).WithContext(ctx).Iter()
		var name string
		var size int64
		var crc int
		var complete bool
		for iter.Scan(&name, &size, &crc, &complete) {
			entries = append(entries, Entry{Name: name, Size: size, CRC: uint32(crc), Complete: complete})
		}
		if err := iter.Close(); err != nil && scrred.ShouldRetry(err) {
			return retry.RetryableError(err)
		} else if err != nil {
			return err
		}
		return nil
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("filemap: query checkpoint %d: %w", id, err)
	}
	return entries, nil
}

// Path implements Filemap.
func (c *Cassandra) Path(id int, name string) (string, error) {
	if name == "" {
		return fmt.Sprintf("%s/filemap.%d.db", c.root, id), nil
	}
	return fmt.Sprintf("%s/%s", c.root, name), nil
}

// SetCRC implements Filemap.
func (c *Cassandra) SetCRC(id int, name string, crc uint32) error {
	stmt := fmt.Sprintf("UPDATE %s.filemap SET crc = ? WHERE checkpoint_id = ? AND name = ?;", c.keyspace)
	if err := c.execWithRetry(stmt, int(crc), id, name); err != nil {
		return fmt.Errorf("filemap: set crc for %q under checkpoint %d: %w", name, id, err)
	}
	return nil
}

// execWithRetry runs stmt with scrred.Retry's Fibonacci backoff, matching
// the teacher's cassandra.storeRepository pattern of wrapping every
// session.Query(...).Exec() in a retryable task instead of failing a
// descriptor's whole pipeline run on one transient Cassandra blip.
func (c *Cassandra) execWithRetry(stmt string, args ...any) error {
	return scrred.Retry(context.Background(), func(ctx context.Context) error {
		err := c.session.Query(stmt, args...).WithContext(ctx).Exec()
		if err != nil && scrred.ShouldRetry(err) {
			return retry.RetryableError(err)
		}
		return err
	}, nil)
}
