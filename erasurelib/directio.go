package erasurelib

import (
	"errors"
	"io"
	"os"

	"github.com/ncw/directio"
)

// directFile wraps a single O_DIRECT file handle used to write or read
// one erasure shard to/from node-local storage, bypassing the page
// cache. Grounded on the teacher's fs.directIO helper type.
type directFile struct {
	file *os.File
}

// createDirectFile opens (creating/truncating) filename for direct I/O.
func createDirectFile(filename string) (*directFile, error) {
	f, err := directio.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &directFile{file: f}, nil
}

// openDirectFile opens an existing file for direct-I/O reads.
func openDirectFile(filename string) (*directFile, error) {
	f, err := directio.OpenFile(filename, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &directFile{file: f}, nil
}

// writeAligned writes data to the file starting at offset 0, padding the
// final block up to the O_DIRECT sector alignment the platform
// requires, then truncates the file back to len(data) so its size is
// the shard's true length.
func (d *directFile) writeAligned(data []byte) error {
	block := directio.AlignedBlock(alignedSize(len(data)))
	copy(block, data)
	if _, err := d.file.WriteAt(block, 0); err != nil {
		return err
	}
	return d.file.Truncate(int64(len(data)))
}

// readAligned reads size bytes (the shard's true length, ignoring
// O_DIRECT padding) from the file.
func (d *directFile) readAligned(size int) ([]byte, error) {
	block := directio.AlignedBlock(alignedSize(size))
	if _, err := d.file.ReadAt(block, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return block[:size], nil
}

func (d *directFile) close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

func alignedSize(n int) int {
	if n%directio.BlockSize == 0 {
		return n
	}
	return ((n / directio.BlockSize) + 1) * directio.BlockSize
}
