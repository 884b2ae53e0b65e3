package pagewriter

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Destination is where finalized document bytes go. Open is called by
// Writer.Start, Commit by Finalize; Abort removes any partial output after
// a failure so no half-written document is left behind.
type Destination interface {
	Open() (io.Writer, error)
	Commit() error
	Abort() error
}

// Compile-time interface checks.
var (
	_ Destination = (*FileDestination)(nil)
	_ Destination = (*BufferDestination)(nil)
)

// FileDestination writes the document to a file path.
type FileDestination struct {
	Path string
	file *os.File
}

// Open creates the file, truncating any existing content.
func (d *FileDestination) Open() (io.Writer, error) {
	f, err := os.Create(d.Path) // #nosec G304 -- caller-provided output path
	if err != nil {
		return nil, fmt.Errorf("creating %q: %w", d.Path, err)
	}
	d.file = f
	return f, nil
}

// Commit syncs and closes the file.
func (d *FileDestination) Commit() error {
	if d.file == nil {
		return nil
	}
	if err := d.file.Sync(); err != nil {
		_ = d.file.Close()
		return fmt.Errorf("syncing %q: %w", d.Path, err)
	}
	if err := d.file.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", d.Path, err)
	}
	d.file = nil
	return nil
}

// Abort closes and removes the partial file.
func (d *FileDestination) Abort() error {
	if d.file != nil {
		_ = d.file.Close()
		d.file = nil
	}
	if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing partial output %q: %w", d.Path, err)
	}
	return nil
}

// BufferDestination collects the document in memory.
type BufferDestination struct {
	buf bytes.Buffer
}

// Open resets and returns the in-memory buffer.
func (d *BufferDestination) Open() (io.Writer, error) {
	d.buf.Reset()
	return &d.buf, nil
}

// Commit is a no-op for buffers.
func (d *BufferDestination) Commit() error { return nil }

// Abort discards any buffered bytes.
func (d *BufferDestination) Abort() error {
	d.buf.Reset()
	return nil
}

// Bytes returns the finalized document.
func (d *BufferDestination) Bytes() []byte { return d.buf.Bytes() }
