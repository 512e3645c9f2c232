// Package archive walks batch bundles packed into zip archives.
package archive

import (
	"fmt"
	"io"
	"path"
	"strings"

	fixzip "github.com/hidez8891/zip"
)

// MaxEntrySize limits amount of data read from a single archive entry.
const MaxEntrySize = 64 << 20

// Entry is a single regular file of the archive.
type Entry struct {
	Name string
	Size uint64
	file *fixzip.File
}

// ReadAll returns entry content, refusing entries above MaxEntrySize.
func (e Entry) ReadAll() ([]byte, error) {
	if e.Size > MaxEntrySize {
		return nil, fmt.Errorf("zip entry %q is too large: %d bytes", e.Name, e.Size)
	}
	rc, err := e.file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxEntrySize {
		return nil, fmt.Errorf("zip entry %q is too large", e.Name)
	}
	return data, nil
}

// WalkFunc is called for every matching entry. The archive argument contains
// path to archive passed to Walk. If an error is returned, processing stops.
type WalkFunc func(archive string, entry Entry) error

// Walk calls walkFn for every regular file in archive accepted by match (nil
// match accepts everything) in archive order. Archives with absolute entry
// paths or path traversal components are rejected.
func Walk(archive string, match func(name string) bool, walkFn WalkFunc) error {

	r, err := fixzip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || (match != nil && !match(name)) {
			continue
		}
		if err := walkFn(archive, Entry{Name: name, Size: f.UncompressedSize64, file: f}); err != nil {
			return err
		}
	}
	return nil
}

// HasSuffix returns match function selecting entries by extension, case
// insensitive. Hidden files and macOS resource forks are skipped.
func HasSuffix(ext string) func(name string) bool {
	ext = strings.ToLower(ext)
	return func(name string) bool {
		base := path.Base(name)
		if strings.HasPrefix(base, ".") || strings.HasPrefix(name, "__MACOSX/") {
			return false
		}
		return strings.HasSuffix(strings.ToLower(base), ext)
	}
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
