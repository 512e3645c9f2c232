package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"pbc/misc"
)

const manifestName = "MANIFEST"

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created report
// goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

// entry is either a reference to a file on disk, read when report is
// finalized, or a snapshot of data taken at the time of the call.
type entry struct {
	source string
	stamp  time.Time
	data   []byte
}

func (e entry) origin() string {
	if e.source != "" {
		return e.source
	}
	return fmt.Sprintf("<%d bytes>", len(e.data))
}

// Report collects debug artifacts: log files, converted documents,
// stylesheets and inventories. Documents converted in parallel store into
// the same report, all methods are safe for concurrent use and for nil
// receiver (no report requested).
type Report struct {
	mu      sync.Mutex
	entries map[string]entry
	file    *os.File
}

// Name returns absolute name of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store remembers file to be put in the report under requested name. File is
// read when report is closed, so it may still be written to in the meantime.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, exists := r.entries[name]; exists && old.source != path {
		panic(fmt.Sprintf("report entry [%s] already refers to %s, not %s", name, old.origin(), path))
	}
	r.entries[name] = entry{source: path}
}

// StoreData puts data in the report under requested name. Repeated names are
// versioned with timestamps, the actually used name is returned.
func (r *Report) StoreData(name string, data []byte) string {
	if r == nil {
		return ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := entry{data: data, stamp: time.Now()}
	if _, exists := r.entries[name]; exists {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s-%d%s", name[:len(name)-len(ext)], e.stamp.UnixNano(), ext)
	}
	r.entries[name] = e
	return name
}

// Close writes report archive.
func (r *Report) Close() error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	defer r.file.Close()

	arc := zip.NewWriter(r.file)
	if err := r.writeEntries(arc); err != nil {
		arc.Close()
		return fmt.Errorf("unable to write report %s: %w", r.file.Name(), err)
	}
	return arc.Close()
}

func (r *Report) writeEntries(arc *zip.Writer) error {
	now := time.Now()
	names := slices.Sorted(maps.Keys(r.entries))

	manifest := new(bytes.Buffer)
	for _, name := range names {
		e := r.entries[name]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(manifest, "%s\t%s\t%s\n", stamp.UTC().Format(time.UnixDate), name, e.origin())
	}
	if err := addToArchive(arc, manifestName, now, manifest); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if e.source == "" {
			if err := addToArchive(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		if err := addFile(arc, name, e.source); err != nil {
			return err
		}
	}
	return nil
}

// addFile copies regular file into archive, absent files are skipped.
func addFile(arc *zip.Writer, name, path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return addToArchive(arc, name, info.ModTime(), f)
}

func addToArchive(arc *zip.Writer, name string, modified time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: filepath.ToSlash(name), Method: zip.Deflate, Modified: modified})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
