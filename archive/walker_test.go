package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type zipEntry struct {
	name    string
	content string
}

func createZip(t *testing.T, entries []zipEntry) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range entries {
		if e.content == "" && e.name[len(e.name)-1] == '/' {
			h := &zip.FileHeader{Name: e.name}
			h.SetMode(os.ModeDir | 0755)
			if _, err := w.CreateHeader(h); err != nil {
				t.Fatalf("Failed to create directory %s: %v", e.name, err)
			}
			continue
		}
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := createZip(t, []zipEntry{
		{"pages/", ""},
		{"pages/home.json", `{"version":1}`},
		{"pages/About.JSON", `{"version":1,"documents":[]}`},
		{"pages/.hidden.json", "{}"},
		{"__MACOSX/pages/._home.json", "junk"},
		{"readme.txt", "text"},
	})

	tests := []struct {
		name  string
		match func(string) bool
		want  []string
	}{
		{"json only", HasSuffix(".json"), []string{"pages/home.json", "pages/About.JSON"}},
		{"everything", nil, []string{"pages/home.json", "pages/About.JSON", "pages/.hidden.json", "__MACOSX/pages/._home.json", "readme.txt"}},
		{"nothing", HasSuffix(".yaml"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited []string
			err := Walk(zipPath, tt.match, func(archive string, e Entry) error {
				if archive != zipPath {
					t.Errorf("archive = %s, want %s", archive, zipPath)
				}
				visited = append(visited, e.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if !slices.Equal(visited, tt.want) {
				t.Errorf("visited %v, want %v", visited, tt.want)
			}
		})
	}
}

func TestEntry_ReadAll(t *testing.T) {
	zipPath := createZip(t, []zipEntry{{"doc.json", `{"version":1}`}})

	err := Walk(zipPath, nil, func(_ string, e Entry) error {
		data, err := e.ReadAll()
		if err != nil {
			return err
		}
		if string(data) != `{"version":1}` || e.Size != uint64(len(data)) {
			t.Errorf("unexpected entry %q (%d bytes)", data, e.Size)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	big := Entry{Name: "big.json", Size: MaxEntrySize + 1}
	if _, err := big.ReadAll(); err == nil {
		t.Error("expected error for oversized entry")
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	zipPath := createZip(t, []zipEntry{{"a.json", "1"}, {"b.json", "2"}, {"c.json", "3"}})

	stopErr := errors.New("stop walking")
	visited := 0
	err := Walk(zipPath, nil, func(string, Entry) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if !errors.Is(err, stopErr) {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d entries, want 2", visited)
	}
}

func TestWalk_UnsafePaths(t *testing.T) {
	for _, name := range []string{"../evil.json", "pages/../../evil.json", `..\evil.json`} {
		t.Run(name, func(t *testing.T) {
			zipPath := createZip(t, []zipEntry{{name, "{}"}})
			err := Walk(zipPath, nil, func(string, Entry) error {
				t.Error("walkFn must not be called")
				return nil
			})
			if err == nil {
				t.Error("expected error for unsafe path")
			}
		})
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	if err := Walk("/nonexistent/file.zip", nil, func(string, Entry) error { return nil }); err == nil {
		t.Error("Expected error for nonexistent file")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.zip")
	if err := os.WriteFile(invalid, []byte("not a zip file"), 0644); err != nil {
		t.Fatalf("Failed to create invalid zip: %v", err)
	}
	if err := Walk(invalid, nil, func(string, Entry) error { return nil }); err == nil {
		t.Error("Expected error for invalid zip file")
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"pages/home.json", true},
		{"a..b/c.json", true},
		{"/etc/passwd", false},
		{`\windows\system.ini`, false},
		{"a/../../b", false},
		{`a\..\b`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
