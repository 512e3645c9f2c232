package convert

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func writeZip(t *testing.T, path string, files map[string]string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return path
}

func TestIsArchiveFile(t *testing.T) {
	dir := t.TempDir()
	valid := writeZip(t, filepath.Join(dir, "bundle.zip"), map[string]string{"a.json": "{}"})
	upper := writeZip(t, filepath.Join(dir, "BUNDLE.ZIP"), map[string]string{"a.json": "{}"})
	misnamed := writeZip(t, filepath.Join(dir, "bundle.bin"), map[string]string{"a.json": "{}"})

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"valid zip", valid, true},
		{"upper case extension", upper, true},
		{"zip content with other extension", misnamed, false},
		{"zip extension but invalid content", writeFile(t, dir, "fake.zip", []byte("not a real zip file")), false},
		{"empty file", writeFile(t, dir, "empty.zip", nil), false},
		{"json", writeFile(t, dir, "doc.json", []byte(`{"version":1}`)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := isArchiveFile(tt.path)
			if err != nil {
				t.Fatalf("isArchiveFile() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("isArchiveFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsBatchFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		file string
		data string
		want bool
	}{
		{"object", "doc.json", `{"version":1}`, true},
		{"leading space and BOM", "bom.json", "\xef\xbb\xbf \n\t{}", true},
		{"upper case extension", "DOC.JSON", `{}`, true},
		{"array", "list.json", `[1,2]`, false},
		{"empty", "empty.json", "", false},
		{"other extension", "doc.txt", `{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := isBatchFile(writeFile(t, dir, tt.file, []byte(tt.data)))
			if err != nil {
				t.Fatalf("isBatchFile() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("isBatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_NonExistent(t *testing.T) {
	if _, err := isArchiveFile("/nonexistent/file.zip"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
	if _, err := isBatchFile("/nonexistent/file.json"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}
