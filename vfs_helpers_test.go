package vfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

func writeTestCartridge(t *testing.T, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "game.cart")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer file.Close()

	writer := zip.NewWriter(file)
	for name, content := range files {
		w, err := writer.Create(name)
		if err != nil {
			t.Fatalf("Create entry failed: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Write entry failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close writer failed: %v", err)
	}

	return path
}
