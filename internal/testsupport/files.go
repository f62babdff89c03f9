package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills path with size bytes of ASCII filler. A size <= 0 writes a
// single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	chunk := bytes.Repeat([]byte{'B'}, chunkSize)
	for remaining := size; remaining > 0; {
		n := min(remaining, int64(chunkSize))
		if _, err := f.Write(chunk[:n]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= n
	}
}

// WriteBytes writes data to path, creating parent directories.
func WriteBytes(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
