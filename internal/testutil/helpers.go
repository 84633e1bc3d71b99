package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateWordListFile writes a YAML word list into a temp dir and returns its path
func CreateWordListFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.yaml")
	CreateTestFile(t, path, []byte(content))
	return path
}

// CreateBeatDirectory creates a directory holding placeholder beat files
func CreateBeatDirectory(t *testing.T, files ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range files {
		// Minimal MP3 frame header
		CreateTestFile(t, filepath.Join(dir, name), []byte{0xFF, 0xFB, 0x90, 0x00})
	}
	return dir
}

// AssertContainsAll checks that s contains every substring
func AssertContainsAll(t *testing.T, s string, substrings ...string) {
	t.Helper()

	for _, sub := range substrings {
		if !strings.Contains(s, sub) {
			t.Errorf("Expected output to contain %q, got:\n%s", sub, s)
		}
	}
}
