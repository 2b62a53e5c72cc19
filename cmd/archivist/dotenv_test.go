// ABOUTME: Tests for .env loading at startup.
// ABOUTME: Covers plain and quoted values, comments, no-clobber behavior, and a missing file.
package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDotEnvSetsVariables(t *testing.T) {
	path := writeTempEnv(t, "# archive settings\nARCHIVIST_TEST_ROOT=/srv/forum\n\nARCHIVIST_TEST_QUOTED=\"with spaces\"\n")
	unsetEnv(t, "ARCHIVIST_TEST_ROOT")
	unsetEnv(t, "ARCHIVIST_TEST_QUOTED")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("ARCHIVIST_TEST_ROOT"); got != "/srv/forum" {
		t.Errorf("ARCHIVIST_TEST_ROOT = %q, want %q", got, "/srv/forum")
	}
	if got := os.Getenv("ARCHIVIST_TEST_QUOTED"); got != "with spaces" {
		t.Errorf("ARCHIVIST_TEST_QUOTED = %q, want %q", got, "with spaces")
	}
}

func TestLoadDotEnvDoesNotClobber(t *testing.T) {
	path := writeTempEnv(t, "ARCHIVIST_TEST_PORT=9000\n")
	t.Setenv("ARCHIVIST_TEST_PORT", "8080")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("ARCHIVIST_TEST_PORT"); got != "8080" {
		t.Errorf("ARCHIVIST_TEST_PORT = %q, existing value should win", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}
