package cli

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if filepath.Base(dir) != appName {
		t.Errorf("dir = %q, want basename %q", dir, appName)
	}
	if !strings.HasPrefix(dir, filepath.Dir(dir)) {
		t.Errorf("dir = %q should sit under XDG_CACHE_HOME", dir)
	}
}

func TestCacheDirFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", t.TempDir())

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".cache", appName)) {
		t.Errorf("dir = %q, want ~/.cache/%s", dir, appName)
	}
}
