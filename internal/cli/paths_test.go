package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	xdg := t.TempDir()

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"home fallback", "", filepath.Join(home, ".cache", "citation")},
		{"xdg", xdg, filepath.Join(xdg, "citation")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", home)
			t.Setenv("XDG_CACHE_HOME", tt.xdg)

			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestOpenFileCacheCreatesDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	fc, err := openFileCache()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(xdg, "citation")
	if fc.Dir() != want {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), want)
	}
	if info, err := os.Stat(want); err != nil || !info.IsDir() {
		t.Errorf("cache dir not created: %v", err)
	}
}

// A cached render lands under the directory "cache path" prints, in a
// two-character shard holding one JSON entry keyed by format.
func TestRenderCacheLayout(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	run := func(args ...string) string {
		t.Helper()
		root := New(&bytes.Buffer{}, LogInfo).RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(args)
		if err := root.ExecuteContext(ctx); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	run("render", "-o", "-", "--format", "json")
	dir := strings.TrimSpace(run("cache", "path"))

	shards, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(shards) != 1 || !shards[0].IsDir() {
		t.Fatalf("cache dir holds %d entries, want one shard directory", len(shards))
	}
	if !regexp.MustCompile(`^[0-9a-f]{2}$`).MatchString(shards[0].Name()) {
		t.Errorf("shard name %q is not two hex characters", shards[0].Name())
	}

	files, err := filepath.Glob(filepath.Join(dir, shards[0].Name(), "*.json"))
	if err != nil || len(files) != 1 {
		t.Fatalf("shard files = %v (err %v), want one entry", files, err)
	}
	if name := filepath.Base(files[0]); len(name) != 62+len(".json") {
		t.Errorf("entry name %q, want the remaining 62 hash characters", name)
	}

	raw, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	var entry struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(entry.Key, "artifact:json:") {
		t.Errorf("entry key = %q, want an artifact:json key", entry.Key)
	}
}
