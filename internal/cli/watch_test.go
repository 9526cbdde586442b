package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestWatchedFiles(t *testing.T) {
	opts := &renderOpts{card: cardFlags{
		config: "card.toml",
		font:   "https://example.com/font.ttf",
		logo:   "seal.png",
	}}
	want := []string{"card.toml", "seal.png"}
	if got := watchedFiles(opts); !reflect.DeepEqual(got, want) {
		t.Errorf("watchedFiles() = %v, want %v", got, want)
	}
	if got := watchedFiles(&renderOpts{}); len(got) != 0 {
		t.Errorf("watchedFiles(empty) = %v", got)
	}
}

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "card.toml")
	other := filepath.Join(dir, "other.toml")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("[card]\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := newFileWatcher([]string{watched})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("[card]\nwidth = 400\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-w.events:
		t.Fatal("event for an unwatched file")
	case <-time.After(100 * time.Millisecond):
	}

	if err := os.WriteFile(watched, []byte("[card]\nwidth = 400\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-w.events:
	case <-time.After(2 * time.Second):
		t.Fatal("no event after writing the watched file")
	}
}
