package mediafiles

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndRemove(t *testing.T) {
	root := t.TempDir()
	d, err := New(root)
	if err != nil {
		t.Fatalf("new dir: %v", err)
	}

	url, err := d.Save("cat.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(url, "_cat.png") {
		t.Errorf("stored name must keep the original basename: %q", url)
	}
	data, err := os.ReadFile(url)
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("read back: %q err=%v", data, err)
	}

	if err := d.Remove(url); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := d.Remove(url); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want ErrNotExist on second remove, got %v", err)
	}
}

func TestSaveUniqueNames(t *testing.T) {
	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new dir: %v", err)
	}

	a, err := d.Save("same.png", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := d.Save("same.png", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if a == b {
		t.Fatalf("two uploads of the same filename collided: %q", a)
	}
}

// Remove resolves only the basename, so a recorded url with a stale directory
// prefix still deletes the right file.
func TestRemoveIgnoresStalePrefix(t *testing.T) {
	root := t.TempDir()
	d, err := New(root)
	if err != nil {
		t.Fatalf("new dir: %v", err)
	}

	url, err := d.Save("cat.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	stale := filepath.Join("old", "media", filepath.Base(url))
	if err := d.Remove(stale); err != nil {
		t.Fatalf("remove with stale prefix: %v", err)
	}
	if _, err := os.Stat(url); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file still present: %v", err)
	}
}
