// Package mediafiles persists uploaded media bodies on durable storage.
// The database stores only the relative path; file lifecycle (including
// removal on tweet deletion) is driven by the services layer.
package mediafiles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Dir is a media root directory.
type Dir struct {
	root string
}

// New returns a Dir rooted at root, creating it if necessary.
func New(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Dir{root: root}, nil
}

// Save writes the body under a unique name derived from a random token plus
// the original filename and returns the stored path (relative, suitable for
// the media row url).
func (d *Dir) Save(filename string, body io.Reader) (string, error) {
	name := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(filename))
	path := filepath.Join(d.root, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Remove deletes a previously stored file by its recorded url. The url may
// carry a stale directory prefix; only the basename is resolved against the
// root. Returns os.ErrNotExist (wrapped) when the file is already gone.
func (d *Dir) Remove(url string) error {
	return os.Remove(filepath.Join(d.root, filepath.Base(url)))
}
