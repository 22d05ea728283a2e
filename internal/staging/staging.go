// Package staging owns the per-run scratch directory that holds every
// intermediate artifact.
package staging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const prefix = "ytp_tmp_"

// Dir is a run-exclusive staging directory.
type Dir struct {
	path string
	id   string
}

// New creates a uniquely named directory under root. An empty root uses the
// system temp directory.
func New(root string) (*Dir, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	path := filepath.Join(abs, prefix+id)
	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Dir{path: path, id: id}, nil
}

func (d *Dir) Path() string { return d.path }

// ID is the unique suffix of the directory name.
func (d *Dir) ID() string { return d.id }

// Artifact returns the path of the n-th stage output.
func (d *Dir) Artifact(stage int) string {
	return filepath.Join(d.path, fmt.Sprintf("stage_%02d.mp4", stage))
}

// Scratch returns the path of a stage's private sub-directory. It is not
// created here.
func (d *Dir) Scratch(stage int, effect string) string {
	return filepath.Join(d.path, fmt.Sprintf("stage_%02d_%s", stage, effect))
}

// Release removes the directory unless keep is set.
func (d *Dir) Release(keep bool) error {
	if keep {
		return nil
	}
	return os.RemoveAll(d.path)
}

// Sub creates a scratch directory and returns a func that removes it again.
// Pass keep to leave it in place.
func Sub(path string, keep bool) (func() error, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return func() error {
		if keep {
			return nil
		}
		return os.RemoveAll(path)
	}, nil
}
