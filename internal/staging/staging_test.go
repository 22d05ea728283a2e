package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_UniqueDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.Path() == b.Path() {
		t.Fatalf("two runs share staging dir %s", a.Path())
	}
	if !strings.HasPrefix(filepath.Base(a.Path()), prefix) {
		t.Fatalf("unexpected dir name %s", a.Path())
	}
}

func TestRelease(t *testing.T) {
	t.Parallel()

	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := os.WriteFile(d.Artifact(1), []byte("x"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	if err := d.Release(true); err != nil {
		t.Fatalf("release keep: %v", err)
	}
	if _, err := os.Stat(d.Artifact(1)); err != nil {
		t.Fatalf("kept dir lost its artifact: %v", err)
	}

	if err := d.Release(false); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(d.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected staging dir removed, stat err=%v", err)
	}
}

func TestNamesAndSub(t *testing.T) {
	t.Parallel()

	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := filepath.Base(d.Artifact(3)); got != "stage_03.mp4" {
		t.Fatalf("artifact name = %s", got)
	}
	scratch := d.Scratch(2, "stutter")
	cleanup, err := Sub(scratch, false)
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	if info, err := os.Stat(scratch); err != nil || !info.IsDir() {
		t.Fatalf("scratch not created: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Fatalf("scratch not removed, stat err=%v", err)
	}
}
