package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/ytpgen/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	results := CheckBinaries([]Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Empty"},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Passed || results[0].Detail != present {
		t.Fatalf("expected present binary to pass: %+v", results[0])
	}
	if results[1].Passed || !strings.Contains(results[1].Detail, "not found") {
		t.Fatalf("expected missing binary to fail: %+v", results[1])
	}
	if results[2].Passed || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected empty command result: %+v", results[2])
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if r := CheckDirectoryAccess("Assets", dir); !r.Passed {
		t.Fatalf("expected pass: %+v", r)
	}
	if r := CheckDirectoryAccess("Assets", filepath.Join(dir, "missing")); r.Passed || !strings.Contains(r.Detail, "does not exist") {
		t.Fatalf("expected missing dir failure: %+v", r)
	}
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if r := CheckDirectoryAccess("Assets", file); r.Passed || !strings.Contains(r.Detail, "not a directory") {
		t.Fatalf("expected not-a-directory failure: %+v", r)
	}
}

func TestRun_FailedOnlyOnRequired(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.FFmpegPath = filepath.Join(dir, "no-ffmpeg")
	cfg.FFprobePath = filepath.Join(dir, "no-ffprobe")
	cfg.AssetsDir = dir
	cfg.StagingDir = dir

	results := Run(&cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(results))
	}
	if !Failed(results) {
		t.Fatalf("missing ffmpeg must fail preflight")
	}

	ff := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(ff, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	cfg.FFmpegPath = ff
	if Failed(Run(&cfg)) {
		t.Fatalf("missing optional ffprobe must not fail preflight")
	}
}
