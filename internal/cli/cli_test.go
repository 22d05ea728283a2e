package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/ytpgen/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderTable(t *testing.T) {
	got := renderTable([]string{"Name", "Count"}, [][]string{{"sounds", "3"}, {"short"}}, []columnAlignment{alignLeft, alignRight})
	// Headers are upper-cased by the rounded style.
	for _, want := range []string{"NAME", "COUNT", "SOUNDS", "SHORT", "╭"} {
		if !strings.Contains(strings.ToUpper(got), want) {
			t.Fatalf("table missing %q:\n%s", want, got)
		}
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatalf("expected empty table without headers")
	}
}

func TestFormatParams(t *testing.T) {
	got := formatParams(map[string]float64{"max_factor": 3, "min_factor": 0.25})
	if got != "max_factor=3 min_factor=0.25" {
		t.Fatalf("formatParams=%q", got)
	}
	if formatParams(nil) != "" {
		t.Fatalf("expected empty params")
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "ytpgen.toml")

	out, err := execute(t, "config", "init", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Wrote sample configuration to "+target) {
		t.Fatalf("unexpected output: %s", out)
	}
	if _, _, exists, err := config.Load(target); err != nil || !exists {
		t.Fatalf("sample does not load: exists=%v err=%v", exists, err)
	}

	if _, err := execute(t, "config", "init", target); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
	if _, err := execute(t, "config", "init", "--overwrite", target); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestEffectsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.toml")
	body := `[[effect_chain]]
name = "reverse"
probability = 1

[[effect_chain]]
name = "glitch_storm"
enabled = false
probability = 0.5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := execute(t, "--config", path, "effects")
	if err != nil {
		t.Fatalf("effects: %v\n%s", err, out)
	}
	for _, want := range []string{"Reverse", "1.00", "pass-through", "0.50", "no"} {
		if !strings.Contains(out, want) {
			t.Fatalf("effects output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "--config", path, "effects", "--all")
	if err != nil {
		t.Fatalf("effects --all: %v\n%s", err, out)
	}
	for _, want := range []string{"random_cuts", "meme_injection", "Random Sound Overlay"} {
		if !strings.Contains(out, want) {
			t.Fatalf("effects --all output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCommandRejectsMissingInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	_, err := execute(t, "--config", path, "run", filepath.Join(t.TempDir(), "nope.mp4"))
	if err == nil || !strings.Contains(err.Error(), "config: stat input") {
		t.Fatalf("expected stat input error, got %v", err)
	}
}
