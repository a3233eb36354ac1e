package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "admin_addr: :9999\nprompt: HEY\ntolerance: 3\nno_filter: true\ncors_origins:\n  - http://a\n  - http://b\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminAddr != ":9999" || cfg.Prompt != "HEY" || cfg.Tolerance != 3 || !cfg.NoFilter || len(cfg.CORSOrigins) != 2 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"admin_addr":":7070","log_level":"debug","quit_seconds":6,"quit_step_seconds":2,"verbose":true}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminAddr != ":7070" || cfg.LogLevel != "debug" || cfg.QuitSeconds != 6 || cfg.QuitStepSeconds != 2 || !cfg.Verbose {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "admin_addr=\":8081\"\nfilter_prompt=\"KID\"\ntolerance=2\ncors_origins=[\"*\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminAddr != ":8081" || cfg.FilterPrompt != "KID" || cfg.Tolerance != 2 || len(cfg.CORSOrigins) != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.LogLevel != DefaultLogLevel || cfg.Prompt != DefaultPrompt || cfg.FilterPrompt != DefaultFilterPrompt {
		t.Fatalf("unexpected string defaults: %+v", cfg)
	}
	if cfg.Tolerance != DefaultTolerance || cfg.QuitSeconds != DefaultQuitSeconds || cfg.QuitStepSeconds != DefaultQuitStepSeconds {
		t.Fatalf("unexpected numeric defaults: %+v", cfg)
	}
	kept := Config{Prompt: "X", Tolerance: 5}.WithDefaults()
	if kept.Prompt != "X" || kept.Tolerance != 5 {
		t.Fatalf("defaults overwrote set fields: %+v", kept)
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeTempFile(t, home, "eventist.toml", "prompt = \"HOME\"\n")
	cfg, err := Load("~/eventist.toml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Prompt != "HOME" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestExpandHome_LeavesOtherPathsAlone(t *testing.T) {
	for _, p := range []string{"/etc/eventist.yaml", "rel/x.json", "~user/x.yaml"} {
		got, err := expandHome(p)
		if err != nil || got != p {
			t.Fatalf("expandHome(%q) = %q, %v", p, got, err)
		}
	}
}
