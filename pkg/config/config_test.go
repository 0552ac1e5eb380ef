package config

import (
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if *conf != (Config{}) {
		t.Errorf("expected zero config, got %+v", conf)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	for _, content := range []string{"", "   \n", "~\n"} {
		conf, err := Load(writeConfig(t, content))
		if err != nil {
			t.Fatalf("Load(%q) returned error: %v", content, err)
		}
		if *conf != (Config{}) {
			t.Errorf("Load(%q): expected zero config, got %+v", content, conf)
		}
	}
}

func TestLoadNotAMapping(t *testing.T) {
	for _, content := range []string{"- a\n- b\n", "just a string\n", "42\n"} {
		_, err := Load(writeConfig(t, content))
		if !pkgerrors.Is(err, ErrBadConfig) {
			t.Errorf("Load(%q): expected ErrBadConfig, got %v", content, err)
		}
	}
}

func TestLoadFullConfig(t *testing.T) {
	conf, err := Load(writeConfig(t, `
url: https://example.com/direct
mid: "123"
base_url: https://example.com/pay
meter:
  url: https://example.com/nested
  mid: "456"
  base_url: https://example.com/nested-pay
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if conf.URL != "https://example.com/direct" {
		t.Errorf("URL = %q", conf.URL)
	}
	if conf.MID != "123" {
		t.Errorf("MID = %q", conf.MID)
	}
	if conf.Meter.MID != "456" {
		t.Errorf("Meter.MID = %q", conf.Meter.MID)
	}
	if conf.Meter.BaseURL != "https://example.com/nested-pay" {
		t.Errorf("Meter.BaseURL = %q", conf.Meter.BaseURL)
	}
}

func TestLoadNumericMid(t *testing.T) {
	conf, err := Load(writeConfig(t, "mid: 999\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if conf.MID != "999" {
		t.Errorf("MID = %q, want %q", conf.MID, "999")
	}
}

func TestLoadPathFromEnv(t *testing.T) {
	path := writeConfig(t, "mid: env-located\n")
	t.Setenv(EnvConfigPath, path)

	conf, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if conf.MID != "env-located" {
		t.Errorf("MID = %q, want %q", conf.MID, "env-located")
	}
}

func TestLoadFlagBeatsEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, writeConfig(t, "mid: from-env\n"))

	conf, err := Load(writeConfig(t, "mid: from-flag\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if conf.MID != "from-flag" {
		t.Errorf("MID = %q, want %q", conf.MID, "from-flag")
	}
}
