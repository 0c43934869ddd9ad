package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseEmptyDocumentYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("unexpected defaults (-want +got):\n%s", diff)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
locale: de-DE
time_zone: Europe/Berlin
parallel_probe: true
disabled_strategies: [strftime, zoneinfo]
globals:
  cldr:
    present: true
    complete: true
shim:
  required_operations: [load, get, main]
logging:
  level: debug
  json: true
`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	want := Config{
		Locale:             "de-DE",
		TimeZone:           "Europe/Berlin",
		ParallelProbe:      true,
		DisabledStrategies: []string{"strftime", "zoneinfo"},
		Globals:            Globals{Cldr: GlobalSpec{Present: true, Complete: true}},
		Shim:               Shim{Global: "Cldr", RequiredOperations: []string{"load", "get", "main"}},
		Logging:            Logging{Level: "debug", JSON: true},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown key":    "colour: blue\n",
		"bad level":      "logging:\n  level: loud\n",
		"wrong type":     "parallel_probe: sometimes\n",
		"duplicate item": "disabled_strategies: [stdlib, stdlib]\n",
		"empty locale":   "locale: \"\"\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected parse failure", name)
		}
	}
}

func TestValidateRejectsCompleteWithoutPresent(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Globals.Cldr.Complete = true
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "present") {
		t.Fatalf("expected present/complete violation, got %v", err)
	}
}

func TestLoadReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "datefallback.yaml")
	if err := os.WriteFile(path, []byte("locale: fr-FR\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.Locale != "fr-FR" || cfg.TimeZone != "Local" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DATEFALLBACK_LOCALE", "ja-JP")
	t.Setenv("DATEFALLBACK_TIME_ZONE", "Asia/Tokyo")
	t.Setenv("DATEFALLBACK_PARALLEL_PROBE", "true")
	t.Setenv("DATEFALLBACK_DISABLED", "cldr, stdlib")
	t.Setenv("DATEFALLBACK_LOG_LEVEL", "WARN")

	base := Default()
	base.DisabledStrategies = []string{"stdlib"}
	cfg, err := ApplyEnv(base)
	if err != nil {
		t.Fatalf("unexpected env error: %v", err)
	}
	if cfg.Locale != "ja-JP" || cfg.TimeZone != "Asia/Tokyo" || !cfg.ParallelProbe || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if diff := cmp.Diff([]string{"stdlib", "cldr"}, cfg.DisabledStrategies); diff != "" {
		t.Fatalf("unexpected disabled list (-want +got):\n%s", diff)
	}
}

func TestApplyEnvRejectsBadBool(t *testing.T) {
	t.Setenv("DATEFALLBACK_PARALLEL_PROBE", "maybe")
	_, err := ApplyEnv(Default())
	if err == nil || !strings.Contains(err.Error(), "decode environment") || !strings.Contains(err.Error(), "DATEFALLBACK_PARALLEL_PROBE") {
		t.Fatalf("expected decode error for bad bool, got %v", err)
	}
}

func TestApplyEnvWithoutVariablesKeepsConfig(t *testing.T) {
	for _, name := range []string{
		"DATEFALLBACK_LOCALE",
		"DATEFALLBACK_TIME_ZONE",
		"DATEFALLBACK_PARALLEL_PROBE",
		"DATEFALLBACK_DISABLED",
		"DATEFALLBACK_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}

	base := Default()
	base.ParallelProbe = true
	cfg, err := ApplyEnv(base)
	if err != nil {
		t.Fatalf("expected no overrides to be accepted, got %v", err)
	}
	if diff := cmp.Diff(base, cfg); diff != "" {
		t.Fatalf("unexpected config change (-want +got):\n%s", diff)
	}
}
