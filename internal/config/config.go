// Package config loads the YAML configuration, validates it against the
// embedded JSON schema and applies environment overrides.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joeshaw/envdecode"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaDocument []byte

const schemaURL = "config.schema.json"

// Config is the runtime configuration.
type Config struct {
	Locale             string   `yaml:"locale" json:"locale"`
	TimeZone           string   `yaml:"time_zone" json:"time_zone"`
	ParallelProbe      bool     `yaml:"parallel_probe" json:"parallel_probe"`
	DisabledStrategies []string `yaml:"disabled_strategies" json:"disabled_strategies"`
	Globals            Globals  `yaml:"globals" json:"globals"`
	Shim               Shim     `yaml:"shim" json:"shim"`
	Logging            Logging  `yaml:"logging" json:"logging"`
}

// Globals describes which host globals are provided.
type Globals struct {
	Cldr GlobalSpec `yaml:"cldr" json:"cldr"`
}

// GlobalSpec controls whether a global is defined and whether it carries the
// full operation surface.
type GlobalSpec struct {
	Present  bool `yaml:"present" json:"present"`
	Complete bool `yaml:"complete" json:"complete"`
}

// Shim names the global the shim resolver guards.
type Shim struct {
	Global             string   `yaml:"global" json:"global"`
	RequiredOperations []string `yaml:"required_operations" json:"required_operations"`
}

// Logging controls the zap logger.
type Logging struct {
	Level string `yaml:"level" json:"level"`
	JSON  bool   `yaml:"json" json:"json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Locale:   "en-US",
		TimeZone: "Local",
		Shim: Shim{
			Global:             "Cldr",
			RequiredOperations: []string{"load", "get"},
		},
		Logging: Logging{Level: "info"},
	}
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates data against the schema and decodes it over Default.
func Parse(data []byte) (Config, error) {
	if err := ValidateDocument(data); err != nil {
		return Config{}, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateDocument checks a YAML document against the embedded schema.
func ValidateDocument(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	// Round-trip through JSON so the validator sees JSON-native types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert config to json: %w", err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("convert config to json: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	return nil
}

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaDocument)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schemaCompiled, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schemaCompiled, schemaErr
}

// Validate enforces semantic rules the schema does not express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Locale) == "" {
		return fmt.Errorf("locale is required")
	}
	if strings.TrimSpace(c.Shim.Global) == "" {
		return fmt.Errorf("shim.global is required")
	}
	if c.Globals.Cldr.Complete && !c.Globals.Cldr.Present {
		return fmt.Errorf("globals.cldr.complete requires globals.cldr.present")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported logging.level %q", c.Logging.Level)
	}
	return nil
}

// envOverrides is decoded from the process environment.
type envOverrides struct {
	Locale   string `env:"DATEFALLBACK_LOCALE"`
	TimeZone string `env:"DATEFALLBACK_TIME_ZONE"`
	Parallel envBool `env:"DATEFALLBACK_PARALLEL_PROBE"`
	Disabled string `env:"DATEFALLBACK_DISABLED"`
	LogLevel string `env:"DATEFALLBACK_LOG_LEVEL"`
}

// envBool records whether a boolean variable was set.
type envBool struct {
	set   bool
	value bool
}

// Decode implements envdecode.Decoder.
func (b *envBool) Decode(repl string) error {
	v, err := strconv.ParseBool(strings.TrimSpace(repl))
	if err != nil {
		return fmt.Errorf("DATEFALLBACK_PARALLEL_PROBE: %w", err)
	}
	b.set, b.value = true, v
	return nil
}

// ApplyEnv overlays DATEFALLBACK_* environment variables onto cfg.
// DATEFALLBACK_DISABLED is a comma separated list appended to the
// configured disabled strategies.
func ApplyEnv(cfg Config) (Config, error) {
	var env envOverrides
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	if env.Locale != "" {
		cfg.Locale = env.Locale
	}
	if env.TimeZone != "" {
		cfg.TimeZone = env.TimeZone
	}
	if env.Parallel.set {
		cfg.ParallelProbe = env.Parallel.value
	}
	if env.Disabled != "" {
		cfg.DisabledStrategies = appendUnique(cfg.DisabledStrategies, strings.Split(env.Disabled, ",")...)
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = strings.ToLower(env.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst)+len(values))
	out := make([]string, 0, len(dst)+len(values))
	for _, v := range append(append([]string(nil), dst...), values...) {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
