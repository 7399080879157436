// Package appconfig is vcshook's own application configuration layer —
// distinct from internal/gitconfig, which reads the repository's git
// config. It holds process-wide defaults (default jobs, default
// hookdir policy, color mode) that come from flags, environment
// variables, or an optional YAML overlay file, following the teacher's
// package-level *viper.Viper singleton pattern.
package appconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var v *viper.Viper

// overlay is the schema of the optional .vcshook.yaml file. It is
// decoded with yaml.v3 directly, rather than through viper's own YAML
// support, so a typo'd key is a hard error instead of being silently
// ignored; pointer fields distinguish "absent" from "zero value" so
// only keys actually present in the file override viper's config layer.
type overlay struct {
	Jobs       *int    `yaml:"jobs"`
	RunHookdir *string `yaml:"run-hookdir"`
	Color      *string `yaml:"color"`
	HooksDir   *string `yaml:"hooks-dir"`
}

// Initialize sets up the configuration singleton. It should be called
// once at application startup, before any Get* function.
func Initialize() error {
	v = viper.New()

	v.SetEnvPrefix("VCSHOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("jobs", 0) // 0 means "detect CPU count"
	v.SetDefault("run-hookdir", "")
	v.SetDefault("color", "auto")
	v.SetDefault("hooks-dir", "")

	path, ok := overlayPath()
	if !ok {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var o overlay
	if err := dec.Decode(&o); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	merged := map[string]any{}
	if o.Jobs != nil {
		merged["jobs"] = *o.Jobs
	}
	if o.RunHookdir != nil {
		merged["run-hookdir"] = *o.RunHookdir
	}
	if o.Color != nil {
		merged["color"] = *o.Color
	}
	if o.HooksDir != nil {
		merged["hooks-dir"] = *o.HooksDir
	}
	return v.MergeConfigMap(merged)
}

// overlayPath locates .vcshook.yaml, preferring the home directory over
// the current working directory, per spec.md §6's config-file search order.
func overlayPath() (string, bool) {
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".vcshook.yaml")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		path := filepath.Join(cwd, ".vcshook.yaml")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// ensure returns the singleton, lazily initializing it with defaults if
// Initialize was never called (e.g. in tests exercising a single Get*
// function in isolation).
func ensure() *viper.Viper {
	if v == nil {
		_ = Initialize()
	}
	return v
}

// Jobs returns the default parallelism from VCSHOOK_JOBS or the overlay's
// jobs key, or 0 meaning "detect CPU count". Git's own hook.jobs config
// key is not read.
func Jobs() int { return ensure().GetInt("jobs") }

// RunHookdir returns the configured default hook.runhookdir value, or
// "" meaning "unset; caller applies its own default".
func RunHookdir() string { return ensure().GetString("run-hookdir") }

// Color returns the configured color mode: "auto", "always", or "never".
func Color() string { return ensure().GetString("color") }

// HooksDir returns an override for the legacy hooks directory, or "" to
// use the repository's real hooks path.
func HooksDir() string { return ensure().GetString("hooks-dir") }

// Set overrides a single key, used by cobra flag binding at startup.
func Set(key string, value any) { ensure().Set(key, value) }
