package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the contents of pipr.yaml.
type Config struct {
	EvalEnvironment         []string          `mapstructure:"eval_environment" yaml:"eval_environment" json:"eval_environment" jsonschema:"description=argv prefix the command text is appended to,minItems=1"`
	Timeout                 string            `mapstructure:"timeout" yaml:"timeout" json:"timeout" jsonschema:"description=maximum run time of one evaluation (Go duration),example=10s"`
	HistorySize             int               `mapstructure:"history_size" yaml:"history_size" json:"history_size" jsonschema:"description=number of history entries kept,minimum=1"`
	AutoevalDefault         bool              `mapstructure:"autoeval_default" yaml:"autoeval_default" json:"autoeval_default" jsonschema:"description=re-run the command on every edit"`
	ParanoidHistoryDefault  bool              `mapstructure:"paranoid_history_default" yaml:"paranoid_history_default" json:"paranoid_history_default" jsonschema:"description=store every successful autoeval run in history"`
	RawMode                 bool              `mapstructure:"raw_mode" yaml:"raw_mode" json:"raw_mode" jsonschema:"description=join buffer lines with newlines instead of spaces"`
	FinishHook              string            `mapstructure:"finish_hook" yaml:"finish_hook,omitempty" json:"finish_hook,omitempty" jsonschema:"description=command receiving the final buffer on stdin when pipr exits"`
	IsolationMountsReadonly []string          `mapstructure:"isolation_mounts_readonly" yaml:"isolation_mounts_readonly" json:"isolation_mounts_readonly" jsonschema:"description=read-only mounts for the isolated backend as host:target"`
	IsolationPathAdditions  []string          `mapstructure:"isolation_path_additions" yaml:"isolation_path_additions,omitempty" json:"isolation_path_additions,omitempty" jsonschema:"description=extra PATH entries inside the isolated backend"`
	Snippets                map[string]string `mapstructure:"-" yaml:"snippets" json:"snippets,omitempty" jsonschema:"description=single character trigger to snippet text; || marks the cursor"`
	HelpViewers             map[string]string `mapstructure:"-" yaml:"help_viewers" json:"help_viewers,omitempty" jsonschema:"description=single character trigger to help command; ?? is the hovered word"`
	OutputViewers           map[string]string `mapstructure:"-" yaml:"output_viewers" json:"output_viewers,omitempty" jsonschema:"description=single character trigger to output viewer; ?? is a file holding the output"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		EvalEnvironment:        []string{"bash", "-c"},
		Timeout:                "10s",
		HistorySize:            500,
		AutoevalDefault:        true,
		ParanoidHistoryDefault: false,
		IsolationMountsReadonly: []string{
			"/lib:/lib",
			"/usr:/usr",
			"/lib64:/lib64",
			"/bin:/bin",
			"/etc:/etc",
		},
		Snippets: map[string]string{
			"s": ` | sed -r 's/||//g'`,
			"g": ` | grep "||"`,
			"w": ` | wc -l`,
		},
		HelpViewers: map[string]string{
			"m": "man ??",
			"h": "?? --help | less",
		},
		OutputViewers: map[string]string{
			"l": "less",
		},
	}
}

// triggerMaps holds the case-sensitive maps, which viper would lower-case.
type triggerMaps struct {
	Snippets      map[string]string `yaml:"snippets"`
	HelpViewers   map[string]string `yaml:"help_viewers"`
	OutputViewers map[string]string `yaml:"output_viewers"`
}

// Load reads configuration from path. If path is empty, uses FilePath. A
// missing file yields the defaults. PIPR_* environment variables override
// scalar keys.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := FilePath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PIPR")
	v.AutomaticEnv()
	v.SetDefault("eval_environment", cfg.EvalEnvironment)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("history_size", cfg.HistorySize)
	v.SetDefault("autoeval_default", cfg.AutoevalDefault)
	v.SetDefault("paranoid_history_default", cfg.ParanoidHistoryDefault)
	v.SetDefault("raw_mode", cfg.RawMode)
	v.SetDefault("finish_hook", cfg.FinishHook)
	v.SetDefault("isolation_mounts_readonly", cfg.IsolationMountsReadonly)
	v.SetDefault("isolation_path_additions", cfg.IsolationPathAdditions)

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		raw = nil
	case err != nil:
		return Config{}, err
	default:
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if len(raw) > 0 {
		var maps triggerMaps
		if err := yaml.Unmarshal(raw, &maps); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if maps.Snippets != nil {
			cfg.Snippets = maps.Snippets
		}
		if maps.HelpViewers != nil {
			cfg.HelpViewers = maps.HelpViewers
		}
		if maps.OutputViewers != nil {
			cfg.OutputViewers = maps.OutputViewers
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at run time.
func (c Config) Validate() error {
	if len(c.EvalEnvironment) == 0 {
		return errors.New("eval_environment must not be empty")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("history_size must be positive, got %d", c.HistorySize)
	}
	if _, err := ParseMounts(c.IsolationMountsReadonly); err != nil {
		return err
	}
	for name, m := range map[string]map[string]string{
		"snippets":       c.Snippets,
		"help_viewers":   c.HelpViewers,
		"output_viewers": c.OutputViewers,
	} {
		for k := range m {
			if utf8.RuneCountInString(k) != 1 {
				return fmt.Errorf("%s: trigger %q must be a single character", name, k)
			}
		}
	}
	return nil
}

// TimeoutDuration returns the parsed timeout, or 10s if it is invalid.
func (c Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// MountSpec is a parsed host:target mount entry.
type MountSpec struct {
	Host   string
	Target string
}

// ParseMounts parses host:target entries.
func ParseMounts(entries []string) ([]MountSpec, error) {
	out := make([]MountSpec, 0, len(entries))
	for _, e := range entries {
		host, target, ok := strings.Cut(e, ":")
		if !ok || host == "" || target == "" {
			return nil, fmt.Errorf("invalid mount %q, expected '<on-host>:<in-isolated>'", e)
		}
		out = append(out, MountSpec{Host: host, Target: target})
	}
	return out, nil
}

// EnsureFile writes the commented reference config to path unless a file
// already exists there. It reports whether a file was created.
func EnsureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(Reference), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// Write serializes cfg to path, replacing any existing file.
func Write(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
