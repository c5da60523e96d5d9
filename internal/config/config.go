package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"icane/internal/domain"
	"icane/internal/errors"
)

const (
	EnvPrefix         = "ICANE"
	DefaultMirrorRoot = "~/.icane/mirror"
	DefaultDatabase   = "~/.icane/icane.db"
	DefaultConfigFile = "~/.icane/config.toml"
)

// Output formats accepted by output.format.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Config is the resolved icane configuration.
type Config struct {
	Mirror    MirrorConfig   `mapstructure:"mirror" toml:"mirror"`
	LeafTypes []string       `mapstructure:"leaf_types" toml:"leaf_types"`
	Output    OutputConfig   `mapstructure:"output" toml:"output"`
	Database  DatabaseConfig `mapstructure:"database" toml:"database"`
	Log       LogConfig      `mapstructure:"log" toml:"log"`
	MCP       MCPConfig      `mapstructure:"mcp" toml:"mcp"`
}

type MirrorConfig struct {
	Root string `mapstructure:"root" toml:"root"`
}

type OutputConfig struct {
	Format    string `mapstructure:"format" toml:"format"`
	Delimiter string `mapstructure:"delimiter" toml:"delimiter"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json"`
	Level string `mapstructure:"level" toml:"level"`
	// File receives the TUI's log output; empty discards it.
	File string `mapstructure:"file" toml:"file"`
}

type MCPConfig struct {
	Name string `mapstructure:"name" toml:"name"`
}

// Leaves returns the configured leaf set.
func (c *Config) Leaves() domain.LeafSet {
	return domain.NewLeafSet(c.LeafTypes...)
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatTable, FormatCSV, FormatJSON, FormatYAML:
	default:
		return errors.Wrapf(errors.ErrInvalidRequest, "output.format %q", c.Output.Format)
	}
	if len([]rune(c.Output.Delimiter)) != 1 {
		return errors.Wrapf(errors.ErrInvalidRequest, "output.delimiter must be one character, got %q", c.Output.Delimiter)
	}
	return nil
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("mirror.root", d.Mirror.Root)
	v.SetDefault("leaf_types", d.LeafTypes)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.delimiter", d.Output.Delimiter)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("mcp.name", d.MCP.Name)
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Mirror:    MirrorConfig{Root: MirrorRoot()},
		LeafTypes: append([]string(nil), domain.DefaultLeafTypes...),
		Output:    OutputConfig{Format: FormatTable, Delimiter: ","},
		Database:  DatabaseConfig{Path: DefaultDatabase},
		Log:       LogConfig{Level: "info"},
		MCP:       MCPConfig{Name: "icane-mcp"},
	}
}

// New returns a viper instance bound to ICANE_* env vars with defaults set.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the user config file if present, then env vars.
func Load() (*Config, error) {
	v := New()
	path := ExpandHome(DefaultConfigFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific TOML file.
func LoadFromFile(path string) (*Config, error) {
	v := New()
	v.SetConfigFile(ExpandHome(path))
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to read config file %s", path),
			"create one with 'icane-cli config init'",
		)
	}
	return decode(v)
}

// LoadWithViper decodes a caller-prepared viper instance, e.g. one with
// cobra flags bound.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Mirror.Root = ExpandHome(cfg.Mirror.Root)
	cfg.Database.Path = ExpandHome(cfg.Database.Path)
	cfg.Log.File = ExpandHome(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteDefault writes the default configuration as TOML. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	path = ExpandHome(path)
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file %s already exists", path)
	}
	data, err := toml.Marshal(Defaults())
	if err != nil {
		return errors.Wrap(err, "failed to encode default config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "failed to write config file")
}

// MirrorRoot returns the mirror root from the ICANE_MIRROR env var,
// falling back to DefaultMirrorRoot.
func MirrorRoot() string {
	if env := os.Getenv("ICANE_MIRROR"); env != "" {
		return env
	}
	return DefaultMirrorRoot
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
