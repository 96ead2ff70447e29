package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Input           InputConfig  `mapstructure:"input"`
	Output          OutputConfig `mapstructure:"output"`
	Logger          LoggerConfig `mapstructure:"logger"`
	MetricsTextfile string       `mapstructure:"metrics_textfile"` // node exporter textfile, empty disables
}

type InputConfig struct {
	Dir               string   `mapstructure:"dir"`                // folder scanned for source files
	Sheet             string   `mapstructure:"sheet"`              // empty means the first sheet
	HeaderRow         int      `mapstructure:"header_row"`         // zero based, rows above it are discarded
	PlaceholderPrefix string   `mapstructure:"placeholder_prefix"` // header names dropped like blank ones
	Extensions        []string `mapstructure:"extensions"`
}

type OutputConfig struct {
	Path          string `mapstructure:"path"` // empty means a fresh temp directory per merge
	FileName      string `mapstructure:"file_name"`
	TempPrefix    string `mapstructure:"temp_prefix"`
	SheetName     string `mapstructure:"sheet_name"`
	AddSourceFile bool   `mapstructure:"add_source_file"` // append a column with the source file name
	SourceColumn  string `mapstructure:"source_column"`
}

type LoggerConfig struct {
	Level            string `mapstructure:"level"`
	Format           string `mapstructure:"format"`
	DisableTimestamp bool   `mapstructure:"disable_timestamp"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"dir":              "input.dir",
	"sheet":            "input.sheet",
	"header-row":       "input.header_row",
	"out":              "output.path",
	"add-source":       "output.add_source_file",
	"log-level":        "logger.level",
	"log-format":       "logger.format",
	"metrics-textfile": "metrics_textfile",
}

// RegisterFlags declares the command line flags understood by Load.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default: f42-merger.{yaml,json,toml} in ., ./configs or ~/.config/f42-merger)")
	fs.String("dir", "", "folder with source F42 files")
	fs.String("sheet", "", "sheet to read from every file (default: first sheet)")
	fs.Int("header-row", 1, "zero based row holding the column names")
	fs.String("out", "", "result file (default: F42_MERGED.xlsx in a new temp directory)")
	fs.Bool("add-source", false, "append a column with the source file name")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-format", "text", "log format: text or json")
	fs.String("metrics-textfile", "", "write prometheus metrics to this file after the run")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.dir", "")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.header_row", 1)
	v.SetDefault("input.placeholder_prefix", "Unnamed")
	v.SetDefault("input.extensions", []string{".xlsx", ".xls"})
	v.SetDefault("output.path", "")
	v.SetDefault("output.file_name", "F42_MERGED.xlsx")
	v.SetDefault("output.temp_prefix", "f42_merge_")
	v.SetDefault("output.sheet_name", "Sheet1")
	v.SetDefault("output.add_source_file", false)
	v.SetDefault("output.source_column", "SourceFile")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.disable_timestamp", false)
	v.SetDefault("metrics_textfile", "")
}

// Default returns the configuration built from defaults and F42_* environment
// variables only.
func Default() (*Config, error) {
	return load(viper.New(), nil)
}

// Load merges defaults, the config file, F42_* environment variables and
// the flags in fs (if not nil), in increasing order of precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("f42-merger")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs/")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "f42-merger"))
	}

	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return load(v, fs)
}

func load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("F42")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) normalize() error {
	if cfg.Input.HeaderRow < 0 {
		return fmt.Errorf("input.header_row must be >= 0, got %d", cfg.Input.HeaderRow)
	}
	if !strings.EqualFold(filepath.Ext(cfg.Output.FileName), ".xlsx") {
		return fmt.Errorf("output.file_name must end with .xlsx, got %q", cfg.Output.FileName)
	}
	if cfg.Output.SheetName == "" {
		return fmt.Errorf("output.sheet_name must not be empty")
	}

	exts := make([]string, 0, len(cfg.Input.Extensions))
	for _, e := range cfg.Input.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	if len(exts) == 0 {
		return fmt.Errorf("input.extensions must list at least one extension")
	}
	cfg.Input.Extensions = exts

	// normalize paths
	if cfg.Input.Dir != "" {
		cfg.Input.Dir = filepath.Clean(cfg.Input.Dir)
	}
	if cfg.Output.Path != "" {
		cfg.Output.Path = filepath.Clean(cfg.Output.Path)
	}
	if cfg.MetricsTextfile != "" {
		cfg.MetricsTextfile = filepath.Clean(cfg.MetricsTextfile)
	}
	return nil
}

// AcceptsFile reports whether path has one of the configured input extensions.
func (cfg *Config) AcceptsFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range cfg.Input.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
