package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/shellymon/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appName   = "shellymon"
	envPrefix = "SHELLYMON"

	DefaultInterval         = time.Second
	DefaultTimeout          = 2 * time.Second
	DefaultOutputDir        = "."
	DefaultLogLevel         = string(LogLevelInfo)
	DefaultArchiveDB        = "shellymon.db"
	DefaultArchiveBatchSize = 32
)

// ErrHelp is returned by Load when -h/--help was requested.
var ErrHelp = pflag.ErrHelp

type Config struct {
	Address          string        `mapstructure:"-"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	OutputDir        string        `mapstructure:"output_dir"`
	LogLevel         string        `mapstructure:"log_level"`
	Archive          bool          `mapstructure:"archive"`
	ArchiveDB        string        `mapstructure:"archive_db"`
	ArchiveBatchSize int           `mapstructure:"archive_batch_size"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"interval":   "interval",
	"timeout":    "timeout",
	"output-dir": "output_dir",
	"log-level":  "log_level",
	"archive":    "archive",
	"archive-db": "archive_db",
}

// Load builds the configuration from command line arguments (without the
// program name), environment, config file and defaults, in that order of
// precedence. Usage is written to out when parsing fails or help is asked.
func Load(args []string, out io.Writer) (*Config, error) {
	errFactory := errors.New()

	fs := newFlagSet(out)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
	}

	v := viper.New()
	setDefaults(v)

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configFile, _ := fs.GetString("config")
	if configFile == "" {
		configFile = os.Getenv(envPrefix + "_CONFIG")
	}
	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if fs.NArg() > 1 {
		return nil, errFactory.WithData(errors.ErrInvalidArgument, fmt.Sprintf("unexpected arguments: %v", fs.Args()[1:]))
	}
	if fs.NArg() == 1 {
		config.Address = strings.TrimSpace(fs.Arg(0))
	}

	if err := config.Validate(); err != nil {
		fs.Usage()
		return nil, err
	}

	return config, nil
}

func newFlagSet(out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Monitor the power consumption reported by a Shelly Plug S.\n\n")
		fmt.Fprintf(out, "Usage: %s [flags] <address>\n\nFlags:\n", appName)
		fs.PrintDefaults()
	}

	fs.String("config", "", "Path to a TOML config file")
	fs.Duration("interval", DefaultInterval, "Sampling period")
	fs.Duration("timeout", DefaultTimeout, "Per-request timeout")
	fs.String("output-dir", DefaultOutputDir, "Directory for CSV, plot and analysis files")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("archive", false, "Archive readings to a sqlite database")
	fs.String("archive-db", DefaultArchiveDB, "Path to the archive database")

	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("archive", false)
	v.SetDefault("archive_db", DefaultArchiveDB)
	v.SetDefault("archive_batch_size", DefaultArchiveBatchSize)
}

func readConfigFile(v *viper.Viper, path string) error {
	errFactory := errors.New()

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.AddConfigPath(filepath.Join("/etc", appName))
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errFactory.Wrap(errors.ErrReadConfig, err)
	}

	return nil
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Address == "" {
		return errFactory.New(errors.ErrMissingAddress)
	}
	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.Timeout <= 0 {
		return errFactory.WithData(errors.ErrInvalidTimeout, c.Timeout)
	}
	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.Archive && c.ArchiveDB == "" {
		return errFactory.WithMessage(errors.ErrMissingConfig, "archive enabled without archive_db")
	}

	return nil
}

func (c *Config) GetAddress() string         { return c.Address }
func (c *Config) GetInterval() time.Duration { return c.Interval }
func (c *Config) GetTimeout() time.Duration  { return c.Timeout }
func (c *Config) GetOutputDir() string       { return c.OutputDir }
func (c *Config) GetLogLevel() string        { return c.LogLevel }
func (c *Config) IsArchiveEnabled() bool     { return c.Archive }
func (c *Config) GetArchiveDBPath() string   { return c.ArchiveDB }
