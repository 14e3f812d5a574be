package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultSamplingRate = 30.0
	DefaultLogLevel     = "info"
	DefaultOutput       = "text"
	DefaultNATSURL      = "nats://127.0.0.1:4222"
	DefaultSubject      = "biofeedback"
	DefaultHTTPAddr     = ":8080"

	defaultEnvPrefix  = "BIOFEEDBACK"
	defaultConfigName = "biofeedback"
)

type Config struct {
	SamplingRate float64 `mapstructure:"sampling_rate"`
	LogLevel     string  `mapstructure:"log_level"`
	Output       string  `mapstructure:"output"`
	NATSURL      string  `mapstructure:"nats_url"`
	Subject      string  `mapstructure:"subject"`
	HTTPAddr     string  `mapstructure:"http_addr"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"sampling-rate": "sampling_rate",
	"log-level":     "log_level",
	"output":        "output",
	"nats-url":      "nats_url",
	"subject":       "subject",
	"http-addr":     "http_addr",
}

// RegisterFlags adds the configuration flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Float64("sampling-rate", DefaultSamplingRate, "Sampling rate of the input signals in Hz")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.StringP("output", "o", DefaultOutput, "Report format (text, json)")
	fs.String("config", "", "Path to a TOML configuration file")
}

// Load reads defaults, the config file, environment and flags, in
// increasing order of precedence. flags may be nil.
func Load(flags *pflag.FlagSet, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: defaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	v.SetDefault("sampling_rate", DefaultSamplingRate)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("nats_url", DefaultNATSURL)
	v.SetDefault("subject", DefaultSubject)
	v.SetDefault("http_addr", DefaultHTTPAddr)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if o.configPath == "" && flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			o.configPath = f.Value.String()
		}
	}
	if o.configPath == "" {
		o.configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if err := readConfigFile(v, o.configPath); err != nil {
		return nil, err
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errFactory.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	errFactory := errors.New()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
		return nil
	}

	v.SetConfigName(defaultConfigName)
	v.SetConfigType("toml")
	v.AddConfigPath("/etc")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", defaultConfigName))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.SamplingRate <= 0 || math.IsNaN(c.SamplingRate) || math.IsInf(c.SamplingRate, 0) {
		return errFactory.WithData(errors.ErrInvalidSamplingRate, c.SamplingRate)
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if !OutputFormat(c.Output).IsValid() {
		return errFactory.WithData(errors.ErrInvalidOutput, c.Output)
	}

	return nil
}

// RegisterServeFlags adds the flags used by the streaming service to fs
func RegisterServeFlags(fs *pflag.FlagSet) {
	fs.String("nats-url", DefaultNATSURL, "NATS server URL")
	fs.String("subject", DefaultSubject, "Subject prefix for inbound samples and outbound metrics")
	fs.String("http-addr", DefaultHTTPAddr, "HTTP listen address for the websocket feed")
}
