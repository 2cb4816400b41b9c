package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "AGRI"

type Config interface {
	EnvConfig
	ClientConfig
	SessionConfig
	MockAPIConfig
	BindFlag(key string, flag *pflag.Flag) error
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

// mainConfig reads every setting through a single viper instance so that
// environment variables, .env files and CLI flags share one precedence order.
type mainConfig struct {
	v *viper.Viper
}

type options struct {
	envFiles []string
	viper    *viper.Viper
}

// Option configures how New loads settings
type Option func(*options)

// WithEnvFiles loads the given .env files before reading the environment
func WithEnvFiles(files ...string) Option {
	return func(o *options) {
		o.envFiles = files
	}
}

// WithViper supplies a pre-populated viper instance (primarily for testing)
func WithViper(v *viper.Viper) Option {
	return func(o *options) {
		o.viper = v
	}
}

func New(opts ...Option) Config {
	o := &options{envFiles: []string{".env"}}
	for _, opt := range opts {
		opt(o)
	}

	for _, file := range o.envFiles {
		// A missing .env file is normal outside local development
		_ = godotenv.Load(file)
	}

	v := o.viper
	if v == nil {
		v = viper.New()
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return mainConfig{v: v}
}

// BindFlag lets a command-line flag override the setting stored under key
func (c mainConfig) BindFlag(key string, flag *pflag.Flag) error {
	return c.v.BindPFlag(key, flag)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyAppName, "Agri Dashboard")
	v.SetDefault(keyEnv, "DEV")
	v.SetDefault(KeyLogLevel, "info")

	setClientDefaults(v)
	setSessionDefaults(v)
	setMockAPIDefaults(v)
}

const (
	keyAppName  = "app_name"
	keyEnv      = "env"
	KeyLogLevel = "log_level"
)

var _ EnvConfig = mainConfig{}

func (c mainConfig) GetAppName() string {
	return c.v.GetString(keyAppName)
}

func (c mainConfig) GetEnv() string {
	return strings.ToUpper(c.v.GetString(keyEnv))
}

func (c mainConfig) GetLogLevel() string {
	return c.v.GetString(KeyLogLevel)
}
