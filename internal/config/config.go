package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/llm-d/bert-design-space/internal/designspace"
	"github.com/llm-d/bert-design-space/internal/logging"
)

// SourceKind selects where the design space document is read from.
type SourceKind string

const (
	SourceFile        SourceKind = "file"
	SourceBuiltin     SourceKind = "builtin"
	SourceConfigMap   SourceKind = "configmap"
	SourceDesignSpace SourceKind = "designspace"
)

// EnvPrefix is prepended to every environment variable, e.g. DESIGNSPACE_SOURCE_KIND.
const EnvPrefix = "DESIGNSPACE"

// Configuration keys.
const (
	KeySourceKind      = "source.kind"
	KeySourcePath      = "source.path"
	KeySourceName      = "source.name"
	KeySourceNamespace = "source.namespace"
	KeySourceKey       = "source.key"
	KeyLogLevel        = "log.level"
	KeyLogDevelopment  = "log.development"
	KeyMetricsOutput   = "metrics.output"
)

// Defaults.
const (
	DefaultSourceKind      = SourceBuiltin
	DefaultBuiltinName     = designspace.BuiltinFull
	DefaultSourceNamespace = "default"
	DefaultLogLevel        = logging.LevelInfo
)

var validLogLevels = []string{logging.LevelError, logging.LevelInfo, logging.LevelDebug, logging.LevelTrace}

// Config is the process configuration.
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// SourceConfig locates the design space document.
type SourceConfig struct {
	// Kind is one of file, builtin, configmap or designspace.
	Kind SourceKind `mapstructure:"kind"`

	// Path is the document path for the file kind.
	Path string `mapstructure:"path"`

	// Name is the built-in name, the ConfigMap name or the DesignSpace name.
	Name string `mapstructure:"name"`

	// Namespace of the ConfigMap or DesignSpace.
	Namespace string `mapstructure:"namespace"`

	// Key is the ConfigMap data key holding the document. When empty the
	// first YAML-looking key is used.
	Key string `mapstructure:"key"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type MetricsConfig struct {
	// Output is a file the Prometheus text exposition is written to after
	// the command runs. Empty disables it; "-" writes to stdout.
	Output string `mapstructure:"output"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySourceKind, string(DefaultSourceKind))
	v.SetDefault(KeySourcePath, "")
	v.SetDefault(KeySourceName, "")
	v.SetDefault(KeySourceNamespace, DefaultSourceNamespace)
	v.SetDefault(KeySourceKey, "")
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyMetricsOutput, "")
}

// AddFlags defines the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("source", string(DefaultSourceKind), "design space source: file, builtin, configmap or designspace")
	fs.StringP("file", "f", "", "design space document path (source=file)")
	fs.String("name", "", "built-in, ConfigMap or DesignSpace name")
	fs.StringP("namespace", "n", DefaultSourceNamespace, "namespace of the ConfigMap or DesignSpace")
	fs.String("key", "", "ConfigMap key holding the document")
	fs.String("log-level", DefaultLogLevel, "log level: error, info, debug or trace")
	fs.Bool("log-development", false, "human-readable development logging")
	fs.String("metrics-output", "", "write Prometheus metrics to this file after running (- for stdout)")
	fs.String("config", "", "optional configuration file")
}

var flagKeys = map[string]string{
	"source":          KeySourceKind,
	"file":            KeySourcePath,
	"name":            KeySourceName,
	"namespace":       KeySourceNamespace,
	"key":             KeySourceKey,
	"log-level":       KeyLogLevel,
	"log-development": KeyLogDevelopment,
	"metrics-output":  KeyMetricsOutput,
}

// BindFlags binds the flags defined by AddFlags to their configuration keys.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file, then unmarshals and validates the
// merged configuration.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.Source.Kind = SourceKind(strings.ToLower(string(cfg.Source.Kind)))
	if cfg.Source.Kind == SourceBuiltin && cfg.Source.Name == "" {
		cfg.Source.Name = DefaultBuiltinName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%s must be one of %s, got %q", KeyLogLevel, strings.Join(validLogLevels, ", "), c.Log.Level)
	}
	if out := c.Metrics.Output; out != "" && out != "-" && strings.HasSuffix(out, string(filepath.Separator)) {
		return fmt.Errorf("%s must name a file, got %q", KeyMetricsOutput, out)
	}
	return nil
}

// ErrUnknownSourceKind is returned for a source kind outside the supported set.
var ErrUnknownSourceKind = errors.New("unknown source kind")

// Validate checks that the keys required by the source kind are set.
func (s *SourceConfig) Validate() error {
	switch s.Kind {
	case SourceFile:
		if s.Path == "" {
			return fmt.Errorf("%s is required for source kind %q", KeySourcePath, s.Kind)
		}
	case SourceBuiltin:
		if s.Name == "" {
			return fmt.Errorf("%s is required for source kind %q", KeySourceName, s.Kind)
		}
	case SourceConfigMap, SourceDesignSpace:
		if s.Name == "" {
			return fmt.Errorf("%s is required for source kind %q", KeySourceName, s.Kind)
		}
		if s.Namespace == "" {
			return fmt.Errorf("%s is required for source kind %q", KeySourceNamespace, s.Kind)
		}
		if s.Kind == SourceDesignSpace && s.Key != "" {
			return fmt.Errorf("%s is only valid for source kind %q", KeySourceKey, SourceConfigMap)
		}
	default:
		return fmt.Errorf("%w %q: must be one of file, builtin, configmap, designspace", ErrUnknownSourceKind, s.Kind)
	}
	return nil
}

// IsKubernetes reports whether the source is read from the API server.
func (s *SourceConfig) IsKubernetes() bool {
	return s.Kind == SourceConfigMap || s.Kind == SourceDesignSpace
}
