// Package config resolves CLI settings from flags, the environment and an
// optional disktree.yaml file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyIncludeSubdirs = "tree.include_subdirs"
	KeyExpandDepth    = "tree.expand_depth"
	KeySeparator      = "tree.separator"
	KeyOutputFormat   = "output.format"
	KeyOutputPretty   = "output.pretty"
	KeyOutputNoStyle  = "output.no_style"
)

const (
	configName = "disktree"
	configType = "yaml"

	environmentVariablePrefix = "DISKTREE"
)

var environmentVariableReplace = strings.NewReplacer(".", "_")

// FlagKeys maps CLI flag names onto the config keys they override.
var FlagKeys = map[string]string{
	"subdirs":   KeyIncludeSubdirs,
	"expand":    KeyExpandDepth,
	"separator": KeySeparator,
	"output":    KeyOutputFormat,
	"pretty":    KeyOutputPretty,
	"no-style":  KeyOutputNoStyle,
}

var defaults = map[string]interface{}{
	KeyIncludeSubdirs: true,
	KeyExpandDepth:    1,
	KeySeparator:      "/",
	KeyOutputFormat:   "tree",
	KeyOutputPretty:   false,
	KeyOutputNoStyle:  false,
}

type TreeConfig struct {
	IncludeSubdirs bool   `mapstructure:"include_subdirs" yaml:"include_subdirs"`
	ExpandDepth    int    `mapstructure:"expand_depth" yaml:"expand_depth"`
	Separator      string `mapstructure:"separator" yaml:"separator"`
}

// SeparatorRune returns the configured separator, or 0 when unset.
func (c TreeConfig) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Separator)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

type OutputConfig struct {
	Format  string `mapstructure:"format" yaml:"format"`
	Pretty  bool   `mapstructure:"pretty" yaml:"pretty"`
	NoStyle bool   `mapstructure:"no_style" yaml:"no_style"`
}

type Config struct {
	Tree   TreeConfig   `mapstructure:"tree" yaml:"tree"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// New returns a viper instance with defaults and environment lookup set up.
// configFile, when not empty, must exist; otherwise disktree.yaml is looked
// up in the working directory and then in $HOME/.config/disktree.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(environmentVariablePrefix)
	v.SetEnvKeyReplacer(environmentVariableReplace)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file (%s): %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", configName))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("viper failed to read config: %w", err)
		}
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("loaded config file")
	}
	return v, nil
}

// BindFlags binds every flag in fs that has an entry in FlagKeys.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load decodes and checks the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Tree.Separator) > 1 {
		return fmt.Errorf("%s must be a single character, got %q", KeySeparator, c.Tree.Separator)
	}
	if c.Tree.ExpandDepth < -1 {
		return fmt.Errorf("%s must be -1 or more, got %d", KeyExpandDepth, c.Tree.ExpandDepth)
	}
	return nil
}
