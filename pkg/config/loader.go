package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "LOCMERGE_"

// ConfigFileNames are looked up in the working directory when no file is given
var ConfigFileNames = []string{"locmerge.toml", ".locmerge.toml", "locmerge.yaml", "locmerge.yml"}

// Load reads the embedded defaults, then the configuration file, then the
// environment. An empty configFile looks for one of ConfigFileNames in the
// working directory; a named file must exist.
func Load(configFile string) (*Config, error) {
	return load(".", configFile, nil)
}

// LoadWithOverrides is Load with a final layer of dotted key overrides,
// e.g. "paths.output" -> "dist". Overrides win over the environment.
func LoadWithOverrides(configFile string, overrides map[string]string) (*Config, error) {
	return load(".", configFile, overrides)
}

// Defaults returns the embedded default configuration
func Defaults() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	return unmarshal(k)
}

func load(dir, configFile string, overrides map[string]string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Config file
	path, err := findConfigFile(dir, configFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		parser := koanf.Parser(toml.Parser())
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("file", path)
		}
		logger.Debug().Str("file", path).Msg("Config file loaded")
	}

	// 3. Environment, LOCMERGE_ENGINE_SHARED_POOL -> engine.shared_pool
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(overrides) > 0 {
		values := make(map[string]interface{}, len(overrides))
		for key, value := range overrides {
			values[strings.ToLower(strings.TrimSpace(key))] = value
		}
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
		logger.Debug().Int("count", len(values)).Msg("Config overrides applied")
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	postProcessConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile(dir, configFile string) (string, error) {
	if configFile != "" {
		path := paths.ExpandHome(configFile)
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", configFile).
				WithDetail("file", configFile)
		}
		return path, nil
	}
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func postProcessConfig(cfg *Config) {
	cfg.Paths.Reference = paths.ExpandHome(cfg.Paths.Reference)
	cfg.Paths.Sources = paths.ExpandHome(cfg.Paths.Sources)
	cfg.Paths.Rules = paths.ExpandHome(cfg.Paths.Rules)
	cfg.Paths.Output = paths.ExpandHome(cfg.Paths.Output)
	cfg.Paths.Cache = paths.CacheDBPath(cfg.Paths.Cache)
	cfg.Publish.Profile = strings.ToUpper(cfg.Publish.Profile)

	enabled := cfg.Variants.Enabled[:0]
	for _, name := range cfg.Variants.Enabled {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			enabled = append(enabled, name)
		}
	}
	cfg.Variants.Enabled = enabled
}

// SearchableOverridesPath resolves the overrides file against the rules
// directory. Empty means no overrides file.
func (c *Config) SearchableOverridesPath() string {
	p := c.Variants.SearchableOverrides
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.Rules, p)
}
