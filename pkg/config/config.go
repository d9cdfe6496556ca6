package config

import (
	"strings"

	"github.com/citizenwiki/locmerge/pkg/errors"
)

// Config is the complete locmerge configuration
type Config struct {
	Paths    Paths    `koanf:"paths" toml:"paths"`
	Sources  Sources  `koanf:"sources" toml:"sources"`
	Engine   Engine   `koanf:"engine" toml:"engine"`
	Rules    Rules    `koanf:"rules" toml:"rules"`
	Variants Variants `koanf:"variants" toml:"variants"`
	Publish  Publish  `koanf:"publish" toml:"publish"`
}

// Paths holds the input and output locations
type Paths struct {
	Reference string `koanf:"reference" toml:"reference"`
	Sources   string `koanf:"sources" toml:"sources"`
	Rules     string `koanf:"rules" toml:"rules"`
	Output    string `koanf:"output" toml:"output"`
	// Cache is the source cache database; empty uses the XDG cache directory
	Cache string `koanf:"cache" toml:"cache"`
}

// Sources controls how source files are read
type Sources struct {
	ExcludedFolder string `koanf:"excluded_folder" toml:"excluded_folder"`
	UseCache       bool   `koanf:"use_cache" toml:"use_cache"`
}

// Engine sizes the matcher pool and the variant fan-out
type Engine struct {
	Parallelism        int  `koanf:"parallelism" toml:"parallelism"`
	SharedPool         bool `koanf:"shared_pool" toml:"shared_pool"`
	VariantConcurrency int  `koanf:"variant_concurrency" toml:"variant_concurrency"`
}

// Rules configures rule loading
type Rules struct {
	ImportDir string `koanf:"import_dir" toml:"import_dir"`
}

// Variants selects the output variants and their translation rules
type Variants struct {
	Enabled             []string `koanf:"enabled" toml:"enabled"`
	Half                string   `koanf:"half" toml:"half"`
	Both                string   `koanf:"both" toml:"both"`
	Searchable          string   `koanf:"searchable" toml:"searchable"`
	Pinyin              string   `koanf:"pinyin" toml:"pinyin"`
	Locations           string   `koanf:"locations" toml:"locations"`
	SearchableOverrides string   `koanf:"searchable_overrides" toml:"searchable_overrides"`
}

// RuleNames maps each rule driven variant to its translation rule name
func (v Variants) RuleNames() map[string]string {
	return map[string]string{
		"half":       v.Half,
		"both":       v.Both,
		"searchable": v.Searchable,
		"pinyin":     v.Pinyin,
	}
}

// Publish describes the release the output is meant for
type Publish struct {
	Profile string `koanf:"profile" toml:"profile"`
}

// Validate checks values the loaders cannot
func (c *Config) Validate() error {
	var problems []string
	if c.Paths.Reference == "" {
		problems = append(problems, "paths.reference is empty")
	}
	if c.Paths.Rules == "" {
		problems = append(problems, "paths.rules is empty")
	}
	if c.Paths.Output == "" {
		problems = append(problems, "paths.output is empty")
	}
	if c.Paths.Sources == "" && !c.Sources.UseCache {
		problems = append(problems, "paths.sources is empty and sources.use_cache is off")
	}
	if c.Engine.Parallelism < 0 {
		problems = append(problems, "engine.parallelism is negative")
	}
	if c.Engine.VariantConcurrency < 0 {
		problems = append(problems, "engine.variant_concurrency is negative")
	}
	switch strings.ToUpper(c.Publish.Profile) {
	case "", "LIVE", "PTU":
	default:
		problems = append(problems, "publish.profile must be LIVE or PTU")
	}

	if len(problems) > 0 {
		return errors.Newf(errors.ErrConfigInvalid, "invalid configuration: %s", strings.Join(problems, "; ")).
			WithDetail("problems", problems)
	}
	return nil
}
