package core

import (
	"context"
	"path"
	"strings"

	"github.com/citizenwiki/locmerge/pkg/cache"
	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/fileversion"
	"github.com/citizenwiki/locmerge/pkg/pool"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/citizenwiki/locmerge/pkg/reference"
	"github.com/citizenwiki/locmerge/pkg/ruleconfig"
	"github.com/citizenwiki/locmerge/pkg/rules"
	"github.com/citizenwiki/locmerge/pkg/sources"
	"github.com/citizenwiki/locmerge/pkg/variant"
	"github.com/rs/zerolog"
)

// merged is the reconciled state shared by Run, Check and Explain
type merged struct {
	ref    *reference.Mapping
	result *reconcile.Result
	inputs Inputs
}

func validate(opts Options) error {
	if opts.Config == nil {
		return errors.New(errors.ErrConfigInvalid, "no configuration given")
	}
	return nil
}

// loadAndReconcile reads the reference and the sources and merges them
func loadAndReconcile(ctx context.Context, opts Options, logger zerolog.Logger) (*merged, error) {
	cfg := opts.Config

	ref, err := reference.Load(opts.fs(), cfg.Paths.Reference)
	if err != nil {
		return nil, err
	}

	srcs, err := loadSources(ctx, opts)
	if err != nil {
		return nil, err
	}

	engine := reconcile.NewEngine(reconcile.WithExcludedFolder(cfg.Sources.ExcludedFolder))
	result, err := engine.Reconcile(ref, srcs)
	if err != nil {
		return nil, err
	}

	m := &merged{
		ref:    ref,
		result: result,
		inputs: Inputs{
			Reference: ref.Len(),
			Sources:   len(srcs),
			Excluded:  result.Excluded,
			Folded:    result.Folded,
			Records:   len(result.Records),
			Missing:   result.Missing,
			Dropped:   result.Dropped,
			FromCache: cfg.Sources.UseCache,
		},
	}
	m.inputs.Version, m.inputs.Profile = latestVersion(srcs, cfg.Publish.Profile, logger)

	if len(result.Missing) > 0 {
		logger.Warn().Int("missing", len(result.Missing)).Msg("Reference keys missing from every source, reference text used")
		for _, key := range result.Missing {
			logger.Debug().Str("key", key).Msg("Missing key")
		}
	}
	return m, nil
}

func loadSources(ctx context.Context, opts Options) ([]reconcile.Source, error) {
	cfg := opts.Config
	if !cfg.Sources.UseCache {
		return sources.LoadDir(opts.fs(), cfg.Paths.Sources)
	}

	store, err := cache.Open(ctx, cfg.Paths.Cache)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	if cfg.Paths.Sources != "" {
		if _, err := store.ImportDir(ctx, opts.fs(), cfg.Paths.Sources); err != nil {
			return nil, err
		}
	}
	return store.Sources(ctx)
}

// latestVersion finds the newest versioned source file and warns when its
// release channel differs from the configured one
func latestVersion(srcs []reconcile.Source, profile string, logger zerolog.Logger) (string, string) {
	names := make([]string, 0, len(srcs))
	for _, src := range srcs {
		names = append(names, path.Base(src.Name))
	}
	v, ok := fileversion.Latest(names)
	desc := fileversion.Describe(v, ok)
	if !ok {
		logger.Info().Msg("No versioned source file found")
		return desc, ""
	}

	logger.Info().Str("version", v.Name).Msg("Latest source version")
	if profile != "" && !strings.EqualFold(v.Profile, profile) {
		logger.Warn().
			Str("sourceProfile", v.Profile).
			Str("profile", profile).
			Msg("Latest source file belongs to another release channel")
	}
	return desc, v.Profile
}

// ruleEnv holds the rule store and the matcher pool of one invocation
type ruleEnv struct {
	store *ruleconfig.Store
	pool  *pool.Pool
	opts  []rules.Option
}

func (e *ruleEnv) close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

func loadRules(opts Options) (*ruleEnv, error) {
	cfg := opts.Config
	store, err := ruleconfig.Load(opts.fs(), cfg.Paths.Rules, ruleconfig.WithImportDir(cfg.Rules.ImportDir))
	if err != nil {
		return nil, err
	}

	env := &ruleEnv{store: store}
	if cfg.Engine.SharedPool {
		env.pool = pool.New(cfg.Engine.Parallelism)
		env.opts = []rules.Option{rules.WithPool(env.pool)}
	} else {
		env.opts = []rules.Option{rules.WithParallelism(cfg.Engine.Parallelism)}
	}
	return env, nil
}

func buildVariants(opts Options, env *ruleEnv, names []string) ([]variant.Variant, error) {
	cfg := opts.Config

	var overrides *ruleconfig.SearchableOverrides
	for _, name := range names {
		if name != variant.Searchable {
			continue
		}
		var err error
		overrides, err = ruleconfig.LoadSearchableOverrides(opts.fs(), cfg.SearchableOverridesPath())
		if err != nil {
			return nil, err
		}
	}

	return variant.Build(env.store, names, variant.Settings{
		Rules:         cfg.Variants.RuleNames(),
		LocationRules: cfg.Variants.Locations,
		Overrides:     overrides,
		RuleOptions:   env.opts,
	})
}
