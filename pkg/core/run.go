package core

import (
	"context"
	"time"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/paths"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/citizenwiki/locmerge/pkg/variant"
)

// Run reconciles the sources against the reference and writes every
// enabled variant. The summary is returned even when variants fail; the
// error then reports how many did.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	start := time.Now()
	summary := &Summary{RunID: opts.runID()}
	logger := logging.WithRun(logging.GetLogger("core.run"), summary.RunID)
	logger.Info().
		Str("reference", opts.Config.Paths.Reference).
		Str("output", opts.Config.Paths.Output).
		Strs("variants", opts.variants()).
		Msg("Starting run")

	m, err := loadAndReconcile(ctx, opts, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to reconcile sources")
		return nil, err
	}
	summary.Inputs = m.inputs

	if err := reconcile.VerifyIntegrity(m.ref, m.result.Records); err != nil {
		logger.Error().Err(err).Msg("Merged records do not match the reference")
		return nil, err
	}

	env, err := loadRules(opts)
	if err != nil {
		return nil, err
	}
	defer env.close()

	variants, err := buildVariants(opts, env, opts.variants())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build variants")
		return nil, err
	}
	defer variant.CloseAll(variants)

	runner := variant.NewRunner(opts.fs(), opts.Config.Paths.Output,
		variant.WithConcurrency(opts.Config.Engine.VariantConcurrency),
		variant.WithLockFile(paths.LockPath(opts.Config.Paths.Output)),
		variant.WithLogger(logging.WithRun(logging.GetLogger("variant"), summary.RunID)),
	)
	summary.Outcomes, err = runner.Run(ctx, variants, m.result)
	summary.Duration = time.Since(start)
	if err != nil {
		return summary, err
	}

	if failed := summary.Failed(); len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, o := range failed {
			names = append(names, o.Variant)
		}
		return summary, errors.Newf(errors.ErrVariant, "%d of %d variants failed", len(failed), len(summary.Outcomes)).
			WithDetail("variants", names)
	}

	logger.Info().
		Int("records", summary.Inputs.Records).
		Int("variants", len(summary.Outcomes)).
		Dur("duration", summary.Duration).
		Msg("Run completed")
	return summary, nil
}
