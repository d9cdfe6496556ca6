package core

import (
	"context"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/variant"
)

// Explain reports how every enabled variant renders key and which rules
// decided it
func Explain(ctx context.Context, opts Options, key string) (*Explanation, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	ex := &Explanation{RunID: opts.runID(), Key: key}
	logger := logging.WithRun(logging.GetLogger("core.explain"), ex.RunID)

	m, err := loadAndReconcile(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	rec, ok := m.result.Get(key)
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "key %q is not in the reference", key).
			WithDetail("key", key)
	}
	ex.Record = rec

	env, err := loadRules(opts)
	if err != nil {
		return nil, err
	}
	defer env.close()

	variants, err := buildVariants(opts, env, opts.variants())
	if err != nil {
		return nil, err
	}
	defer variant.CloseAll(variants)

	for _, v := range variants {
		if p, ok := v.(variant.Preparer); ok {
			p.Prepare(ctx, m.result.Clone())
		}
		ex.Variants = append(ex.Variants, variant.Explain(ctx, v, rec))
	}
	return ex, nil
}
