package rules

import (
	"context"
	"sync"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/match"
	"github.com/citizenwiki/locmerge/pkg/pool"
)

// Decision reasons
const (
	ReasonDefaultMatch     = "default match, no rules configured"
	ReasonNotIncluded      = "not matched by include rules"
	ReasonNoIncludeMatched = "not matched by any include rule"
	ReasonNotExcluded      = "default include, exclude rules not matched"
)

// Processor decides whether candidates pass one resolved rule set. It is
// safe for concurrent use.
type Processor struct {
	include   *match.Group
	exclude   *match.Group
	pool      *pool.Pool
	ownsPool  bool
	closeOnce sync.Once
}

type processorOptions struct {
	pool        *pool.Pool
	parallelism int
	owned       bool
}

// Option configures a Processor
type Option func(*processorOptions)

// WithPool evaluates on p. The processor never closes p.
func WithPool(p *pool.Pool) Option {
	return func(o *processorOptions) {
		o.pool = p
		o.owned = false
	}
}

// WithParallelism gives the processor its own pool of n workers, closed by Close
func WithParallelism(n int) Option {
	return func(o *processorOptions) {
		o.pool = nil
		o.parallelism = n
		o.owned = true
	}
}

// NewProcessor builds the include and exclude groups of rules. rules should
// already be resolved; its imports are ignored.
func NewProcessor(rules *MatchRules, opts ...Option) (*Processor, error) {
	if rules == nil {
		return nil, errors.New(errors.ErrConfigInvalid, "match rules must not be nil")
	}

	o := processorOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Processor{pool: o.pool, ownsPool: o.owned}
	switch {
	case o.owned:
		p.pool = pool.New(o.parallelism)
	case p.pool == nil:
		p.pool = pool.Shared()
	}

	var err error
	if p.include, err = match.NewGroup(p.pool, rules.Include.Patterns()); err != nil {
		p.Close()
		return nil, errors.Wrap(err, errors.GetErrorCode(err), "failed to build include rules")
	}
	if p.exclude, err = match.NewGroup(p.pool, rules.Exclude.Patterns()); err != nil {
		p.Close()
		return nil, errors.Wrap(err, errors.GetErrorCode(err), "failed to build exclude rules")
	}
	return p, nil
}

// OwnsPool reports whether Close shuts the pool down
func (p *Processor) OwnsPool() bool {
	return p.ownsPool
}

// Pool returns the pool the processor evaluates on
func (p *Processor) Pool() *pool.Pool {
	return p.pool
}

// Close releases the pool if the processor owns it
func (p *Processor) Close() {
	p.closeOnce.Do(func() {
		if p.ownsPool && p.pool != nil {
			p.pool.Close()
		}
	})
}

// Evaluate applies the decision function to candidate
func (p *Processor) Evaluate(ctx context.Context, candidate *string) match.Result {
	if candidate == nil {
		return match.NotMatched(match.ReasonNilCandidate)
	}

	includeEmpty, excludeEmpty := p.include.IsEmpty(), p.exclude.IsEmpty()

	switch {
	case includeEmpty && excludeEmpty:
		return match.Matched(ReasonDefaultMatch)

	case includeEmpty:
		r := p.exclude.Evaluate(ctx, candidate)
		if r.Matched {
			return match.NotMatched("exclude: " + r.Reason)
		}
		return match.Matched(ReasonNotExcluded)

	case excludeEmpty:
		r := p.include.Evaluate(ctx, candidate)
		if r.Matched {
			return match.Matched("include: " + r.Reason)
		}
		return match.NotMatched(ReasonNotIncluded)
	}

	if r := p.exclude.Evaluate(ctx, candidate); r.Matched {
		return match.NotMatched("exclude: " + r.Reason)
	}
	if r := p.include.Evaluate(ctx, candidate); r.Matched {
		return match.Matched("include: " + r.Reason)
	}
	return match.NotMatched(ReasonNoIncludeMatched)
}

// Matches reports the decision for candidate
func (p *Processor) Matches(ctx context.Context, candidate *string) bool {
	return p.Evaluate(ctx, candidate).Matched
}

// MatchReason returns the explanation of the decision for candidate
func (p *Processor) MatchReason(ctx context.Context, candidate *string) string {
	return p.Evaluate(ctx, candidate).Reason
}
