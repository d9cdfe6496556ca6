package match

import (
	"context"
	"fmt"

	"github.com/citizenwiki/locmerge/pkg/pool"
)

// ReasonNoMatch is the reason of a group in which no matcher accepted
const ReasonNoMatch = "no rule matched"

// Group ORs one matcher per configured kind
type Group struct {
	matchers []Matcher
	pool     *pool.Pool
}

// NewGroup builds a matcher for every kind in patterns that has at least one
// non-empty pattern, in Kind order. Matchers are raced on p; a nil p
// evaluates them one after another on the caller.
func NewGroup(p *pool.Pool, patterns map[Kind][]string) (*Group, error) {
	g := &Group{pool: p}
	for _, kind := range Kinds() {
		list := nonEmpty(patterns[kind])
		if len(list) == 0 {
			continue
		}
		m, err := New(kind, list)
		if err != nil {
			return nil, err
		}
		g.matchers = append(g.matchers, m)
	}
	return g, nil
}

// IsEmpty reports whether no matcher was constructed
func (g *Group) IsEmpty() bool {
	return g == nil || len(g.matchers) == 0
}

// Kinds returns the kinds that were constructed
func (g *Group) Kinds() []Kind {
	if g == nil {
		return nil
	}
	kinds := make([]Kind, len(g.matchers))
	for i, m := range g.matchers {
		kinds[i] = m.Kind()
	}
	return kinds
}

// Evaluate reports whether any matcher accepts candidate. The first positive
// result is returned as soon as it arrives; a negative result is returned
// only after every matcher has answered. A matcher that panics counts as a
// negative answer and its failure becomes the reason of a negative result.
func (g *Group) Evaluate(ctx context.Context, candidate *string) Result {
	if candidate == nil {
		return NotMatched(ReasonNilCandidate)
	}
	if g.IsEmpty() {
		return NotMatched(ReasonNoMatch)
	}

	if g.pool == nil || len(g.matchers) == 1 {
		var failure string
		for _, m := range g.matchers {
			r, failed := safeEvaluate(m, candidate)
			if r.Matched {
				return r
			}
			if failed {
				failure = r.Reason
			}
		}
		return negative(failure)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// buffered so that late answers never block a worker
	results := make(chan answer, len(g.matchers))
	for _, m := range g.matchers {
		m := m
		g.pool.Dispatch(ctx, func() {
			r, failed := safeEvaluate(m, candidate)
			results <- answer{result: r, failed: failed}
		})
	}

	var failure string
	remaining := len(g.matchers)
	for remaining > 0 {
		select {
		case a := <-results:
			if a.result.Matched {
				return a.result
			}
			if a.failed {
				failure = a.result.Reason
			}
			remaining--
		case <-ctx.Done():
			return NotMatched(ctx.Err().Error())
		}
	}
	return negative(failure)
}

type answer struct {
	result Result
	failed bool
}

// negative is the group result once every matcher declined. The last
// matcher failure, if any, is kept as the reason.
func negative(failure string) Result {
	if failure != "" {
		return NotMatched(ReasonNoMatch + ": " + failure)
	}
	return NotMatched(ReasonNoMatch)
}

func safeEvaluate(m Matcher, candidate *string) (r Result, failed bool) {
	defer func() {
		if p := recover(); p != nil {
			r = NotMatched(fmt.Sprintf("%s matcher failed: %v", m.Kind(), p))
			failed = true
		}
	}()
	return m.Evaluate(candidate), false
}
