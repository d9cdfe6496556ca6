package variant

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Outcome reports one variant of a run
type Outcome struct {
	Variant  string
	Path     string
	Records  int
	Duration time.Duration
	Err      error
}

// OK reports whether the variant was written
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Runner writes variants below an output root
type Runner struct {
	fsys        afero.Fs
	outputDir   string
	concurrency int
	lockPath    string
	logger      zerolog.Logger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithConcurrency bounds how many variants are written at once. n <= 0
// writes all of them at once.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		r.concurrency = n
	}
}

// WithLockFile makes Run hold an exclusive lock on path. The lock is a real
// file, whatever filesystem the variants are written to.
func WithLockFile(path string) RunnerOption {
	return func(r *Runner) {
		r.lockPath = path
	}
}

// WithLogger replaces the runner's logger
func WithLogger(logger zerolog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner returns a runner writing to outputDir on fsys
func NewRunner(fsys afero.Fs, outputDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		fsys:      fsys,
		outputDir: outputDir,
		logger:    logging.GetLogger("variant"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run writes every variant from its own copy of the reconciled records and
// returns one outcome per variant, in input order. Only a lock failure is
// returned as an error; variant failures are reported in their outcomes.
func (r *Runner) Run(ctx context.Context, variants []Variant, result *reconcile.Result) ([]Outcome, error) {
	if r.lockPath != "" {
		unlock, err := r.lock()
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	done := logging.LogOperationStart(r.logger, "write variants")
	defer done()

	outcomes := make([]Outcome, len(variants))

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for i, v := range variants {
		g.Go(func() error {
			outcomes[i] = r.runOne(ctx, v, result.Clone())
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.Err != nil {
			r.logger.Error().Err(o.Err).Str("variant", o.Variant).Msg("Variant failed")
			continue
		}
		r.logger.Info().
			Str("variant", o.Variant).
			Str("path", o.Path).
			Int("records", o.Records).
			Dur("duration", o.Duration).
			Msg("Variant written")
	}
	return outcomes, nil
}

func (r *Runner) runOne(ctx context.Context, v Variant, records []reconcile.Record) (out Outcome) {
	start := time.Now()
	out = Outcome{Variant: v.Name(), Records: len(records)}
	defer func() {
		if p := recover(); p != nil {
			out.Err = errors.Newf(errors.ErrVariant, "variant %s panicked: %v", v.Name(), p).
				WithDetail("variant", v.Name())
		}
		out.Duration = time.Since(start)
	}()

	path, err := Write(ctx, r.fsys, r.outputDir, v, records)
	if err != nil {
		out.Err = err
		return out
	}
	out.Path = path
	return out
}

func (r *Runner) lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(r.lockPath), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create lock directory for %s", r.lockPath)
	}
	fl := flock.New(r.lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLocked, "acquire lock %s", r.lockPath)
	}
	if !ok {
		return nil, errors.Newf(errors.ErrLocked, "another run holds %s", r.lockPath).
			WithDetail("path", r.lockPath)
	}
	r.logger.Debug().Str("lock", r.lockPath).Msg("Output lock acquired")
	return func() {
		if err := fl.Unlock(); err != nil {
			r.logger.Warn().Err(err).Str("lock", r.lockPath).Msg("Failed to release output lock")
		}
	}, nil
}
