package core

import (
	"time"

	"github.com/citizenwiki/locmerge/pkg/config"
	"github.com/citizenwiki/locmerge/pkg/filesystem"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/citizenwiki/locmerge/pkg/variant"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Options contains options for a pipeline invocation
type Options struct {
	Config *config.Config
	// FileSystem holds sources, rules and output. Defaults to the OS.
	FileSystem afero.Fs
	// RunID tags every log line of the run. Generated when empty.
	RunID string
	// Variants overrides the enabled variants of the configuration
	Variants []string
}

func (o Options) fs() afero.Fs {
	if o.FileSystem == nil {
		return filesystem.NewOS()
	}
	return o.FileSystem
}

func (o Options) runID() string {
	if o.RunID == "" {
		return uuid.NewString()
	}
	return o.RunID
}

func (o Options) variants() []string {
	if len(o.Variants) > 0 {
		return o.Variants
	}
	return o.Config.Variants.Enabled
}

// Inputs describes what a run read
type Inputs struct {
	// Version is the newest versioned source file name, "unknown" when none is versioned
	Version   string
	Profile   string
	Reference int
	Sources   int
	Excluded  []string
	Folded    int
	Records   int
	Missing   []string
	Dropped   int
	FromCache bool
}

// Summary reports a completed run
type Summary struct {
	RunID    string
	Inputs   Inputs
	Outcomes []variant.Outcome
	Duration time.Duration
}

// Failed returns the outcomes of variants that were not written
func (s *Summary) Failed() []variant.Outcome {
	var failed []variant.Outcome
	for _, o := range s.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// CheckReport reports a dry validation of inputs and rules
type CheckReport struct {
	RunID  string
	Inputs Inputs
	// Integrity is the key set verification error, nil when the merge is sound
	Integrity error
	// RuleWarnings lists recoverable resolution problems such as missing and
	// cyclic imports
	RuleWarnings []string
	// RuleErrors lists fatal rule problems and variants whose rules cannot be
	// built
	RuleErrors []string
}

// OK reports whether a run with the same inputs would succeed
func (r *CheckReport) OK() bool {
	return r.Integrity == nil && len(r.RuleErrors) == 0
}

// Explanation follows one key through every variant
type Explanation struct {
	RunID    string
	Key      string
	Record   reconcile.Record
	Variants []variant.Explanation
}
