package reconcile

import (
	"strings"

	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/reference"
	"github.com/rs/zerolog"
)

// Engine reconciles sources against a reference mapping
type Engine struct {
	excludedFolder string
	logger         zerolog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithExcludedFolder sets the folder whose sources are skipped. An empty
// name disables the exclusion.
func WithExcludedFolder(name string) Option {
	return func(e *Engine) {
		e.excludedFolder = name
	}
}

// NewEngine returns an engine that skips DefaultExcludedFolder unless told otherwise
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		excludedFolder: DefaultExcludedFolder,
		logger:         logging.GetLogger("reconcile"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile builds one record per reference key from sources
func (e *Engine) Reconcile(ref *reference.Mapping, sources []Source) (*Result, error) {
	done := logging.LogOperationStart(e.logger, "reconcile")
	defer done()

	result := &Result{}
	scratch := make(map[string]Record)

	for _, src := range sources {
		if e.excluded(src) {
			e.logger.Debug().Str("source", src.Name).Str("folder", src.Folder).Msg("Skipping excluded source")
			result.Excluded = append(result.Excluded, src.Name)
			continue
		}

		result.Folded++
		for _, rec := range src.Records {
			if existing, ok := scratch[rec.Key]; ok && existing.ID >= rec.ID {
				continue
			}
			scratch[rec.Key] = rec
		}
		e.logger.Debug().Str("source", src.Name).Int("records", len(src.Records)).Msg("Source folded")
	}

	result.Records = make([]Record, 0, ref.Len())
	result.index = make(map[string]int, ref.Len())

	ref.Range(func(key, text string) bool {
		rec, ok := scratch[key]
		if ok {
			if strings.TrimSpace(rec.Translation) == "" {
				rec.Translation = text
			}
		} else {
			rec = Record{
				ID:          SyntheticID,
				Key:         key,
				Original:    text,
				Translation: text,
			}
			result.Missing = append(result.Missing, key)
			e.logger.Warn().Str("key", key).Msg("Key missing from sources, using reference text")
		}
		result.index[key] = len(result.Records)
		result.Records = append(result.Records, rec)
		return true
	})

	for key := range scratch {
		if !ref.Has(key) {
			result.Dropped++
		}
	}

	if err := VerifyIntegrity(ref, result.Records); err != nil {
		return nil, err
	}

	e.logger.Info().
		Int("records", len(result.Records)).
		Int("missing", len(result.Missing)).
		Int("dropped", result.Dropped).
		Int("sources", result.Folded).
		Msg("Reconciled")
	return result, nil
}

func (e *Engine) excluded(src Source) bool {
	return e.excludedFolder != "" && src.Folder == e.excludedFolder
}
