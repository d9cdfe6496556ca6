package ruleconfig

import (
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/filesystem"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/rules"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultImportDir is the subdirectory holding importable rule documents
const DefaultImportDir = "common"

const ruleFileExt = ".yaml"

// Store is the parsed content of a rules directory. It is read-only after Load.
type Store struct {
	dir          string
	importDir    string
	translations map[string]*TranslationRule
	imports      map[string]*rules.MatchRules
}

// Option configures Load
type Option func(*Store)

// WithImportDir changes the subdirectory scanned for importable documents
func WithImportDir(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.importDir = name
		}
	}
}

// Load parses every rule document under dir
func Load(fsys afero.Fs, dir string, opts ...Option) (*Store, error) {
	logger := logging.GetLogger("ruleconfig")
	done := logging.LogOperationStart(logger, "load rules")
	defer done()

	s := &Store{
		dir:          dir,
		importDir:    DefaultImportDir,
		translations: make(map[string]*TranslationRule),
		imports:      make(map[string]*rules.MatchRules),
	}
	for _, opt := range opts {
		opt(s)
	}

	info, err := fsys.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read rules directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrConfigLoad, "rules path %s is not a directory", dir)
	}

	if err := s.loadTranslationRules(fsys, logger); err != nil {
		return nil, err
	}
	if err := s.loadImports(fsys, logger); err != nil {
		return nil, err
	}

	logger.Info().
		Int("translationRules", len(s.translations)).
		Int("importable", len(s.imports)).
		Str("dir", dir).
		Msg("Rules loaded")
	return s, nil
}

func (s *Store) loadTranslationRules(fsys afero.Fs, logger zerolog.Logger) error {
	names, err := filesystem.ListFiles(fsys, s.dir, ruleFileExt, false)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot list rules directory %s", s.dir)
	}

	for _, name := range names {
		raw, err := readDocument(fsys, filepath.Join(s.dir, filepath.FromSlash(name)))
		if err != nil {
			return err
		}
		if !hasAnyKey(raw, translationRuleKeys...) {
			logger.Debug().Str("file", name).Msg("Not a translation rule document, skipping")
			continue
		}

		var tr TranslationRule
		if err := decode(raw, &tr); err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse, "invalid translation rule document %s", name).
				WithDetail("file", name)
		}
		s.translations[name] = &tr
		logger.Debug().Str("file", name).Int("ext", len(tr.Ext)).Msg("Loaded translation rules")
	}
	return nil
}

func (s *Store) loadImports(fsys afero.Fs, logger zerolog.Logger) error {
	importRoot := filepath.Join(s.dir, filepath.FromSlash(s.importDir))
	if _, err := fsys.Stat(importRoot); err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("dir", importRoot).Msg("No importable rules directory")
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", importRoot)
	}

	names, err := filesystem.ListFiles(fsys, importRoot, ruleFileExt, true)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot list %s", importRoot)
	}

	for _, rel := range names {
		name := path.Join(filepath.ToSlash(s.importDir), rel)
		raw, err := readDocument(fsys, filepath.Join(importRoot, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}

		var doc Document
		if err := decode(raw, &doc); err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse, "invalid rule document %s", name).
				WithDetail("file", name)
		}
		s.imports[name] = doc.Rules()
		logger.Trace().Str("file", name).Msg("Loaded importable rules")
	}
	return nil
}

func readDocument(fsys afero.Fs, file string) (map[string]interface{}, error) {
	data, err := afero.ReadFile(fsys, file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", file)
	}
	raw, err := parseYAML(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", file).
			WithDetail("file", file)
	}
	return raw, nil
}

// Dir returns the rules directory
func (s *Store) Dir() string {
	return s.dir
}

// MatchRules returns the importable rule set registered under name
func (s *Store) MatchRules(name string) (*rules.MatchRules, bool) {
	r, ok := s.imports[name]
	return r, ok
}

// Lookup adapts the store for import resolution
func (s *Store) Lookup() rules.Lookup {
	return s.MatchRules
}

// TranslationRule returns the translation rule document named name
func (s *Store) TranslationRule(name string) (*TranslationRule, bool) {
	tr, ok := s.translations[name]
	return tr, ok
}

// TranslationRuleNames returns the loaded translation rule names, sorted
func (s *Store) TranslationRuleNames() []string {
	return sortedKeys(s.translations)
}

// ImportNames returns the importable document names, sorted
func (s *Store) ImportNames() []string {
	return sortedKeys(s.imports)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
