package ruleconfig

import (
	"os"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/spf13/afero"
)

// LoadSearchableOverrides reads the overrides document at file. An empty
// path or a missing file yields empty overrides.
func LoadSearchableOverrides(fsys afero.Fs, file string) (*SearchableOverrides, error) {
	logger := logging.GetLogger("ruleconfig")
	overrides := &SearchableOverrides{}

	if file == "" {
		return overrides, nil
	}
	if _, err := fsys.Stat(file); os.IsNotExist(err) {
		logger.Info().Str("file", file).Msg("No searchable overrides file, using none")
		return overrides, nil
	}

	raw, err := readDocument(fsys, file)
	if err != nil {
		return nil, err
	}
	if err := decode(raw, overrides); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid searchable overrides %s", file)
	}

	logger.Debug().
		Int("ignoreKeys", len(overrides.IgnoreKeys)).
		Int("overrideMappings", len(overrides.OverrideMappings)).
		Msg("Loaded searchable overrides")
	return overrides, nil
}
