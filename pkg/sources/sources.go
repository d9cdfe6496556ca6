// Package sources reads exported translation source files.
//
// A source directory holds JSON files, each an array of records:
//
//	[{"id": 1, "key": "item_name", "original": "Pen", "translation": "笔", "stage": 1, "context": ""}]
//
// A file's folder is the first path segment below the source directory, so
// "rules/half.json" belongs to folder "rules" and "items.json" to no folder.
package sources

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/filesystem"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/spf13/afero"
)

const sourceExt = ".json"

// LoadDir reads every source file below dir, sorted by relative path
func LoadDir(fsys afero.Fs, dir string) ([]reconcile.Source, error) {
	logger := logging.GetLogger("sources")
	done := logging.LogOperationStart(logger, "load sources")
	defer done()

	names, err := List(fsys, dir)
	if err != nil {
		return nil, err
	}

	out := make([]reconcile.Source, 0, len(names))
	total := 0
	for _, name := range names {
		data, err := afero.ReadFile(fsys, filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSourceLoad, "cannot read source %s", name)
		}
		src, err := Decode(name, data)
		if err != nil {
			return nil, err
		}
		total += len(src.Records)
		out = append(out, src)
	}

	logger.Info().Int("files", len(out)).Int("records", total).Str("dir", dir).Msg("Sources loaded")
	return out, nil
}

// List returns the relative slash-separated names of the source files below dir
func List(fsys afero.Fs, dir string) ([]string, error) {
	names, err := filesystem.ListFiles(fsys, dir, sourceExt, true)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceLoad, "cannot list source directory %s", dir)
	}
	return names, nil
}

// Decode parses one source file named name (relative, slash-separated)
func Decode(name string, data []byte) (reconcile.Source, error) {
	var records []reconcile.Record
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return reconcile.Source{}, errors.Wrapf(err, errors.ErrSourceMalformed, "malformed source %s", name).
				WithDetail("file", name)
		}
	}
	return reconcile.Source{
		Name:    name,
		Folder:  FolderOf(name),
		Records: records,
	}, nil
}

// FolderOf returns the first path segment of name, or "" for top-level files
func FolderOf(name string) string {
	name = filepath.ToSlash(name)
	if i := strings.Index(name, "/"); i >= 0 {
		return name[:i]
	}
	return ""
}
