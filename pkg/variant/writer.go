package variant

import (
	"bytes"
	"context"
	"strings"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/filesystem"
	"github.com/citizenwiki/locmerge/pkg/paths"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/spf13/afero"
)

const bom = "\ufeff"

// Render produces the global.ini content of v for records
func Render(ctx context.Context, v Variant, records []reconcile.Record) ([]byte, error) {
	if p, ok := v.(Preparer); ok {
		p.Prepare(ctx, records)
	}

	var buf bytes.Buffer
	buf.WriteString(bom)
	for i, rec := range records {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		value := v.Render(ctx, rec)
		buf.WriteString(rec.Key)
		buf.WriteByte('=')
		buf.WriteString(value)
		if !strings.HasSuffix(value, "\r") && !strings.HasSuffix(value, "\n") {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

// Write renders v and replaces its global.ini below outputDir
func Write(ctx context.Context, fsys afero.Fs, outputDir string, v Variant, records []reconcile.Record) (string, error) {
	data, err := Render(ctx, v, records)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrVariant, "variant %s cancelled", v.Name()).
			WithDetail("variant", v.Name())
	}

	path := paths.VariantOutputPath(outputDir, v.Name())
	if err := filesystem.WriteFileAtomic(fsys, path, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot write variant %s", v.Name()).
			WithDetail("variant", v.Name()).
			WithDetail("path", path)
	}
	return path, nil
}
