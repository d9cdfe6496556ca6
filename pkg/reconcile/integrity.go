package reconcile

import (
	"fmt"
	"strings"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/reference"
)

// maxListedKeys bounds how many keys an integrity message spells out
const maxListedKeys = 5

// VerifyIntegrity checks that merged holds exactly the keys of ref, each once
func VerifyIntegrity(ref *reference.Mapping, merged []Record) error {
	seen := make(map[string]struct{}, len(merged))
	var extra, duplicates, missing []string

	for _, rec := range merged {
		if _, dup := seen[rec.Key]; dup {
			duplicates = append(duplicates, rec.Key)
			continue
		}
		seen[rec.Key] = struct{}{}
		if !ref.Has(rec.Key) {
			extra = append(extra, rec.Key)
		}
	}
	ref.Range(func(key, _ string) bool {
		if _, ok := seen[key]; !ok {
			missing = append(missing, key)
		}
		return true
	})

	if len(extra) == 0 && len(duplicates) == 0 && len(missing) == 0 {
		return nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d missing %s", len(missing), listKeys(missing)))
	}
	if len(extra) > 0 {
		parts = append(parts, fmt.Sprintf("%d unexpected %s", len(extra), listKeys(extra)))
	}
	if len(duplicates) > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicated %s", len(duplicates), listKeys(duplicates)))
	}

	return errors.Newf(errors.ErrIntegrity,
		"merged record count %d does not match reference count %d: %s",
		len(merged), ref.Len(), strings.Join(parts, ", ")).
		WithDetail("missing", missing).
		WithDetail("extra", extra).
		WithDetail("duplicates", duplicates)
}

func listKeys(keys []string) string {
	if len(keys) > maxListedKeys {
		return fmt.Sprintf("%v...", keys[:maxListedKeys])
	}
	return fmt.Sprintf("%v", keys)
}
