// Package reference reads the canonical key=value localization file.
//
// The file is UTF-8, optionally with a byte order mark, but the upstream
// export is known to contain stray Latin-1 bytes (most often 0xA0, a
// no-break space). Bytes that do not form valid UTF-8 are decoded as
// ISO-8859-1 so the mapping always holds valid UTF-8 text.
package reference

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Mapping is an insertion-ordered key to source text map. It must not be
// modified once handed to the reconciliation engine.
type Mapping struct {
	keys   []string
	values map[string]string
}

// NewMapping returns an empty mapping
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]string)}
}

// Set stores value under key. A repeated key keeps its first position.
func (m *Mapping) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the text stored under key
func (m *Mapping) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present
func (m *Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of keys
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order
func (m *Mapping) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Range calls fn for every entry in insertion order until fn returns false
func (m *Mapping) Range(fn func(key, value string) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Load reads the mapping stored at path on fsys
func Load(fsys afero.Fs, path string) (*Mapping, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrReferenceLoad, "cannot open reference file %s", path)
	}
	defer func() { _ = f.Close() }()

	m, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrReferenceLoad, "cannot read reference file %s", path)
	}

	logger := logging.GetLogger("reference")
	logger.Info().
		Str("path", path).
		Int("keys", m.Len()).
		Msg("Reference loaded")
	return m, nil
}

// Parse reads key=value lines. Lines without '=' are ignored; the key is
// everything before the first '='.
func Parse(r io.Reader) (*Mapping, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, bom)
	text := repairLatin1(data)

	m := NewMapping()
	for _, line := range splitLines(text) {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		m.Set(key, value)
	}
	return m, nil
}

// repairLatin1 returns data as a string, decoding every byte that is not
// part of a valid UTF-8 sequence as ISO-8859-1
func repairLatin1(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	decoder := charmap.ISO8859_1
	var b bytes.Buffer
	b.Grow(len(data) + 16)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(decoder.DecodeByte(data[0]))
		} else {
			b.Write(data[:size])
		}
		data = data[size:]
	}
	return b.String()
}

// splitLines splits on \n, \r\n and lone \r
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
