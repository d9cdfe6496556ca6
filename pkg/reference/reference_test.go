package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     []byte
		wantKeys  []string
		wantPairs map[string]string
	}{
		{
			name:      "plain",
			input:     []byte("a=1\nb=2\n"),
			wantKeys:  []string{"a", "b"},
			wantPairs: map[string]string{"a": "1", "b": "2"},
		},
		{
			name:      "bom stripped",
			input:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("first=x\r\nsecond=y")...),
			wantKeys:  []string{"first", "second"},
			wantPairs: map[string]string{"first": "x", "second": "y"},
		},
		{
			name:      "split at first equals",
			input:     []byte("formula=a=b+c\n"),
			wantKeys:  []string{"formula"},
			wantPairs: map[string]string{"formula": "a=b+c"},
		},
		{
			name:      "lines without equals ignored",
			input:     []byte("; comment\n\nk=v\n[section]\n"),
			wantKeys:  []string{"k"},
			wantPairs: map[string]string{"k": "v"},
		},
		{
			name:      "empty value kept",
			input:     []byte("empty=\n"),
			wantKeys:  []string{"empty"},
			wantPairs: map[string]string{"empty": ""},
		},
		{
			name:      "duplicate keeps first position and last value",
			input:     []byte("a=1\nb=2\na=3\n"),
			wantKeys:  []string{"a", "b"},
			wantPairs: map[string]string{"a": "3", "b": "2"},
		},
		{
			name:      "lone carriage returns",
			input:     []byte("a=1\rb=2\r"),
			wantKeys:  []string{"a", "b"},
			wantPairs: map[string]string{"a": "1", "b": "2"},
		},
		{
			name:      "stray latin-1 no-break space repaired",
			input:     []byte("price=10\xa0aUEC\n"),
			wantKeys:  []string{"price"},
			wantPairs: map[string]string{"price": "10\u00a0aUEC"},
		},
		{
			name:      "valid utf-8 no-break space untouched",
			input:     []byte("price=10\xc2\xa0aUEC\n"),
			wantKeys:  []string{"price"},
			wantPairs: map[string]string{"price": "10\u00a0aUEC"},
		},
		{
			name:      "multibyte text with 0xA0 continuation byte untouched",
			input:     []byte("cn=\xe4\xb8\xa0\n"),
			wantKeys:  []string{"cn"},
			wantPairs: map[string]string{"cn": "丠"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(strings.NewReader(string(tt.input)))
			require.NoError(t, err)
			assert.Equal(t, tt.wantKeys, m.Keys())
			assert.Equal(t, len(tt.wantKeys), m.Len())
			for k, want := range tt.wantPairs {
				got, ok := m.Get(k)
				assert.True(t, ok, k)
				assert.Equal(t, want, got, k)
			}
		})
	}
}

func TestMappingRange(t *testing.T) {
	m := NewMapping()
	m.Set("z", "1")
	m.Set("a", "2")
	m.Set("m", "3")

	var seen []string
	m.Range(func(k, v string) bool {
		seen = append(seen, k+"="+v)
		return k != "a"
	})
	assert.Equal(t, []string{"z=1", "a=2"}, seen)
	assert.True(t, m.Has("m"))
	assert.False(t, m.Has("q"))

	keys := m.Keys()
	keys[0] = "changed"
	assert.Equal(t, "z", m.Keys()[0])
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/global.ini", []byte("\xef\xbb\xbfk1=v1\nk2=v2=x\n"), 0644))

	m, err := Load(fs, "data/global.ini")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, m.Keys())
	v, _ := m.Get("k2")
	assert.Equal(t, "v2=x", v)

	_, err = Load(fs, "data/missing.ini")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrReferenceLoad))
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.ini")
	require.NoError(t, os.WriteFile(path, []byte("k=v\n"), 0644))

	m, err := Load(filesystem.NewOS(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}
