package match

import (
	"testing"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestKindNames(t *testing.T) {
	assert.Len(t, Kinds(), 10)
	for _, k := range Kinds() {
		parsed, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
	}

	k, ok := ParseKind("Start_With_Ignore_Case")
	assert.True(t, ok)
	assert.Equal(t, StartsWithIgnoreCase, k)

	_, ok = ParseKind("glob")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestMatchers(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		patterns  []string
		candidate string
		want      bool
	}{
		{"exact hit", Exact, []string{"Hello"}, "Hello", true},
		{"exact case differs", Exact, []string{"Hello"}, "hello", false},
		{"exact ignore case", ExactIgnoreCase, []string{"Hello"}, "HELLO", true},
		{"starts with", StartsWith, []string{"item_"}, "item_Name", true},
		{"starts with miss", StartsWith, []string{"item_"}, "Item_Name", false},
		{"starts with ignore case lower", StartsWithIgnoreCase, []string{"Hello"}, "hello world", true},
		{"starts with ignore case upper", StartsWithIgnoreCase, []string{"Hello"}, "HELLO", true},
		{"starts with ignore case not prefix", StartsWithIgnoreCase, []string{"Hello"}, "say hello", false},
		{"ends with", EndsWith, []string{",P"}, "desc,P", true},
		{"ends with ignore case", EndsWithIgnoreCase, []string{"_DESC"}, "item_desc", true},
		{"contains", Contains, []string{"mission"}, "the_mission_text", true},
		{"contains miss", Contains, []string{"mission"}, "the_MISSION_text", false},
		{"contains ignore case", ContainsIgnoreCase, []string{"mission"}, "the_MISSION_text", true},
		{"regex whole match", Regex, []string{"^A.*Z$"}, "AZ", true},
		{"regex whole match long", Regex, []string{"^A.*Z$"}, "AxyzZ", true},
		{"regex rejects", Regex, []string{"^A.*Z$"}, "ZA", false},
		{"regex is anchored", Regex, []string{"b"}, "abc", false},
		{"regex ignore case", RegexIgnoreCase, []string{"item_.*"}, "ITEM_NAME", true},
		{"second pattern hits", Exact, []string{"a", "b"}, "b", true},
		{"empty patterns dropped", Exact, []string{"", "b"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.kind, tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, m.Kind())

			got := m.Evaluate(ptr(tt.candidate))
			assert.Equal(t, tt.want, got.Matched, got.Reason)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestMatcherNilCandidate(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			m, err := New(k, []string{"x"})
			require.NoError(t, err)
			got := m.Evaluate(nil)
			assert.False(t, got.Matched)
			assert.Equal(t, ReasonNilCandidate, got.Reason)
		})
	}
}

func TestNewErrors(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		_, err := New(Contains, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
	})

	t.Run("only blank patterns", func(t *testing.T) {
		_, err := New(Exact, []string{"", ""})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
	})

	t.Run("invalid regex", func(t *testing.T) {
		_, err := New(Regex, []string{"a("})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPattern))
		assert.Equal(t, "a(", errors.GetErrorDetails(err)["pattern"])
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := New(Kind(99), []string{"x"})
		require.Error(t, err)
	})
}

func TestPatternsAreCopied(t *testing.T) {
	m, err := New(Exact, []string{"a"})
	require.NoError(t, err)

	p := m.Patterns()
	p[0] = "changed"
	assert.Equal(t, []string{"a"}, m.Patterns())
}
