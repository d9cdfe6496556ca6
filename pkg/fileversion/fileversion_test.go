package fileversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFormatted(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"3.24.4 PTU 98767232.json", true},
		{"ui/3.24.4 LIVE 98767232.json", true},
		{"3.24.4 PTU 98767232.csv", false},
		{"3.24.4-PTU 98767232.json", false},
		{"3.24.4 PTU.json", false},
		{"items.json", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFormatted(tt.name))
		})
	}
}

func TestParse(t *testing.T) {
	v, err := Parse("sources/3.24.4 PTU 98767232.json")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 3, Minor: 24, Patch: 4, Profile: "PTU", Build: 98767232, Name: "3.24.4 PTU 98767232"}, v)
	assert.Equal(t, "3.24.4 PTU 98767232", v.String())

	v, err = Parse("4.0.1 LIVE 123abc.json")
	require.NoError(t, err)
	assert.Equal(t, int64(123), v.Build)

	for _, bad := range []string{"3.24 PTU 1.json", "a.b.c PTU 1.json", "3.24.4 PTU x.json", "plain.json"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestCompare(t *testing.T) {
	parse := func(name string) Version {
		v, err := Parse(name + ".json")
		require.NoError(t, err)
		return v
	}

	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"major", "3.24.4 PTU 98767232", "4.24.4 PTU 98767233", -1},
		{"minor", "3.24.4 PTU 98767232", "3.25.4 PTU 98767233", -1},
		{"patch", "3.24.5 PTU 98767232", "3.24.4 PTU 98767233", 1},
		{"profile ignored, build decides", "3.24.4 PTU 98767232", "3.24.4 LIVE 98767233", -1},
		{"build", "3.24.4 PTU 98767233", "3.24.4 PTU 98767232", 1},
		{"equal", "3.24.4 PTU 98767232", "3.24.4 PTU 98767232", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(parse(tt.a), parse(tt.b)))
			assert.Equal(t, -tt.want, Compare(parse(tt.b), parse(tt.a)))
		})
	}
}

func TestLatest(t *testing.T) {
	v, ok := Latest([]string{
		"rules/half.json",
		"3.24.4 PTU 98767232.json",
		"ui/4.0.0 LIVE 100.json",
		"3.99.9 PTU 99999999.json",
	})
	require.True(t, ok)
	assert.Equal(t, "4.0.0 LIVE 100", v.Name)
	assert.Equal(t, "4.0.0 LIVE (build 100)", Describe(v, ok))

	_, ok = Latest([]string{"a.json"})
	assert.False(t, ok)
	assert.Equal(t, "unknown", Describe(Version{}, false))
}
