package hashutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	// sha256 of the empty input
	assert.Equal(t, "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Checksum(nil))
	assert.NotEqual(t, Checksum([]byte("a")), Checksum([]byte("b")))
}

func TestCalculateFileChecksum(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/a.json", []byte(`[]`), 0644))

	sum, err := CalculateFileChecksum(fs, "src/a.json")
	require.NoError(t, err)
	assert.Equal(t, Checksum([]byte(`[]`)), sum)

	_, err = CalculateFileChecksum(fs, "src/missing.json")
	assert.Error(t, err)
}
