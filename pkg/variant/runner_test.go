package variant

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicVariant struct{}

func (panicVariant) Name() string { return "broken" }
func (panicVariant) Render(context.Context, reconcile.Record) string {
	panic("boom")
}
func (panicVariant) Close() {}

type upperVariant struct{ fullVariant }

func (upperVariant) Name() string { return "upper" }
func (upperVariant) Render(_ context.Context, rec reconcile.Record) string {
	return rec.Original
}

func testResult() *reconcile.Result {
	return &reconcile.Result{Records: []reconcile.Record{
		{ID: 1, Key: "a", Original: "A", Translation: "甲"},
		{ID: 2, Key: "b", Original: "B\n", Translation: "乙\r\n"},
		{ID: 3, Key: "c", Original: "C", Translation: ""},
	}}
}

func TestRender(t *testing.T) {
	data, err := Render(context.Background(), NewFull(), testResult().Records)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffa=甲\nb=乙\r\nc=\n", string(data))
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Render(ctx, NewFull(), testResult().Records)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	path, err := Write(context.Background(), fs, "out", NewFull(), testResult().Records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "full", "global.ini"), path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffa=甲\nb=乙\r\nc=\n", string(data))
}

func TestRunnerIndependentFailures(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := NewRunner(fs, "out", WithConcurrency(2), WithLockFile(filepath.Join(t.TempDir(), ".locmerge.lock")))

	outcomes, err := r.Run(context.Background(), []Variant{NewFull(), panicVariant{}, upperVariant{}}, testResult())
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].OK())
	assert.Equal(t, "full", outcomes[0].Variant)
	assert.Equal(t, 3, outcomes[0].Records)

	assert.False(t, outcomes[1].OK())
	assert.Equal(t, "broken", outcomes[1].Variant)
	assert.True(t, errors.IsErrorCode(outcomes[1].Err, errors.ErrVariant))

	assert.True(t, outcomes[2].OK())
	data, err := afero.ReadFile(fs, outcomes[2].Path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffa=A\nb=B\nc=C\n", string(data))

	exists, err := afero.Exists(fs, filepath.Join("out", "broken", "global.ini"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunnerGivesEachVariantItsOwnRecords(t *testing.T) {
	result := testResult()
	mutating := &mutatingVariant{}
	_, err := NewRunner(afero.NewMemMapFs(), "out").Run(context.Background(), []Variant{mutating}, result)
	require.NoError(t, err)
	assert.Equal(t, "A", result.Records[0].Original)
	assert.Equal(t, "mutated", mutating.seen[0].Original)
}

type mutatingVariant struct {
	fullVariant
	seen []reconcile.Record
}

func (m *mutatingVariant) Prepare(_ context.Context, records []reconcile.Record) {
	records[0].Original = "mutated"
	m.seen = records
}

func TestRunnerLocked(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "out", ".locmerge.lock")
	r := NewRunner(afero.NewMemMapFs(), "out", WithLockFile(lockPath))

	// creates the lock directory
	_, err := r.Run(context.Background(), nil, testResult())
	require.NoError(t, err)

	held := flock.New(lockPath)
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer func() { _ = held.Unlock() }()

	_, err = r.Run(context.Background(), []Variant{NewFull()}, testResult())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLocked))
}
