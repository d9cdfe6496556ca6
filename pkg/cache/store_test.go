package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache", "sources.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func writeSource(t *testing.T, fs afero.Fs, name, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, filepath.Join("src", filepath.FromSlash(name)), []byte(body), 0644))
}

func TestImportDirAndSources(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	fs := afero.NewMemMapFs()

	writeSource(t, fs, "items.json", `[
		{"id": 2, "key": "b", "original": "Bee", "translation": "蜜蜂", "stage": 1},
		{"id": 1, "key": "a", "original": "Ant", "translation": "蚂蚁", "stage": 1, "context": "bug"}
	]`)
	writeSource(t, fs, "rules/half.json", `[{"id": 3, "key": "c", "original": "Cat", "translation": "猫"}]`)
	writeSource(t, fs, "empty.json", ``)

	report, err := store.ImportDir(ctx, fs, "src")
	require.NoError(t, err)
	assert.Equal(t, []string{"empty.json", "items.json", "rules/half.json"}, report.Imported)
	assert.Empty(t, report.Unchanged)
	assert.Equal(t, 3, report.Records)

	got, err := store.Sources(ctx)
	require.NoError(t, err)

	want := []reconcile.Source{
		{Name: "empty.json"},
		{Name: "items.json", Records: []reconcile.Record{
			{ID: 2, Key: "b", Original: "Bee", Translation: "蜜蜂", Stage: 1},
			{ID: 1, Key: "a", Original: "Ant", Translation: "蚂蚁", Stage: 1, Context: "bug"},
		}},
		{Name: "rules/half.json", Folder: "rules", Records: []reconcile.Record{
			{ID: 3, Key: "c", Original: "Cat", Translation: "猫"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sources() mismatch (-want +got):\n%s", diff)
	}
}

func TestImportDirSkipsUnchangedFiles(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	fs := afero.NewMemMapFs()

	writeSource(t, fs, "a.json", `[{"id": 1, "key": "a", "original": "A", "translation": "甲"}]`)
	writeSource(t, fs, "b.json", `[{"id": 1, "key": "b", "original": "B", "translation": "乙"}]`)
	_, err := store.ImportDir(ctx, fs, "src")
	require.NoError(t, err)

	writeSource(t, fs, "b.json", `[{"id": 2, "key": "b", "original": "B", "translation": "乙二"}]`)
	report, err := store.ImportDir(ctx, fs, "src")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.json"}, report.Imported)
	assert.Equal(t, []string{"a.json"}, report.Unchanged)

	got, err := store.Sources(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Len(t, got[1].Records, 1)
	assert.Equal(t, "乙二", got[1].Records[0].Translation)
}

func TestImportDirRemovesVanishedFiles(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	fs := afero.NewMemMapFs()

	writeSource(t, fs, "a.json", `[{"id": 1, "key": "a", "original": "A", "translation": "甲"}]`)
	writeSource(t, fs, "b.json", `[{"id": 1, "key": "b", "original": "B", "translation": "乙"}]`)
	_, err := store.ImportDir(ctx, fs, "src")
	require.NoError(t, err)

	require.NoError(t, fs.Remove("src/b.json"))
	report, err := store.ImportDir(ctx, fs, "src")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.json"}, report.Removed)

	st, err := store.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Files)
	assert.Equal(t, 1, st.Records)
	assert.False(t, st.LastImport.IsZero())
}

func TestImportDirMalformedSource(t *testing.T) {
	store := openTestStore(t)
	fs := afero.NewMemMapFs()
	writeSource(t, fs, "bad.json", `{not json`)

	_, err := store.ImportDir(context.Background(), fs, "src")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceMalformed))
}

func TestStatusEmpty(t *testing.T) {
	store := openTestStore(t)
	st, err := store.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, st.Files)
	assert.Equal(t, 0, st.Records)
	assert.True(t, st.LastImport.IsZero())
	assert.Equal(t, store.Path(), st.Path)
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sources.db")
	fs := afero.NewMemMapFs()
	writeSource(t, fs, "a.json", `[{"id": 1, "key": "a", "original": "A", "translation": "甲"}]`)

	store, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = store.ImportDir(ctx, fs, "src")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	report, err := reopened.ImportDir(ctx, fs, "src")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json"}, report.Unchanged)
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sources.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = store.db.ExecContext(ctx, "UPDATE schema_version SET version = 99")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = Open(ctx, path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCache))
}

func TestCloseNil(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}
