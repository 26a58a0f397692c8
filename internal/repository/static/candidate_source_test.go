package static

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDataset(t *testing.T) {
	src := NewCandidateSource("")

	ds, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, ds.Candidates)
	assert.NotEmpty(t, ds.Version)

	seen := map[string]bool{}
	for _, c := range ds.Candidates {
		assert.NotEmpty(t, c.ID)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		assert.NotNil(t, c.Skills)
	}

	again, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, ds, again)
}

func TestFileDataset_SanitizesAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	writeFile(t, path, `[
		{"id":"a","name":"Alice","experience":"7 ans"},
		{"id":"a","name":"Alice bis"},
		{"id":"","name":"Sans id"},
		{"id":"b","name":"Bob","skills":null}
	]`)

	src := NewCandidateSource(path)
	ds, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Candidates, 2)
	assert.Equal(t, "Alice", ds.Candidates[0].Name)
	assert.Equal(t, []string{}, ds.Candidates[1].Skills)

	writeFile(t, path, `[{"id":"c","name":"Chloé"}]`)
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	next, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, next.Candidates, 1)
	assert.NotEqual(t, ds.Version, next.Version)
}

func TestFileDataset_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	writeFile(t, path, `{not json`)

	_, err := NewCandidateSource(path).Snapshot(context.Background())
	assert.Error(t, err)
}

func TestFileDataset_BadEditKeepsPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	writeFile(t, path, `[{"id":"a","name":"Alice"}]`)

	src := NewCandidateSource(path)
	good, err := src.Snapshot(context.Background())
	require.NoError(t, err)

	touch := func(offset time.Duration) {
		at := time.Now().Add(offset)
		require.NoError(t, os.Chtimes(path, at, at))
	}

	writeFile(t, path, `[{"id":"b","name":`)
	touch(time.Minute)

	ds, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, good, ds)

	again, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, good, again)

	writeFile(t, path, `[{"id":"b","name":"Bob"},{"id":"c","name":"Chloé"}]`)
	touch(2 * time.Minute)

	fixed, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, fixed.Candidates, 2)
	assert.NotEqual(t, good.Version, fixed.Version)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
