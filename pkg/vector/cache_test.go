package vector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return NewCache(Config{BaseDir: t.TempDir()}, nil)
}

func TestCacheLookupMiss(t *testing.T) {
	cache := newTestCache(t)
	params, err := NewParameterSet(DomainTime, 0.2, 3)
	require.NoError(t, err)

	meta, found, err := cache.Lookup(params)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, meta)
}

func TestCacheCommitThenLookup(t *testing.T) {
	cache := newTestCache(t)
	params, err := NewParameterSet(DomainFreq, 0.1, 0.785, 0.05)
	require.NoError(t, err)

	dir := cache.EntryDir(params)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	want := &Metadata{
		Params:          params.Named(),
		InputFile:       "complex_sinusoid.1000.0.100-0.785-0.050.2.single.python.dump",
		ChannelizedFile: "channelize.8.8-7.dump",
		InvertedFile:    "synthesize.1024.dump",
	}
	require.NoError(t, cache.Commit(dir, want))

	meta, found, err := cache.Lookup(params)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want.InputFile, meta.InputFile)
	assert.Equal(t, want.ChannelizedFile, meta.ChannelizedFile)
	assert.Equal(t, want.InvertedFile, meta.InvertedFile)
	assert.InDelta(t, 0.1, meta.Params["frequency"], 1e-12)
	assert.InDelta(t, 0.785, meta.Params["phase"], 1e-12)
	assert.InDelta(t, 0.05, meta.Params["bin_offset"], 1e-12)
}

func TestCacheMissingRecordIsCorruption(t *testing.T) {
	cache := newTestCache(t)
	params, err := NewParameterSet(DomainTime, 0.2, 3)
	require.NoError(t, err)

	// A present directory without a metadata record violates the lifted
	// guarantee and must never be treated as a plain miss.
	require.NoError(t, os.MkdirAll(cache.EntryDir(params), 0o755))

	_, _, err = cache.Lookup(params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCacheCorruption))
}

func TestCacheUndecodableRecordIsCorruption(t *testing.T) {
	cache := newTestCache(t)
	params, err := NewParameterSet(DomainTime, 0.2, 3)
	require.NoError(t, err)

	dir := cache.EntryDir(params)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetaFileName), []byte("{not json"), 0o644))

	_, _, err = cache.Lookup(params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCacheCorruption))
}

func TestCacheEntriesAndClear(t *testing.T) {
	cache := newTestCache(t)

	commit := func(domain Domain, values ...float64) {
		params, err := NewParameterSet(domain, values...)
		require.NoError(t, err)
		dir := cache.EntryDir(params)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.dump"), []byte("data"), 0o644))
		require.NoError(t, cache.Commit(dir, &Metadata{Params: params.Named()}))
	}

	commit(DomainTime, 0.2, 3)
	commit(DomainFreq, 0.1, 0, 0)

	// An uncommitted directory is skipped, not listed and not repaired.
	require.NoError(t, os.MkdirAll(filepath.Join(cache.BaseDir(), "time", "o-0.900_w-1.000"), 0o755))

	entries, err := cache.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "freq", entries[0].Domain)
	assert.Equal(t, "time", entries[1].Domain)
	assert.Greater(t, entries[1].Size, int64(0))

	require.NoError(t, cache.Clear())
	entries, err = cache.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEntryDirLayout(t *testing.T) {
	cache := NewCache(Config{BaseDir: "/data/test_vectors"}, nil)
	params, err := NewParameterSet(DomainTime, 0.2, 3)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/data/test_vectors", "time", "o-0.200_w-3.000"), cache.EntryDir(params))
}
