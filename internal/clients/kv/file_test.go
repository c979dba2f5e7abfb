package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testConfig struct {
	path string
}

func (c testConfig) FilePath() string { return c.path }

func Test_OnGet_ShouldReturnErrNoKeyForUnknownKey(t *testing.T) {
	store, err := NewFileStore(testConfig{filepath.Join(t.TempDir(), "data.json")})
	assert.NoError(t, err)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrNoKey)
}

func Test_OnSet_ShouldPersistAcrossReopen(t *testing.T) {
	cfg := testConfig{filepath.Join(t.TempDir(), "data.json")}

	store, err := NewFileStore(cfg)
	assert.NoError(t, err)
	assert.NoError(t, store.Set("greeting", []byte(`"hello"`)))
	assert.NoError(t, store.Set("answer", []byte(`42`)))

	reopened, err := NewFileStore(cfg)
	assert.NoError(t, err)

	value, err := reopened.Get("greeting")
	assert.NoError(t, err)
	assert.Equal(t, `"hello"`, string(value))

	value, err = reopened.Get("answer")
	assert.NoError(t, err)
	assert.Equal(t, `42`, string(value))
}

func Test_OnSet_ShouldOverwriteValue(t *testing.T) {
	store, err := NewFileStore(testConfig{filepath.Join(t.TempDir(), "data.json")})
	assert.NoError(t, err)

	assert.NoError(t, store.Set("answer", []byte(`41`)))
	assert.NoError(t, store.Set("answer", []byte(`42`)))

	value, err := store.Get("answer")
	assert.NoError(t, err)
	assert.Equal(t, `42`, string(value))
}

func Test_OnNewFileStore_ShouldCreateMissingDataDir(t *testing.T) {
	cfg := testConfig{filepath.Join(t.TempDir(), "nested", "dir", "data.json")}

	store, err := NewFileStore(cfg)
	assert.NoError(t, err)
	assert.NoError(t, store.Set("key", []byte(`1`)))
}

func Test_OnNewFileStore_ShouldRejectCorruptDataFile(t *testing.T) {
	cfg := testConfig{filepath.Join(t.TempDir(), "data.json")}
	assert.NoError(t, os.WriteFile(cfg.path, []byte(`{broken`), 0o644))

	_, err := NewFileStore(cfg)
	assert.Error(t, err)
}
