package stache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteLoader(t *testing.T) *SQLLoader {
	t.Helper()
	loader, err := NewSQLiteLoader(filepath.Join(t.TempDir(), "partials.db"), DefaultSQLConfig())
	require.NoError(t, err)
	return loader
}

func TestSQLiteLoader(t *testing.T) {
	testPartialStore(t, newTestSQLiteLoader(t))
}

func TestSQLiteLoader_InMemory(t *testing.T) {
	loader, err := NewSQLiteLoader(":memory:", DefaultSQLConfig())
	require.NoError(t, err)
	defer loader.Close()

	ctx := context.Background()
	require.NoError(t, loader.Save(ctx, "p", "x"))
	source, err := loader.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "x", source)
}

func TestSQLiteLoader_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partials.db")
	ctx := context.Background()

	first, err := NewSQLiteLoader(path, DefaultSQLConfig())
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "p", "kept"))
	require.NoError(t, first.Close())

	second, err := NewSQLiteLoader(path, DefaultSQLConfig())
	require.NoError(t, err)
	defer second.Close()

	source, err := second.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "kept", source)
}

func TestSQLiteLoader_Config(t *testing.T) {
	t.Run("table prefix", func(t *testing.T) {
		config := DefaultSQLConfig()
		config.TablePrefix = "app_"
		loader, err := NewSQLiteLoader(filepath.Join(t.TempDir(), "p.db"), config)
		require.NoError(t, err)
		defer loader.Close()

		assert.Equal(t, "app_partials", loader.Table())

		var count int
		err = loader.DB().QueryRow(`SELECT COUNT(*) FROM app_partials`).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("invalid table prefix", func(t *testing.T) {
		config := DefaultSQLConfig()
		config.TablePrefix = "x; DROP TABLE y"
		_, err := NewSQLiteLoader(filepath.Join(t.TempDir(), "p.db"), config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgInvalidTablePrefix)
	})

	t.Run("empty data source", func(t *testing.T) {
		_, err := NewSQLiteLoader("", DefaultSQLConfig())
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgEmptyConnString)
	})

	t.Run("zero config migrates", func(t *testing.T) {
		loader, err := NewSQLiteLoader(filepath.Join(t.TempDir(), "p.db"), SQLConfig{})
		require.NoError(t, err)
		defer loader.Close()

		ctx := context.Background()
		_, err = loader.Load(ctx, "p")
		assert.True(t, IsPartialNotFound(err))
		require.NoError(t, loader.Save(ctx, "p", "x"))
	})

	t.Run("skip migrate", func(t *testing.T) {
		config := DefaultSQLConfig()
		config.SkipMigrate = true
		loader, err := NewSQLiteLoader(filepath.Join(t.TempDir(), "p.db"), config)
		require.NoError(t, err)
		defer loader.Close()

		ctx := context.Background()
		_, err = loader.Load(ctx, "p")
		require.Error(t, err)
		assert.False(t, IsPartialNotFound(err))

		require.NoError(t, loader.Migrate(ctx))
		_, err = loader.Load(ctx, "p")
		assert.True(t, IsPartialNotFound(err))
	})
}

func TestSQLiteLoader_Driver(t *testing.T) {
	store, err := OpenLoader(LoaderDriverSQLite, filepath.Join(t.TempDir(), "p.db"))
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &SQLLoader{}, store)
}

func TestPostgresLoader_EmptyConnString(t *testing.T) {
	_, err := NewPostgresLoader("", DefaultSQLConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgEmptyConnString)
}
