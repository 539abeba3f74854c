package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/spinwheel/internal/wheel"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	fs, err := NewFileStore(filepath.Join(dir, "files"))
	require.NoError(t, err)
	sq, err := OpenSQLite(ctx, filepath.Join(dir, "wheel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
		"sqlite": sq,
	}
}

func TestStores_GetPut(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Put(ctx, "options/abc", []byte(`[1]`)))
			require.NoError(t, s.Put(ctx, "options/abc", []byte(`[2]`)))

			got, ok, err := s.Get(ctx, "options/abc")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []byte(`[2]`), got)
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(ctx, "redis", "")
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(ctx, DriverFile, "")
	assert.Error(t, err)
}

func TestOptionsRepo(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewOptionsRepo(store, OptionsKey, nil)

	assert.Equal(t, wheel.DefaultOptions(), repo.Load(ctx), "missing value falls back")

	set := wheel.OptionSet{{Label: "A", Weight: 3}, {Label: "B", Weight: 1}}
	require.NoError(t, repo.Save(ctx, set))
	assert.Equal(t, set, repo.Load(ctx))

	raw, ok, err := store.Get(ctx, OptionsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"label":"A","weight":3},{"label":"B","weight":1}]`, string(raw))

	require.NoError(t, repo.Save(ctx, wheel.OptionSet{}))
	assert.Empty(t, repo.Load(ctx), "an emptied wheel stays empty")
}

func TestOptionsRepoMalformed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	fallback := wheel.OptionSet{{Label: "Preset", Weight: 2}}
	repo := NewOptionsRepo(store, SessionKey("s1"), fallback)

	for _, bad := range []string{`{{{`, `null`, `[{"label":"x","weight":-1}]`} {
		require.NoError(t, store.Put(ctx, SessionKey("s1"), []byte(bad)))
		assert.Equal(t, fallback, repo.Load(ctx), "input %q", bad)
	}
}

func TestOptionsRepoIsPersister(t *testing.T) {
	ctx := context.Background()
	repo := NewOptionsRepo(NewMemoryStore(), OptionsKey, nil)
	c := wheel.NewController(repo.Load(ctx), wheel.Config{Persister: repo})

	_, err := c.Add(ctx, wheel.Option{})
	require.NoError(t, err)
	assert.Equal(t, c.Options(), repo.Load(ctx))
}
