package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structlearn/structlearn/pkg/errors"
	"github.com/structlearn/structlearn/pkg/storage"
)

func backends(t *testing.T) map[string]storage.Storage {
	t.Helper()

	badgerStore, err := storage.NewBadgerStorage(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { badgerStore.Close() })

	memStore := storage.NewInMemoryStorage()
	t.Cleanup(func() { memStore.Close() })

	return map[string]storage.Storage{
		"memory": memStore,
		"badger": badgerStore,
	}
}

func TestPutGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Put(t.Context(), "runs/a/checkpoints/00000001", []byte("payload"))
			require.NoError(t, err)

			got, err := s.Get(t.Context(), "runs/a/checkpoints/00000001")
			require.NoError(t, err)
			assert.Equal(t, []byte("payload"), got)

			err = s.Put(t.Context(), "runs/a/checkpoints/00000001", []byte("replaced"))
			require.NoError(t, err)
			got, err = s.Get(t.Context(), "runs/a/checkpoints/00000001")
			require.NoError(t, err)
			assert.Equal(t, []byte("replaced"), got)
		})
	}
}

func TestGetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(t.Context(), "absent")
			assert.ErrorIs(t, err, errors.ErrNotFound)
		})
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Put(t.Context(), "", []byte("x")), errors.ErrEmptyKey)
			_, err := s.Get(t.Context(), "")
			assert.ErrorIs(t, err, errors.ErrEmptyKey)
			assert.ErrorIs(t, s.Delete(t.Context(), ""), errors.ErrEmptyKey)
		})
	}
}

func TestKeysPrefix(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{
				"runs/a/checkpoints/00000002",
				"runs/a/checkpoints/00000001",
				"runs/b/checkpoints/00000001",
			} {
				require.NoError(t, s.Put(t.Context(), k, []byte("v")))
			}

			keys, err := s.Keys(t.Context(), "runs/a/")
			require.NoError(t, err)
			assert.Equal(t, []string{
				"runs/a/checkpoints/00000001",
				"runs/a/checkpoints/00000002",
			}, keys)

			all, err := s.Keys(t.Context(), "")
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(t.Context(), "k", []byte("v")))
			require.NoError(t, s.Delete(t.Context(), "k"))

			_, err := s.Get(t.Context(), "k")
			assert.ErrorIs(t, err, errors.ErrNotFound)
		})
	}
}
