package mdmanifest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/repo/rpguide/rpguidetest"
	"courier/marcas/internal/app/pkg/errorx"
	"courier/marcas/internal/app/pkg/logger"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non numeric number without store call", func(t *testing.T) {
		store := rpguidetest.New()
		m := NewManifestModule(store, logger.NewNopLogger())

		for _, number := range []string{"12A45", "", " 123", "12-3", "١٢٣"} {
			_, err := m.Resolve(ctx, number)
			assert.Equal(t, errorx.CodeInvalidManifestFormat, errorx.CodeOf(err), number)
		}
		assert.Zero(t, store.ResolveCalls())
	})

	t.Run("not found", func(t *testing.T) {
		store := rpguidetest.New()
		m := NewManifestModule(store, logger.NewNopLogger())

		_, err := m.Resolve(ctx, "12345")
		bizErr, ok := errorx.As(err)
		require.True(t, ok)
		assert.Equal(t, errorx.CodeManifestNotFound, bizErr.Code)
		assert.Equal(t, "12345", bizErr.Details["manifiesto"])
	})

	t.Run("single match is idempotent", func(t *testing.T) {
		store := rpguidetest.New()
		store.Manifests["12345"] = []etguide.ManifestID{5157422}
		m := NewManifestModule(store, logger.NewNopLogger())

		first, err := m.Resolve(ctx, "12345")
		require.NoError(t, err)
		second, err := m.Resolve(ctx, "12345")
		require.NoError(t, err)

		assert.Equal(t, etguide.ManifestID(5157422), first)
		assert.Equal(t, first, second)
		assert.Equal(t, 2, store.ResolveCalls())
	})

	t.Run("collision picks lowest id", func(t *testing.T) {
		store := rpguidetest.New()
		store.Manifests["777"] = []etguide.ManifestID{90, 12, 45}
		m := NewManifestModule(store, logger.NewNopLogger())

		id, err := m.Resolve(ctx, "777")
		require.NoError(t, err)
		assert.Equal(t, etguide.ManifestID(12), id)
	})

	t.Run("store failure is terminal", func(t *testing.T) {
		store := rpguidetest.New()
		store.ResolveErr = errorx.DatabaseConnection(errors.New("dial tcp: connection refused"))
		m := NewManifestModule(store, logger.NewNopLogger())

		_, err := m.Resolve(ctx, "123")
		assert.Equal(t, errorx.CodeDatabaseConnection, errorx.CodeOf(err))
	})
}
