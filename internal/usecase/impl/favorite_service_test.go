package impl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe/internal/domain/entity"
	domainerrors "cafe/internal/domain/errors"
	"cafe/internal/usecase"
)

func newTestFavoriteService(store *fakeStore) usecase.FavoriteUsecase {
	return NewFavoriteService(&fakeTxManager{store: store}, discardLogger())
}

func TestFavoriteService_AddListRemove(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "jo@example.com", entity.Roles{entity.RoleUser})
	product := seedProduct(store, "Espresso", 2.50, true)
	svc := newTestFavoriteService(store)
	ctx := context.Background()

	require.NoError(t, svc.AddFavorite(ctx, user.ID, product.ID))
	// Adding twice stays a single entry.
	require.NoError(t, svc.AddFavorite(ctx, user.ID, product.ID))

	favorites, err := svc.ListFavorites(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, product.ID, favorites[0].ID)

	require.NoError(t, svc.RemoveFavorite(ctx, user.ID, product.ID))
	// Removing an absent favorite is a no-op.
	require.NoError(t, svc.RemoveFavorite(ctx, user.ID, product.ID))

	favorites, err = svc.ListFavorites(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestFavoriteService_AddFavorite_UnknownProduct(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "jo@example.com", entity.Roles{entity.RoleUser})
	svc := newTestFavoriteService(store)

	err := svc.AddFavorite(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestFavoriteService_ListFavorites_SkipsVanishedProducts(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "jo@example.com", entity.Roles{entity.RoleUser})
	user.Favorites = []uuid.UUID{uuid.New()}
	svc := newTestFavoriteService(store)

	favorites, err := svc.ListFavorites(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}
