//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogpostgres "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/catalog/ports"
	"github.com/Apurer/gamerlink-api/internal/platform/postgres/pgtest"
)

func sampleService(id int64, category string) *domain.Service {
	return &domain.Service{
		ID:           id,
		Title:        "Rank boost",
		Description:  "Climb two divisions",
		Price:        19.99,
		GameName:     "Valorant",
		ServiceType:  "boosting",
		SellerID:     7,
		ThumbnailURL: "http://example.com/thumb.png",
		ImageURLs:    []string{"http://example.com/1.png", "http://example.com/2.png"},
		Category:     category,
		Tags:         []string{"fast", "safe"},
	}
}

func TestPostgresRepository_SaveAndGetService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := pgtest.Start(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	saved, err := repo.SaveService(ctx, sampleService(1, "Boosting"))
	require.NoError(t, err)
	assert.True(t, saved.Equal(sampleService(1, "Boosting")))

	got, err := repo.GetService(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"fast", "safe"}, got.Tags)
	assert.Equal(t, []string{"http://example.com/1.png", "http://example.com/2.png"}, got.ImageURLs)

	_, err = repo.GetService(ctx, 99)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresRepository_SetRatingTouchesOnlyRatingColumns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := pgtest.Start(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	_, err := repo.SaveService(ctx, sampleService(1, "Boosting"))
	require.NoError(t, err)

	require.NoError(t, repo.SetRating(ctx, 1, 4.5, 2))
	require.NoError(t, repo.SetRating(ctx, 404, 3, 1))

	got, err := repo.GetService(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.AverageRating)
	assert.Equal(t, 2, got.ReviewCount)
	assert.Equal(t, "Rank boost", got.Title)
}

func TestPostgresRepository_ListServicesByCategoryAndIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := pgtest.Start(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	for id, category := range map[int64]string{1: "Boosting", 2: "Coaching", 3: "boosting"} {
		_, err := repo.SaveService(ctx, sampleService(id, category))
		require.NoError(t, err)
	}

	boosting, err := repo.ListServicesByCategory(ctx, "BOOSTING")
	require.NoError(t, err)
	require.Len(t, boosting, 2)

	byIDs, err := repo.ListServicesByIDs(ctx, []int64{3, 42, 1})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, int64(3), byIDs[0].ID)
	assert.Equal(t, int64(1), byIDs[1].ID)
}

func TestPostgresRepository_CategoriesAndBanners(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := pgtest.Start(t)
	defer cleanup()

	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	_, err := repo.SaveCategory(ctx, &domain.Category{ID: 1, Name: "Boosting"})
	require.NoError(t, err)
	_, err = repo.SaveCategory(ctx, &domain.Category{ID: 1, Name: "Boosting", IconURL: "icon.png"})
	require.NoError(t, err)
	_, err = repo.SaveBanner(ctx, &domain.Banner{ID: 1, ImageURL: "banner.png", TargetURL: "/services/1"})
	require.NoError(t, err)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "icon.png", categories[0].IconURL)

	banners, err := repo.ListBanners(ctx)
	require.NoError(t, err)
	require.Len(t, banners, 1)
	assert.Equal(t, "/services/1", banners[0].TargetURL)
}
