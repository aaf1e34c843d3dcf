package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/catalog/ports"
)

func seededService(t *testing.T) (*Service, *catalogmemory.Repository) {
	t.Helper()
	repo := catalogmemory.NewRepository()
	for _, svc := range []*domain.Service{
		{ID: 1, Title: "Rank boost", Price: 20, Category: "Boosting", Tags: []string{"fast"}},
		{ID: 2, Title: "Aim coaching", Price: 35, Category: "Coaching"},
		{ID: 3, Title: "Placement games", Price: 15, Category: "boosting"},
	} {
		_, err := repo.SaveService(context.Background(), svc)
		require.NoError(t, err)
	}
	return NewService(repo), repo
}

func TestListServicesByCategory_CaseInsensitive(t *testing.T) {
	svc, _ := seededService(t)

	list, err := svc.ListServicesByCategory(context.Background(), "BOOSTING")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int64(1), list[0].ID)
	require.Equal(t, int64(3), list[1].ID)
}

func TestListServicesByCategory_EmptyName(t *testing.T) {
	svc, _ := seededService(t)

	_, err := svc.ListServicesByCategory(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListServicesByIDs_PreservesOrderAndSkipsUnknown(t *testing.T) {
	svc, _ := seededService(t)

	list, err := svc.ListServicesByIDs(context.Background(), []int64{3, 99, 1})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int64(3), list[0].ID)
	require.Equal(t, int64(1), list[1].ID)

	empty, err := svc.ListServicesByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestUpdateService_OverwritesRatingAndNormalizesLists(t *testing.T) {
	svc, _ := seededService(t)

	updated, err := svc.UpdateService(context.Background(), &domain.Service{
		ID:            1,
		Title:         "Rank boost deluxe",
		Price:         25,
		Category:      "Boosting",
		AverageRating: 4.2,
		ReviewCount:   9,
		Tags:          []string{" fast ", "", "safe"},
	})
	require.NoError(t, err)
	require.Equal(t, "Rank boost deluxe", updated.Title)
	require.Equal(t, 4.2, updated.AverageRating)
	require.Equal(t, []string{"fast", "safe"}, updated.Tags)
}

func TestUpdateService_Validation(t *testing.T) {
	svc, _ := seededService(t)

	_, err := svc.UpdateService(context.Background(), &domain.Service{ID: 1, Title: "x", AverageRating: 6})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateService(context.Background(), &domain.Service{ID: 1, Price: 10})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateService(context.Background(), &domain.Service{ID: 42, Title: "ghost"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSetRating_IgnoresUnknownService(t *testing.T) {
	svc, repo := seededService(t)
	ctx := context.Background()

	require.NoError(t, repo.SetRating(ctx, 404, 5, 1))
	require.NoError(t, repo.SetRating(ctx, 2, 3.5, 2))

	got, err := svc.GetService(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 3.5, got.AverageRating)
	require.Equal(t, 2, got.ReviewCount)
}
