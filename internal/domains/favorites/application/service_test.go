package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	favoritememory "github.com/Apurer/gamerlink-api/internal/domains/favorites/adapters/memory"
	"github.com/Apurer/gamerlink-api/internal/domains/favorites/application"
)

type fixture struct {
	svc     *application.Service
	catalog *catalogmemory.Repository
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{catalog: catalogmemory.NewRepository(), now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	for _, title := range []string{"Rank boost", "Coaching", "Duo queue"} {
		_, err := f.catalog.SaveService(context.Background(), &catalogdomain.Service{Title: title, Price: 10})
		require.NoError(t, err)
	}
	var clockMu sync.Mutex
	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		f.now = f.now.Add(time.Minute)
		return f.now
	}
	f.svc = application.NewService(favoritememory.NewRepository(), f.catalog, application.WithClock(clock))
	return f
}

func TestToggleFavorite_IsAnInvolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	added, err := f.svc.ToggleFavorite(ctx, 7, 1)
	require.NoError(t, err)
	assert.True(t, added)

	present, err := f.svc.IsFavorite(ctx, 7, 1)
	require.NoError(t, err)
	assert.True(t, present)

	added, err = f.svc.ToggleFavorite(ctx, 7, 1)
	require.NoError(t, err)
	assert.False(t, added)

	present, err = f.svc.IsFavorite(ctx, 7, 1)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestToggleFavorite_RejectsNonPositiveIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ToggleFavorite(ctx, 0, 1)
	require.ErrorIs(t, err, application.ErrInvalidInput)

	_, err = f.svc.IsFavorite(ctx, 7, -1)
	require.ErrorIs(t, err, application.ErrInvalidInput)

	_, err = f.svc.GetFavoriteServiceIDs(ctx, 0)
	require.ErrorIs(t, err, application.ErrInvalidInput)
}

func TestGetFavoriteServiceIDs_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []int64{2, 1, 3} {
		_, err := f.svc.ToggleFavorite(ctx, 7, id)
		require.NoError(t, err)
	}
	_, err := f.svc.ToggleFavorite(ctx, 8, 1)
	require.NoError(t, err)

	ids, err := f.svc.GetFavoriteServiceIDs(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)

	services, err := f.svc.GetFavoriteServices(ctx, 7)
	require.NoError(t, err)
	require.Len(t, services, 3)
	assert.Equal(t, "Duo queue", services[0].Title)
	assert.Equal(t, "Rank boost", services[1].Title)
}

func TestGetFavoriteServices_Empty(t *testing.T) {
	f := newFixture(t)

	services, err := f.svc.GetFavoriteServices(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, services)
	assert.Empty(t, services)
}

func TestToggleFavorite_ConcurrentTogglesStayConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const togglers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	added := 0
	for i := 0; i < togglers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := f.svc.ToggleFavorite(ctx, 7, 2)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, togglers/2, added)
	present, err := f.svc.IsFavorite(ctx, 7, 2)
	require.NoError(t, err)
	assert.False(t, present)
}
