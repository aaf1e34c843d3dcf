//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/gamerlink-api/test/pact"

	marketplaceserver "github.com/Apurer/gamerlink-api/go"
	"github.com/Apurer/gamerlink-api/internal/app/api"
	reviewworkflows "github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/workflows"
	"github.com/Apurer/gamerlink-api/internal/platform/identity"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestMarketplaceProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		if setup {
			app.reset(t)
		}
		return nil, nil
	}
	verifier := pactprovider.NewVerifier()
	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers: models.StateHandlers{
			pacttest.StateMarketplaceSeeded: reset,
			pacttest.StateOrderAwaitsReview: reset,
			pacttest.StateOrderMissing:      reset,
		},
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves a freshly seeded in-memory marketplace after every reset.
type contractProviderApp struct {
	mu      sync.RWMutex
	handler http.Handler
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		handler := app.handler
		app.mu.RUnlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	services, cleanup := api.BuildServices(context.Background(), api.Config{}, nil)
	t.Cleanup(cleanup)
	require.NoError(t, services.Guard.Ensure(context.Background()))

	handlers := marketplaceserver.ApiHandleFunctions{
		OrderAPI:    marketplaceserver.NewOrderAPI(services.Orders, services.Catalog),
		ReviewAPI:   marketplaceserver.NewReviewAPI(services.Reviews, reviewworkflows.NewInlineReviewWorkflows(services.Reviews)),
		FavoriteAPI: marketplaceserver.NewFavoriteAPI(services.Favorites),
		CatalogAPI:  marketplaceserver.NewCatalogAPI(services.Catalog),
		UserAPI:     marketplaceserver.NewUserAPI(services.Users),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = marketplaceserver.NewRouterWithGinEngine(router, handlers, marketplaceserver.RouterOptions{
		Identity:    identity.HeaderProvider{},
		Initializer: services.Guard,
	})

	a.mu.Lock()
	a.handler = router
	a.mu.Unlock()
}
