package marketplaceserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/gamerlink-api/internal/domains/catalog/application"
	favoritememory "github.com/Apurer/gamerlink-api/internal/domains/favorites/adapters/memory"
	favoriteapp "github.com/Apurer/gamerlink-api/internal/domains/favorites/application"
	ordermemory "github.com/Apurer/gamerlink-api/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/gamerlink-api/internal/domains/orders/application"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/directory"
	reviewmemory "github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/memory"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/workflows"
	reviewapp "github.com/Apurer/gamerlink-api/internal/domains/reviews/application"
	usermemory "github.com/Apurer/gamerlink-api/internal/domains/users/adapters/memory"
	userapp "github.com/Apurer/gamerlink-api/internal/domains/users/application"
	"github.com/Apurer/gamerlink-api/internal/platform/bootstrap"
	"github.com/Apurer/gamerlink-api/internal/platform/identity"
	apierrors "github.com/Apurer/gamerlink-api/internal/shared/errors"
)

const (
	adminID  = "1"
	coachID  = "3"
	playerID = "4"
)

func plainHasher(p string) (string, error) { return "plain:" + p, nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogRepo := catalogmemory.NewRepository()
	userRepo := usermemory.NewRepository()
	orderRepo := ordermemory.NewRepository()
	reviewStore := reviewmemory.NewStore(orderRepo, catalogRepo)
	favoriteRepo := favoritememory.NewRepository()

	catalog := catalogapp.NewService(catalogRepo)
	users := userapp.NewService(userRepo)
	orders := orderapp.NewService(orderRepo)
	reviews := reviewapp.NewService(reviewStore, directory.NewUsers(users))
	favorites := favoriteapp.NewService(favoriteRepo, catalog)

	guard := bootstrap.NewGuard(nil, bootstrap.NewRepositorySeeder(bootstrap.MemoryRepositories{
		Catalog:   catalogRepo,
		Users:     userRepo,
		Orders:    orderRepo,
		Reviews:   reviewStore,
		Favorites: favoriteRepo,
	}), bootstrap.WithDatasetLoader(func() (*bootstrap.Dataset, error) {
		return bootstrap.LoadEmbedded(plainHasher)
	}))

	return NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		OrderAPI:    NewOrderAPI(orders, catalog),
		ReviewAPI:   NewReviewAPI(reviews, workflows.NewInlineReviewWorkflows(reviews)),
		FavoriteAPI: NewFavoriteAPI(favorites),
		CatalogAPI:  NewCatalogAPI(catalog),
		UserAPI:     NewUserAPI(users),
	}, RouterOptions{Identity: identity.HeaderProvider{}, Initializer: guard})
}

type call struct {
	method string
	path   string
	body   string
	user   string
	admin  bool
}

func do(t *testing.T, router http.Handler, c call) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if c.body != "" {
		req = httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(c.method, c.path, nil)
	}
	if c.user != "" {
		req.Header.Set(identity.HeaderUserID, c.user)
	}
	if c.admin {
		req.Header.Set(identity.HeaderAdmin, strconv.FormatBool(true))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, call{method: http.MethodGet, path: "/healthz"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/services", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
}

func TestAccessControl(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, call{method: http.MethodGet, path: "/v1/users/me/orders"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/admin/orders", user: playerID})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/admin/orders", user: adminID, admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]map[string]any](t, rec), 5)

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/users/me", user: "abc"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPathIDsMustBePositive(t *testing.T) {
	router := newTestRouter(t)
	for _, raw := range []string{"abc", "0", "-3"} {
		rec := do(t, router, call{method: http.MethodGet, path: "/v1/services/" + raw})
		require.Equal(t, http.StatusBadRequest, rec.Code, raw)
		problem := decode[apierrors.ProblemDetail](t, rec)
		require.Equal(t, apierrors.TypeValidation, problem.Type)
	}
}

func TestCreateOrderUsesCatalogPrice(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, call{method: http.MethodPost, path: "/v1/orders", user: coachID, body: `{"serviceId":2}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, rec)
	require.Equal(t, "PendingPayment", order["status"])
	require.Equal(t, 15.0, order["totalPrice"])
	require.Equal(t, 3.0, order["buyerId"])
	require.Equal(t, true, order["canPay"])

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders", user: coachID, body: `{"serviceId":99}`})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders", user: coachID, body: `{}`})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Contains(t, problem.Extensions["fields"], "serviceId")
}

func TestOrderOwnership(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, call{method: http.MethodGet, path: "/v1/orders/4", user: playerID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/orders/4", user: coachID})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/orders/4", user: adminID, admin: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders/5/pay", user: coachID})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, call{method: http.MethodPost, path: "/v1/orders/5/pay", user: playerID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, rec)
	require.Equal(t, "Ongoing", order["status"])
	require.NotEmpty(t, order["paymentDate"])

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders/5/pay", user: playerID})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders/5/transitions", user: playerID, body: `{"status":"Bogus"}`})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders/1/transitions", user: playerID, body: `{"status":"Cancelled"}`})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders/5/transitions", user: playerID, body: `{"status":"pendingreview"}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "PendingReview", decode[map[string]any](t, rec)["status"])

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/users/me/orders", user: playerID})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]map[string]any](t, rec), 4)
}

func TestAdminStatusOverride(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, call{
		method: http.MethodPatch, path: "/v1/admin/orders/1/status", user: adminID, admin: true,
		body: `{"status":"RefundRequested","refundRequestDate":"2024-06-01T00:00:00Z"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, rec)
	require.Equal(t, "RefundRequested", order["status"])
	require.Equal(t, "2024-06-01T00:00:00Z", order["refundRequestDate"])
}

func TestSubmitReview(t *testing.T) {
	router := newTestRouter(t)
	body := `{"rating":3,"comment":"  Decent job overall  "}`

	rec := do(t, router, call{method: http.MethodPost, path: "/v1/orders/4/review", user: coachID, body: body})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders/4/review", user: playerID, body: `{"rating":0,"comment":"Decent job overall"}`})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders/4/review", user: playerID, body: body})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[map[string]any](t, rec)
	require.Equal(t, false, first["alreadyReviewed"])
	require.Equal(t, "Completed", first["order"].(map[string]any)["status"])
	require.Equal(t, "Decent job overall", first["review"].(map[string]any)["comment"])

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders/4/review", user: playerID, body: `{"rating":5,"comment":"Changed my mind"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	replay := decode[map[string]any](t, rec)
	require.Equal(t, true, replay["alreadyReviewed"])
	require.Equal(t, first["review"], replay["review"])

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/services/1"})
	require.Equal(t, http.StatusOK, rec.Code)
	service := decode[map[string]any](t, rec)
	require.Equal(t, 4.0, service["averageRating"])
	require.Equal(t, 3.0, service["reviewCount"])

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/orders/4/review"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/orders/5/review", user: playerID, body: body})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestServiceReviewsCarryAuthors(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, call{method: http.MethodGet, path: "/v1/services/1/reviews"})
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decode[[]map[string]any](t, rec)
	require.Len(t, reviews, 2)
	require.Equal(t, "coach", reviews[0]["nickname"])
	require.Equal(t, "NightOwl", reviews[1]["nickname"])
}

func TestRecomputeRating(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, call{method: http.MethodPost, path: "/v1/admin/services/1/rating/recompute", user: adminID, admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[map[string]any](t, rec)
	require.Equal(t, 4.5, summary["averageRating"])
	require.Equal(t, 2.0, summary["reviewCount"])

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/admin/services/3/rating/recompute", user: adminID, admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0.0, decode[map[string]any](t, rec)["averageRating"])
}

func TestFavorites(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, call{method: http.MethodGet, path: "/v1/users/me/favorites", user: playerID})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []any{3.0, 2.0}, decode[map[string]any](t, rec)["serviceIds"])

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/users/me/favorites/1/toggle", user: playerID})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decode[map[string]any](t, rec)["isFavorite"])

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/users/me/favorites?expand=services", user: playerID})
	require.Equal(t, http.StatusOK, rec.Code)
	services := decode[[]map[string]any](t, rec)
	require.Len(t, services, 3)
	require.Equal(t, 1.0, services[0]["id"])
	require.Equal(t, true, services[0]["isFavorite"])

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/users/me/favorites/1/toggle", user: playerID})
	require.Equal(t, false, decode[map[string]any](t, rec)["isFavorite"])

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/users/me/favorites/1", user: playerID})
	require.Equal(t, false, decode[map[string]any](t, rec)["isFavorite"])

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/users/me/favorites", user: coachID})
	require.Equal(t, []any{}, decode[map[string]any](t, rec)["serviceIds"])

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/users/me/favorites?expand=everything", user: playerID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsers(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, call{method: http.MethodGet, path: "/v1/users/me", user: coachID})
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	require.Equal(t, "coach@gamerlink.dev", me["email"])

	rec = do(t, router, call{method: http.MethodGet, path: "/v1/users/3"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, decode[map[string]any](t, rec), "email")

	rec = do(t, router, call{method: http.MethodPut, path: "/v1/users/me", user: coachID, body: `{"nickname":"Sensei"}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Sensei", decode[map[string]any](t, rec)["nickname"])

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/users", body: `{"username":"newbie","email":"newbie@gamerlink.dev"}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/users", body: `{"username":"newbie","email":"other@gamerlink.dev"}`})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, call{method: http.MethodPost, path: "/v1/users", body: `{"username":"x","email":"not-an-email"}`})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Contains(t, problem.Extensions["fields"], "email")
}

type failingInitializer struct{}

func (failingInitializer) Ensure(context.Context) error { return errors.New("database unreachable") }

func TestRoutesWaitForInitialization(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{}, RouterOptions{Initializer: failingInitializer{}})

	rec := do(t, router, call{method: http.MethodGet, path: "/v1/services"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, apierrors.TypeUnavailable, problem.Type)
	require.Equal(t, rec.Header().Get(HeaderRequestID), problem.Extensions["requestId"])

	rec = do(t, router, call{method: http.MethodGet, path: "/healthz"})
	require.Equal(t, http.StatusOK, rec.Code)
}
