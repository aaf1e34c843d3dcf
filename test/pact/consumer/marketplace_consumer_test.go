//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/gamerlink-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	ID        int64   `json:"id"`
	ServiceID int64   `json:"serviceId"`
	BuyerID   int64   `json:"buyerId"`
	Status    string  `json:"status"`
	Total     float64 `json:"totalPrice"`
	CanReview bool    `json:"canReview"`
}

type reviewPayload struct {
	ID      int64  `json:"id"`
	OrderID int64  `json:"orderId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type submitPayload struct {
	Message         string         `json:"message"`
	AlreadyReviewed bool           `json:"alreadyReviewed"`
	Order           *orderPayload  `json:"order"`
	Review          *reviewPayload `json:"review"`
}

type favoriteStatus struct {
	ServiceID  int64 `json:"serviceId"`
	IsFavorite bool  `json:"isFavorite"`
}

type favoriteIDs struct {
	ServiceIDs []int64 `json:"serviceIds"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestMarketplaceWebContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	buyer := matchers.S(pacttest.BuyerHeader())
	statusTerm := "PendingPayment|Ongoing|PendingReview|Completed|RefundRequested|Cancelled"
	orderMatcher := func(status string) matchers.Map {
		return matchers.Map{
			"id":         matchers.Like(pacttest.ReviewableOrder),
			"serviceId":  matchers.Like(pacttest.ReviewedService),
			"buyerId":    matchers.Like(pacttest.BuyerID),
			"status":     matchers.Term(status, statusTerm),
			"totalPrice": matchers.Like(24.99),
			"canReview":  matchers.Like(status == "PendingReview"),
		}
	}

	pact.AddInteraction().
		Given(pacttest.StateOrderAwaitsReview).
		UponReceiving("a buyer fetching their order").
		WithRequest("GET", fmt.Sprintf("/v1/orders/%d", pacttest.ReviewableOrder), func(b *pactconsumer.V2RequestBuilder) {
			b.Header(pacttest.HeaderUserID, buyer)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher("PendingReview"))
		})

	review := pacttest.ExampleReviewPayload()
	pact.AddInteraction().
		Given(pacttest.StateOrderAwaitsReview).
		UponReceiving("a buyer reviewing a delivered order").
		WithRequest("POST", fmt.Sprintf("/v1/orders/%d/review", pacttest.ReviewableOrder), func(b *pactconsumer.V2RequestBuilder) {
			b.Header(pacttest.HeaderUserID, buyer)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(review)
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message":         matchers.S("review submitted"),
				"alreadyReviewed": matchers.Like(false),
				"order":           orderMatcher("Completed"),
				"review": matchers.Map{
					"id":      matchers.Like(4),
					"orderId": matchers.Like(pacttest.ReviewableOrder),
					"rating":  matchers.Like(review["rating"]),
					"comment": matchers.Like(review["comment"]),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a buyer fetching an order that does not exist").
		WithRequest("GET", fmt.Sprintf("/v1/orders/%d", pacttest.MissingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header(pacttest.HeaderUserID, buyer)
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateMarketplaceSeeded).
		UponReceiving("a buyer listing favorite services").
		WithRequest("GET", "/v1/users/me/favorites", func(b *pactconsumer.V2RequestBuilder) {
			b.Header(pacttest.HeaderUserID, buyer)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"serviceIds": matchers.EachLike(3, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateMarketplaceSeeded).
		UponReceiving("a buyer favoriting a service").
		WithRequest("POST", fmt.Sprintf("/v1/users/me/favorites/%d/toggle", pacttest.UnfavoredService), func(b *pactconsumer.V2RequestBuilder) {
			b.Header(pacttest.HeaderUserID, buyer)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"serviceId":  matchers.Like(pacttest.UnfavoredService),
				"isFavorite": matchers.Like(true),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newMarketplaceClient(config, pacttest.BuyerHeader())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var order orderPayload
		if err := client.do(ctx, http.MethodGet, fmt.Sprintf("/v1/orders/%d", pacttest.ReviewableOrder), nil, &order); err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if !order.CanReview {
			return fmt.Errorf("expected order %d to be reviewable", order.ID)
		}

		var submitted submitPayload
		if err := client.do(ctx, http.MethodPost, fmt.Sprintf("/v1/orders/%d/review", pacttest.ReviewableOrder), review, &submitted); err != nil {
			return fmt.Errorf("submit review: %w", err)
		}
		if submitted.AlreadyReviewed || submitted.Order == nil || submitted.Order.Status != "Completed" {
			return fmt.Errorf("unexpected submission outcome %+v", submitted)
		}

		var apiErr apiError
		err := client.do(ctx, http.MethodGet, fmt.Sprintf("/v1/orders/%d", pacttest.MissingOrderID), nil, &order)
		if !errors.As(err, &apiErr) || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404 for order %d, got %v", pacttest.MissingOrderID, err)
		}

		var ids favoriteIDs
		if err := client.do(ctx, http.MethodGet, "/v1/users/me/favorites", nil, &ids); err != nil {
			return fmt.Errorf("list favorites: %w", err)
		}
		if len(ids.ServiceIDs) == 0 {
			return fmt.Errorf("expected favorites for the seeded buyer")
		}

		var toggled favoriteStatus
		if err := client.do(ctx, http.MethodPost, fmt.Sprintf("/v1/users/me/favorites/%d/toggle", pacttest.UnfavoredService), nil, &toggled); err != nil {
			return fmt.Errorf("toggle favorite: %w", err)
		}
		if !toggled.IsFavorite {
			return fmt.Errorf("expected service %d to become a favorite", toggled.ServiceID)
		}
		return nil
	})
	require.NoError(t, err)
}

type marketplaceClient struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

func newMarketplaceClient(config pactconsumer.MockServerConfig, userID string) *marketplaceClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &marketplaceClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		userID:     userID,
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *marketplaceClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}
	req.Header.Set(pacttest.HeaderUserID, c.userID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
