//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

const (
	ProviderName = "gamerlink-api"
	ConsumerName = "gamerlink-web"

	StateMarketplaceSeeded = "the marketplace holds the seed dataset"
	StateOrderAwaitsReview = "buyer 4 has order 4 awaiting review"
	StateOrderMissing      = "no order with id 999"
)

const (
	BuyerID          int64 = 4
	ReviewableOrder  int64 = 4
	MissingOrderID   int64 = 999
	ReviewedService  int64 = 1
	UnfavoredService int64 = 1

	HeaderUserID = "X-User-ID"
)

// BuyerHeader is the trusted identity header value for the seeded buyer.
func BuyerHeader() string {
	return strconv.FormatInt(BuyerID, 10)
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleReviewPayload is the body the consumer submits for order 4.
func ExampleReviewPayload() map[string]any {
	return map[string]any{
		"rating":  5,
		"comment": "Smooth climb, great communication.",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
