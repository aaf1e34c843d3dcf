package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
	reviewactivities "github.com/Apurer/gamerlink-api/internal/platform/temporal/activities/reviews"
)

// RunReviewSubmissionSequence executes the submission activity with a retry policy that skips business rejections.
func RunReviewSubmissionSequence(ctx workflow.Context, input ports.SubmitReviewInput) (*ports.SubmitResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("review submission sequence started", "orderId", input.OrderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        2 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: reviewactivities.NonRetryableErrorTypes,
		},
	}

	var result ports.SubmitResult
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), reviewactivities.SubmitReviewActivityName, input).Get(ctx, &result)
	if err != nil {
		logger.Error("review submission sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("review submission sequence finished", "orderId", input.OrderID, "alreadyReviewed", result.AlreadyReviewed)
	return &result, nil
}
