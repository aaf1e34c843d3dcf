package reviews

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
	"github.com/Apurer/gamerlink-api/internal/platform/temporal/sequences"
)

const (
	// ReviewSubmissionWorkflowName is the public identifier for registering the workflow.
	ReviewSubmissionWorkflowName = "reviews.workflows.Submission"
	// ReviewSubmissionTaskQueue is the queue consumed by the worker processing review workflows.
	ReviewSubmissionTaskQueue = "REVIEW_SUBMISSION"
)

// ReviewSubmissionWorkflowInput captures the payload required to submit a review.
type ReviewSubmissionWorkflowInput struct {
	Command ports.SubmitReviewInput
	TraceID string
}

// WorkflowID is one per order, so concurrent submissions for the same order share an execution.
func WorkflowID(orderID int64) string {
	return fmt.Sprintf("review-submission-%d", orderID)
}

// ReviewSubmissionWorkflow orchestrates the transactional review submission.
func ReviewSubmissionWorkflow(ctx workflow.Context, input ReviewSubmissionWorkflowInput) (*ports.SubmitResult, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Command.OrderID
	logger.Info("ReviewSubmissionWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)
	result, err := sequences.RunReviewSubmissionSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ReviewSubmissionWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("ReviewSubmissionWorkflow completed", withTraceID(input.TraceID, "orderId", orderID, "alreadyReviewed", result.AlreadyReviewed)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
