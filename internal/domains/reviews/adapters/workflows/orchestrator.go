package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/gamerlink-api/internal/domains/reviews/application"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
	reviewworkflows "github.com/Apurer/gamerlink-api/internal/durable/temporal/workflows/reviews"
	reviewactivities "github.com/Apurer/gamerlink-api/internal/platform/temporal/activities/reviews"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalReviewWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineReviewWorkflows)(nil)
)

// TemporalReviewWorkflows starts review submissions on a Temporal cluster.
type TemporalReviewWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalReviewWorkflows wires a Temporal client into the orchestrator.
func NewTemporalReviewWorkflows(c client.Client) *TemporalReviewWorkflows {
	return &TemporalReviewWorkflows{client: c, taskQueue: reviewworkflows.ReviewSubmissionTaskQueue}
}

// SubmitReview runs the submission workflow keyed by order. A submission that collides with a running
// execution waits for it; when that run belonged to the caller its result is returned as a replay,
// otherwise the caller's own submission is started once more. Colliding again is a conflict.
func (o *TemporalReviewWorkflows) SubmitReview(ctx context.Context, input ports.SubmitReviewInput) (*ports.SubmitResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal review workflows not configured")
	}
	if _, err := domain.ValidateSubmission(input.Rating, input.Comment); err != nil {
		return nil, fmt.Errorf("%w: %w", application.ErrInvalidInput, err)
	}

	result, err := o.execute(ctx, input)
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if !errors.As(err, &alreadyStarted) {
		return result, err
	}

	workflowID := reviewworkflows.WorkflowID(input.OrderID)
	var existing ports.SubmitResult
	getErr := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId).Get(ctx, &existing)
	if getErr == nil && existing.Order != nil && existing.Order.BuyerID == input.UserID {
		existing.AlreadyReviewed = true
		return &existing, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	result, err = o.execute(ctx, input)
	if errors.As(err, &alreadyStarted) {
		return nil, fmt.Errorf("%w: %w", application.ErrConflict, err)
	}
	return result, err
}

func (o *TemporalReviewWorkflows) execute(ctx context.Context, input ports.SubmitReviewInput) (*ports.SubmitResult, error) {
	options := client.StartWorkflowOptions{
		ID:                                       reviewworkflows.WorkflowID(input.OrderID),
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		reviewworkflows.ReviewSubmissionWorkflowName,
		reviewworkflows.ReviewSubmissionWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		return nil, err
	}
	var result ports.SubmitResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, reviewactivities.DecodeError(err)
	}
	return &result, nil
}

// InlineReviewWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineReviewWorkflows struct {
	service ports.Service
}

// NewInlineReviewWorkflows wraps the review service for synchronous execution.
func NewInlineReviewWorkflows(service ports.Service) *InlineReviewWorkflows {
	return &InlineReviewWorkflows{service: service}
}

func (o *InlineReviewWorkflows) SubmitReview(ctx context.Context, input ports.SubmitReviewInput) (*ports.SubmitResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline review workflows not configured")
	}
	return o.service.SubmitReview(ctx, input)
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	sc := span.SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
