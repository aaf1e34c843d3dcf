package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reviewmapper "github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/http/mapper"
	reviewports "github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
)

// ReviewAPI implements the review routes. Submissions go through the workflow orchestrator.
type ReviewAPI struct {
	service   reviewports.Service
	workflows reviewports.WorkflowOrchestrator
}

func NewReviewAPI(service reviewports.Service, workflows reviewports.WorkflowOrchestrator) ReviewAPI {
	return ReviewAPI{service: service, workflows: workflows}
}

// Post /v1/orders/:orderId/review
// Review a delivered order and complete it. Replays answer 200 with the stored review.
func (api *ReviewAPI) SubmitReview(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	var payload reviewmapper.SubmitReview
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.workflows.SubmitReview(c.Request.Context(), reviewports.SubmitReviewInput{
		OrderID: orderID,
		UserID:  currentSession(c).UserID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusCreated
	if result.AlreadyReviewed {
		status = http.StatusOK
	}
	c.JSON(status, reviewmapper.FromSubmitResult(result))
}

// Get /v1/orders/:orderId/review
func (api *ReviewAPI) GetReviewByOrderId(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	review, err := api.service.GetReviewByOrderID(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewmapper.FromDomainReview(review))
}

// Get /v1/services/:serviceId/reviews
// List a service's reviews with author profiles, newest first
func (api *ReviewAPI) GetServiceReviews(c *gin.Context) {
	serviceID, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	reviews, err := api.service.GetServiceReviews(c.Request.Context(), serviceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewmapper.FromDomainReviewsWithAuthor(reviews))
}

// Post /v1/admin/services/:serviceId/rating/recompute
// Rebuild a service's rating from its reviews
func (api *ReviewAPI) RecomputeRating(c *gin.Context) {
	serviceID, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	summary, err := api.service.RecomputeRating(c.Request.Context(), serviceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewmapper.FromRatingSummary(serviceID, summary))
}
