package mapper

import (
	"time"

	ordermapper "github.com/Apurer/gamerlink-api/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
)

// SubmitReview is the inbound review payload. Range checks stay in the domain so error text is uniform.
type SubmitReview struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Review is the HTTP representation of a review.
type Review struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"orderId"`
	ServiceID  int64     `json:"serviceId"`
	UserID     int64     `json:"userId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `json:"reviewDate"`
}

// ReviewWithAuthor adds the author's display fields.
type ReviewWithAuthor struct {
	Review
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
}

// SubmitResponse is returned by the review submission endpoint.
type SubmitResponse struct {
	Message         string             `json:"message"`
	AlreadyReviewed bool               `json:"alreadyReviewed"`
	Order           *ordermapper.Order `json:"order,omitempty"`
	Review          *Review            `json:"review,omitempty"`
}

// RatingSummary is returned by the admin recompute endpoint.
type RatingSummary struct {
	ServiceID     int64   `json:"serviceId"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

func FromDomainReview(r *domain.Review) Review {
	if r == nil {
		return Review{}
	}
	return Review{
		ID:         r.ID,
		OrderID:    r.OrderID,
		ServiceID:  r.ServiceID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		ReviewDate: r.ReviewDate,
	}
}

func FromDomainReviewsWithAuthor(list []domain.ReviewWithAuthor) []ReviewWithAuthor {
	result := make([]ReviewWithAuthor, 0, len(list))
	for i := range list {
		result = append(result, ReviewWithAuthor{
			Review:    FromDomainReview(&list[i].Review),
			Nickname:  list[i].Nickname,
			AvatarURL: list[i].AvatarURL,
		})
	}
	return result
}

func FromSubmitResult(result *ports.SubmitResult) SubmitResponse {
	resp := SubmitResponse{Message: result.Message(), AlreadyReviewed: result.AlreadyReviewed}
	if result.Order != nil {
		order := ordermapper.FromDomainOrder(result.Order)
		resp.Order = &order
	}
	if result.Review != nil {
		review := FromDomainReview(result.Review)
		resp.Review = &review
	}
	return resp
}

func FromRatingSummary(serviceID int64, s domain.RatingSummary) RatingSummary {
	return RatingSummary{ServiceID: serviceID, AverageRating: s.Average, ReviewCount: s.Count}
}
