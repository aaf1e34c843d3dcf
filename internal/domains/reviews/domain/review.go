package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 5

	// AnonymousAuthor is shown when a review's author can no longer be resolved.
	AnonymousAuthor = "Anonymous user"
)

var (
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrCommentTooShort  = errors.New("comment must contain at least 5 characters")
	ErrInvalidOrderID   = errors.New("order id must be greater than zero")
)

// Review is a buyer's rating of a completed order. Reviews are immutable once written.
type Review struct {
	ID         int64
	OrderID    int64
	ServiceID  int64
	UserID     int64
	Rating     int
	Comment    string
	ReviewDate time.Time
}

// ValidateSubmission checks rating then comment and returns the trimmed comment.
func ValidateSubmission(rating int, comment string) (string, error) {
	if rating < MinRating || rating > MaxRating {
		return "", ErrRatingOutOfRange
	}
	trimmed := strings.TrimSpace(comment)
	if utf8.RuneCountInString(trimmed) < MinCommentLength {
		return "", ErrCommentTooShort
	}
	return trimmed, nil
}

// NewReview builds a review for an order. The review date is now.
func NewReview(orderID, serviceID, userID int64, rating int, comment string, now time.Time) (*Review, error) {
	trimmed, err := ValidateSubmission(rating, comment)
	if err != nil {
		return nil, err
	}
	if orderID <= 0 {
		return nil, ErrInvalidOrderID
	}
	return &Review{
		OrderID:    orderID,
		ServiceID:  serviceID,
		UserID:     userID,
		Rating:     rating,
		Comment:    trimmed,
		ReviewDate: now,
	}, nil
}

// Clone returns a copy of the review.
func (r *Review) Clone() *Review {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// Author is the public face of a reviewer.
type Author struct {
	Username  string
	Nickname  string
	AvatarURL string
}

// ReviewWithAuthor joins a review with its author's display fields.
type ReviewWithAuthor struct {
	Review
	Nickname  string
	AvatarURL string
}

// WithAuthor resolves display fields. A missing author yields the anonymous placeholder.
func WithAuthor(review *Review, author *Author) ReviewWithAuthor {
	result := ReviewWithAuthor{Review: *review, Nickname: AnonymousAuthor}
	if author == nil {
		return result
	}
	switch {
	case strings.TrimSpace(author.Nickname) != "":
		result.Nickname = author.Nickname
	case strings.TrimSpace(author.Username) != "":
		result.Nickname = author.Username
	}
	result.AvatarURL = author.AvatarURL
	return result
}
