package domain

import (
	"errors"
	"slices"
	"strings"
)

// Service is a purchasable gaming service listed in the catalog.
type Service struct {
	ID             int64
	Title          string
	Description    string
	Price          float64
	GameName       string
	ServiceType    string
	SellerID       int64
	ThumbnailURL   string
	ImageURLs      []string
	Category       string
	IsFeatured     bool
	AverageRating  float64
	ReviewCount    int
	PurchaseCount  int
	CompletedCount int
	Tags           []string
}

// Category groups services for browsing.
type Category struct {
	ID      int64
	Name    string
	IconURL string
}

// Banner is a promotional slot on the landing page.
type Banner struct {
	ID        int64
	ImageURL  string
	TargetURL string
}

var (
	ErrEmptyTitle      = errors.New("service title is required")
	ErrInvalidPrice    = errors.New("service price must not be negative")
	ErrInvalidRating   = errors.New("average rating must be between 0 and 5")
	ErrNegativeCounter = errors.New("service counters must not be negative")
	ErrEmptyCategory   = errors.New("category name is required")
)

// Validate enforces invariants on the aggregate.
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if s.Price < 0 {
		return ErrInvalidPrice
	}
	if s.AverageRating < 0 || s.AverageRating > 5 {
		return ErrInvalidRating
	}
	if s.ReviewCount < 0 || s.PurchaseCount < 0 || s.CompletedCount < 0 {
		return ErrNegativeCounter
	}
	return nil
}

// ApplyRating writes the derived rating fields.
func (s *Service) ApplyRating(average float64, count int) {
	s.AverageRating = average
	s.ReviewCount = count
}

// Clone returns a deep copy including list fields.
func (s *Service) Clone() *Service {
	if s == nil {
		return nil
	}
	clone := *s
	clone.ImageURLs = slices.Clone(s.ImageURLs)
	clone.Tags = slices.Clone(s.Tags)
	return &clone
}

// Equal compares two services field by field. Nil and empty lists are equal.
func (s *Service) Equal(other *Service) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.ID == other.ID &&
		s.Title == other.Title &&
		s.Description == other.Description &&
		s.Price == other.Price &&
		s.GameName == other.GameName &&
		s.ServiceType == other.ServiceType &&
		s.SellerID == other.SellerID &&
		s.ThumbnailURL == other.ThumbnailURL &&
		s.Category == other.Category &&
		s.IsFeatured == other.IsFeatured &&
		s.AverageRating == other.AverageRating &&
		s.ReviewCount == other.ReviewCount &&
		s.PurchaseCount == other.PurchaseCount &&
		s.CompletedCount == other.CompletedCount &&
		EqualLists(s.ImageURLs, other.ImageURLs) &&
		EqualLists(s.Tags, other.Tags)
}

// EqualLists compares decoded list columns element-wise.
func EqualLists(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return slices.Equal(a, b)
}

// NormalizeList trims entries and drops blanks.
func NormalizeList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
