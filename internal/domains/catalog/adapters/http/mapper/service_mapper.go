package mapper

import (
	"github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
)

// Service is the HTTP representation of a catalog service.
type Service struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Price          float64  `json:"price"`
	GameName       string   `json:"gameName,omitempty"`
	ServiceType    string   `json:"serviceType,omitempty"`
	SellerID       int64    `json:"sellerId"`
	ThumbnailURL   string   `json:"thumbnailUrl,omitempty"`
	ImageURLs      []string `json:"imageUrls"`
	Category       string   `json:"category,omitempty"`
	IsFeatured     bool     `json:"isFeatured"`
	AverageRating  float64  `json:"averageRating"`
	ReviewCount    int      `json:"reviewCount"`
	PurchaseCount  int      `json:"purchaseCount"`
	CompletedCount int      `json:"completedCount"`
	Tags           []string `json:"tags"`
}

// ServiceUpdate is the administrative edit payload.
type ServiceUpdate struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"gte=0"`
	GameName       string   `json:"gameName"`
	ServiceType    string   `json:"serviceType"`
	SellerID       int64    `json:"sellerId"`
	ThumbnailURL   string   `json:"thumbnailUrl"`
	ImageURLs      []string `json:"imageUrls"`
	Category       string   `json:"category"`
	IsFeatured     bool     `json:"isFeatured"`
	AverageRating  float64  `json:"averageRating" binding:"gte=0,lte=5"`
	ReviewCount    int      `json:"reviewCount" binding:"gte=0"`
	PurchaseCount  int      `json:"purchaseCount" binding:"gte=0"`
	CompletedCount int      `json:"completedCount" binding:"gte=0"`
	Tags           []string `json:"tags"`
}

// Category is the HTTP representation of a catalog category.
type Category struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl,omitempty"`
}

// Banner is the HTTP representation of a promotional banner.
type Banner struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"imageUrl"`
	TargetURL string `json:"targetUrl,omitempty"`
}

func FromDomainService(s *domain.Service) Service {
	if s == nil {
		return Service{}
	}
	return Service{
		ID:             s.ID,
		Title:          s.Title,
		Description:    s.Description,
		Price:          s.Price,
		GameName:       s.GameName,
		ServiceType:    s.ServiceType,
		SellerID:       s.SellerID,
		ThumbnailURL:   s.ThumbnailURL,
		ImageURLs:      nonNil(s.ImageURLs),
		Category:       s.Category,
		IsFeatured:     s.IsFeatured,
		AverageRating:  s.AverageRating,
		ReviewCount:    s.ReviewCount,
		PurchaseCount:  s.PurchaseCount,
		CompletedCount: s.CompletedCount,
		Tags:           nonNil(s.Tags),
	}
}

func FromDomainServices(list []*domain.Service) []Service {
	result := make([]Service, 0, len(list))
	for _, s := range list {
		result = append(result, FromDomainService(s))
	}
	return result
}

// ToDomainService builds the aggregate for the given identifier from an update payload.
func ToDomainService(id int64, in ServiceUpdate) *domain.Service {
	return &domain.Service{
		ID:             id,
		Title:          in.Title,
		Description:    in.Description,
		Price:          in.Price,
		GameName:       in.GameName,
		ServiceType:    in.ServiceType,
		SellerID:       in.SellerID,
		ThumbnailURL:   in.ThumbnailURL,
		ImageURLs:      in.ImageURLs,
		Category:       in.Category,
		IsFeatured:     in.IsFeatured,
		AverageRating:  in.AverageRating,
		ReviewCount:    in.ReviewCount,
		PurchaseCount:  in.PurchaseCount,
		CompletedCount: in.CompletedCount,
		Tags:           in.Tags,
	}
}

func FromDomainCategories(list []*domain.Category) []Category {
	result := make([]Category, 0, len(list))
	for _, c := range list {
		result = append(result, Category{ID: c.ID, Name: c.Name, IconURL: c.IconURL})
	}
	return result
}

func FromDomainBanners(list []*domain.Banner) []Banner {
	result := make([]Banner, 0, len(list))
	for _, b := range list {
		result = append(result, Banner{ID: b.ID, ImageURL: b.ImageURL, TargetURL: b.TargetURL})
	}
	return result
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
