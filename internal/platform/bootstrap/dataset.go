package bootstrap

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	catalogdomain "github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	favoritedomain "github.com/Apurer/gamerlink-api/internal/domains/favorites/domain"
	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	reviewdomain "github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	userdomain "github.com/Apurer/gamerlink-api/internal/domains/users/domain"
)

// DefaultSeedPassword is hashed for seed users that carry neither a password nor a hash.
const DefaultSeedPassword = "Password123!"

//go:embed seed/seed_data.json
var embeddedSeed []byte

// Dataset is the initial marketplace content, already converted to domain values.
// Service ratings are derived from the reviews in the set.
type Dataset struct {
	Categories []*catalogdomain.Category
	Banners    []*catalogdomain.Banner
	Services   []*catalogdomain.Service
	Users      []*userdomain.User
	Orders     []*orderdomain.Order
	Reviews    []*reviewdomain.Review
	Favorites  []*favoritedomain.Favorite
}

// Empty reports whether the dataset has nothing to insert.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Categories)+len(d.Banners)+len(d.Services)+len(d.Users)+len(d.Orders)+len(d.Reviews)+len(d.Favorites) == 0
}

type seedFile struct {
	Categories []seedCategory `json:"categories"`
	Banners    []seedBanner   `json:"banners"`
	Services   []seedService  `json:"services"`
	Users      []seedUser     `json:"users"`
	Orders     []seedOrder    `json:"orders"`
	Reviews    []seedReview   `json:"reviews"`
	Favorites  []seedFavorite `json:"favorites"`
}

type seedCategory struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl"`
}

type seedBanner struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"imageUrl"`
	TargetURL string `json:"targetUrl"`
}

type seedService struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	GameName       string   `json:"gameName"`
	ServiceType    string   `json:"serviceType"`
	SellerID       int64    `json:"sellerId"`
	ThumbnailURL   string   `json:"thumbnailUrl"`
	ImageURLs      []string `json:"imageUrls"`
	Category       string   `json:"category"`
	IsFeatured     bool     `json:"isFeatured"`
	PurchaseCount  int      `json:"purchaseCount"`
	CompletedCount int      `json:"completedCount"`
	Tags           []string `json:"tags"`
}

type seedUser struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	PasswordHash string     `json:"passwordHash"`
	Nickname     string     `json:"nickname"`
	AvatarURL    string     `json:"avatarUrl"`
	IsAdmin      bool       `json:"isAdmin"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
}

type seedOrder struct {
	ID                int64      `json:"id"`
	ServiceID         int64      `json:"serviceId"`
	BuyerID           int64      `json:"buyerId"`
	OrderDate         time.Time  `json:"orderDate"`
	Status            string     `json:"status"`
	PaymentDate       *time.Time `json:"paymentDate"`
	CompletionDate    *time.Time `json:"completionDate"`
	RefundRequestDate *time.Time `json:"refundRequestDate"`
	TotalPrice        float64    `json:"totalPrice"`
	ReviewID          *int64     `json:"reviewId"`
}

type seedReview struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"orderId"`
	ServiceID  int64     `json:"serviceId"`
	UserID     int64     `json:"userId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `json:"reviewDate"`
}

type seedFavorite struct {
	UserID    int64     `json:"userId"`
	ServiceID int64     `json:"serviceId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PasswordHasher turns a plaintext seed password into a stored hash.
type PasswordHasher func(password string) (string, error)

// BcryptHasher hashes with bcrypt at the default cost.
func BcryptHasher(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// LoadEmbedded parses the dataset compiled into the binary.
func LoadEmbedded(hasher PasswordHasher) (*Dataset, error) {
	return Load(embeddedSeed, hasher)
}

// Load parses raw seed JSON. Every record is validated against its domain rules.
func Load(raw []byte, hasher PasswordHasher) (*Dataset, error) {
	if hasher == nil {
		hasher = BcryptHasher
	}
	var file seedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	now := time.Now().UTC()
	d := &Dataset{}

	for _, c := range file.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("seed category %d: %w", c.ID, catalogdomain.ErrEmptyCategory)
		}
		d.Categories = append(d.Categories, &catalogdomain.Category{ID: c.ID, Name: strings.TrimSpace(c.Name), IconURL: c.IconURL})
	}
	for _, b := range file.Banners {
		d.Banners = append(d.Banners, &catalogdomain.Banner{ID: b.ID, ImageURL: b.ImageURL, TargetURL: b.TargetURL})
	}

	reviews, ratings, err := loadReviews(file.Reviews)
	if err != nil {
		return nil, err
	}
	d.Reviews = reviews

	for _, s := range file.Services {
		service := &catalogdomain.Service{
			ID:             s.ID,
			Title:          s.Title,
			Description:    s.Description,
			Price:          s.Price,
			GameName:       s.GameName,
			ServiceType:    s.ServiceType,
			SellerID:       s.SellerID,
			ThumbnailURL:   s.ThumbnailURL,
			ImageURLs:      catalogdomain.NormalizeList(s.ImageURLs),
			Category:       s.Category,
			IsFeatured:     s.IsFeatured,
			PurchaseCount:  s.PurchaseCount,
			CompletedCount: s.CompletedCount,
			Tags:           catalogdomain.NormalizeList(s.Tags),
		}
		summary := ratings[s.ID]
		service.ApplyRating(summary.Average, summary.Count)
		if err := service.Validate(); err != nil {
			return nil, fmt.Errorf("seed service %d: %w", s.ID, err)
		}
		d.Services = append(d.Services, service)
	}

	for _, u := range file.Users {
		user, err := loadUser(u, hasher, now)
		if err != nil {
			return nil, err
		}
		d.Users = append(d.Users, user)
	}

	for _, o := range file.Orders {
		order := &orderdomain.Order{
			ID:                o.ID,
			ServiceID:         o.ServiceID,
			BuyerID:           o.BuyerID,
			OrderDate:         o.OrderDate.UTC(),
			Status:            orderdomain.Status(o.Status),
			PaymentDate:       o.PaymentDate,
			CompletionDate:    o.CompletionDate,
			RefundRequestDate: o.RefundRequestDate,
			TotalPrice:        o.TotalPrice,
			ReviewID:          o.ReviewID,
		}
		if order.OrderDate.IsZero() {
			order.OrderDate = now
		}
		if err := order.Validate(); err != nil {
			return nil, fmt.Errorf("seed order %d: %w", o.ID, err)
		}
		d.Orders = append(d.Orders, order)
	}

	for _, f := range file.Favorites {
		createdAt := f.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		favorite, err := favoritedomain.NewFavorite(f.UserID, f.ServiceID, createdAt)
		if err != nil {
			return nil, fmt.Errorf("seed favorite %d/%d: %w", f.UserID, f.ServiceID, err)
		}
		d.Favorites = append(d.Favorites, favorite)
	}
	return d, nil
}

func loadReviews(raw []seedReview) ([]*reviewdomain.Review, map[int64]reviewdomain.RatingSummary, error) {
	type tally struct {
		count int
		sum   int64
	}
	tallies := map[int64]*tally{}
	reviews := make([]*reviewdomain.Review, 0, len(raw))
	for _, r := range raw {
		review, err := reviewdomain.NewReview(r.OrderID, r.ServiceID, r.UserID, r.Rating, r.Comment, r.ReviewDate)
		if err != nil {
			return nil, nil, fmt.Errorf("seed review %d: %w", r.ID, err)
		}
		review.ID = r.ID
		reviews = append(reviews, review)
		t, ok := tallies[r.ServiceID]
		if !ok {
			t = &tally{}
			tallies[r.ServiceID] = t
		}
		t.count++
		t.sum += int64(review.Rating)
	}
	ratings := make(map[int64]reviewdomain.RatingSummary, len(tallies))
	for serviceID, t := range tallies {
		ratings[serviceID] = reviewdomain.Summarize(t.count, t.sum)
	}
	return reviews, ratings, nil
}

// loadUser normalizes a seed user. A plaintext password wins over a stored hash; neither means the default password.
func loadUser(u seedUser, hasher PasswordHasher, now time.Time) (*userdomain.User, error) {
	user, err := userdomain.NewUser(u.Username, u.Email)
	if err != nil {
		return nil, fmt.Errorf("seed user %d: %w", u.ID, err)
	}
	user.ID = u.ID
	if err := user.UpdateProfile(u.Nickname, u.AvatarURL); err != nil {
		return nil, fmt.Errorf("seed user %d: %w", u.ID, err)
	}
	user.IsAdmin = u.IsAdmin
	user.CreatedAt = u.CreatedAt.UTC()
	if u.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.LastLoginAt = u.LastLoginAt

	hash := strings.TrimSpace(u.PasswordHash)
	switch {
	case strings.TrimSpace(u.Password) != "":
		hash, err = hasher(u.Password)
	case hash == "":
		hash, err = hasher(DefaultSeedPassword)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password for seed user %d: %w", u.ID, err)
	}
	user.PasswordHash = hash
	return user, nil
}
