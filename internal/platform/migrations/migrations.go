package migrations

import (
	"context"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context. Adapters never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&serviceRecord{},
		&categoryRecord{},
		&bannerRecord{},
		&userRecord{},
		&orderRecord{},
		&reviewRecord{},
		&favoriteRecord{},
	)
}

// Schema adapts Run to the initialization guard.
type Schema struct {
	db *gorm.DB
}

func NewSchema(db *gorm.DB) *Schema {
	return &Schema{db: db}
}

func (s *Schema) EnsureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	return Run(s.db.WithContext(ctx))
}

// Service schema mirrors the catalog Postgres adapter.
type serviceRecord struct {
	ID             int64          `gorm:"primaryKey;column:id"`
	Title          string         `gorm:"column:title;not null"`
	Description    string         `gorm:"column:description"`
	Price          float64        `gorm:"column:price;type:numeric(12,2);not null"`
	GameName       string         `gorm:"column:game_name"`
	ServiceType    string         `gorm:"column:service_type"`
	SellerID       int64          `gorm:"column:seller_id;index"`
	ThumbnailURL   string         `gorm:"column:thumbnail_url"`
	ImageURLs      pq.StringArray `gorm:"column:image_urls;type:text[]"`
	Category       string         `gorm:"column:category;index"`
	IsFeatured     bool           `gorm:"column:is_featured"`
	AverageRating  float64        `gorm:"column:average_rating;not null;default:0"`
	ReviewCount    int            `gorm:"column:review_count;not null;default:0"`
	PurchaseCount  int            `gorm:"column:purchase_count;not null;default:0"`
	CompletedCount int            `gorm:"column:completed_count;not null;default:0"`
	Tags           pq.StringArray `gorm:"column:tags;type:text[]"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (serviceRecord) TableName() string { return "services" }

type categoryRecord struct {
	ID      int64  `gorm:"primaryKey;column:id"`
	Name    string `gorm:"column:name;uniqueIndex;not null"`
	IconURL string `gorm:"column:icon_url"`
}

func (categoryRecord) TableName() string { return "categories" }

type bannerRecord struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	ImageURL  string `gorm:"column:image_url;not null"`
	TargetURL string `gorm:"column:target_url"`
}

func (bannerRecord) TableName() string { return "banners" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           int64      `gorm:"primaryKey;column:id"`
	Username     string     `gorm:"column:username;uniqueIndex;not null"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash"`
	Nickname     string     `gorm:"column:nickname"`
	AvatarURL    string     `gorm:"column:avatar_url"`
	IsAdmin      bool       `gorm:"column:is_admin;not null;default:false"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

func (userRecord) TableName() string { return "users" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID                int64      `gorm:"primaryKey;column:id"`
	ServiceID         int64      `gorm:"column:service_id;not null;index"`
	BuyerID           int64      `gorm:"column:buyer_id;not null;index:idx_orders_buyer_date"`
	OrderDate         time.Time  `gorm:"column:order_date;not null;index:idx_orders_buyer_date;index:idx_orders_status_date"`
	Status            string     `gorm:"column:status;type:varchar(32);not null;index:idx_orders_status_date"`
	PaymentDate       *time.Time `gorm:"column:payment_date"`
	CompletionDate    *time.Time `gorm:"column:completion_date"`
	RefundRequestDate *time.Time `gorm:"column:refund_request_date"`
	TotalPrice        float64    `gorm:"column:total_price;type:numeric(12,2);not null"`
	ReviewID          *int64     `gorm:"column:review_id;uniqueIndex"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Review schema mirrors the reviews Postgres store. One review per order.
type reviewRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	OrderID    int64     `gorm:"column:order_id;not null;uniqueIndex"`
	ServiceID  int64     `gorm:"column:service_id;not null;index:idx_reviews_service_date"`
	UserID     int64     `gorm:"column:user_id;not null;index"`
	Rating     int       `gorm:"column:rating;type:smallint;not null"`
	Comment    string    `gorm:"column:comment;type:text;not null"`
	ReviewDate time.Time `gorm:"column:review_date;not null;index:idx_reviews_service_date"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (reviewRecord) TableName() string { return "reviews" }

// Favorite schema mirrors the favorites Postgres adapter.
type favoriteRecord struct {
	UserID    int64     `gorm:"primaryKey;column:user_id;autoIncrement:false;index:idx_favorites_user_created,priority:1"`
	ServiceID int64     `gorm:"primaryKey;column:service_id;autoIncrement:false"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_favorites_user_created,priority:2,sort:desc"`
}

func (favoriteRecord) TableName() string { return "favorites" }
