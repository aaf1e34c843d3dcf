package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the catalog in PostgreSQL using GORM-mapped columns.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

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

func (r *Repository) ListServices(ctx context.Context) ([]*domain.Service, error) {
	return r.listServices(ctx, "")
}

func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record serviceRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	if len(ids) == 0 {
		return []*domain.Service{}, nil
	}
	found, err := r.listServices(ctx, "id IN ?", ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Service, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}
	ordered := make([]*domain.Service, 0, len(found))
	for _, id := range ids {
		if svc, ok := byID[id]; ok {
			ordered = append(ordered, svc)
		}
	}
	return ordered, nil
}

func (r *Repository) ListServicesByCategory(ctx context.Context, category string) ([]*domain.Service, error) {
	return r.listServices(ctx, "lower(category) = lower(?)", category)
}

// SaveService inserts or replaces a service row.
func (r *Repository) SaveService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if service == nil {
		return nil, errors.New("cannot save nil service")
	}
	record := newServiceRecord(service)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"title":           record.Title,
				"description":     record.Description,
				"price":           record.Price,
				"game_name":       record.GameName,
				"service_type":    record.ServiceType,
				"seller_id":       record.SellerID,
				"thumbnail_url":   record.ThumbnailURL,
				"image_urls":      record.ImageURLs,
				"category":        record.Category,
				"is_featured":     record.IsFeatured,
				"average_rating":  record.AverageRating,
				"review_count":    record.ReviewCount,
				"purchase_count":  record.PurchaseCount,
				"completed_count": record.CompletedCount,
				"tags":            record.Tags,
				"updated_at":      gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetService(ctx, record.ID)
}

// SetRating only touches the derived rating columns.
func (r *Repository) SetRating(ctx context.Context, serviceID int64, average float64, count int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&serviceRecord{}).
		Where("id = ?", serviceID).
		Updates(map[string]any{
			"average_rating": average,
			"review_count":   count,
			"updated_at":     gorm.Expr("NOW()"),
		}).Error
}

func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Category, 0, len(records))
	for _, rec := range records {
		list = append(list, &domain.Category{ID: rec.ID, Name: rec.Name, IconURL: rec.IconURL})
	}
	return list, nil
}

func (r *Repository) SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category == nil || category.Name == "" {
		return nil, domain.ErrEmptyCategory
	}
	record := categoryRecord{ID: category.ID, Name: category.Name, IconURL: category.IconURL}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "icon_url"}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return &domain.Category{ID: record.ID, Name: record.Name, IconURL: record.IconURL}, nil
}

func (r *Repository) ListBanners(ctx context.Context) ([]*domain.Banner, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []bannerRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Banner, 0, len(records))
	for _, rec := range records {
		list = append(list, &domain.Banner{ID: rec.ID, ImageURL: rec.ImageURL, TargetURL: rec.TargetURL})
	}
	return list, nil
}

func (r *Repository) SaveBanner(ctx context.Context, banner *domain.Banner) (*domain.Banner, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if banner == nil {
		return nil, errors.New("cannot save nil banner")
	}
	record := bannerRecord{ID: banner.ID, ImageURL: banner.ImageURL, TargetURL: banner.TargetURL}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"image_url", "target_url"}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return &domain.Banner{ID: record.ID, ImageURL: record.ImageURL, TargetURL: record.TargetURL}, nil
}

func (r *Repository) listServices(ctx context.Context, where string, args ...any) ([]*domain.Service, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("id")
	if where != "" {
		query = query.Where(where, args...)
	}
	var records []serviceRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Service, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func newServiceRecord(s *domain.Service) serviceRecord {
	return serviceRecord{
		ID:             s.ID,
		Title:          s.Title,
		Description:    s.Description,
		Price:          s.Price,
		GameName:       s.GameName,
		ServiceType:    s.ServiceType,
		SellerID:       s.SellerID,
		ThumbnailURL:   s.ThumbnailURL,
		ImageURLs:      copyStringArray(s.ImageURLs),
		Category:       s.Category,
		IsFeatured:     s.IsFeatured,
		AverageRating:  s.AverageRating,
		ReviewCount:    s.ReviewCount,
		PurchaseCount:  s.PurchaseCount,
		CompletedCount: s.CompletedCount,
		Tags:           copyStringArray(s.Tags),
	}
}

func (r serviceRecord) toDomain() *domain.Service {
	return &domain.Service{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Price:          r.Price,
		GameName:       r.GameName,
		ServiceType:    r.ServiceType,
		SellerID:       r.SellerID,
		ThumbnailURL:   r.ThumbnailURL,
		ImageURLs:      append([]string(nil), r.ImageURLs...),
		Category:       r.Category,
		IsFeatured:     r.IsFeatured,
		AverageRating:  r.AverageRating,
		ReviewCount:    r.ReviewCount,
		PurchaseCount:  r.PurchaseCount,
		CompletedCount: r.CompletedCount,
		Tags:           append([]string(nil), r.Tags...),
	}
}

func copyStringArray(values []string) pq.StringArray {
	if len(values) == 0 {
		return pq.StringArray{}
	}
	return append(pq.StringArray(nil), values...)
}
