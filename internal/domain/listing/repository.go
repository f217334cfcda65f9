package listing

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	SetStatus(ctx context.Context, id string, status Status) error
	Browse(ctx context.Context, f Filters) ([]Listing, error)
	ListByProvider(ctx context.Context, providerID string) ([]Listing, error)
	ListAll(ctx context.Context) ([]Listing, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// Update writes every editable column; zero values are stored as given.
// Callers check existence first since MySQL reports unchanged rows as
// unaffected.
func (r *repository) Update(ctx context.Context, l *Listing) error {
	return r.db.WithContext(ctx).
		Model(&Listing{}).
		Where("id = ?", l.ID).
		Select("name", "description", "type", "image_url", "location", "latitude", "longitude",
			"price_per_hour", "opening_time", "closing_time", "available_days", "max_capacity",
			"amenities", "rules", "updated_at").
		Updates(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Listing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Listing, error) {
	var l Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) SetStatus(ctx context.Context, id string, status Status) error {
	return r.db.WithContext(ctx).Model(&Listing{}).Where("id = ?", id).Update("status", status).Error
}

// Browse returns approved listings, newest first.
func (r *repository) Browse(ctx context.Context, f Filters) ([]Listing, error) {
	q := r.db.WithContext(ctx).
		Model(&Listing{}).
		Where("status = ?", StatusApproved)

	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + escapeLike(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(location) LIKE ? ESCAPE '!')", like, like, like)
	}
	if f.Category != "" {
		q = q.Where("type = ?", f.Category)
	}
	if f.Price != nil {
		if f.Price.Above >= 0 {
			q = q.Where("price_per_hour > ?", f.Price.Above)
		}
		if f.Price.UpTo > 0 {
			q = q.Where("price_per_hour <= ?", f.Price.UpTo)
		}
	}

	var out []Listing
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repository) ListByProvider(ctx context.Context, providerID string) ([]Listing, error) {
	var out []Listing
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListAll(ctx context.Context) ([]Listing, error) {
	var out []Listing
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// likeEscaper makes % and _ in user text match literally under ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
