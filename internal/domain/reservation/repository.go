package reservation

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]Reservation, error)
	ListByProvider(ctx context.Context, providerID string) ([]Reservation, error)
	ListAll(ctx context.Context, status *Status) ([]Reservation, error)
	ActiveOnDate(ctx context.Context, listingID, date string) ([]Reservation, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const newestFirst = "reservations.booking_date DESC, reservations.start_time DESC, reservations.created_at DESC"

func (r *repository) Create(ctx context.Context, res *Reservation) error {
	err := r.db.WithContext(ctx).Omit("Listing").Create(res).Error
	if isForeignKeyViolation(err) {
		return ErrListingNotFound
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	var res Reservation
	err := r.db.WithContext(ctx).Preload("Listing").Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	return r.db.WithContext(ctx).Model(&Reservation{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Reservation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Reservation, error) {
	var out []Reservation
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Where("user_id = ?", userID).
		Order(newestFirst).
		Find(&out).Error
	return out, err
}

// ListByProvider returns reservations on any listing owned by providerID.
func (r *repository) ListByProvider(ctx context.Context, providerID string) ([]Reservation, error) {
	var out []Reservation
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Joins("JOIN listings ON listings.id = reservations.listing_id").
		Where("listings.provider_id = ?", providerID).
		Order(newestFirst).
		Find(&out).Error
	return out, err
}

func (r *repository) ListAll(ctx context.Context, status *Status) ([]Reservation, error) {
	q := r.db.WithContext(ctx).Preload("Listing")
	if status != nil {
		q = q.Where("reservations.status = ?", *status)
	}
	var out []Reservation
	err := q.Order(newestFirst).Find(&out).Error
	return out, err
}

// ActiveOnDate returns the pending and confirmed reservations of a listing
// starting on date.
func (r *repository) ActiveOnDate(ctx context.Context, listingID, date string) ([]Reservation, error) {
	var out []Reservation
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND booking_date = ?", listingID, date).
		Where("status IN ?", []Status{StatusPending, StatusConfirmed}).
		Find(&out).Error
	return out, err
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint")
}
