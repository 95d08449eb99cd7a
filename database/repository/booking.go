package repository

import (
	"context"
	"net/url"

	"servana/database/rest"
	"servana/models"
)

// BookingRepository defines data access for booking records. The remote
// store is authoritative; local state is an optimistic cache over it.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	ListByGuestEmail(ctx context.Context, email string) ([]models.Booking, error)
	// Update patches only the given fields. The store applies them in one
	// statement, so the mutation is atomic from the caller's perspective.
	Update(ctx context.Context, id string, fields map[string]any) (*models.Booking, error)
}

// RestBookingRepo implements BookingRepository against the remote data store.
type RestBookingRepo struct {
	Client *rest.Client
}

func NewRestBookingRepo(client *rest.Client) *RestBookingRepo {
	return &RestBookingRepo{Client: client}
}

func (r *RestBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.Client.Get(ctx, "/bookings/"+id, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *RestBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	query := url.Values{}
	query.Set("customer_id", customerID)
	return r.list(ctx, query)
}

func (r *RestBookingRepo) ListByGuestEmail(ctx context.Context, email string) ([]models.Booking, error) {
	query := url.Values{}
	query.Set("guest_email", email)
	return r.list(ctx, query)
}

func (r *RestBookingRepo) list(ctx context.Context, query url.Values) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.Client.Get(ctx, "/bookings", query, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *RestBookingRepo) Update(ctx context.Context, id string, fields map[string]any) (*models.Booking, error) {
	var b models.Booking
	if err := r.Client.Patch(ctx, "/bookings/"+id, fields, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
