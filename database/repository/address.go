package repository

import (
	"context"
	"net/url"

	"servana/database/rest"
	"servana/models"
)

// AddressRepository defines read access to a customer's saved addresses.
type AddressRepository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]models.SavedAddress, error)
}

// RestAddressRepo implements AddressRepository against the remote data store.
type RestAddressRepo struct {
	Client *rest.Client
}

func NewRestAddressRepo(client *rest.Client) *RestAddressRepo {
	return &RestAddressRepo{Client: client}
}

func (r *RestAddressRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.SavedAddress, error) {
	query := url.Values{}
	query.Set("customer_id", customerID)

	var addrs []models.SavedAddress
	if err := r.Client.Get(ctx, "/saved_addresses", query, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}
