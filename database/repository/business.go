package repository

import (
	"context"
	"net/url"

	"servana/database/rest"
	"servana/models"
)

// BusinessRepository defines read access to business/service link rows.
type BusinessRepository interface {
	// ListByService returns the active link rows for a service with the
	// owning business embedded.
	ListByService(ctx context.Context, serviceID string) ([]models.BusinessService, error)
}

// RestBusinessRepo implements BusinessRepository against the remote data store.
type RestBusinessRepo struct {
	Client *rest.Client
}

func NewRestBusinessRepo(client *rest.Client) *RestBusinessRepo {
	return &RestBusinessRepo{Client: client}
}

func (r *RestBusinessRepo) ListByService(ctx context.Context, serviceID string) ([]models.BusinessService, error) {
	query := url.Values{}
	query.Set("service_id", serviceID)
	query.Set("active", "true")
	query.Set("expand", "business.locations")

	var links []models.BusinessService
	if err := r.Client.Get(ctx, "/business_services", query, &links); err != nil {
		return nil, err
	}
	return links, nil
}
