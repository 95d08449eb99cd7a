package repository

import (
	"context"

	"servana/database/rest"
	"servana/models"
)

// ServiceRepository defines read access to service definitions.
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Service, error)
}

// RestServiceRepo implements ServiceRepository against the remote data store.
type RestServiceRepo struct {
	Client *rest.Client
}

func NewRestServiceRepo(client *rest.Client) *RestServiceRepo {
	return &RestServiceRepo{Client: client}
}

func (r *RestServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	var svc models.Service
	if err := r.Client.Get(ctx, "/services/"+id, nil, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}
