package availability

import (
	"context"
	"testing"

	"servana/database/rest"
	"servana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServiceRepo struct {
	svc *models.Service
	err error
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	return f.svc, f.err
}

type fakeBusinessRepo struct {
	links []models.BusinessService
	err   error
}

func (f *fakeBusinessRepo) ListByService(ctx context.Context, serviceID string) ([]models.BusinessService, error) {
	return f.links, f.err
}

var testPrincipal = models.Principal{ID: "cust-1", Email: "cust@example.com"}

func haircut() *models.Service {
	return &models.Service{ID: "svc-1", Name: "Haircut", BasePrice: 40, Active: true}
}

func approvedBusiness(id, name string) *models.Business {
	return &models.Business{
		ID:                 id,
		Name:               name,
		Active:             true,
		VerificationStatus: models.VerificationApproved,
		DeliveryMode:       models.DeliveryBusinessLocation,
		Hours: models.WeeklyHours{
			"friday": {Open: "09:00", Close: "17:00"},
		},
		Locations: []models.Location{
			{ID: "loc-1", BusinessID: id, Street: "1 Main St", City: "Springfield", Active: true},
		},
	}
}

func resolver(svcRepo *fakeServiceRepo, bizRepo *fakeBusinessRepo) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{ServiceRepo: svcRepo, BusinessRepo: bizRepo}
}

func TestResolveIncludesOpenApprovedBusiness(t *testing.T) {
	biz := approvedBusiness("biz-1", "Main Street Salon")
	s := resolver(
		&fakeServiceRepo{svc: haircut()},
		&fakeBusinessRepo{links: []models.BusinessService{
			{ID: "link-1", BusinessID: "biz-1", ServiceID: "svc-1", Price: 55, Active: true, Business: biz},
		}},
	)

	// Friday 14:00 inside a 09:00-17:00 window.
	result, err := s.Resolve(context.Background(), testPrincipal, Request{
		ServiceID: "svc-1", Date: "2024-03-15", Time: "14:00",
	})
	require.NoError(t, err)
	assert.True(t, result.ServiceFound)
	require.Len(t, result.Businesses, 1)

	got := result.Businesses[0]
	assert.Equal(t, "biz-1", got.BusinessID)
	assert.Equal(t, 55.0, got.Price, "link price overrides the base price")
	assert.Equal(t, "9:00 AM", got.OpenTime)
	assert.Equal(t, "5:00 PM", got.CloseTime)
	require.Len(t, got.Locations, 1)
}

func TestResolveExcludesClosedBusiness(t *testing.T) {
	biz := approvedBusiness("biz-1", "Main Street Salon")
	s := resolver(
		&fakeServiceRepo{svc: haircut()},
		&fakeBusinessRepo{links: []models.BusinessService{
			{ID: "link-1", BusinessID: "biz-1", ServiceID: "svc-1", Active: true, Business: biz},
		}},
	)

	// 18:00 is past the 17:00 close.
	result, err := s.Resolve(context.Background(), testPrincipal, Request{
		ServiceID: "svc-1", Date: "2024-03-15", Time: "18:00",
	})
	require.NoError(t, err)
	assert.True(t, result.ServiceFound)
	assert.Empty(t, result.Businesses)
}

func TestResolveFiltersEligibility(t *testing.T) {
	approved := approvedBusiness("biz-ok", "Approved Salon")
	pending := approvedBusiness("biz-pending", "Pending Salon")
	pending.VerificationStatus = "pending"
	inactive := approvedBusiness("biz-off", "Inactive Salon")
	inactive.Active = false

	s := resolver(
		&fakeServiceRepo{svc: haircut()},
		&fakeBusinessRepo{links: []models.BusinessService{
			{ID: "l1", BusinessID: "biz-ok", Active: true, Business: approved},
			{ID: "l2", BusinessID: "biz-pending", Active: true, Business: pending},
			{ID: "l3", BusinessID: "biz-off", Active: true, Business: inactive},
			{ID: "l4", BusinessID: "biz-stale", Active: false, Business: approvedBusiness("biz-stale", "Stale Link")},
			{ID: "l5", BusinessID: "biz-bare", Active: true, Business: nil},
		}},
	)

	result, err := s.Resolve(context.Background(), testPrincipal, Request{
		ServiceID: "svc-1", Date: "2024-03-15", Time: "10:00",
	})
	require.NoError(t, err)
	require.Len(t, result.Businesses, 1)
	assert.Equal(t, "biz-ok", result.Businesses[0].BusinessID)
}

func TestResolveBasePriceFallback(t *testing.T) {
	biz := approvedBusiness("biz-1", "Main Street Salon")
	s := resolver(
		&fakeServiceRepo{svc: haircut()},
		&fakeBusinessRepo{links: []models.BusinessService{
			{ID: "link-1", BusinessID: "biz-1", Active: true, Business: biz}, // no price override
		}},
	)

	result, err := s.Resolve(context.Background(), testPrincipal, Request{
		ServiceID: "svc-1", Date: "2024-03-15", Time: "10:00",
	})
	require.NoError(t, err)
	require.Len(t, result.Businesses, 1)
	assert.Equal(t, 40.0, result.Businesses[0].Price)
}

func TestResolvePromotedNarrowing(t *testing.T) {
	s := resolver(
		&fakeServiceRepo{svc: haircut()},
		&fakeBusinessRepo{links: []models.BusinessService{
			{ID: "l1", BusinessID: "biz-1", Active: true, Business: approvedBusiness("biz-1", "First")},
			{ID: "l2", BusinessID: "biz-2", Active: true, Business: approvedBusiness("biz-2", "Second")},
		}},
	)

	result, err := s.Resolve(context.Background(), testPrincipal, Request{
		ServiceID: "svc-1", Date: "2024-03-15", Time: "10:00", PromotedBusinessID: "biz-2",
	})
	require.NoError(t, err)
	require.Len(t, result.Businesses, 1)
	assert.Equal(t, "biz-2", result.Businesses[0].BusinessID)

	// A promoted business that fails the filters yields a valid empty list.
	result, err = s.Resolve(context.Background(), testPrincipal, Request{
		ServiceID: "svc-1", Date: "2024-03-15", Time: "10:00", PromotedBusinessID: "biz-gone",
	})
	require.NoError(t, err)
	assert.True(t, result.ServiceFound)
	assert.Empty(t, result.Businesses)
}

func TestResolveServiceNotFound(t *testing.T) {
	s := resolver(
		&fakeServiceRepo{err: &rest.APIError{Kind: rest.KindNotFound, Status: 404, Message: "no such service"}},
		&fakeBusinessRepo{},
	)

	result, err := s.Resolve(context.Background(), testPrincipal, Request{
		ServiceID: "svc-missing", Date: "2024-03-15", Time: "10:00",
	})
	require.NoError(t, err, "a missing service is a terminal empty result, not an error")
	assert.False(t, result.ServiceFound)
	assert.NotNil(t, result.Businesses)
	assert.Empty(t, result.Businesses)
}

func TestResolveInactiveService(t *testing.T) {
	svc := haircut()
	svc.Active = false
	s := resolver(&fakeServiceRepo{svc: svc}, &fakeBusinessRepo{})

	result, err := s.Resolve(context.Background(), testPrincipal, Request{
		ServiceID: "svc-1", Date: "2024-03-15", Time: "10:00",
	})
	require.NoError(t, err)
	assert.False(t, result.ServiceFound)
	assert.Empty(t, result.Businesses)
}

func TestResolveValidation(t *testing.T) {
	s := resolver(&fakeServiceRepo{svc: haircut()}, &fakeBusinessRepo{})

	cases := []Request{
		{ServiceID: "", Date: "2024-03-15", Time: "10:00"},
		{ServiceID: "svc-1", Date: "15/03/2024", Time: "10:00"},
		{ServiceID: "svc-1", Date: "2024-03-15", Time: "10am"},
	}
	for _, req := range cases {
		_, err := s.Resolve(context.Background(), testPrincipal, req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "%+v", req)
	}
}

func TestResolveStoreErrorSurfaces(t *testing.T) {
	s := resolver(
		&fakeServiceRepo{svc: haircut()},
		&fakeBusinessRepo{err: &rest.APIError{Kind: rest.KindServer, Status: 500, Message: "boom"}},
	)

	_, err := s.Resolve(context.Background(), testPrincipal, Request{
		ServiceID: "svc-1", Date: "2024-03-15", Time: "10:00",
	})
	require.Error(t, err)
	assert.True(t, rest.IsKind(err, rest.KindServer))
}
