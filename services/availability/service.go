package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"servana/database/repository"
	"servana/database/rest"
	"servana/models"
	"servana/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Request describes one availability resolution: which service, when, and
// optionally a promotion pinned to a single business.
type Request struct {
	ServiceID          string `json:"service_id"`
	Date               string `json:"date"` // YYYY-MM-DD
	Time               string `json:"time"` // HH:MM, 24-hour
	PromotedBusinessID string `json:"promoted_business_id,omitempty"`
}

// Result is the outcome of an availability resolution. A missing or
// inactive service is a terminal empty result with ServiceFound false,
// never an error.
type Result struct {
	ServiceFound bool                       `json:"service_found"`
	Service      *models.Service            `json:"service,omitempty"`
	Businesses   []models.AvailableBusiness `json:"businesses"`
}

// Service resolves which businesses can take a requested appointment.
type Service interface {
	Resolve(ctx context.Context, principal models.Principal, req Request) (*Result, error)
}

// DefaultAvailabilityService implements Service.
type DefaultAvailabilityService struct {
	ServiceRepo  repository.ServiceRepository
	BusinessRepo repository.BusinessRepository
	Cache        *redis.Client // optional result cache
	CacheTTL     time.Duration
}

func (s *DefaultAvailabilityService) Resolve(ctx context.Context, principal models.Principal, req Request) (*Result, error) {
	logger := utils.GetLogger()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if cached := s.cacheGet(ctx, req); cached != nil {
		return cached, nil
	}

	// 1. Resolve the service; absent or inactive is a terminal empty state.
	svc, err := s.ServiceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if rest.IsNotFound(err) {
			return &Result{ServiceFound: false, Businesses: []models.AvailableBusiness{}}, nil
		}
		return nil, fmt.Errorf("fetch service %s: %w", req.ServiceID, err)
	}
	if svc == nil || !svc.Active {
		return &Result{ServiceFound: false, Businesses: []models.AvailableBusiness{}}, nil
	}

	// 2-3. Fetch active candidate link rows with embedded businesses. Auth
	// expiry is refreshed-and-retried once inside the data layer; any other
	// fetch failure surfaces typed.
	links, err := s.BusinessRepo.ListByService(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("fetch businesses for service %s: %w", req.ServiceID, err)
	}

	// 4-5. Filter to active, approved, open businesses and project them.
	results := []models.AvailableBusiness{}
	for _, link := range links {
		if !link.Active || link.Business == nil {
			continue
		}
		biz := *link.Business
		if !biz.Eligible() {
			continue
		}
		if !IsOpen(biz.Hours, req.Date, req.Time) {
			continue
		}

		price := link.Price
		if price == 0 {
			price = svc.BasePrice
		}
		results = append(results, models.AvailableBusiness{
			BusinessID:   biz.ID,
			Name:         biz.Name,
			Price:        price,
			DeliveryMode: biz.DeliveryMode,
			OpenTime:     DisplayTime(biz.Hours, req.Date, OpenTime),
			CloseTime:    DisplayTime(biz.Hours, req.Date, CloseTime),
			Locations:    biz.ActiveLocations(),
		})
	}

	// 6. A promotion pinned to one business narrows the final list; zero
	// matches after narrowing is a valid empty result.
	if req.PromotedBusinessID != "" {
		narrowed := []models.AvailableBusiness{}
		for _, b := range results {
			if b.BusinessID == req.PromotedBusinessID {
				narrowed = append(narrowed, b)
			}
		}
		results = narrowed
	}

	out := &Result{ServiceFound: true, Service: svc, Businesses: results}
	s.cacheSet(ctx, req, out)

	logger.Debug("availability resolved",
		zap.String("serviceID", req.ServiceID),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.String("principalID", principal.ID),
		zap.Int("matches", len(results)))
	return out, nil
}

func validateRequest(req Request) error {
	if req.ServiceID == "" {
		return newValidationError("service_id", "service id is required")
	}
	if _, _, _, err := models.SplitDate(req.Date); err != nil {
		return newValidationError("date", "date must be YYYY-MM-DD")
	}
	if _, _, err := models.SplitTime(req.Time); err != nil {
		return newValidationError("time", "time must be HH:MM")
	}
	return nil
}

func (s *DefaultAvailabilityService) cacheKey(req Request) string {
	return fmt.Sprintf("availability:%s:%s:%s:%s", req.ServiceID, req.Date, req.Time, req.PromotedBusinessID)
}

func (s *DefaultAvailabilityService) cacheGet(ctx context.Context, req Request) *Result {
	if s.Cache == nil {
		return nil
	}
	data, err := s.Cache.Get(ctx, s.cacheKey(req)).Result()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Debug("availability cache read failed", zap.Error(err))
		}
		return nil
	}
	var result Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil
	}
	return &result
}

func (s *DefaultAvailabilityService) cacheSet(ctx context.Context, req Request, result *Result) {
	if s.Cache == nil {
		return
	}
	ttl := s.CacheTTL
	if ttl == 0 {
		ttl = time.Minute
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, s.cacheKey(req), data, ttl).Err(); err != nil {
		utils.GetLogger().Debug("availability cache write failed", zap.Error(err))
	}
}
