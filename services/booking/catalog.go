package booking

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"motorbook/models"
)

const servicesCacheKey = "catalog:services"

// CatalogService serves the services list, cached briefly in Redis. Services
// are immutable from the booking flow's perspective.
type CatalogService struct {
	Backend  Backend
	Cache    *redis.Client // nil disables caching
	Logger   *zap.Logger
	CacheTTL time.Duration
}

// Services returns the bookable services.
func (s *CatalogService) Services(ctx context.Context) ([]models.Service, error) {
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, servicesCacheKey).Result(); err == nil {
			var services []models.Service
			if err := json.Unmarshal([]byte(data), &services); err == nil {
				return services, nil
			}
		}
	}

	services, err := s.Backend.Services(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil && s.CacheTTL > 0 {
		if data, err := json.Marshal(services); err == nil {
			if err := s.Cache.Set(ctx, servicesCacheKey, data, s.CacheTTL).Err(); err != nil {
				s.Logger.Warn("failed to cache services list", zap.Error(err))
			}
		}
	}
	return services, nil
}

// Find returns the service with the given identifier, or nil when unknown.
func (s *CatalogService) Find(ctx context.Context, serviceID string) (*models.Service, error) {
	services, err := s.Services(ctx)
	if err != nil {
		return nil, err
	}
	for _, svc := range services {
		if svc.ID == serviceID {
			return &svc, nil
		}
	}
	return nil, nil
}
