package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fieldwise/fsm-api/internal/models"
)

type clientSource interface {
	ListAll(ctx context.Context) ([]models.Client, error)
}

type technicianSource interface {
	ListAll(ctx context.Context) ([]models.Technician, error)
}

type vehicleSource interface {
	ListAll(ctx context.Context) ([]models.Vehicle, error)
}

type jobSource interface {
	ListAll(ctx context.Context) ([]models.Job, error)
}

type sheetSource interface {
	ListAll(ctx context.Context) ([]models.ServiceSheet, error)
}

// ReferenceCache is a redis read-through cache over the read-only reference
// collections the aggregators join against. A nil redis client or zero TTL
// degrades to direct repository reads.
type ReferenceCache struct {
	redis   *redis.Client
	ttl     time.Duration
	metrics *MetricsService

	clients     clientSource
	technicians technicianSource
	vehicles    vehicleSource
	jobs        jobSource
	sheets      sheetSource

	logger *zap.Logger
}

// NewReferenceCache wires the cache over the reference repositories.
func NewReferenceCache(
	redisClient *redis.Client,
	ttl time.Duration,
	metrics *MetricsService,
	clients clientSource,
	technicians technicianSource,
	vehicles vehicleSource,
	jobs jobSource,
	sheets sheetSource,
	logger *zap.Logger,
) *ReferenceCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceCache{
		redis:       redisClient,
		ttl:         ttl,
		metrics:     metrics,
		clients:     clients,
		technicians: technicians,
		vehicles:    vehicles,
		jobs:        jobs,
		sheets:      sheets,
		logger:      logger,
	}
}

// Clients returns the client registry.
func (c *ReferenceCache) Clients(ctx context.Context) ([]models.Client, error) {
	return fetchCached(ctx, c, "refs:clients", c.clients.ListAll)
}

// Technicians returns the technician roster.
func (c *ReferenceCache) Technicians(ctx context.Context) ([]models.Technician, error) {
	return fetchCached(ctx, c, "refs:technicians", c.technicians.ListAll)
}

// Vehicles returns the vehicle fleet.
func (c *ReferenceCache) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	return fetchCached(ctx, c, "refs:vehicles", c.vehicles.ListAll)
}

// Jobs returns the job registry.
func (c *ReferenceCache) Jobs(ctx context.Context) ([]models.Job, error) {
	return fetchCached(ctx, c, "refs:jobs", c.jobs.ListAll)
}

// Sheets returns the service-sheet registry.
func (c *ReferenceCache) Sheets(ctx context.Context) ([]models.ServiceSheet, error) {
	return fetchCached(ctx, c, "refs:sheets", c.sheets.ListAll)
}

func fetchCached[T any](ctx context.Context, c *ReferenceCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if c.redis == nil || c.ttl <= 0 {
		return load(ctx)
	}

	start := time.Now()
	raw, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var cached []T
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			c.metrics.RecordCacheOperation(true, time.Since(start))
			return cached, nil
		}
		c.logger.Warn("corrupt reference cache entry, reloading", zap.String("key", key))
	} else if err != redis.Nil {
		c.logger.Warn("reference cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.metrics.RecordCacheOperation(false, time.Since(start))

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, jsonErr := json.Marshal(items); jsonErr == nil {
		writeStart := time.Now()
		if setErr := c.redis.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			c.logger.Warn("reference cache write failed", zap.String("key", key), zap.Error(setErr))
		}
		c.metrics.ObserveCacheWrite(time.Since(writeStart))
	}
	return items, nil
}
