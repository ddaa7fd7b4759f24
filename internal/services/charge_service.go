package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"firstbite/internal/domain"
	"firstbite/internal/repository"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

const taxConfigCacheTTL = 5 * time.Minute

// ChargeService resolves the per-channel tax configuration (store, then redis
// cache, then hardcoded default) and runs the charge calculator against it.
type ChargeService struct {
	cfgRepo     repository.TaxConfigRepository
	redisClient *redis.Client
}

func NewChargeService(cfgRepo repository.TaxConfigRepository) *ChargeService {
	return &ChargeService{cfgRepo: cfgRepo}
}

func (s *ChargeService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *ChargeService) Calculate(ctx context.Context, subtotal float64, channel domain.Channel, opts domain.ChargeOptions) (*domain.ChargeBreakdown, error) {
	if !channel.Valid() {
		return nil, domain.NewValidationError("unknown channel %q", channel)
	}
	cfg, err := s.configFor(ctx, channel)
	if err != nil {
		return nil, err
	}
	return domain.CalculateCharges(subtotal, cfg, opts)
}

func (s *ChargeService) configFor(ctx context.Context, channel domain.Channel) (*domain.TaxConfig, error) {
	cacheKey := fmt.Sprintf("taxconfig:%s", channel)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var cfg domain.TaxConfig
			if err := json.Unmarshal([]byte(cached), &cfg); err == nil {
				return &cfg, nil
			}
		}
	}

	cfg, err := s.cfgRepo.FindByChannel(ctx, channel)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = domain.DefaultTaxConfig(channel)
	}
	if cfg == nil {
		// Unreachable for the five fixed channels; treat as a config bug.
		log.Printf("FATAL: no tax config and no default for channel %q", channel)
		return nil, domain.ErrConfigNotFound
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(cfg); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, taxConfigCacheTTL)
		}
	}

	return cfg, nil
}

// WarmupConfigCache primes the redis cache for every channel at boot.
func (s *ChargeService) WarmupConfigCache(ctx context.Context) error {
	if s.redisClient == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, ch := range domain.AllChannels {
		ch := ch
		g.Go(func() error {
			if _, err := s.configFor(ctx, ch); err != nil {
				log.Printf("Failed to warm up tax config for %s: %v", ch, err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// UpdateConfig persists an admin change and drops the stale cache entry.
func (s *ChargeService) UpdateConfig(ctx context.Context, cfg *domain.TaxConfig) error {
	if !cfg.Channel.Valid() {
		return domain.NewValidationError("unknown channel %q", cfg.Channel)
	}
	if err := s.cfgRepo.Upsert(ctx, cfg); err != nil {
		return err
	}
	if s.redisClient != nil {
		s.redisClient.Del(ctx, fmt.Sprintf("taxconfig:%s", cfg.Channel))
	}
	return nil
}
