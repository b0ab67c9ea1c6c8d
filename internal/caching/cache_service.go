package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"garagepro/internal/logger"
	"garagepro/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "garagepro"

// DashboardSummaryKey holds the cached dashboard aggregate.
const DashboardSummaryKey = keyPrefix + ":dashboard:summary"

func InvoiceKey(id string) string {
	return fmt.Sprintf("%s:invoice:%s", keyPrefix, id)
}

// CacheService is a read-through cache. Get methods return (nil, nil) on a miss.
type CacheService interface {
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	SetInvoice(ctx context.Context, invoice *models.Invoice, ttl time.Duration) error
	DeleteInvoice(ctx context.Context, id string) error

	GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
	SetDashboardSummary(ctx context.Context, summary *models.DashboardSummary, ttl time.Duration) error
	DeleteDashboardSummary(ctx context.Context) error

	InvalidateAllCache(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client redis.UniversalClient
}

// NewRedisClient builds a client, accepting either host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int) *redis.Client {
	log := logger.WithComponent("cache")

	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			if password == "" {
				password = opts.Password
			}
			parsedAddr = opts.Addr
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("Redis ping failed on initialization")
	} else {
		log.Debug().Str("addr", parsedAddr).Msg("Redis connection established")
	}

	return client
}

func NewRedisCacheService(client redis.UniversalClient) CacheService {
	return &redisCacheService{client: client}
}

func (r *redisCacheService) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	found, err := r.getJSON(ctx, InvoiceKey(id), &invoice)
	if err != nil || !found {
		return nil, err
	}
	return &invoice, nil
}

func (r *redisCacheService) SetInvoice(ctx context.Context, invoice *models.Invoice, ttl time.Duration) error {
	return r.setJSON(ctx, InvoiceKey(invoice.ID), invoice, ttl)
}

func (r *redisCacheService) DeleteInvoice(ctx context.Context, id string) error {
	return r.client.Del(ctx, InvoiceKey(id)).Err()
}

func (r *redisCacheService) GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	found, err := r.getJSON(ctx, DashboardSummaryKey, &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetDashboardSummary(ctx context.Context, summary *models.DashboardSummary, ttl time.Duration) error {
	return r.setJSON(ctx, DashboardSummaryKey, summary, ttl)
}

func (r *redisCacheService) DeleteDashboardSummary(ctx context.Context) error {
	return r.client.Del(ctx, DashboardSummaryKey).Err()
}

// InvalidateAllCache removes every key under the garagepro prefix.
func (r *redisCacheService) InvalidateAllCache(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
