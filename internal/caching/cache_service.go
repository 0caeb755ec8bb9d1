package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sareemart/internal/models"
)

type CacheService interface {
	// Saree caching
	GetSaree(ctx context.Context, sareeID uuid.UUID) (*models.Saree, error)
	SetSaree(ctx context.Context, saree *models.Saree, ttl time.Duration) error
	DeleteSaree(ctx context.Context, sareeID uuid.UUID) error

	// Order detail caching
	GetOrderDetail(ctx context.Context, orderID uuid.UUID) (*models.OrderDetail, error)
	SetOrderDetail(ctx context.Context, detail *models.OrderDetail, ttl time.Duration) error
	DeleteOrderDetail(ctx context.Context, orderID uuid.UUID) error

	// Cache invalidation
	InvalidateAllCache(ctx context.Context) error

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	// Ping verifies the connection is alive
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetSaree(ctx context.Context, sareeID uuid.UUID) (*models.Saree, error) {
	key := fmt.Sprintf("sareemart:saree:%s", sareeID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var saree models.Saree
	if err := json.Unmarshal(data, &saree); err != nil {
		return nil, err
	}
	return &saree, nil
}

func (r *redisCacheService) SetSaree(ctx context.Context, saree *models.Saree, ttl time.Duration) error {
	key := fmt.Sprintf("sareemart:saree:%s", saree.ID.String())
	data, err := json.Marshal(saree)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteSaree(ctx context.Context, sareeID uuid.UUID) error {
	key := fmt.Sprintf("sareemart:saree:%s", sareeID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetOrderDetail(ctx context.Context, orderID uuid.UUID) (*models.OrderDetail, error) {
	key := fmt.Sprintf("sareemart:order:%s", orderID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var detail models.OrderDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *redisCacheService) SetOrderDetail(ctx context.Context, detail *models.OrderDetail, ttl time.Duration) error {
	key := fmt.Sprintf("sareemart:order:%s", detail.ID.String())
	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteOrderDetail(ctx context.Context, orderID uuid.UUID) error {
	key := fmt.Sprintf("sareemart:order:%s", orderID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) InvalidateAllCache(ctx context.Context) error {
	pattern := "sareemart:*"
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
