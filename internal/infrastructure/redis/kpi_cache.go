package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"analytics-dashboard/internal/domain"
)

const kpiSnapshotKey = "dashboard:kpis:latest"

// KPICache keeps the latest KPI snapshot in redis so REST reads don't hit
// MySQL between refresh runs.
type KPICache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewKPICache(client *redis.Client, ttl time.Duration) *KPICache {
	return &KPICache{client: client, ttl: ttl}
}

func (r *KPICache) SetLatestKPIs(ctx context.Context, kpis *domain.KPISnapshot) error {
	data, err := json.Marshal(kpis)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, kpiSnapshotKey, data, r.ttl).Err()
}

// GetLatestKPIs returns nil without error on a cache miss.
func (r *KPICache) GetLatestKPIs(ctx context.Context) (*domain.KPISnapshot, error) {
	result, err := r.client.Get(ctx, kpiSnapshotKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var kpis domain.KPISnapshot
	if err := json.Unmarshal([]byte(result), &kpis); err != nil {
		return nil, err
	}
	return &kpis, nil
}
