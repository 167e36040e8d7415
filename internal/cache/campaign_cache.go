package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"server/internal/domain"
)

const keyActiveList = "campaigns:active"

// CampaignCache caches the default (active, unfiltered) campaign listing in
// Redis. Writes anywhere in the campaign or donation path invalidate it.
type CampaignCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCampaignCache returns a new CampaignCache.
func NewCampaignCache(rdb *redis.Client, ttl time.Duration) *CampaignCache {
	return &CampaignCache{rdb: rdb, ttl: ttl}
}

// GetActiveList returns the cached active listing, or nil on miss.
func (c *CampaignCache) GetActiveList(ctx context.Context) ([]domain.Campaign, error) {
	b, err := c.rdb.Get(ctx, keyActiveList).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []domain.Campaign
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetActiveList stores the active listing.
func (c *CampaignCache) SetActiveList(ctx context.Context, list []domain.Campaign) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyActiveList, b, c.ttl).Err()
}

// Invalidate removes the cached listing after a write.
func (c *CampaignCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyActiveList).Err()
}
