package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Sanyam2511/ShareMyThali/internal/models"
)

const availableKey = "donations:available"

// Listings caches the available-donations listing, the one read-heavy public
// browse path. Cache misses and Redis errors both fall through to the
// database; entries expire after a short TTL and every lifecycle mutation
// invalidates eagerly.
type Listings struct {
	client *Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewListings creates a listing cache on top of a Redis client.
func NewListings(client *Client, ttl time.Duration, logger *zap.Logger) *Listings {
	return &Listings{client: client, ttl: ttl, logger: logger}
}

// GetAvailable returns the cached available listing, or ok=false on miss.
func (l *Listings) GetAvailable(ctx context.Context) ([]models.Donation, bool) {
	raw, err := l.client.Get(ctx, availableKey).Bytes()
	if err != nil {
		return nil, false
	}
	var list []models.Donation
	if err := json.Unmarshal(raw, &list); err != nil {
		l.logger.Warn("listing cache decode", zap.Error(err))
		return nil, false
	}
	return list, true
}

// SetAvailable stores the available listing for the configured TTL.
func (l *Listings) SetAvailable(ctx context.Context, list []models.Donation) {
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := l.client.Set(ctx, availableKey, raw, l.ttl).Err(); err != nil {
		l.logger.Warn("listing cache set", zap.Error(err))
	}
}

// Invalidate drops the cached available listing.
func (l *Listings) Invalidate(ctx context.Context) {
	if err := l.client.Del(ctx, availableKey).Err(); err != nil {
		l.logger.Warn("listing cache invalidate", zap.Error(err))
	}
}
