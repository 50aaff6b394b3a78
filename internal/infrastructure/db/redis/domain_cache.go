package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

const cacheTTL = 10 * time.Minute

// DomainCache is a read-through cache of institution lookups by email
// domain. Every failure is treated as a miss; the caller always has the
// repository behind it. Key format: instdomain:<domain>
type DomainCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewDomainCache creates a DomainCache wrapping the given Redis client.
func NewDomainCache(client *redis.Client, log zerolog.Logger) *DomainCache {
	return &DomainCache{client: client, log: log}
}

func (c *DomainCache) Get(ctx context.Context, emailDomain string) (*domain.Institution, bool) {
	raw, err := c.client.Get(ctx, c.key(emailDomain)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug().Err(err).Str("domain", emailDomain).Msg("domain cache read failed")
		}
		return nil, false
	}

	var inst domain.Institution
	if err := json.Unmarshal(raw, &inst); err != nil {
		return nil, false
	}
	return &inst, true
}

func (c *DomainCache) Put(ctx context.Context, inst *domain.Institution) {
	raw, err := json.Marshal(inst)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(inst.Domain), raw, cacheTTL).Err(); err != nil {
		c.log.Debug().Err(err).Str("domain", inst.Domain).Msg("domain cache write failed")
	}
}

func (c *DomainCache) Invalidate(ctx context.Context, emailDomain string) {
	if err := c.client.Del(ctx, c.key(emailDomain)).Err(); err != nil {
		c.log.Debug().Err(err).Str("domain", emailDomain).Msg("domain cache invalidate failed")
	}
}

func (c *DomainCache) key(emailDomain string) string {
	return "instdomain:" + emailDomain
}
