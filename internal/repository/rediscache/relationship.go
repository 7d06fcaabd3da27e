package rediscache

import (
	"context"
	"encoding/json"
	"time"

	reldomain "pet-custody-go/internal/domain/relationship"
	"pet-custody-go/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const relationshipKeyPrefix = "relationships:pet:"

// RelationshipCache backs the ledger's active-by-pet projection with Redis.
// Failures degrade to cache misses; the ledger is always authoritative.
type RelationshipCache struct {
	client *redis.Client
	log    logger.Logger
}

func NewRelationshipCache(client *redis.Client, log logger.Logger) *RelationshipCache {
	return &RelationshipCache{client: client, log: log}
}

func (c *RelationshipCache) GetActiveByPet(ctx context.Context, petID uuid.UUID) ([]reldomain.Relationship, bool) {
	payload, err := c.client.Get(ctx, relationshipKey(petID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.InternalError("cache: get failed", err, "pet_id", petID.String())
		}
		return nil, false
	}

	var rels []reldomain.Relationship
	if err := json.Unmarshal(payload, &rels); err != nil {
		c.log.InternalError("cache: unmarshal failed", err, "pet_id", petID.String())
		return nil, false
	}
	return rels, true
}

func (c *RelationshipCache) SetActiveByPet(ctx context.Context, petID uuid.UUID, rels []reldomain.Relationship, ttl time.Duration) {
	payload, err := json.Marshal(rels)
	if err != nil {
		c.log.InternalError("cache: marshal failed", err, "pet_id", petID.String())
		return
	}
	if err := c.client.Set(ctx, relationshipKey(petID), payload, ttl).Err(); err != nil {
		c.log.InternalError("cache: set failed", err, "pet_id", petID.String())
	}
}

func (c *RelationshipCache) DeleteByPet(ctx context.Context, petID uuid.UUID) {
	if err := c.client.Del(ctx, relationshipKey(petID)).Err(); err != nil {
		c.log.InternalError("cache: delete failed", err, "pet_id", petID.String())
	}
}

func relationshipKey(petID uuid.UUID) string {
	return relationshipKeyPrefix + petID.String()
}
