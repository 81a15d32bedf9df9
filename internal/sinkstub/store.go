// internal/sinkstub/store.go
package sinkstub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inverter-savings/internal/models"

	"github.com/redis/go-redis/v9"
)

const leadKeyPrefix = "lead:stub:"

// StoredLead is what the stub keeps per lead id.
type StoredLead struct {
	CRMID      string             `json:"crmId"`
	ReceivedAt time.Time          `json:"receivedAt"`
	Payload    models.LeadPayload `json:"payload"`
}

// RedisStore keeps the first payload seen for each lead id.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: rdb, ttl: ttl}
}

// PutIfAbsent stores lead unless its id is already known. It returns the
// stored copy and whether this call created it.
func (s *RedisStore) PutIfAbsent(ctx context.Context, lead StoredLead) (*StoredLead, bool, error) {
	data, err := json.Marshal(lead)
	if err != nil {
		return nil, false, fmt.Errorf("marshal lead: %w", err)
	}

	key := leadKeyPrefix + lead.Payload.LeadID
	created, err := s.redis.SetNX(ctx, key, data, s.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("store lead: %w", err)
	}
	if created {
		return &lead, true, nil
	}

	existing, err := s.Get(ctx, lead.Payload.LeadID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("lead %s vanished after duplicate check", lead.Payload.LeadID)
	}
	return existing, false, nil
}

// Get returns the stored lead or nil when unknown.
func (s *RedisStore) Get(ctx context.Context, leadID string) (*StoredLead, error) {
	raw, err := s.redis.Get(ctx, leadKeyPrefix+leadID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load lead: %w", err)
	}

	var lead StoredLead
	if err := json.Unmarshal(raw, &lead); err != nil {
		return nil, fmt.Errorf("decode lead: %w", err)
	}
	return &lead, nil
}
