package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"motorbook/models"
)

const (
	sessionKeyPrefix  = "booking:session:"
	serverSlotsSuffix = ":serverslots"
)

// RedisSessionStore keeps booking sessions in Redis under a TTL. The session
// document and the server-slot corroboration live under separate keys, so a
// slot refresh never round-trips (and can never revert) the draft.
type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.Client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}

	if data, err := s.Client.Get(ctx, sessionKeyPrefix+sessionID+serverSlotsSuffix).Result(); err == nil {
		var slots []models.TimeSlot
		if err := json.Unmarshal([]byte(data), &slots); err == nil {
			session.ServerSlots = slots
		}
	}
	return &session, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, session *models.BookingSession, ttl time.Duration) error {
	// Server slots are stored under their own key; keep them out of the
	// session document.
	doc := *session
	doc.ServerSlots = nil
	data, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKeyPrefix+session.SessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) PutServerSlots(ctx context.Context, sessionID string, slots []models.TimeSlot, ttl time.Duration) error {
	key := sessionKeyPrefix + sessionID + serverSlotsSuffix
	if slots == nil {
		if err := s.Client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to clear server slots: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("failed to marshal server slots: %w", err)
	}
	if err := s.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store server slots: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.Client.Del(ctx, sessionKeyPrefix+sessionID, sessionKeyPrefix+sessionID+serverSlotsSuffix).Err(); err != nil {
		return fmt.Errorf("failed to delete booking session: %w", err)
	}
	return nil
}
