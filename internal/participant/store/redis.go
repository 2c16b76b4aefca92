package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/redis/go-redis/v9"

	"golfbot/internal/participant/models"
	"golfbot/internal/sentinel"
	id "golfbot/pkg/domain"
)

const (
	keyPrefix        = "participant:"
	indexKey         = "participants:index"
	sequenceKey      = "participants:seq"
	maxUpdateRetries = 10
)

// RedisStore keeps each participant as a JSON string under participant:<id>
// and tracks insertion order in a sorted set scored by a creation counter.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed participant store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func participantKey(participantID id.ParticipantID) string {
	return keyPrefix + participantID.String()
}

// Create assigns a fresh ID to p and writes the document and index entry atomically.
func (s *RedisStore) Create(ctx context.Context, p *models.Participant) error {
	if p == nil {
		return fmt.Errorf("participant is required")
	}
	doc, err := encodeDocument(p)
	if err != nil {
		return err
	}
	seq, err := s.client.Incr(ctx, sequenceKey).Result()
	if err != nil {
		return classifyRedis("create participant: next sequence", err)
	}
	participantID := id.NewParticipantID()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, participantKey(participantID), doc, 0)
		pipe.ZAdd(ctx, indexKey, redis.Z{
			Score:  float64(seq),
			Member: participantID.String(),
		})
		return nil
	})
	if err != nil {
		return classifyRedis("create participant", err)
	}
	p.ID = participantID
	return nil
}

// FindAll returns every participant in insertion order. Index entries whose
// document vanished between the two reads are skipped.
func (s *RedisStore) FindAll(ctx context.Context) ([]*models.Participant, error) {
	members, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, classifyRedis("list participant index", err)
	}
	participants := make([]*models.Participant, 0, len(members))
	if len(members) == 0 {
		return participants, nil
	}

	ids := make([]id.ParticipantID, 0, len(members))
	keys := make([]string, 0, len(members))
	for _, member := range members {
		participantID, err := id.ParseParticipantID(member)
		if err != nil {
			return nil, fmt.Errorf("participant index member %q is not a participant ID", member)
		}
		ids = append(ids, participantID)
		keys = append(keys, participantKey(participantID))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, classifyRedis("load participants", err)
	}
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		p, err := decodeDocument(ids[i], []byte(raw))
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// FindByID retrieves a participant by its ID.
func (s *RedisStore) FindByID(ctx context.Context, participantID id.ParticipantID) (*models.Participant, error) {
	data, err := s.client.Get(ctx, participantKey(participantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, classifyRedis("find participant by id", err)
	}
	return decodeDocument(participantID, data)
}

// UpdateByID merges patch into the stored document under optimistic locking.
// A concurrent writer causes a retry rather than a lost update.
func (s *RedisStore) UpdateByID(ctx context.Context, participantID id.ParticipantID, patch models.Patch) (*models.Participant, error) {
	key := participantKey(participantID)

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		var updated *models.Participant
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return sentinel.ErrNotFound
				}
				return err
			}
			p, err := decodeDocument(participantID, data)
			if err != nil {
				return err
			}
			patch.Apply(p)
			doc, err := encodeDocument(p)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, doc, redis.KeepTTL)
				return nil
			})
			if err != nil {
				return err
			}
			updated = p
			return nil
		}, key)

		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, sentinel.ErrNotFound
		default:
			return nil, classifyRedis("update participant", err)
		}
	}
	return nil, fmt.Errorf("update participant %s: %w after %d attempts", participantID, sentinel.ErrConflict, maxUpdateRetries)
}

// DeleteByID removes the document and its index entry. Deleting an absent ID is not an error.
func (s *RedisStore) DeleteByID(ctx context.Context, participantID id.ParticipantID) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, participantKey(participantID))
		pipe.ZRem(ctx, indexKey, participantID.String())
		return nil
	})
	if err != nil {
		return classifyRedis("delete participant", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return classifyRedis("ping redis", err)
	}
	return nil
}

// classifyRedis marks network and closed-client failures as unavailable.
func classifyRedis(op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
