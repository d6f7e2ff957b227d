// Package session persists per-conversation state in Redis: the rolling
// message history the model sees, and the remembered booking details
// (email, truck type) that let a later message complete a booking started
// earlier.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// historyWindow caps the number of turns replayed to the model.
const historyWindow = 20

// Turn is one message in a conversation, either side.
type Turn struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Memory is the booking-relevant state remembered across messages.
type Memory struct {
	Email     string `json:"email,omitempty"`
	TruckType string `json:"truck_type,omitempty"`
	Language  string `json:"language,omitempty"`
}

// Store reads and writes session state. All keys share one TTL so a
// conversation expires as a unit.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *Store {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if tracer == nil {
		tracer = otel.Tracer("truckbot.internal.session")
	}
	return &Store{redis: client, ttl: ttl, tracer: tracer}
}

// History returns the stored turns for a session. An unknown session is not
// an error: a fresh conversation simply has no history yet.
func (s *Store) History(ctx context.Context, sessionID string) ([]Turn, error) {
	ctx, span := s.tracer.Start(ctx, "session.load_history")
	defer span.End()

	data, err := s.redis.Get(ctx, historyKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load history: %w", err)
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to decode history: %w", err)
	}
	return turns, nil
}

// Append adds turns to the session history, trims to the window, and
// refreshes the TTL.
func (s *Store) Append(ctx context.Context, sessionID string, turns ...Turn) error {
	ctx, span := s.tracer.Start(ctx, "session.append_history")
	defer span.End()

	history, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, turns...)
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist history: %w", err)
	}
	return nil
}

// Memory returns the remembered booking state, zero-valued for unknown
// sessions.
func (s *Store) Memory(ctx context.Context, sessionID string) (Memory, error) {
	ctx, span := s.tracer.Start(ctx, "session.load_memory")
	defer span.End()

	data, err := s.redis.Get(ctx, memoryKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Memory{}, nil
		}
		span.RecordError(err)
		return Memory{}, fmt.Errorf("session: failed to load memory: %w", err)
	}

	var mem Memory
	if err := json.Unmarshal(data, &mem); err != nil {
		span.RecordError(err)
		return Memory{}, fmt.Errorf("session: failed to decode memory: %w", err)
	}
	return mem, nil
}

// SaveMemory persists the remembered booking state and refreshes the TTL.
func (s *Store) SaveMemory(ctx context.Context, sessionID string, mem Memory) error {
	ctx, span := s.tracer.Start(ctx, "session.save_memory")
	defer span.End()

	data, err := json.Marshal(mem)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal memory: %w", err)
	}
	if err := s.redis.Set(ctx, memoryKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist memory: %w", err)
	}
	return nil
}

// Clear drops all state for a session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "session.clear")
	defer span.End()

	if err := s.redis.Del(ctx, historyKey(sessionID), memoryKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to clear session: %w", err)
	}
	return nil
}

func historyKey(id string) string {
	return fmt.Sprintf("session:history:%s", id)
}

func memoryKey(id string) string {
	return fmt.Sprintf("session:memory:%s", id)
}
