package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/pkg/agent/state"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ops-agent:session"

type record struct {
	Id        uuid.UUID          `json:"id"`
	TenantId  uuid.UUID          `json:"tenant_id"`
	UserId    uuid.UUID          `json:"user_id"`
	State     state.SessionState `json:"state"`
	UIContext state.UIContext    `json:"ui_context"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// AgentSessionStore keeps one JSON record per (tenant, user) with a TTL,
// plus an id -> owner key so Update can find it by session id.
type AgentSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

var _ contract.AgentSessionStore = (*AgentSessionStore)(nil)

func NewAgentSessionStore(rdb *redis.Client, ttl time.Duration) *AgentSessionStore {
	return &AgentSessionStore{
		rdb: rdb,
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func ownerKey(tenantId, userId uuid.UUID) string {
	return fmt.Sprintf("%s:owner:%s:%s", keyPrefix, tenantId, userId)
}

func idKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:id:%s", keyPrefix, id)
}

func (s *AgentSessionStore) GetOrCreate(ctx context.Context, tenantId, userId uuid.UUID, ui state.UIContext) (*state.Session, error) {
	now := s.now()
	key := ownerKey(tenantId, userId)

	rec, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &record{
			Id:        uuid.New(),
			TenantId:  tenantId,
			UserId:    userId,
			CreatedAt: now,
		}
	}
	rec.UIContext = ui
	rec.ExpiresAt = now.Add(s.ttl)

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, s.ttl)
		pipe.Set(ctx, idKey(rec.Id), key, s.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return rec.toSession(), nil
}

func (s *AgentSessionStore) Update(ctx context.Context, sessionId uuid.UUID, patch state.Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	key, err := s.rdb.Get(ctx, idKey(sessionId)).Result()
	if errors.Is(err, redis.Nil) {
		return contract.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("resolve session id: %w", err)
	}

	rec, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	if rec == nil || rec.Id != sessionId {
		return contract.ErrSessionNotFound
	}
	rec.State = patch.Apply(rec.State)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, key, data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *AgentSessionStore) load(ctx context.Context, key string) (*record, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &rec, nil
}

func (r *record) toSession() *state.Session {
	return &state.Session{
		Id:        r.Id,
		TenantId:  r.TenantId,
		UserId:    r.UserId,
		State:     r.State,
		UIContext: r.UIContext,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}
