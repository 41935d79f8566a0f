package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/pkg/agent/state"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// AgentSessionStore keeps sessions in process memory. Entries expire on
// their own through go-cache; nothing survives a restart.
type AgentSessionStore struct {
	cache *cache.Cache
	ttl   time.Duration
	now   func() time.Time
	// guards the owner->id index against interleaved GetOrCreate calls
	mu sync.Mutex
}

var _ contract.AgentSessionStore = (*AgentSessionStore)(nil)

func NewAgentSessionStore(ttl time.Duration) *AgentSessionStore {
	// purge expired entries every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &AgentSessionStore{
		cache: c,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func ownerKey(tenantId, userId uuid.UUID) string {
	return "owner:" + tenantId.String() + ":" + userId.String()
}

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func (r *AgentSessionStore) GetOrCreate(_ context.Context, tenantId, userId uuid.UUID, ui state.UIContext) (*state.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if x, found := r.cache.Get(ownerKey(tenantId, userId)); found {
		id := x.(uuid.UUID)
		if y, ok := r.cache.Get(sessionKey(id)); ok {
			session := *y.(*state.Session)
			session.UIContext = ui
			session.ExpiresAt = now.Add(r.ttl)
			r.save(&session)
			out := session
			return &out, nil
		}
	}

	session := &state.Session{
		Id:        uuid.New(),
		TenantId:  tenantId,
		UserId:    userId,
		UIContext: ui,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}
	r.save(session)
	out := *session
	return &out, nil
}

func (r *AgentSessionStore) Update(_ context.Context, sessionId uuid.UUID, patch state.Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionKey(sessionId))
	if !found {
		return contract.ErrSessionNotFound
	}
	session := *x.(*state.Session)
	session.State = patch.Apply(session.State)

	remaining := session.ExpiresAt.Sub(r.now())
	if remaining <= 0 {
		return fmt.Errorf("%w: expired", contract.ErrSessionNotFound)
	}
	r.cache.Set(sessionKey(session.Id), &session, remaining)
	return nil
}

func (r *AgentSessionStore) save(session *state.Session) {
	r.cache.Set(sessionKey(session.Id), session, r.ttl)
	r.cache.Set(ownerKey(session.TenantId, session.UserId), session.Id, r.ttl)
}
