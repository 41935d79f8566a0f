// Package sessiontest is the behaviour every AgentSessionStore shares,
// run against each implementation from its own package tests.
package sessiontest

import (
	"context"
	"testing"
	"time"

	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/pkg/agent/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewStore builds a fresh, empty store whose sessions live for ttl.
type NewStore func(t *testing.T, ttl time.Duration) contract.AgentSessionStore

func Run(t *testing.T, newStore NewStore) {
	t.Run("same owner gets the same session", func(t *testing.T) {
		store := newStore(t, time.Hour)
		ctx := context.Background()
		tenant, user := uuid.New(), uuid.New()

		first, err := store.GetOrCreate(ctx, tenant, user, state.UIContext{CurrentRoute: "/items"})
		require.NoError(t, err)
		second, err := store.GetOrCreate(ctx, tenant, user, state.UIContext{CurrentRoute: "/shipments"})
		require.NoError(t, err)

		assert.Equal(t, first.Id, second.Id)
		assert.Equal(t, "/shipments", second.UIContext.CurrentRoute)
		assert.Equal(t, tenant, second.TenantId)
		assert.Equal(t, user, second.UserId)
		assert.False(t, second.ExpiresAt.Before(first.ExpiresAt), "expiry slides forward")
	})

	t.Run("owners are isolated", func(t *testing.T) {
		store := newStore(t, time.Hour)
		ctx := context.Background()
		tenant := uuid.New()

		a, err := store.GetOrCreate(ctx, tenant, uuid.New(), state.UIContext{})
		require.NoError(t, err)
		b, err := store.GetOrCreate(ctx, tenant, uuid.New(), state.UIContext{})
		require.NoError(t, err)
		c, err := store.GetOrCreate(ctx, uuid.New(), a.UserId, state.UIContext{})
		require.NoError(t, err)

		assert.NotEqual(t, a.Id, b.Id)
		assert.NotEqual(t, a.Id, c.Id)
	})

	t.Run("update persists only the patched fields", func(t *testing.T) {
		store := newStore(t, time.Hour)
		ctx := context.Background()
		tenant, user := uuid.New(), uuid.New()

		s, err := store.GetOrCreate(ctx, tenant, user, state.UIContext{})
		require.NoError(t, err)
		assert.Nil(t, s.State.PendingDisambiguation)
		assert.Nil(t, s.State.PendingDraft)

		dis := state.NewDisambiguation(state.TypeItems, "4567", "move", []state.Candidate{
			{Id: uuid.New(), Label: "ITM-24567"},
			{Id: uuid.New(), Label: "ITM-34567"},
		})
		draft, err := state.NewDraft(state.DraftDisposal, "dispose 1", map[string]string{"reason": "damaged"}, time.Now().UTC())
		require.NoError(t, err)

		require.NoError(t, store.Update(ctx, s.Id, state.SetDisambiguation(dis).Merge(state.SetDraft(draft))))
		require.NoError(t, store.Update(ctx, s.Id, state.ClearDisambiguation()))

		loaded, err := store.GetOrCreate(ctx, tenant, user, state.UIContext{})
		require.NoError(t, err)
		assert.Equal(t, s.Id, loaded.Id)
		assert.Nil(t, loaded.State.PendingDisambiguation)
		require.NotNil(t, loaded.State.PendingDraft)
		assert.Equal(t, state.DraftDisposal, loaded.State.PendingDraft.Type)
		assert.JSONEq(t, `{"reason":"damaged"}`, string(loaded.State.PendingDraft.Data))
	})

	t.Run("unknown session", func(t *testing.T) {
		store := newStore(t, time.Hour)
		ctx := context.Background()

		assert.NoError(t, store.Update(ctx, uuid.New(), state.Patch{}), "empty patch is a no-op")
		err := store.Update(ctx, uuid.New(), state.ClearDraft())
		assert.ErrorIs(t, err, contract.ErrSessionNotFound)
	})

	t.Run("expired session is replaced", func(t *testing.T) {
		store := newStore(t, 300*time.Millisecond)
		ctx := context.Background()
		tenant, user := uuid.New(), uuid.New()

		first, err := store.GetOrCreate(ctx, tenant, user, state.UIContext{})
		require.NoError(t, err)
		require.NoError(t, store.Update(ctx, first.Id, state.SetDraft(&state.PendingDraft{Type: state.DraftBulkMove, Data: []byte(`{}`)})))

		time.Sleep(450 * time.Millisecond)

		second, err := store.GetOrCreate(ctx, tenant, user, state.UIContext{})
		require.NoError(t, err)
		assert.NotEqual(t, first.Id, second.Id)
		assert.Nil(t, second.State.PendingDraft)
	})
}
