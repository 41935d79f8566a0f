package memory

import (
	"testing"
	"time"

	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/internal/repository/sessiontest"
)

func TestAgentSessionStore(t *testing.T) {
	sessiontest.Run(t, func(t *testing.T, ttl time.Duration) contract.AgentSessionStore {
		return NewAgentSessionStore(ttl)
	})
}
