package service

import (
	"sync"

	"github.com/dostonbek/testplatform/internal/flow"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FlowCookieName keys a client to its flow across requests.
const FlowCookieName = "quiz_flow_id"

// FlowManager is the registry of per-client flows. A new flow is seeded with
// the persisted current user, the way the original app reads its session
// marker on startup.
type FlowManager struct {
	mu    sync.Mutex
	flows map[string]*flow.Flow
	store ResultStoreService
}

func NewFlowManager(store ResultStoreService) *FlowManager {
	return &FlowManager{flows: make(map[string]*flow.Flow), store: store}
}

// Resolve returns the flow for id, creating a fresh one when the id is empty
// or unknown. Callers compare f.ID() with the id they sent to know whether to
// reissue the cookie.
func (m *FlowManager) Resolve(id string) *flow.Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != "" {
		if f, ok := m.flows[id]; ok {
			return f
		}
	}

	user, err := m.store.CurrentUser()
	if err != nil {
		log.Warn().Err(err).Msg("Could not read persisted session user")
	}
	f := flow.New(uuid.NewString(), user)
	m.flows[f.ID()] = f
	return f
}
