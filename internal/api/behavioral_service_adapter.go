package api

import "github.com/perspecta/perspecta/internal/services"

type behavioralStoreAdapter struct {
	store Store
}

func newBehavioralStoreAdapter(store Store) services.BehavioralStore {
	return &behavioralStoreAdapter{store: store}
}

func (a *behavioralStoreAdapter) SaveBehavioralMetrics(m *services.BehavioralMetrics) error {
	if m == nil {
		return services.NewInvalidError("metrics required")
	}
	a.store.SaveBehavioralMetrics(&BehavioralMetrics{
		SessionID:   m.SessionID,
		UserID:      m.UserID,
		TestKind:    m.TestKind,
		Summary:     m.Summary,
		CompletedAt: m.CompletedAt,
	})
	return nil
}

func (a *behavioralStoreAdapter) ListBehavioralMetrics(userID string) ([]*services.BehavioralMetrics, error) {
	return toServiceBehavioral(a.store.ListBehavioralMetrics(userID)), nil
}

var _ services.BehavioralStore = (*behavioralStoreAdapter)(nil)
