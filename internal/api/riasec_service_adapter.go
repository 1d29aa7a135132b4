package api

import "github.com/perspecta/perspecta/internal/services"

type riasecStoreAdapter struct {
	store Store
}

func newRiasecStoreAdapter(store Store) services.RiasecStore {
	return &riasecStoreAdapter{store: store}
}

func (a *riasecStoreAdapter) SaveRiasecResult(r *services.RiasecResult) error {
	if r == nil {
		return services.NewInvalidError("result required")
	}
	a.store.SaveRiasecResult(&RiasecResult{
		UserID:     r.UserID,
		Scores:     r.Scores,
		TopCode:    r.TopCode,
		ComputedAt: r.ComputedAt,
	})
	return nil
}

func (a *riasecStoreAdapter) GetRiasecResult(userID string) (*services.RiasecResult, error) {
	return toServiceRiasec(a.store.GetRiasecResult(userID)), nil
}

var _ services.RiasecStore = (*riasecStoreAdapter)(nil)
