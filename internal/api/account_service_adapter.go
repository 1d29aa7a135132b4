package api

import "github.com/perspecta/perspecta/internal/services"

type accountStoreAdapter struct {
	store Store
}

func newAccountStoreAdapter(store Store) services.AccountStore {
	return &accountStoreAdapter{store: store}
}

func (a *accountStoreAdapter) GetUserByID(id string) (*services.User, error) {
	u := a.store.GetUserByID(id)
	if u == nil {
		return nil, nil
	}
	return &services.User{ID: u.ID, Email: u.Email, PassHash: u.PassHash, CreatedAt: u.CreatedAt}, nil
}

func (a *accountStoreAdapter) ListTestResponses(userID string) ([]*services.TestResponse, error) {
	return toServiceResponses(a.store.ListTestResponses(userID)), nil
}

func (a *accountStoreAdapter) GetCognitiveProfile(userID string) (*services.CognitiveProfile, error) {
	return toServiceProfile(a.store.GetCognitiveProfile(userID)), nil
}

func (a *accountStoreAdapter) GetRiasecResult(userID string) (*services.RiasecResult, error) {
	return toServiceRiasec(a.store.GetRiasecResult(userID)), nil
}

func (a *accountStoreAdapter) ListBehavioralMetrics(userID string) ([]*services.BehavioralMetrics, error) {
	return toServiceBehavioral(a.store.ListBehavioralMetrics(userID)), nil
}

func (a *accountStoreAdapter) ListInsights(userID string) ([]*services.StoredInsight, error) {
	return toServiceInsights(a.store.ListInsights(userID)), nil
}

func (a *accountStoreAdapter) ListCertificates(userID string) ([]*services.Certificate, error) {
	return toServiceCertificates(a.store.ListCertificates(userID)), nil
}

func (a *accountStoreAdapter) DeleteUserData(userID string) (bool, error) {
	return a.store.DeleteUserData(userID), nil
}

func (a *accountStoreAdapter) AddAudit(entry services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: entry.Time, Actor: entry.Actor, Action: entry.Action, Target: entry.Target, Note: entry.Note})
}

var _ services.AccountStore = (*accountStoreAdapter)(nil)
