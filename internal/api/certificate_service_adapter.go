package api

import "github.com/perspecta/perspecta/internal/services"

type certificateStoreAdapter struct {
	store Store
}

func newCertificateStoreAdapter(store Store) services.CertificateStore {
	return &certificateStoreAdapter{store: store}
}

func (a *certificateStoreAdapter) SaveCertificate(c *services.Certificate) error {
	if c == nil {
		return services.NewInvalidError("certificate required")
	}
	a.store.SaveCertificate(&Certificate{
		ID:          c.ID,
		UserID:      c.UserID,
		SessionID:   c.SessionID,
		Scores:      c.Scores,
		PrimaryRole: c.PrimaryRole,
		Level:       c.Level,
		IssuedAt:    c.IssuedAt,
		ValidUntil:  c.ValidUntil,
		Hash:        c.Hash,
	})
	return nil
}

func (a *certificateStoreAdapter) ListCertificates(userID string) ([]*services.Certificate, error) {
	return toServiceCertificates(a.store.ListCertificates(userID)), nil
}

func (a *certificateStoreAdapter) AddAudit(entry services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: entry.Time, Actor: entry.Actor, Action: entry.Action, Target: entry.Target, Note: entry.Note})
}

var _ services.CertificateStore = (*certificateStoreAdapter)(nil)
