package services

import "time"

// AccountStore abstracts persistence operations required by AccountDataService.
type AccountStore interface {
	GetUserByID(id string) (*User, error)
	ListTestResponses(userID string) ([]*TestResponse, error)
	GetCognitiveProfile(userID string) (*CognitiveProfile, error)
	GetRiasecResult(userID string) (*RiasecResult, error)
	ListBehavioralMetrics(userID string) ([]*BehavioralMetrics, error)
	ListInsights(userID string) ([]*StoredInsight, error)
	ListCertificates(userID string) ([]*Certificate, error)
	// DeleteUserData removes the user and every owned entity in one operation.
	DeleteUserData(userID string) (bool, error)
	AddAudit(entry AuditEntry)
}

// AccountDataService implements the data-subject rights surface: full export
// and account erasure.
type AccountDataService struct {
	store AccountStore
	now   func() time.Time
}

func NewAccountDataService(store AccountStore) *AccountDataService {
	return &AccountDataService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// AccountExport bundles everything the platform stores about one user.
type AccountExport struct {
	User         map[string]any       `json:"user"`
	Responses    []*TestResponse      `json:"responses"`
	Profile      *CognitiveProfile    `json:"profile,omitempty"`
	Riasec       *RiasecResult        `json:"riasec,omitempty"`
	Behavioral   []*BehavioralMetrics `json:"behavioral"`
	Insights     []*StoredInsight     `json:"insights"`
	Certificates []*Certificate       `json:"certificates"`
}

// ExportAccount collects all data owned by the user.
func (s *AccountDataService) ExportAccount(userID string) (*AccountExport, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("user required")
	}
	u, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewNotFoundError("account not found")
	}
	rs, err := s.store.ListTestResponses(userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.GetCognitiveProfile(userID)
	if err != nil {
		return nil, err
	}
	riasec, err := s.store.GetRiasecResult(userID)
	if err != nil {
		return nil, err
	}
	behavioral, err := s.store.ListBehavioralMetrics(userID)
	if err != nil {
		return nil, err
	}
	insights, err := s.store.ListInsights(userID)
	if err != nil {
		return nil, err
	}
	certs, err := s.store.ListCertificates(userID)
	if err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: userID, Action: "account.export", Target: userID})
	return &AccountExport{
		User:         map[string]any{"id": u.ID, "email": u.Email, "created_at": u.CreatedAt},
		Responses:    rs,
		Profile:      profile,
		Riasec:       riasec,
		Behavioral:   behavioral,
		Insights:     insights,
		Certificates: certs,
	}, nil
}

// DeleteAccount erases the user and all owned entities.
func (s *AccountDataService) DeleteAccount(userID string) error {
	if userID == "" {
		return NewUnauthorizedError("user required")
	}
	ok, err := s.store.DeleteUserData(userID)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("account not found")
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: userID, Action: "account.delete", Target: userID})
	return nil
}
