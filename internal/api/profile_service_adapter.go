package api

import "github.com/perspecta/perspecta/internal/services"

type profileStoreAdapter struct {
	store Store
}

func newProfileStoreAdapter(store Store) services.ProfileStore {
	return &profileStoreAdapter{store: store}
}

func (a *profileStoreAdapter) GetQuestion(id string) (*services.Question, error) {
	return toServiceQuestion(a.store.GetQuestion(id)), nil
}

func (a *profileStoreAdapter) UpsertTestResponses(rs []*services.TestResponse) error {
	out := make([]*TestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, &TestResponse{
			UserID:      r.UserID,
			QuestionID:  r.QuestionID,
			OptionIndex: r.OptionIndex,
			Dimension:   r.Dimension,
			Weight:      r.Weight,
			SubmittedAt: r.SubmittedAt,
		})
	}
	a.store.UpsertTestResponses(out)
	return nil
}

func (a *profileStoreAdapter) ListTestResponses(userID string) ([]*services.TestResponse, error) {
	return toServiceResponses(a.store.ListTestResponses(userID)), nil
}

func (a *profileStoreAdapter) SaveCognitiveProfile(p *services.CognitiveProfile) error {
	if p == nil {
		return services.NewInvalidError("profile required")
	}
	a.store.SaveCognitiveProfile(&CognitiveProfile{
		UserID:             p.UserID,
		Form:               p.Scores.Form,
		Color:              p.Scores.Color,
		Volume:             p.Scores.Volume,
		Sound:              p.Scores.Sound,
		DominantCognition:  p.DominantCognition,
		ProfileCode:        p.ProfileCode,
		CommunicationStyle: p.CommunicationStyle,
		DetailLevel:        p.DetailLevel,
		LearningPreference: p.LearningPreference,
		ComputedAt:         p.ComputedAt,
	})
	return nil
}

func (a *profileStoreAdapter) GetCognitiveProfile(userID string) (*services.CognitiveProfile, error) {
	return toServiceProfile(a.store.GetCognitiveProfile(userID)), nil
}

func (a *profileStoreAdapter) ReplaceInsights(userID string, ins []*services.StoredInsight) error {
	out := make([]*StoredInsight, 0, len(ins))
	for _, in := range ins {
		out = append(out, &StoredInsight{
			ID:          in.ID,
			UserID:      in.UserID,
			Type:        in.Type,
			Title:       in.Title,
			Description: in.Description,
			Priority:    in.Priority,
		})
	}
	a.store.ReplaceInsights(userID, out)
	return nil
}

func (a *profileStoreAdapter) ListInsights(userID string) ([]*services.StoredInsight, error) {
	return toServiceInsights(a.store.ListInsights(userID)), nil
}

func (a *profileStoreAdapter) GetRiasecResult(userID string) (*services.RiasecResult, error) {
	return toServiceRiasec(a.store.GetRiasecResult(userID)), nil
}

func (a *profileStoreAdapter) ListBehavioralMetrics(userID string) ([]*services.BehavioralMetrics, error) {
	return toServiceBehavioral(a.store.ListBehavioralMetrics(userID)), nil
}

func (a *profileStoreAdapter) AddAudit(entry services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: entry.Time, Actor: entry.Actor, Action: entry.Action, Target: entry.Target, Note: entry.Note})
}

var _ services.ProfileStore = (*profileStoreAdapter)(nil)

// Conversion helpers shared across the store adapters.

func toServiceQuestion(q *Question) *services.Question {
	if q == nil {
		return nil
	}
	opts := make([]services.QuestionOption, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, services.QuestionOption{LabelI18n: o.LabelI18n, Dimension: o.Dimension, Weight: o.Weight})
	}
	return &services.Question{
		ID:              q.ID,
		QuestionnaireID: q.QuestionnaireID,
		Order:           q.Order,
		StemI18n:        q.StemI18n,
		Options:         opts,
		Category:        q.Category,
	}
}

func toServiceResponses(rs []*TestResponse) []*services.TestResponse {
	out := make([]*services.TestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, &services.TestResponse{
			UserID:      r.UserID,
			QuestionID:  r.QuestionID,
			OptionIndex: r.OptionIndex,
			Dimension:   r.Dimension,
			Weight:      r.Weight,
			SubmittedAt: r.SubmittedAt,
		})
	}
	return out
}

func toServiceProfile(p *CognitiveProfile) *services.CognitiveProfile {
	if p == nil {
		return nil
	}
	return &services.CognitiveProfile{
		UserID:             p.UserID,
		Scores:             services.DimensionScores{Form: p.Form, Color: p.Color, Volume: p.Volume, Sound: p.Sound},
		DominantCognition:  p.DominantCognition,
		ProfileCode:        p.ProfileCode,
		CommunicationStyle: p.CommunicationStyle,
		DetailLevel:        p.DetailLevel,
		LearningPreference: p.LearningPreference,
		ComputedAt:         p.ComputedAt,
	}
}

func toServiceInsights(ins []*StoredInsight) []*services.StoredInsight {
	out := make([]*services.StoredInsight, 0, len(ins))
	for _, in := range ins {
		out = append(out, &services.StoredInsight{
			ID:     in.ID,
			UserID: in.UserID,
			Insight: services.Insight{
				Type:        in.Type,
				Title:       in.Title,
				Description: in.Description,
				Priority:    in.Priority,
			},
		})
	}
	return out
}

func toServiceRiasec(r *RiasecResult) *services.RiasecResult {
	if r == nil {
		return nil
	}
	return &services.RiasecResult{
		UserID:     r.UserID,
		Scores:     services.RiasecScores(r.Scores),
		TopCode:    r.TopCode,
		ComputedAt: r.ComputedAt,
	}
}

func toServiceBehavioral(ms []*BehavioralMetrics) []*services.BehavioralMetrics {
	out := make([]*services.BehavioralMetrics, 0, len(ms))
	for _, m := range ms {
		out = append(out, &services.BehavioralMetrics{
			SessionID:   m.SessionID,
			UserID:      m.UserID,
			TestKind:    m.TestKind,
			Summary:     m.Summary,
			CompletedAt: m.CompletedAt,
		})
	}
	return out
}

func toServiceCertificates(cs []*Certificate) []*services.Certificate {
	out := make([]*services.Certificate, 0, len(cs))
	for _, c := range cs {
		out = append(out, &services.Certificate{
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
	}
	return out
}
