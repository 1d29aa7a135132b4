package services

import (
	"time"

	"github.com/google/uuid"
)

// TestResponse is one answered cognitive question as persisted. Unique on
// (user, question); resubmission overwrites.
type TestResponse struct {
	UserID      string
	QuestionID  string
	OptionIndex int
	Dimension   string
	Weight      int
	SubmittedAt time.Time
}

// CognitiveProfile is the persisted profile. One per user, replaced on retest.
type CognitiveProfile struct {
	UserID             string
	Scores             DimensionScores
	DominantCognition  string
	ProfileCode        string
	CommunicationStyle string
	DetailLevel        string
	LearningPreference string
	ComputedAt         time.Time
}

// StoredInsight is an Insight with persistence identity.
type StoredInsight struct {
	ID     string
	UserID string
	Insight
}

// ProfileStore abstracts persistence operations required by ProfileService.
type ProfileStore interface {
	GetQuestion(id string) (*Question, error)
	UpsertTestResponses(rs []*TestResponse) error
	ListTestResponses(userID string) ([]*TestResponse, error)
	SaveCognitiveProfile(p *CognitiveProfile) error
	GetCognitiveProfile(userID string) (*CognitiveProfile, error)
	// ReplaceInsights atomically swaps the user's full insight set; a partial
	// delete-then-create is never observable.
	ReplaceInsights(userID string, ins []*StoredInsight) error
	ListInsights(userID string) ([]*StoredInsight, error)
	GetRiasecResult(userID string) (*RiasecResult, error)
	ListBehavioralMetrics(userID string) ([]*BehavioralMetrics, error)
	AddAudit(e AuditEntry)
}

// AnswerInput is one inbound questionnaire answer.
type AnswerInput struct {
	QuestionID  string `json:"question_id"`
	OptionIndex int    `json:"option_index"`
}

// ProfileService runs the cognitive pipeline: responses -> aggregation ->
// classification -> insights.
type ProfileService struct {
	store ProfileStore
	now   func() time.Time
	idGen func() string
}

func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

// SubmitResponses resolves each answer against the question catalog and
// upserts it. Unknown questions or out-of-range option indexes reject the
// whole batch; nothing is partially stored.
func (s *ProfileService) SubmitResponses(userID string, answers []AnswerInput) (int, error) {
	if userID == "" {
		return 0, NewUnauthorizedError("user required")
	}
	if len(answers) == 0 {
		return 0, NewInvalidError("answers required")
	}
	submittedAt := s.now()
	rs := make([]*TestResponse, 0, len(answers))
	for _, a := range answers {
		q, err := s.store.GetQuestion(a.QuestionID)
		if err != nil {
			return 0, err
		}
		if q == nil {
			return 0, NewNotFoundError("question " + a.QuestionID + " not found")
		}
		if a.OptionIndex < 0 || a.OptionIndex >= len(q.Options) {
			return 0, NewInvalidError("option index out of range for " + a.QuestionID)
		}
		opt := q.Options[a.OptionIndex]
		rs = append(rs, &TestResponse{
			UserID:      userID,
			QuestionID:  a.QuestionID,
			OptionIndex: a.OptionIndex,
			Dimension:   opt.Dimension,
			Weight:      opt.Weight,
			SubmittedAt: submittedAt,
		})
	}
	if err := s.store.UpsertTestResponses(rs); err != nil {
		return 0, err
	}
	return len(rs), nil
}

// Compute aggregates the stored responses into a profile, classifies it, and
// regenerates the insight set. The previous profile and all previous insights
// are fully replaced.
func (s *ProfileService) Compute(userID string) (*CognitiveProfile, []*StoredInsight, error) {
	if userID == "" {
		return nil, nil, NewUnauthorizedError("user required")
	}
	responses, err := s.store.ListTestResponses(userID)
	if err != nil {
		return nil, nil, err
	}
	if len(responses) == 0 {
		return nil, nil, NewInvalidError("no responses submitted")
	}
	answers := make([]WeightedAnswer, 0, len(responses))
	for _, r := range responses {
		answers = append(answers, WeightedAnswer{Dimension: r.Dimension, Weight: r.Weight})
	}
	scores, err := AggregateDimensions(answers)
	if err != nil {
		return nil, nil, err
	}
	cls, err := Classify(scores)
	if err != nil {
		return nil, nil, err
	}

	rr, err := s.store.GetRiasecResult(userID)
	if err != nil {
		return nil, nil, err
	}
	riasecTop := ""
	if rr != nil {
		riasecTop = rr.TopCode
	}
	ms, err := s.store.ListBehavioralMetrics(userID)
	if err != nil {
		return nil, nil, err
	}
	behavioralDone := len(ms) > 0

	insights, err := GenerateInsights(InsightInput{
		Dominant:            cls.Dominant,
		ProfileCode:         cls.ProfileCode,
		BehavioralCompleted: behavioralDone,
		RiasecTopCode:       riasecTop,
	})
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	profile := &CognitiveProfile{
		UserID:             userID,
		Scores:             scores,
		DominantCognition:  cls.Dominant,
		ProfileCode:        cls.ProfileCode,
		CommunicationStyle: cls.Traits.CommunicationStyle,
		DetailLevel:        cls.Traits.DetailLevel,
		LearningPreference: cls.Traits.LearningPreference,
		ComputedAt:         now,
	}
	if err := s.store.SaveCognitiveProfile(profile); err != nil {
		return nil, nil, err
	}
	stored := make([]*StoredInsight, 0, len(insights))
	for _, in := range insights {
		stored = append(stored, &StoredInsight{ID: s.idGen(), UserID: userID, Insight: in})
	}
	if err := s.store.ReplaceInsights(userID, stored); err != nil {
		return nil, nil, err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: userID, Action: "profile.compute", Target: cls.ProfileCode})
	return profile, stored, nil
}

// DimensionView is the external representation of one dimension: band and
// label only, never the raw score.
type DimensionView struct {
	Band  int    `json:"band"`
	Label string `json:"label"`
}

// ProfileView is the external profile representation.
type ProfileView struct {
	DominantCognition  string                   `json:"dominant_cognition"`
	ProfileCode        string                   `json:"profile_code"`
	CommunicationStyle string                   `json:"communication_style"`
	DetailLevel        string                   `json:"detail_level"`
	LearningPreference string                   `json:"learning_preference"`
	Dimensions         map[string]DimensionView `json:"dimensions"`
	ComputedAt         time.Time                `json:"computed_at"`
}

// View returns the banded external view of the stored profile.
func (s *ProfileService) View(userID string) (*ProfileView, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("user required")
	}
	p, err := s.store.GetCognitiveProfile(userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("profile not found")
	}
	dims := map[string]DimensionView{}
	for name, score := range p.Scores.byName() {
		b := Band(score)
		dims[name] = DimensionView{Band: b, Label: BandLabel(b)}
	}
	return &ProfileView{
		DominantCognition:  p.DominantCognition,
		ProfileCode:        p.ProfileCode,
		CommunicationStyle: p.CommunicationStyle,
		DetailLevel:        p.DetailLevel,
		LearningPreference: p.LearningPreference,
		Dimensions:         dims,
		ComputedAt:         p.ComputedAt,
	}, nil
}

// Insights returns the stored insight set.
func (s *ProfileService) Insights(userID string) ([]*StoredInsight, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("user required")
	}
	return s.store.ListInsights(userID)
}
