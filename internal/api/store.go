package api

import (
	"sort"
	"strings"
	"sync"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Questionnaire struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Version int    `json:"version"`
}

type QuestionOption struct {
	LabelI18n map[string]string `json:"label_i18n"`
	Dimension string            `json:"dimension,omitempty"`
	Weight    int               `json:"weight,omitempty"`
}

type Question struct {
	ID              string            `json:"id"`
	QuestionnaireID string            `json:"questionnaire_id"`
	Order           int               `json:"order"`
	StemI18n        map[string]string `json:"stem_i18n"`
	Options         []QuestionOption  `json:"options,omitempty"`
	Category        string            `json:"category,omitempty"`
}

type TestResponse struct {
	UserID      string    `json:"user_id"`
	QuestionID  string    `json:"question_id"`
	OptionIndex int       `json:"option_index"`
	Dimension   string    `json:"dimension"`
	Weight      int       `json:"weight"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type BehavioralMetrics struct {
	SessionID   string             `json:"session_id"`
	UserID      string             `json:"user_id"`
	TestKind    string             `json:"test_kind"`
	Summary     map[string]float64 `json:"summary"`
	CompletedAt time.Time          `json:"completed_at"`
}

type CognitiveProfile struct {
	UserID             string    `json:"user_id"`
	Form               float64   `json:"form"`
	Color              float64   `json:"color"`
	Volume             float64   `json:"volume"`
	Sound              float64   `json:"sound"`
	DominantCognition  string    `json:"dominant_cognition"`
	ProfileCode        string    `json:"profile_code"`
	CommunicationStyle string    `json:"communication_style"`
	DetailLevel        string    `json:"detail_level"`
	LearningPreference string    `json:"learning_preference"`
	ComputedAt         time.Time `json:"computed_at"`
}

type StoredInsight struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

type RiasecResult struct {
	UserID     string             `json:"user_id"`
	Scores     map[string]float64 `json:"scores"`
	TopCode    string             `json:"top_code"`
	ComputedAt time.Time          `json:"computed_at"`
}

type Certificate struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	SessionID   string             `json:"session_id"`
	Scores      map[string]float64 `json:"scores"`
	PrimaryRole string             `json:"primary_role"`
	Level       string             `json:"level"`
	IssuedAt    time.Time          `json:"issued_at"`
	ValidUntil  time.Time          `json:"valid_until"`
	Hash        string             `json:"hash"`
}

type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

type memoryStore struct {
	mu             sync.RWMutex
	usersByEmail   map[string]*User
	usersByID      map[string]*User
	questionnaires map[string]*Questionnaire // by kind
	questions      map[string]*Question
	questionsByQn  map[string][]*Question
	responses      map[string]*TestResponse // keyed user|question
	behavioral     []*BehavioralMetrics
	profiles       map[string]*CognitiveProfile
	insights       map[string][]*StoredInsight
	riasec         map[string]*RiasecResult
	certificates   map[string][]*Certificate
	audit          []AuditEntry
}

// NewMemoryStore returns an empty in-memory store, used when no database path
// is configured and by the integration tests.
func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{
		usersByEmail:   map[string]*User{},
		usersByID:      map[string]*User{},
		questionnaires: map[string]*Questionnaire{},
		questions:      map[string]*Question{},
		questionsByQn:  map[string][]*Question{},
		responses:      map[string]*TestResponse{},
		profiles:       map[string]*CognitiveProfile{},
		insights:       map[string][]*StoredInsight{},
		riasec:         map[string]*RiasecResult{},
		certificates:   map[string][]*Certificate{},
	}
}

func (s *memoryStore) AddUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByEmail[strings.ToLower(u.Email)] = u
	s.usersByID[u.ID] = u
}

func (s *memoryStore) FindUserByEmail(email string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersByEmail[strings.ToLower(email)]
}

func (s *memoryStore) GetUserByID(id string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersByID[id]
}

func (s *memoryStore) AddQuestionnaire(q *Questionnaire) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questionnaires[q.Kind] = q
}

func (s *memoryStore) GetQuestionnaireByKind(kind string) *Questionnaire {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questionnaires[kind]
}

func (s *memoryStore) AddQuestion(q *Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	byQn := append(s.questionsByQn[q.QuestionnaireID], q)
	sort.Slice(byQn, func(i, j int) bool { return byQn[i].Order < byQn[j].Order })
	s.questionsByQn[q.QuestionnaireID] = byQn
}

func (s *memoryStore) GetQuestion(id string) *Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questions[id]
}

func (s *memoryStore) ListQuestions(questionnaireID string) []*Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Question(nil), s.questionsByQn[questionnaireID]...)
}

func (s *memoryStore) UpsertTestResponses(rs []*TestResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		s.responses[r.UserID+"|"+r.QuestionID] = r
	}
}

func (s *memoryStore) ListTestResponses(userID string) []*TestResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*TestResponse{}
	for _, r := range s.responses {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

func (s *memoryStore) ListTestResponsesByQuestionnaire(questionnaireID string) []*TestResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member := map[string]bool{}
	for _, q := range s.questionsByQn[questionnaireID] {
		member[q.ID] = true
	}
	out := []*TestResponse{}
	for _, r := range s.responses {
		if member[r.QuestionID] {
			out = append(out, r)
		}
	}
	return out
}

func (s *memoryStore) SaveBehavioralMetrics(m *BehavioralMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.behavioral = append(s.behavioral, m)
}

func (s *memoryStore) ListBehavioralMetrics(userID string) []*BehavioralMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*BehavioralMetrics{}
	for _, m := range s.behavioral {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out
}

func (s *memoryStore) SaveCognitiveProfile(p *CognitiveProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

func (s *memoryStore) GetCognitiveProfile(userID string) *CognitiveProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[userID]
}

func (s *memoryStore) ReplaceInsights(userID string, ins []*StoredInsight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights[userID] = append([]*StoredInsight(nil), ins...)
}

func (s *memoryStore) ListInsights(userID string) []*StoredInsight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*StoredInsight(nil), s.insights[userID]...)
}

func (s *memoryStore) SaveRiasecResult(r *RiasecResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.riasec[r.UserID] = r
}

func (s *memoryStore) GetRiasecResult(userID string) *RiasecResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.riasec[userID]
}

func (s *memoryStore) SaveCertificate(c *Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certificates[c.UserID] = append(s.certificates[c.UserID], c)
}

func (s *memoryStore) ListCertificates(userID string) []*Certificate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Certificate(nil), s.certificates[userID]...)
}

func (s *memoryStore) AddAudit(e AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, e)
	s.mu.Unlock()
}

func (s *memoryStore) ListAudit() []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

func (s *memoryStore) DeleteUserData(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.usersByID[userID]
	if u == nil {
		return false
	}
	delete(s.usersByID, userID)
	delete(s.usersByEmail, strings.ToLower(u.Email))
	for key, r := range s.responses {
		if r.UserID == userID {
			delete(s.responses, key)
		}
	}
	nb := make([]*BehavioralMetrics, 0, len(s.behavioral))
	for _, m := range s.behavioral {
		if m.UserID != userID {
			nb = append(nb, m)
		}
	}
	s.behavioral = nb
	delete(s.profiles, userID)
	delete(s.insights, userID)
	delete(s.riasec, userID)
	delete(s.certificates, userID)
	return true
}
