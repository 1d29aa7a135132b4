package api

// Store is the persistence surface shared by the in-memory store and the
// sqlite store. Methods are infallible at this level; the sqlite
// implementation logs storage failures instead of surfacing them.
type Store interface {
	AddUser(u *User)
	FindUserByEmail(email string) *User
	GetUserByID(id string) *User

	AddQuestionnaire(q *Questionnaire)
	GetQuestionnaireByKind(kind string) *Questionnaire
	AddQuestion(q *Question)
	GetQuestion(id string) *Question
	ListQuestions(questionnaireID string) []*Question

	UpsertTestResponses(rs []*TestResponse)
	ListTestResponses(userID string) []*TestResponse
	ListTestResponsesByQuestionnaire(questionnaireID string) []*TestResponse

	SaveBehavioralMetrics(m *BehavioralMetrics)
	ListBehavioralMetrics(userID string) []*BehavioralMetrics

	SaveCognitiveProfile(p *CognitiveProfile)
	GetCognitiveProfile(userID string) *CognitiveProfile

	// ReplaceInsights swaps the user's full insight set in one step.
	ReplaceInsights(userID string, ins []*StoredInsight)
	ListInsights(userID string) []*StoredInsight

	SaveRiasecResult(r *RiasecResult)
	GetRiasecResult(userID string) *RiasecResult

	SaveCertificate(c *Certificate)
	ListCertificates(userID string) []*Certificate

	AddAudit(e AuditEntry)
	ListAudit() []AuditEntry

	// DeleteUserData removes the user and every owned row. Reports whether the
	// user existed.
	DeleteUserData(userID string) bool
}

var _ Store = (*memoryStore)(nil)
