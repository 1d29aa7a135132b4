package services

import "sort"

// QuestionnaireStore abstracts persistence operations required by QuestionnaireService.
type QuestionnaireStore interface {
	AddQuestionnaire(q *Questionnaire) error
	GetQuestionnaireByKind(kind string) (*Questionnaire, error)
	AddQuestion(q *Question) error
	ListQuestions(questionnaireID string) ([]*Question, error)
	ListTestResponsesByQuestionnaire(questionnaireID string) ([]*TestResponse, error)
}

// QuestionnaireService serves the seeded question catalogs and their
// cross-user reliability statistics.
type QuestionnaireService struct {
	store QuestionnaireStore
}

func NewQuestionnaireService(store QuestionnaireStore) *QuestionnaireService {
	return &QuestionnaireService{store: store}
}

// QuestionView is a question localized for one display language.
type QuestionView struct {
	ID       string   `json:"id"`
	Order    int      `json:"order"`
	Stem     string   `json:"stem"`
	Options  []string `json:"options,omitempty"`
	Category string   `json:"category,omitempty"`
}

// CatalogView is the localized catalog of one questionnaire kind.
type CatalogView struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Version   int            `json:"version"`
	Questions []QuestionView `json:"questions"`
}

// Catalog returns the questionnaire of the given kind, stems and option
// labels resolved for lang with English fallback.
func (s *QuestionnaireService) Catalog(kind, lang string) (*CatalogView, error) {
	if kind != "cognitive" && kind != "riasec" {
		return nil, NewInvalidError("unknown questionnaire kind " + kind)
	}
	qn, err := s.store.GetQuestionnaireByKind(kind)
	if err != nil {
		return nil, err
	}
	if qn == nil {
		return nil, NewNotFoundError("questionnaire not seeded")
	}
	questions, err := s.store.ListQuestions(qn.ID)
	if err != nil {
		return nil, err
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].Order < questions[j].Order })
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		v := QuestionView{ID: q.ID, Order: q.Order, Stem: localized(q.StemI18n, lang), Category: q.Category}
		for _, opt := range q.Options {
			v.Options = append(v.Options, localized(opt.LabelI18n, lang))
		}
		views = append(views, v)
	}
	return &CatalogView{ID: qn.ID, Kind: qn.Kind, Version: qn.Version, Questions: views}, nil
}

func localized(m map[string]string, lang string) string {
	if v := m[lang]; v != "" {
		return v
	}
	return m["en"]
}

// SeedDefaults installs the built-in catalogs when they are missing. Safe to
// call on every startup.
func (s *QuestionnaireService) SeedDefaults() error {
	for _, seed := range defaultCatalogs() {
		existing, err := s.store.GetQuestionnaireByKind(seed.questionnaire.Kind)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := s.store.AddQuestionnaire(seed.questionnaire); err != nil {
			return err
		}
		for _, q := range seed.questions {
			if err := s.store.AddQuestion(q); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReliabilityReport is the internal-consistency summary of one questionnaire,
// computed across all users with a complete response set.
type ReliabilityReport struct {
	QuestionnaireID string  `json:"questionnaire_id"`
	Alpha           float64 `json:"alpha"`
	N               int     `json:"n"`
	Items           int     `json:"items"`
}

// Reliability computes Cronbach's alpha over the cognitive questionnaire's
// stored responses. Users with incomplete response sets are excluded.
func (s *QuestionnaireService) Reliability(kind string) (*ReliabilityReport, error) {
	qn, err := s.store.GetQuestionnaireByKind(kind)
	if err != nil {
		return nil, err
	}
	if qn == nil {
		return nil, NewNotFoundError("questionnaire not seeded")
	}
	questions, err := s.store.ListQuestions(qn.ID)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListTestResponsesByQuestionnaire(qn.ID)
	if err != nil {
		return nil, err
	}

	byUser := map[string]map[string]float64{}
	for _, r := range responses {
		if byUser[r.UserID] == nil {
			byUser[r.UserID] = map[string]float64{}
		}
		byUser[r.UserID][r.QuestionID] = float64(r.Weight)
	}
	var matrix [][]float64
	for _, answers := range byUser {
		if len(answers) != len(questions) {
			continue
		}
		row := make([]float64, 0, len(questions))
		for _, q := range questions {
			row = append(row, answers[q.ID])
		}
		matrix = append(matrix, row)
	}
	return &ReliabilityReport{
		QuestionnaireID: qn.ID,
		Alpha:           CronbachAlpha(matrix),
		N:               len(matrix),
		Items:           len(questions),
	}, nil
}
