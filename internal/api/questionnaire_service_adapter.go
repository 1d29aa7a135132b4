package api

import "github.com/perspecta/perspecta/internal/services"

type questionnaireStoreAdapter struct {
	store Store
}

func newQuestionnaireStoreAdapter(store Store) services.QuestionnaireStore {
	return &questionnaireStoreAdapter{store: store}
}

func (a *questionnaireStoreAdapter) AddQuestionnaire(q *services.Questionnaire) error {
	if q == nil {
		return services.NewInvalidError("questionnaire required")
	}
	a.store.AddQuestionnaire(&Questionnaire{ID: q.ID, Kind: q.Kind, Version: q.Version})
	return nil
}

func (a *questionnaireStoreAdapter) GetQuestionnaireByKind(kind string) (*services.Questionnaire, error) {
	q := a.store.GetQuestionnaireByKind(kind)
	if q == nil {
		return nil, nil
	}
	return &services.Questionnaire{ID: q.ID, Kind: q.Kind, Version: q.Version}, nil
}

func (a *questionnaireStoreAdapter) AddQuestion(q *services.Question) error {
	if q == nil {
		return services.NewInvalidError("question required")
	}
	opts := make([]QuestionOption, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, QuestionOption{LabelI18n: o.LabelI18n, Dimension: o.Dimension, Weight: o.Weight})
	}
	a.store.AddQuestion(&Question{
		ID:              q.ID,
		QuestionnaireID: q.QuestionnaireID,
		Order:           q.Order,
		StemI18n:        q.StemI18n,
		Options:         opts,
		Category:        q.Category,
	})
	return nil
}

func (a *questionnaireStoreAdapter) ListQuestions(questionnaireID string) ([]*services.Question, error) {
	qs := a.store.ListQuestions(questionnaireID)
	out := make([]*services.Question, 0, len(qs))
	for _, q := range qs {
		out = append(out, toServiceQuestion(q))
	}
	return out, nil
}

func (a *questionnaireStoreAdapter) ListTestResponsesByQuestionnaire(questionnaireID string) ([]*services.TestResponse, error) {
	return toServiceResponses(a.store.ListTestResponsesByQuestionnaire(questionnaireID)), nil
}

var _ services.QuestionnaireStore = (*questionnaireStoreAdapter)(nil)
