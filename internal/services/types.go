package services

import "time"

// Questionnaire groups the questions of one assessment kind.
type Questionnaire struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"` // cognitive | riasec
	Version int    `json:"version"`
}

// QuestionOption is one selectable answer of a cognitive question. Picking it
// contributes Weight points to Dimension.
type QuestionOption struct {
	LabelI18n map[string]string `json:"label_i18n"`
	Dimension string            `json:"dimension,omitempty"`
	Weight    int               `json:"weight,omitempty"`
}

// Question belongs to a questionnaire. Cognitive questions carry weighted
// options; RIASEC questions carry a single Holland category and take a
// Likert answer in [0,5].
type Question struct {
	ID              string            `json:"id"`
	QuestionnaireID string            `json:"questionnaire_id"`
	Order           int               `json:"order"`
	StemI18n        map[string]string `json:"stem_i18n"`
	Options         []QuestionOption  `json:"options,omitempty"`
	Category        string            `json:"category,omitempty"` // R|I|A|S|E|C
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}
