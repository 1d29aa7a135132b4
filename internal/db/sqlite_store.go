package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/perspecta/perspecta/internal/api"
)

// SQLiteStore persists the api.Store surface in sqlite. The Store interface is
// infallible, so storage failures are logged here rather than returned; reads
// that fail behave as a miss.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLiteStore(db *sql.DB, log *zap.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if log == nil {
		log = zap.NewNop()
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, log: log}, nil
}

func NewStore(db *sql.DB, log *zap.Logger) (api.Store, error) {
	return NewSQLiteStore(db, log)
}

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		s.log.Error("sqlite store", zap.String("op", prefix), zap.Error(err))
	}
}

func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodeFloatMap(raw string) map[string]float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out map[string]float64
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func decodeStringMap(raw string) map[string]string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func decodeOptions(ns sql.NullString) []api.QuestionOption {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out []api.QuestionOption
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil
	}
	return out
}

func (s *SQLiteStore) AddUser(u *api.User) {
	_, err := s.db.Exec(
		`INSERT INTO users (id, email, pass_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PassHash, u.CreatedAt,
	)
	s.logErr("add user", err)
}

func (s *SQLiteStore) scanUser(row *sql.Row) *api.User {
	var u api.User
	err := row.Scan(&u.ID, &u.Email, &u.PassHash, &u.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("scan user", err)
		}
		return nil
	}
	return &u
}

func (s *SQLiteStore) FindUserByEmail(email string) *api.User {
	row := s.db.QueryRow(`SELECT id, email, pass_hash, created_at FROM users WHERE email = ?`, email)
	return s.scanUser(row)
}

func (s *SQLiteStore) GetUserByID(id string) *api.User {
	row := s.db.QueryRow(`SELECT id, email, pass_hash, created_at FROM users WHERE id = ?`, id)
	return s.scanUser(row)
}

func (s *SQLiteStore) AddQuestionnaire(q *api.Questionnaire) {
	_, err := s.db.Exec(
		`INSERT INTO questionnaires (id, kind, version) VALUES (?, ?, ?)`,
		q.ID, q.Kind, q.Version,
	)
	s.logErr("add questionnaire", err)
}

func (s *SQLiteStore) GetQuestionnaireByKind(kind string) *api.Questionnaire {
	var q api.Questionnaire
	err := s.db.QueryRow(`SELECT id, kind, version FROM questionnaires WHERE kind = ?`, kind).
		Scan(&q.ID, &q.Kind, &q.Version)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("get questionnaire", err)
		}
		return nil
	}
	return &q
}

func (s *SQLiteStore) AddQuestion(q *api.Question) {
	var opts any
	if len(q.Options) > 0 {
		opts = encodeJSON(q.Options)
	}
	_, err := s.db.Exec(
		`INSERT INTO questions (id, questionnaire_id, ord, stem_i18n, options, category) VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, q.QuestionnaireID, q.Order, encodeJSON(q.StemI18n), opts, q.Category,
	)
	s.logErr("add question", err)
}

func scanQuestion(scan func(dest ...any) error) (*api.Question, error) {
	var (
		q    api.Question
		stem string
		opts sql.NullString
	)
	if err := scan(&q.ID, &q.QuestionnaireID, &q.Order, &stem, &opts, &q.Category); err != nil {
		return nil, err
	}
	q.StemI18n = decodeStringMap(stem)
	q.Options = decodeOptions(opts)
	return &q, nil
}

func (s *SQLiteStore) GetQuestion(id string) *api.Question {
	row := s.db.QueryRow(
		`SELECT id, questionnaire_id, ord, stem_i18n, options, category FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row.Scan)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("get question", err)
		}
		return nil
	}
	return q
}

func (s *SQLiteStore) ListQuestions(questionnaireID string) []*api.Question {
	rows, err := s.db.Query(
		`SELECT id, questionnaire_id, ord, stem_i18n, options, category
		 FROM questions WHERE questionnaire_id = ? ORDER BY ord`, questionnaireID)
	if err != nil {
		s.logErr("list questions", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	var out []*api.Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			s.logErr("scan question", err)
			continue
		}
		out = append(out, q)
	}
	s.logErr("list questions rows", rows.Err())
	return out
}

func (s *SQLiteStore) UpsertTestResponses(rs []*api.TestResponse) {
	tx, err := s.db.Begin()
	if err != nil {
		s.logErr("begin upsert responses", err)
		return
	}
	for _, r := range rs {
		_, err := tx.Exec(
			`INSERT INTO test_responses (user_id, question_id, option_index, dimension, weight, submitted_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(user_id, question_id) DO UPDATE SET
			   option_index = excluded.option_index,
			   dimension    = excluded.dimension,
			   weight       = excluded.weight,
			   submitted_at = excluded.submitted_at`,
			r.UserID, r.QuestionID, r.OptionIndex, r.Dimension, r.Weight, r.SubmittedAt,
		)
		if err != nil {
			s.logErr("upsert response", err)
			_ = tx.Rollback()
			return
		}
	}
	s.logErr("commit upsert responses", tx.Commit())
}

func (s *SQLiteStore) scanResponses(rows *sql.Rows) []*api.TestResponse {
	defer func() { _ = rows.Close() }()
	var out []*api.TestResponse
	for rows.Next() {
		var r api.TestResponse
		if err := rows.Scan(&r.UserID, &r.QuestionID, &r.OptionIndex, &r.Dimension, &r.Weight, &r.SubmittedAt); err != nil {
			s.logErr("scan response", err)
			continue
		}
		out = append(out, &r)
	}
	s.logErr("response rows", rows.Err())
	return out
}

func (s *SQLiteStore) ListTestResponses(userID string) []*api.TestResponse {
	rows, err := s.db.Query(
		`SELECT user_id, question_id, option_index, dimension, weight, submitted_at
		 FROM test_responses WHERE user_id = ? ORDER BY question_id`, userID)
	if err != nil {
		s.logErr("list responses", err)
		return nil
	}
	return s.scanResponses(rows)
}

func (s *SQLiteStore) ListTestResponsesByQuestionnaire(questionnaireID string) []*api.TestResponse {
	rows, err := s.db.Query(
		`SELECT r.user_id, r.question_id, r.option_index, r.dimension, r.weight, r.submitted_at
		 FROM test_responses r
		 JOIN questions q ON q.id = r.question_id
		 WHERE q.questionnaire_id = ?`, questionnaireID)
	if err != nil {
		s.logErr("list responses by questionnaire", err)
		return nil
	}
	return s.scanResponses(rows)
}

func (s *SQLiteStore) SaveBehavioralMetrics(m *api.BehavioralMetrics) {
	_, err := s.db.Exec(
		`INSERT INTO behavioral_metrics (session_id, user_id, test_kind, summary, completed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.SessionID, m.UserID, m.TestKind, encodeJSON(m.Summary), m.CompletedAt,
	)
	s.logErr("save behavioral metrics", err)
}

func (s *SQLiteStore) ListBehavioralMetrics(userID string) []*api.BehavioralMetrics {
	rows, err := s.db.Query(
		`SELECT session_id, user_id, test_kind, summary, completed_at
		 FROM behavioral_metrics WHERE user_id = ? ORDER BY completed_at`, userID)
	if err != nil {
		s.logErr("list behavioral metrics", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	var out []*api.BehavioralMetrics
	for rows.Next() {
		var (
			m       api.BehavioralMetrics
			summary string
		)
		if err := rows.Scan(&m.SessionID, &m.UserID, &m.TestKind, &summary, &m.CompletedAt); err != nil {
			s.logErr("scan behavioral metrics", err)
			continue
		}
		m.Summary = decodeFloatMap(summary)
		out = append(out, &m)
	}
	s.logErr("behavioral rows", rows.Err())
	return out
}

func (s *SQLiteStore) SaveCognitiveProfile(p *api.CognitiveProfile) {
	_, err := s.db.Exec(
		`INSERT INTO cognitive_profiles
		   (user_id, form, color, volume, sound, dominant_cognition, profile_code,
		    communication_style, detail_level, learning_preference, computed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   form = excluded.form, color = excluded.color,
		   volume = excluded.volume, sound = excluded.sound,
		   dominant_cognition = excluded.dominant_cognition,
		   profile_code = excluded.profile_code,
		   communication_style = excluded.communication_style,
		   detail_level = excluded.detail_level,
		   learning_preference = excluded.learning_preference,
		   computed_at = excluded.computed_at`,
		p.UserID, p.Form, p.Color, p.Volume, p.Sound, p.DominantCognition, p.ProfileCode,
		p.CommunicationStyle, p.DetailLevel, p.LearningPreference, p.ComputedAt,
	)
	s.logErr("save cognitive profile", err)
}

func (s *SQLiteStore) GetCognitiveProfile(userID string) *api.CognitiveProfile {
	var p api.CognitiveProfile
	err := s.db.QueryRow(
		`SELECT user_id, form, color, volume, sound, dominant_cognition, profile_code,
		        communication_style, detail_level, learning_preference, computed_at
		 FROM cognitive_profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.Form, &p.Color, &p.Volume, &p.Sound, &p.DominantCognition, &p.ProfileCode,
			&p.CommunicationStyle, &p.DetailLevel, &p.LearningPreference, &p.ComputedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("get cognitive profile", err)
		}
		return nil
	}
	return &p
}

func (s *SQLiteStore) ReplaceInsights(userID string, ins []*api.StoredInsight) {
	tx, err := s.db.Begin()
	if err != nil {
		s.logErr("begin replace insights", err)
		return
	}
	if _, err := tx.Exec(`DELETE FROM insights WHERE user_id = ?`, userID); err != nil {
		s.logErr("clear insights", err)
		_ = tx.Rollback()
		return
	}
	for _, in := range ins {
		_, err := tx.Exec(
			`INSERT INTO insights (id, user_id, type, title, description, priority) VALUES (?, ?, ?, ?, ?, ?)`,
			in.ID, in.UserID, in.Type, in.Title, in.Description, in.Priority,
		)
		if err != nil {
			s.logErr("insert insight", err)
			_ = tx.Rollback()
			return
		}
	}
	s.logErr("commit replace insights", tx.Commit())
}

func (s *SQLiteStore) ListInsights(userID string) []*api.StoredInsight {
	rows, err := s.db.Query(
		`SELECT id, user_id, type, title, description, priority
		 FROM insights WHERE user_id = ? ORDER BY priority, id`, userID)
	if err != nil {
		s.logErr("list insights", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	var out []*api.StoredInsight
	for rows.Next() {
		var in api.StoredInsight
		if err := rows.Scan(&in.ID, &in.UserID, &in.Type, &in.Title, &in.Description, &in.Priority); err != nil {
			s.logErr("scan insight", err)
			continue
		}
		out = append(out, &in)
	}
	s.logErr("insight rows", rows.Err())
	return out
}

func (s *SQLiteStore) SaveRiasecResult(r *api.RiasecResult) {
	_, err := s.db.Exec(
		`INSERT INTO riasec_results (user_id, scores, top_code, computed_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   scores = excluded.scores, top_code = excluded.top_code, computed_at = excluded.computed_at`,
		r.UserID, encodeJSON(r.Scores), r.TopCode, r.ComputedAt,
	)
	s.logErr("save riasec result", err)
}

func (s *SQLiteStore) GetRiasecResult(userID string) *api.RiasecResult {
	var (
		r      api.RiasecResult
		scores string
	)
	err := s.db.QueryRow(
		`SELECT user_id, scores, top_code, computed_at FROM riasec_results WHERE user_id = ?`, userID).
		Scan(&r.UserID, &scores, &r.TopCode, &r.ComputedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("get riasec result", err)
		}
		return nil
	}
	r.Scores = decodeFloatMap(scores)
	return &r
}

func (s *SQLiteStore) SaveCertificate(c *api.Certificate) {
	_, err := s.db.Exec(
		`INSERT INTO certificates (id, user_id, session_id, scores, primary_role, level, issued_at, valid_until, hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.SessionID, encodeJSON(c.Scores), c.PrimaryRole, c.Level, c.IssuedAt, c.ValidUntil, c.Hash,
	)
	s.logErr("save certificate", err)
}

func (s *SQLiteStore) ListCertificates(userID string) []*api.Certificate {
	rows, err := s.db.Query(
		`SELECT id, user_id, session_id, scores, primary_role, level, issued_at, valid_until, hash
		 FROM certificates WHERE user_id = ? ORDER BY issued_at`, userID)
	if err != nil {
		s.logErr("list certificates", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	var out []*api.Certificate
	for rows.Next() {
		var (
			c      api.Certificate
			scores string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.SessionID, &scores, &c.PrimaryRole, &c.Level, &c.IssuedAt, &c.ValidUntil, &c.Hash); err != nil {
			s.logErr("scan certificate", err)
			continue
		}
		c.Scores = decodeFloatMap(scores)
		out = append(out, &c)
	}
	s.logErr("certificate rows", rows.Err())
	return out
}

func (s *SQLiteStore) AddAudit(e api.AuditEntry) {
	_, err := s.db.Exec(
		`INSERT INTO audit_log (ts, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.Actor, e.Action, e.Target, e.Note,
	)
	s.logErr("add audit", err)
}

func (s *SQLiteStore) ListAudit() []api.AuditEntry {
	rows, err := s.db.Query(`SELECT ts, actor, action, target, note FROM audit_log ORDER BY ts`)
	if err != nil {
		s.logErr("list audit", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	var out []api.AuditEntry
	for rows.Next() {
		var (
			e    api.AuditEntry
			note sql.NullString
		)
		if err := rows.Scan(&e.Time, &e.Actor, &e.Action, &e.Target, &note); err != nil {
			s.logErr("scan audit", err)
			continue
		}
		e.Note = note.String
		out = append(out, e)
	}
	s.logErr("audit rows", rows.Err())
	return out
}

// DeleteUserData deletes the user row; ON DELETE CASCADE removes every owned
// row in the same transaction.
func (s *SQLiteStore) DeleteUserData(userID string) bool {
	res, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		s.logErr("delete user data", err)
		return false
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.logErr("delete user data rows", err)
		return false
	}
	return n > 0
}
