package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/perspecta/perspecta/internal/middleware"
	"github.com/perspecta/perspecta/internal/services"
)

// JobSearcher is the outbound job-board dependency. The production
// implementation lives in internal/clients/jobsearch.
type JobSearcher interface {
	Search(ctx context.Context, keywords, location string, limit int) ([]services.JobOffer, error)
}

type Router struct {
	store          Store
	log            *zap.Logger
	auth           *services.AuthService
	questionnaires *services.QuestionnaireService
	profiles       *services.ProfileService
	behavioral     *services.BehavioralService
	riasecs        *services.RiasecService
	certificates   *services.CertificateService
	accounts       *services.AccountDataService
	jobs           JobSearcher
	matcher        services.MatcherConfig
}

// NewRouter wires every service against the given store. payments and jobs are
// optional collaborators; passing nil disables the payment gate and the job
// search endpoint respectively.
func NewRouter(store Store, log *zap.Logger, payments services.PaymentChecker, jobs JobSearcher) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		store:          store,
		log:            log,
		auth:           services.NewAuthService(newAuthStoreAdapter(store), middleware.SignToken),
		questionnaires: services.NewQuestionnaireService(newQuestionnaireStoreAdapter(store)),
		profiles:       services.NewProfileService(newProfileStoreAdapter(store)),
		behavioral:     services.NewBehavioralService(newBehavioralStoreAdapter(store)),
		riasecs:        services.NewRiasecService(newRiasecStoreAdapter(store)),
		certificates:   services.NewCertificateService(newCertificateStoreAdapter(store), payments),
		accounts:       services.NewAccountDataService(newAccountStoreAdapter(store)),
		jobs:           jobs,
		matcher:        services.DefaultMatcherConfig(),
	}
}

// SeedDefaults installs the built-in questionnaire catalogs.
func (rt *Router) SeedDefaults() error {
	return rt.questionnaires.SeedDefaults()
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister)              // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)                    // POST
	mux.Handle("/api/questionnaires/", authed(rt.handleQuestionnaire))   // GET /api/questionnaires/{kind}
	mux.Handle("/api/responses/bulk", authed(rt.handleBulkResponses))    // POST
	mux.Handle("/api/behavioral/", authed(rt.handleBehavioral))          // POST /api/behavioral/{kind}
	mux.Handle("/api/profile/compute", authed(rt.handleProfileCompute))  // POST
	mux.Handle("/api/profile", authed(rt.handleProfile))                 // GET
	mux.Handle("/api/insights", authed(rt.handleInsights))               // GET
	mux.Handle("/api/riasec", authed(rt.handleRiasec))                   // POST | GET
	mux.Handle("/api/certificates", authed(rt.handleCertificates))       // POST | GET
	mux.HandleFunc("/api/certificates/verify", rt.handleVerify)          // POST, public
	mux.Handle("/api/jobs/search", authed(rt.handleJobSearch))           // GET
	mux.Handle("/api/metrics/reliability", authed(rt.handleReliability)) // GET
	mux.Handle("/api/account/export", authed(rt.handleAccountExport))    // GET
	mux.Handle("/api/account", authed(rt.handleAccountDelete))           // DELETE
}

func authed(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(h)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var errorStatus = map[services.ErrorCode]int{
	services.ErrorInvalid:         http.StatusBadRequest,
	services.ErrorUnauthorized:    http.StatusUnauthorized,
	services.ErrorPaymentRequired: http.StatusPaymentRequired,
	services.ErrorForbidden:       http.StatusForbidden,
	services.ErrorNotFound:        http.StatusNotFound,
	services.ErrorConflict:        http.StatusConflict,
	services.ErrorIntegrity:       http.StatusUnprocessableEntity,
	services.ErrorComputation:     http.StatusInternalServerError,
	services.ErrorBadGateway:      http.StatusBadGateway,
}

func (rt *Router) writeError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		status, found := errorStatus[se.Code]
		if !found {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, map[string]any{"error": string(se.Code), "message": se.Message})
		return
	}
	rt.log.Error("internal error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal", "message": "internal error"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid", "message": "malformed request body"})
		return false
	}
	return true
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "user_id": res.UserID})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "user_id": res.UserID})
}

// GET /api/questionnaires/{kind}
func (rt *Router) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	kind := strings.TrimPrefix(r.URL.Path, "/api/questionnaires/")
	if kind == "" || strings.Contains(kind, "/") {
		http.NotFound(w, r)
		return
	}
	catalog, err := rt.questionnaires.Catalog(kind, middleware.LocaleFromContext(r.Context()))
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

// POST /api/responses/bulk
func (rt *Router) handleBulkResponses(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	var req struct {
		Answers []services.AnswerInput `json:"answers"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	count, err := rt.profiles.SubmitResponses(uid, req.Answers)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "count": count})
}

// POST /api/behavioral/{kind}
func (rt *Router) handleBehavioral(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	kind := strings.TrimPrefix(r.URL.Path, "/api/behavioral/")

	var (
		m   *services.BehavioralMetrics
		err error
	)
	switch kind {
	case services.TestStroop:
		var req struct {
			Trials []services.StroopTrial `json:"trials"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		m, err = rt.behavioral.SubmitStroop(uid, req.Trials)
	case services.TestReaction:
		var req struct {
			Trials []services.ReactionTrial `json:"trials"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		m, err = rt.behavioral.SubmitReaction(uid, req.Trials)
	case services.TestTrail:
		var req struct {
			Clicks []services.TimedClick `json:"clicks"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		m, err = rt.behavioral.SubmitTrail(uid, req.Clicks)
	case services.TestRAN:
		var req struct {
			Clicks []services.TimedClick `json:"clicks"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		m, err = rt.behavioral.SubmitRAN(uid, req.Clicks)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":   m.SessionID,
		"test_kind":    m.TestKind,
		"summary":      m.Summary,
		"completed_at": m.CompletedAt,
	})
}

// POST /api/profile/compute
func (rt *Router) handleProfileCompute(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	_, insights, err := rt.profiles.Compute(uid)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	view, err := rt.profiles.View(uid)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	ins := make([]services.Insight, 0, len(insights))
	for _, in := range insights {
		ins = append(ins, in.Insight)
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": view, "insights": ins})
}

// GET /api/profile
func (rt *Router) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	view, err := rt.profiles.View(uid)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GET /api/insights
func (rt *Router) handleInsights(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	stored, err := rt.profiles.Insights(uid)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	out := make([]services.Insight, 0, len(stored))
	for _, in := range stored {
		out = append(out, in.Insight)
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": out})
}

// POST | GET /api/riasec
func (rt *Router) handleRiasec(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Answers []struct {
				Category string `json:"category"`
				Weight   int    `json:"weight"`
			} `json:"answers"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		answers := make([]services.RiasecAnswer, 0, len(req.Answers))
		for _, a := range req.Answers {
			answers = append(answers, services.RiasecAnswer{Category: a.Category, Weight: a.Weight})
		}
		res, err := rt.riasecs.Submit(uid, answers)
		if err != nil {
			rt.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, riasecPayload(res))
	case http.MethodGet:
		res, err := rt.riasecs.Result(uid)
		if err != nil {
			rt.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, riasecPayload(res))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func riasecPayload(res *services.RiasecResult) map[string]any {
	return map[string]any{
		"scores":      res.Scores,
		"top_code":    res.TopCode,
		"computed_at": res.ComputedAt,
	}
}

// POST | GET /api/certificates
func (rt *Router) handleCertificates(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	switch r.Method {
	case http.MethodPost:
		var req struct {
			SessionID   string             `json:"session_id"`
			Scores      map[string]float64 `json:"scores"`
			PrimaryRole string             `json:"primary_role"`
			Level       string             `json:"level"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		cert, err := rt.certificates.Issue(uid, req.SessionID, req.Scores, req.PrimaryRole, req.Level)
		if err != nil {
			rt.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cert)
	case http.MethodGet:
		certs, err := rt.certificates.List(uid)
		if err != nil {
			rt.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"certificates": certs})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/certificates/verify — public, anyone holding a certificate payload
// can check it.
func (rt *Router) handleVerify(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Payload services.CertificatePayload `json:"payload"`
		Hash    string                      `json:"hash"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := rt.certificates.Verify(req.Payload, req.Hash); err != nil {
		if se, ok := services.AsServiceError(err); ok && se.Code == services.ErrorIntegrity {
			writeJSON(w, http.StatusOK, map[string]any{"valid": false})
			return
		}
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

// GET /api/jobs/search?role=...&location=...&limit=...
func (rt *Router) handleJobSearch(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if rt.jobs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "unavailable", "message": "job search not configured"})
		return
	}
	role := r.URL.Query().Get("role")
	profile, err := services.RoleProfileFor(role)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	location := r.URL.Query().Get("location")
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	keywords := profile.Keywords
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	offers, err := rt.jobs.Search(r.Context(), strings.Join(keywords, " "), location, limit)
	if err != nil {
		rt.log.Warn("job search failed", zap.String("role", role), zap.Error(err))
		rt.writeError(w, services.NewBadGatewayError("job search upstream failed"))
		return
	}
	ranked := services.RankOffers(rt.matcher, profile, offers)
	writeJSON(w, http.StatusOK, map[string]any{"role": profile.Role, "results": ranked})
}

// GET /api/metrics/reliability?kind=cognitive
func (rt *Router) handleReliability(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "cognitive"
	}
	report, err := rt.questionnaires.Reliability(kind)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GET /api/account/export
func (rt *Router) handleAccountExport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	export, err := rt.accounts.ExportAccount(uid)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

// DELETE /api/account
func (rt *Router) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	if err := rt.accounts.DeleteAccount(uid); err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
