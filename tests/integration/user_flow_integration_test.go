//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("PERSPECTA_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

func TestAssessmentJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	userEmail := fmt.Sprintf("integration_%d@example.com", time.Now().UnixNano())
	password := "Secret123!"

	var registerResp struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	doPost(t, client, base+"/api/auth/register", "", map[string]any{
		"email":    userEmail,
		"password": password,
	}, &registerResp)
	if registerResp.Token == "" || registerResp.UserID == "" {
		t.Fatalf("unexpected register response: %+v", registerResp)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	doPost(t, client, base+"/api/auth/login", "", map[string]string{
		"email":    userEmail,
		"password": password,
	}, &loginResp)
	token := loginResp.Token
	if token == "" {
		t.Fatalf("login did not return token")
	}

	var catalog struct {
		Questions []struct {
			ID      string   `json:"id"`
			Options []string `json:"options"`
		} `json:"questions"`
	}
	doGet(t, client, base+"/api/questionnaires/cognitive", token, &catalog)
	if len(catalog.Questions) == 0 {
		t.Fatalf("cognitive catalog is empty")
	}

	answers := make([]map[string]any, 0, len(catalog.Questions))
	for _, q := range catalog.Questions {
		answers = append(answers, map[string]any{"question_id": q.ID, "option_index": 0})
	}
	var bulkResp struct {
		OK    bool `json:"ok"`
		Count int  `json:"count"`
	}
	doPost(t, client, base+"/api/responses/bulk", token, map[string]any{"answers": answers}, &bulkResp)
	if !bulkResp.OK || bulkResp.Count != len(answers) {
		t.Fatalf("unexpected bulk response: %+v", bulkResp)
	}

	var riasecCatalog struct {
		Questions []struct {
			ID       string `json:"id"`
			Category string `json:"category"`
		} `json:"questions"`
	}
	doGet(t, client, base+"/api/questionnaires/riasec", token, &riasecCatalog)
	riasecAnswers := make([]map[string]any, 0, len(riasecCatalog.Questions))
	for _, q := range riasecCatalog.Questions {
		riasecAnswers = append(riasecAnswers, map[string]any{"category": q.Category, "weight": 3})
	}
	var riasecResp struct {
		TopCode string `json:"top_code"`
	}
	doPost(t, client, base+"/api/riasec", token, map[string]any{"answers": riasecAnswers}, &riasecResp)
	if len(riasecResp.TopCode) != 3 {
		t.Fatalf("unexpected riasec top code: %q", riasecResp.TopCode)
	}

	trials := make([]map[string]any, 0, 10)
	for i := 0; i < 10; i++ {
		trials = append(trials, map[string]any{
			"congruent": i%2 == 0,
			"correct":   true,
			"rt_ms":     400 + float64(i)*10,
		})
	}
	var stroopResp struct {
		SessionID string `json:"session_id"`
	}
	doPost(t, client, base+"/api/behavioral/stroop", token, map[string]any{"trials": trials}, &stroopResp)
	if stroopResp.SessionID == "" {
		t.Fatalf("stroop submission returned no session id")
	}

	var computeResp struct {
		Profile struct {
			DominantCognition string `json:"dominant_cognition"`
			ProfileCode       string `json:"profile_code"`
		} `json:"profile"`
		Insights []struct {
			Type string `json:"type"`
		} `json:"insights"`
	}
	doPost(t, client, base+"/api/profile/compute", token, map[string]any{}, &computeResp)
	if len(computeResp.Profile.ProfileCode) != 4 {
		t.Fatalf("unexpected profile code: %q", computeResp.Profile.ProfileCode)
	}
	if len(computeResp.Insights) == 0 {
		t.Fatalf("compute returned no insights")
	}

	var profileResp struct {
		Dimensions map[string]struct {
			Band  int    `json:"band"`
			Label string `json:"label"`
		} `json:"dimensions"`
	}
	doGet(t, client, base+"/api/profile", token, &profileResp)
	if len(profileResp.Dimensions) != 4 {
		t.Fatalf("expected 4 banded dimensions, got %d", len(profileResp.Dimensions))
	}
	for name, d := range profileResp.Dimensions {
		if d.Band < 1 || d.Band > 5 {
			t.Fatalf("dimension %s band out of range: %d", name, d.Band)
		}
	}

	// Issue a certificate and verify its hash through the public endpoint.
	scores := map[string]float64{"dev": 80, "data": 60, "cyber": 40, "infra": 50, "coherence": 70}
	var cert struct {
		ID       string    `json:"id"`
		Hash     string    `json:"hash"`
		IssuedAt time.Time `json:"issued_at"`
	}
	doPost(t, client, base+"/api/certificates", token, map[string]any{
		"session_id":   "sess-integration",
		"scores":       scores,
		"primary_role": "developer",
		"level":        "intermediate",
	}, &cert)
	if !strings.HasPrefix(cert.Hash, "0x") || len(cert.Hash) != 66 {
		t.Fatalf("unexpected certificate hash: %q", cert.Hash)
	}

	payload := map[string]any{
		"userId":      registerResp.UserID,
		"sessionId":   "sess-integration",
		"scores":      scores,
		"primaryRole": "developer",
		"level":       "intermediate",
		"issuedAt":    cert.IssuedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	var verifyResp struct {
		Valid bool `json:"valid"`
	}
	doPost(t, client, base+"/api/certificates/verify", "", map[string]any{
		"payload": payload,
		"hash":    cert.Hash,
	}, &verifyResp)
	if !verifyResp.Valid {
		t.Fatalf("expected certificate to verify")
	}

	// A tampered payload must fail verification.
	payload["level"] = "expert"
	doPost(t, client, base+"/api/certificates/verify", "", map[string]any{
		"payload": payload,
		"hash":    cert.Hash,
	}, &verifyResp)
	if verifyResp.Valid {
		t.Fatalf("expected tampered certificate to be rejected")
	}
}

func doPost(t *testing.T, client *http.Client, url, token string, body any, out any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	doRequest(t, client, req, out)
}

func doGet(t *testing.T, client *http.Client, url, token string, out any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	doRequest(t, client, req, out)
}

func doRequest(t *testing.T, client *http.Client, req *http.Request, out any) {
	t.Helper()
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http %s %s failed: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, req.URL, string(bodyBytes))
	}
	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", req.URL, err)
		}
	}
}
