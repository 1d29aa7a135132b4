package services

import (
	"strings"
	"testing"
	"time"
)

func samplePayload() CertificatePayload {
	return CertificatePayload{
		UserID:    "u1",
		SessionID: "s1",
		Scores: map[string]float64{
			"dev": 80, "data": 60, "cyber": 40, "infra": 50, "coherence": 70,
		},
		PrimaryRole: "Dev",
		Level:       "senior",
		IssuedAt:    "2025-01-01T00:00:00.000Z",
	}
}

func TestCertificateHashDeterministic(t *testing.T) {
	h1, err := CertificateHash(samplePayload())
	if err != nil {
		t.Fatalf("CertificateHash returned error: %v", err)
	}
	h2, err := CertificateHash(samplePayload())
	if err != nil {
		t.Fatalf("CertificateHash returned error: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("identical payloads must hash identically: %s vs %s", h1, h2)
	}
	if !strings.HasPrefix(h1, "0x") || len(h1) != 66 {
		t.Fatalf("unexpected hash shape: %s", h1)
	}
}

func TestCertificateHashSensitiveToEveryField(t *testing.T) {
	base, err := CertificateHash(samplePayload())
	if err != nil {
		t.Fatalf("CertificateHash returned error: %v", err)
	}
	mutations := map[string]func(*CertificatePayload){
		"level":     func(p *CertificatePayload) { p.Level = "junior" },
		"role":      func(p *CertificatePayload) { p.PrimaryRole = "Data" },
		"user":      func(p *CertificatePayload) { p.UserID = "u2" },
		"session":   func(p *CertificatePayload) { p.SessionID = "s2" },
		"issued_at": func(p *CertificatePayload) { p.IssuedAt = "2025-01-01T00:00:00.001Z" },
		"score":     func(p *CertificatePayload) { p.Scores["dev"] = 81 },
	}
	for name, mutate := range mutations {
		p := samplePayload()
		mutate(&p)
		h, err := CertificateHash(p)
		if err != nil {
			t.Fatalf("%s: CertificateHash returned error: %v", name, err)
		}
		if h == base {
			t.Fatalf("%s: mutation did not change hash", name)
		}
	}
}

func TestCanonicalPayloadSortsKeys(t *testing.T) {
	b, err := CanonicalPayload(samplePayload())
	if err != nil {
		t.Fatalf("CanonicalPayload returned error: %v", err)
	}
	s := string(b)
	order := []string{`"issuedAt"`, `"level"`, `"primaryRole"`, `"scores"`, `"sessionId"`, `"userId"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(s, key)
		if idx < 0 {
			t.Fatalf("canonical payload missing key %s: %s", key, s)
		}
		if idx < last {
			t.Fatalf("keys out of lexicographic order in %s", s)
		}
		last = idx
	}
	if !strings.Contains(s, `"scores":{"coherence":70,"cyber":40,"data":60,"dev":80,"infra":50}`) {
		t.Fatalf("nested score keys not sorted: %s", s)
	}
}

type certStubStore struct {
	saved []*Certificate
	audit []AuditEntry
}

func (s *certStubStore) SaveCertificate(c *Certificate) error {
	s.saved = append(s.saved, c)
	return nil
}

func (s *certStubStore) ListCertificates(userID string) ([]*Certificate, error) {
	var out []*Certificate
	for _, c := range s.saved {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *certStubStore) AddAudit(e AuditEntry) { s.audit = append(s.audit, e) }

type stubPayments struct {
	paid bool
	err  error
}

func (p *stubPayments) HasPaidCertification(userID string) (bool, error) { return p.paid, p.err }

func certScores() map[string]float64 {
	return map[string]float64{"dev": 80, "data": 60, "cyber": 40, "infra": 50, "coherence": 70}
}

func TestCertificateIssueAndVerify(t *testing.T) {
	store := &certStubStore{}
	svc := NewCertificateService(store, &stubPayments{paid: true})
	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	svc.idGen = func() string { return "CERT1" }

	cert, err := svc.Issue("u1", "s1", certScores(), "Dev", "senior")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if cert.ValidUntil != issuedAt.AddDate(3, 0, 0) {
		t.Fatalf("valid until = %v, want issued+3y", cert.ValidUntil)
	}
	if len(store.audit) != 1 || store.audit[0].Action != "certificate.issue" {
		t.Fatalf("expected issuance audit entry, got %+v", store.audit)
	}

	payload := CertificatePayload{
		UserID:      cert.UserID,
		SessionID:   cert.SessionID,
		Scores:      cert.Scores,
		PrimaryRole: cert.PrimaryRole,
		Level:       cert.Level,
		IssuedAt:    cert.IssuedAt.Format("2006-01-02T15:04:05.000Z"),
	}
	if err := svc.Verify(payload, cert.Hash); err != nil {
		t.Fatalf("Verify rejected genuine certificate: %v", err)
	}

	payload.Level = "junior"
	err = svc.Verify(payload, cert.Hash)
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorIntegrity {
		t.Fatalf("expected integrity error for tampered payload, got %v", err)
	}
}

func TestCertificateIssueRequiresPayment(t *testing.T) {
	svc := NewCertificateService(&certStubStore{}, &stubPayments{paid: false})
	_, err := svc.Issue("u1", "s1", certScores(), "Dev", "senior")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorPaymentRequired {
		t.Fatalf("expected payment_required error, got %v", err)
	}
}

func TestCertificateIssueValidation(t *testing.T) {
	svc := NewCertificateService(&certStubStore{}, &stubPayments{paid: true})

	if _, err := svc.Issue("", "s1", certScores(), "Dev", "senior"); err == nil {
		t.Fatalf("expected error for missing user")
	}
	if _, err := svc.Issue("u1", "", certScores(), "Dev", "senior"); err == nil {
		t.Fatalf("expected error for missing session")
	}
	scores := certScores()
	delete(scores, "coherence")
	if _, err := svc.Issue("u1", "s1", scores, "Dev", "senior"); err == nil {
		t.Fatalf("expected error for missing score key")
	}
	scores = certScores()
	scores["dev"] = 140
	if _, err := svc.Issue("u1", "s1", scores, "Dev", "senior"); err == nil {
		t.Fatalf("expected error for out-of-range score")
	}
}
