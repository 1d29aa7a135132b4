package services

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// issuedAtLayout is the timestamp format hashed into certificates. Millisecond
// precision, always UTC.
const issuedAtLayout = "2006-01-02T15:04:05.000Z"

const certificateValidityYears = 3

// requiredScoreKeys are the competency axes a certificate snapshot must carry.
var requiredScoreKeys = []string{"dev", "data", "cyber", "infra", "coherence"}

// CertificatePayload is the fixed-shape input of the certificate hash. The
// hash is a pure function of these fields; IssuedAt is part of the input, so
// two otherwise-identical certificates issued at different instants hash
// differently.
type CertificatePayload struct {
	UserID      string             `json:"userId"`
	SessionID   string             `json:"sessionId"`
	Scores      map[string]float64 `json:"scores"`
	PrimaryRole string             `json:"primaryRole"`
	Level       string             `json:"level"`
	IssuedAt    string             `json:"issuedAt"`
}

// CanonicalPayload serializes the payload as JSON with lexicographically
// sorted keys at every level, so byte-identical output is guaranteed for
// identical input.
func CanonicalPayload(p CertificatePayload) ([]byte, error) {
	v := map[string]any{
		"userId":      p.UserID,
		"sessionId":   p.SessionID,
		"scores":      p.Scores,
		"primaryRole": p.PrimaryRole,
		"level":       p.Level,
		"issuedAt":    p.IssuedAt,
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeCanonical(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case map[string]float64:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = val
		}
		return writeCanonical(buf, m)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

// CertificateHash computes the tamper-evidence hash: canonical JSON, UTF-8,
// SHA-256, "0x" prefix.
func CertificateHash(p CertificatePayload) (string, error) {
	b, err := CanonicalPayload(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return "0x" + hex.EncodeToString(sum[:]), nil
}

// Certificate is an issued, immutable competency certificate.
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

// CertificateStore abstracts persistence operations required by CertificateService.
type CertificateStore interface {
	SaveCertificate(c *Certificate) error
	ListCertificates(userID string) ([]*Certificate, error)
	AddAudit(e AuditEntry)
}

// PaymentChecker reports whether the user has a settled certification order.
// Billing itself is an external collaborator; the scoring flow only gates on it.
type PaymentChecker interface {
	HasPaidCertification(userID string) (bool, error)
}

// CertificateService issues and verifies certificates.
type CertificateService struct {
	store    CertificateStore
	payments PaymentChecker
	now      func() time.Time
	idGen    func() string
}

func NewCertificateService(store CertificateStore, payments PaymentChecker) *CertificateService {
	return &CertificateService{
		store:    store,
		payments: payments,
		now:      func() time.Time { return time.Now().UTC() },
		idGen:    func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:16] },
	}
}

// Issue validates the snapshot, checks the payment gate, hashes and persists.
func (s *CertificateService) Issue(userID, sessionID string, scores map[string]float64, primaryRole, level string) (*Certificate, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("user required")
	}
	if sessionID == "" || primaryRole == "" || level == "" {
		return nil, NewInvalidError("session_id/primary_role/level required")
	}
	if len(scores) != len(requiredScoreKeys) {
		return nil, NewInvalidError("unexpected score set")
	}
	for _, k := range requiredScoreKeys {
		v, ok := scores[k]
		if !ok {
			return nil, NewInvalidError("missing score " + k)
		}
		if v < 0 || v > 100 {
			return nil, NewInvalidError("score " + k + " out of range")
		}
	}
	if s.payments != nil {
		paid, err := s.payments.HasPaidCertification(userID)
		if err != nil {
			return nil, NewBadGatewayError("payment check failed")
		}
		if !paid {
			return nil, NewPaymentRequiredError("certification requires a settled order")
		}
	}

	issuedAt := s.now()
	hash, err := CertificateHash(CertificatePayload{
		UserID:      userID,
		SessionID:   sessionID,
		Scores:      scores,
		PrimaryRole: primaryRole,
		Level:       level,
		IssuedAt:    issuedAt.UTC().Format(issuedAtLayout),
	})
	if err != nil {
		return nil, err
	}
	cert := &Certificate{
		ID:          s.idGen(),
		UserID:      userID,
		SessionID:   sessionID,
		Scores:      scores,
		PrimaryRole: primaryRole,
		Level:       level,
		IssuedAt:    issuedAt,
		ValidUntil:  issuedAt.AddDate(certificateValidityYears, 0, 0),
		Hash:        hash,
	}
	if err := s.store.SaveCertificate(cert); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: issuedAt, Actor: userID, Action: "certificate.issue", Target: cert.ID})
	return cert, nil
}

// Verify recomputes the hash from the claimed payload and compares it to the
// claimed hash. A mismatch means the certificate is invalid or was tampered
// with; it is never silently accepted.
func (s *CertificateService) Verify(p CertificatePayload, claimedHash string) error {
	if claimedHash == "" {
		return NewInvalidError("hash required")
	}
	computed, err := CertificateHash(p)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(computed), []byte(claimedHash)) != 1 {
		return NewIntegrityError("certificate hash mismatch")
	}
	return nil
}

// List returns the user's issued certificates.
func (s *CertificateService) List(userID string) ([]*Certificate, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("user required")
	}
	return s.store.ListCertificates(userID)
}
