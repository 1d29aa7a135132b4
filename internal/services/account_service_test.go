package services

import (
	"testing"
	"time"
)

type accountStubStore struct {
	user    *User
	deleted []string
	audit   []AuditEntry
	*profileStubStore
}

func (s *accountStubStore) GetUserByID(id string) (*User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func (s *accountStubStore) ListCertificates(userID string) ([]*Certificate, error) {
	return nil, nil
}

func (s *accountStubStore) DeleteUserData(userID string) (bool, error) {
	if s.user == nil || s.user.ID != userID {
		return false, nil
	}
	s.user = nil
	s.deleted = append(s.deleted, userID)
	return true, nil
}

func (s *accountStubStore) AddAudit(e AuditEntry) { s.audit = append(s.audit, e) }

func TestExportAccount(t *testing.T) {
	store := &accountStubStore{
		user:             &User{ID: "u1", Email: "u1@example.com"},
		profileStubStore: newProfileStubStore(),
	}
	store.profileStubStore.riasec = &RiasecResult{UserID: "u1", TopCode: "RIS"}
	svc := NewAccountDataService(store)
	svc.now = func() time.Time { return time.Unix(0, 0) }

	export, err := svc.ExportAccount("u1")
	if err != nil {
		t.Fatalf("ExportAccount returned error: %v", err)
	}
	if export.User["email"] != "u1@example.com" {
		t.Fatalf("unexpected user payload: %+v", export.User)
	}
	if export.Riasec == nil || export.Riasec.TopCode != "RIS" {
		t.Fatalf("riasec result missing from export")
	}
	if len(store.audit) != 1 || store.audit[0].Action != "account.export" {
		t.Fatalf("expected export audit entry, got %+v", store.audit)
	}

	if _, err := svc.ExportAccount("ghost"); err == nil {
		t.Fatalf("expected not found for unknown account")
	}
}

func TestDeleteAccount(t *testing.T) {
	store := &accountStubStore{
		user:             &User{ID: "u1"},
		profileStubStore: newProfileStubStore(),
	}
	svc := NewAccountDataService(store)

	if err := svc.DeleteAccount("u1"); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "u1" {
		t.Fatalf("user data not deleted: %+v", store.deleted)
	}
	if err := svc.DeleteAccount("u1"); err == nil {
		t.Fatalf("expected not found on second delete")
	}
}
