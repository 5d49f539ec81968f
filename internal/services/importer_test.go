package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/clients/wapi"
	"github.com/talkbase/talkbase-backend/internal/data/repos"
	"github.com/talkbase/talkbase-backend/internal/data/repos/testutil"
	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/apierr"
)

func newImportFixture(t *testing.T) (ImportService, repos.ContactRepo, repos.InboxRepo, uuid.UUID) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	contactRepo := repos.NewContactRepo(tx, log)
	inboxRepo := repos.NewInboxRepo(tx, log)
	svc := NewImportService(tx, log, contactRepo, inboxRepo, nil, nil)
	return svc, contactRepo, inboxRepo, uuid.New()
}

func TestImportServiceReconciles(t *testing.T) {
	svc, contactRepo, _, accountID := newImportFixture(t)
	ctx := context.Background()
	tenantID := uuid.New()

	payload := []wapi.ContactRecord{
		{Phone: "+55 11 98888-0001", Name: "Ana Lima", JID: "5511988880001@s.whatsapp.net"},
		{Phone: "5511988880002", Name: "Bruno Costa"},
		{Phone: "123", Name: "Too Short"},
	}

	first, err := svc.ImportContacts(ctx, accountID, tenantID, payload, types.ContactSourceImport, nil)
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if first.Added != 2 || first.Updated != 0 || first.Unchanged != 0 || first.Skipped != 1 {
		t.Fatalf("first import counts = %+v, want added=2 skipped=1", *first)
	}

	stored, err := contactRepo.GetByPhone(ctx, nil, accountID, "5511988880001")
	if err != nil {
		t.Fatalf("GetByPhone: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected imported contact stored under normalized phone")
	}
	if stored.ImportHash == "" || stored.LastImportAt == nil {
		t.Fatalf("expected fingerprint and import timestamp to be set")
	}

	// Same payload again: fingerprints match, nothing rewritten.
	second, err := svc.ImportContacts(ctx, accountID, tenantID, payload, types.ContactSourceImport, nil)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Added != 0 || second.Updated != 0 || second.Unchanged != 2 || second.Skipped != 1 {
		t.Fatalf("second import counts = %+v, want unchanged=2 skipped=1", *second)
	}

	// A renamed record changes the fingerprint and flows as an update.
	payload[1].Name = "Bruno C. Costa"
	third, err := svc.ImportContacts(ctx, accountID, tenantID, payload, types.ContactSourceImport, nil)
	if err != nil {
		t.Fatalf("third import: %v", err)
	}
	if third.Added != 0 || third.Updated != 1 || third.Unchanged != 1 || third.Skipped != 1 {
		t.Fatalf("third import counts = %+v, want updated=1 unchanged=1 skipped=1", *third)
	}

	renamed, err := contactRepo.GetByPhone(ctx, nil, accountID, "5511988880002")
	if err != nil {
		t.Fatalf("GetByPhone renamed: %v", err)
	}
	if renamed.Name != "Bruno C. Costa" {
		t.Fatalf("expected updated name, got %q", renamed.Name)
	}
}

func TestImportServiceKeepsStoredFieldsOnEmptyPayloadValues(t *testing.T) {
	svc, contactRepo, _, accountID := newImportFixture(t)
	ctx := context.Background()
	tenantID := uuid.New()

	seeded, err := svc.ImportContacts(ctx, accountID, tenantID, []wapi.ContactRecord{
		{Phone: "5511988880004", Name: "Ana Lima", AvatarURL: "https://cdn.example.com/ana.png", JID: "5511988880004@s.whatsapp.net"},
	}, types.ContactSourceImport, nil)
	if err != nil {
		t.Fatalf("seed import: %v", err)
	}
	if seeded.Added != 1 {
		t.Fatalf("expected 1 added, got %+v", *seeded)
	}

	// Providers that return no avatars or jids must not blank stored values.
	result, err := svc.ImportContacts(ctx, accountID, tenantID, []wapi.ContactRecord{
		{Phone: "5511988880004", Name: "Ana L. Lima"},
	}, types.ContactSourceImport, nil)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected updated=1, got %+v", *result)
	}

	stored, err := contactRepo.GetByPhone(ctx, nil, accountID, "5511988880004")
	if err != nil {
		t.Fatalf("GetByPhone: %v", err)
	}
	if stored.Name != "Ana L. Lima" {
		t.Fatalf("expected new non-empty name applied, got %q", stored.Name)
	}
	if stored.AvatarURL != "https://cdn.example.com/ana.png" {
		t.Fatalf("expected stored avatar kept, got %q", stored.AvatarURL)
	}
	if stored.WhatsappJID != "5511988880004@s.whatsapp.net" {
		t.Fatalf("expected stored jid kept, got %q", stored.WhatsappJID)
	}
}

func TestImportServiceFallsBackToJID(t *testing.T) {
	svc, contactRepo, _, accountID := newImportFixture(t)
	ctx := context.Background()

	payload := []wapi.ContactRecord{
		{JID: "5511988880009@s.whatsapp.net", Name: "Carla Dias"},
	}
	result, err := svc.ImportContacts(ctx, accountID, uuid.New(), payload, types.ContactSourceImport, nil)
	if err != nil {
		t.Fatalf("ImportContacts: %v", err)
	}
	if result.Added != 1 {
		t.Fatalf("expected 1 added, got %+v", *result)
	}
	stored, err := contactRepo.GetByPhone(ctx, nil, accountID, "5511988880009")
	if err != nil {
		t.Fatalf("GetByPhone: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected contact keyed by phone derived from JID")
	}
}

func TestImportServiceSkipsRepeatedPhones(t *testing.T) {
	svc, _, _, accountID := newImportFixture(t)
	ctx := context.Background()

	payload := []wapi.ContactRecord{
		{Phone: "5511988880001", Name: "Ana Lima"},
		{Phone: "+55 (11) 98888-0001", Name: "Ana L."},
	}
	result, err := svc.ImportContacts(ctx, accountID, uuid.New(), payload, types.ContactSourceImport, nil)
	if err != nil {
		t.Fatalf("ImportContacts: %v", err)
	}
	if result.Added != 1 || result.Skipped != 1 {
		t.Fatalf("expected added=1 skipped=1 for in-payload duplicate, got %+v", *result)
	}
}

func TestImportFromInboxPreconditions(t *testing.T) {
	svc, _, inboxRepo, accountID := newImportFixture(t)
	ctx := context.Background()

	if _, err := svc.ImportFromInbox(ctx, accountID, uuid.New(), uuid.New()); apierr.Code(err) != apierr.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing inbox, got %v", err)
	}

	ib := &types.Inbox{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      "Support line",
		Provider:  "wapi",
		Status:    types.InboxStatusDisconnected,
	}
	if _, err := inboxRepo.Create(ctx, nil, []*types.Inbox{ib}); err != nil {
		t.Fatalf("seed inbox: %v", err)
	}
	if _, err := svc.ImportFromInbox(ctx, accountID, uuid.New(), ib.ID); apierr.Code(err) != apierr.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for disconnected inbox, got %v", err)
	}
}
