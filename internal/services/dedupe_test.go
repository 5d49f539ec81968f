package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/data/repos"
	"github.com/talkbase/talkbase-backend/internal/data/repos/testutil"
	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/identity"
	"github.com/talkbase/talkbase-backend/internal/platform/apierr"
)

func newDedupeFixture(t *testing.T) (DedupeService, repos.ContactRepo, uuid.UUID) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	contactRepo := repos.NewContactRepo(tx, log)
	dismissals := repos.NewDuplicateDismissalRepo(tx, log)
	svc := NewDedupeService(tx, log, contactRepo, dismissals, nil)
	return svc, contactRepo, uuid.New()
}

func TestDedupeServiceDetectsSimilarNames(t *testing.T) {
	svc, contactRepo, accountID := newDedupeFixture(t)
	ctx := context.Background()

	seed := []*types.Contact{
		testutil.NewContact(accountID, "Jon Smith", "15550000001"),
		testutil.NewContact(accountID, "John Smith", "15550000002"),
		testutil.NewContact(accountID, "Maria Souza", "15550000003"),
	}
	if _, err := contactRepo.Create(ctx, nil, seed); err != nil {
		t.Fatalf("seed contacts: %v", err)
	}

	sets, err := svc.DetectDuplicates(ctx, accountID)
	if err != nil {
		t.Fatalf("DetectDuplicates: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("expected 1 duplicate set, got %d", len(sets))
	}
	if sets[0].Type != identity.DuplicateTypeSimilarName {
		t.Fatalf("expected similar_name set, got %s", sets[0].Type)
	}
	if len(sets[0].Contacts) != 2 {
		t.Fatalf("expected 2 contacts in set, got %d", len(sets[0].Contacts))
	}
}

func TestDedupeServiceDismissSuppressesSet(t *testing.T) {
	svc, contactRepo, accountID := newDedupeFixture(t)
	ctx := context.Background()
	actor := uuid.New()

	a := testutil.NewContact(accountID, "Jon Smith", "15550000001")
	b := testutil.NewContact(accountID, "John Smith", "15550000002")
	if _, err := contactRepo.Create(ctx, nil, []*types.Contact{a, b}); err != nil {
		t.Fatalf("seed contacts: %v", err)
	}

	if err := svc.DismissDuplicate(ctx, accountID, a.ID, b.ID, actor); err != nil {
		t.Fatalf("DismissDuplicate: %v", err)
	}
	// Idempotent from either direction.
	if err := svc.DismissDuplicate(ctx, accountID, b.ID, a.ID, actor); err != nil {
		t.Fatalf("repeat DismissDuplicate: %v", err)
	}

	sets, err := svc.DetectDuplicates(ctx, accountID)
	if err != nil {
		t.Fatalf("DetectDuplicates: %v", err)
	}
	if len(sets) != 0 {
		t.Fatalf("expected dismissed set to be suppressed, got %d sets", len(sets))
	}
}

func TestDedupeServiceDismissValidation(t *testing.T) {
	svc, contactRepo, accountID := newDedupeFixture(t)
	ctx := context.Background()
	actor := uuid.New()

	a := testutil.NewContact(accountID, "Jon Smith", "15550000001")
	if _, err := contactRepo.Create(ctx, nil, []*types.Contact{a}); err != nil {
		t.Fatalf("seed contact: %v", err)
	}

	if err := svc.DismissDuplicate(ctx, accountID, a.ID, a.ID, actor); apierr.Code(err) != apierr.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for self pair, got %v", err)
	}
	if err := svc.DismissDuplicate(ctx, accountID, a.ID, uuid.New(), actor); apierr.Code(err) != apierr.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing contact, got %v", err)
	}
}
