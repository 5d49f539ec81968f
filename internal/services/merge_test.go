package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talkbase/talkbase-backend/internal/data/repos"
	"github.com/talkbase/talkbase-backend/internal/data/repos/testutil"
	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/apierr"
)

type mergeFixture struct {
	tx           *gorm.DB
	svc          MergeService
	contactRepo  repos.ContactRepo
	tagRepo      repos.TagRepo
	contactTags  repos.ContactTagRepo
	groupMembers repos.ContactGroupMemberRepo
	dismissals   repos.DuplicateDismissalRepo
	mergeLogs    repos.ContactMergeLogRepo
	accountID    uuid.UUID
}

func newMergeFixture(t *testing.T) *mergeFixture {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	contactRepo := repos.NewContactRepo(tx, log)
	tagRepo := repos.NewTagRepo(tx, log)
	groupRepo := repos.NewContactGroupRepo(tx, log)
	contactTags := repos.NewContactTagRepo(tx, log)
	groupMembers := repos.NewContactGroupMemberRepo(tx, log)
	dismissals := repos.NewDuplicateDismissalRepo(tx, log)
	mergeLogs := repos.NewContactMergeLogRepo(tx, log)

	contactSvc := NewContactService(tx, log, contactRepo, tagRepo, groupRepo, contactTags, groupMembers, dismissals, nil, nil)
	svc := NewMergeService(tx, log, contactRepo, contactTags, groupMembers, dismissals, mergeLogs, contactSvc, nil)

	return &mergeFixture{
		tx:           tx,
		svc:          svc,
		contactRepo:  contactRepo,
		tagRepo:      tagRepo,
		contactTags:  contactTags,
		groupMembers: groupMembers,
		dismissals:   dismissals,
		mergeLogs:    mergeLogs,
		accountID:    uuid.New(),
	}
}

func TestMergeServiceMergesContacts(t *testing.T) {
	f := newMergeFixture(t)
	ctx := context.Background()
	mergedBy := uuid.New()

	primary := testutil.NewContact(f.accountID, "Jon Smith", "15550000001")
	dup := testutil.NewContact(f.accountID, "John Smith", "15550000002")
	if _, err := f.contactRepo.Create(ctx, nil, []*types.Contact{primary, dup}); err != nil {
		t.Fatalf("seed contacts: %v", err)
	}

	vip := testutil.NewTag(f.accountID, "vip")
	lead := testutil.NewTag(f.accountID, "lead")
	if _, err := f.tagRepo.Create(ctx, nil, []*types.Tag{vip, lead}); err != nil {
		t.Fatalf("seed tags: %v", err)
	}
	rows := []*types.ContactTag{
		{ID: uuid.New(), ContactID: primary.ID, TagID: vip.ID},
		{ID: uuid.New(), ContactID: dup.ID, TagID: lead.ID},
	}
	if _, err := f.contactTags.Create(ctx, nil, rows); err != nil {
		t.Fatalf("seed tag memberships: %v", err)
	}

	dismissal := &types.DuplicateDismissal{
		ID:         uuid.New(),
		AccountID:  f.accountID,
		ContactID1: primary.ID,
		ContactID2: dup.ID,
		CreatedBy:  mergedBy,
	}
	if primary.ID.String() > dup.ID.String() {
		dismissal.ContactID1, dismissal.ContactID2 = dup.ID, primary.ID
	}
	if err := f.dismissals.Create(ctx, nil, dismissal); err != nil {
		t.Fatalf("seed dismissal: %v", err)
	}

	name := "Jonathan Smith"
	dto, err := f.svc.MergeContacts(ctx, f.accountID, []uuid.UUID{primary.ID, dup.ID}, MergeData{
		PrimaryContactID: &primary.ID,
		Name:             &name,
	}, mergedBy)
	if err != nil {
		t.Fatalf("MergeContacts: %v", err)
	}

	if dto.Contact.ID != primary.ID {
		t.Fatalf("expected primary %s to survive, got %s", primary.ID, dto.Contact.ID)
	}
	if dto.Contact.Name != name {
		t.Fatalf("expected override name %q, got %q", name, dto.Contact.Name)
	}
	if dto.Contact.Phone != primary.Phone {
		t.Fatalf("expected primary phone kept, got %q", dto.Contact.Phone)
	}
	if len(dto.Tags) != 2 {
		t.Fatalf("expected union of 2 tags, got %d", len(dto.Tags))
	}

	gone, err := f.contactRepo.GetByID(ctx, nil, f.accountID, dup.ID)
	if err != nil {
		t.Fatalf("GetByID absorbed: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected absorbed contact to be deleted")
	}

	remaining, err := f.dismissals.ListByAccount(ctx, nil, f.accountID)
	if err != nil {
		t.Fatalf("ListByAccount dismissals: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected stale dismissals cleared, got %d", len(remaining))
	}

	logs, err := f.mergeLogs.ListByAccount(ctx, nil, f.accountID, 10)
	if err != nil {
		t.Fatalf("ListByAccount merge logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(logs))
	}
	if logs[0].MergedContactID != primary.ID {
		t.Fatalf("audit record points at %s, want %s", logs[0].MergedContactID, primary.ID)
	}
}

func TestMergeServiceThreeWayExplicitPrimary(t *testing.T) {
	f := newMergeFixture(t)
	ctx := context.Background()

	a := testutil.NewContact(f.accountID, "Carla Dias", "15550000001")
	b := testutil.NewContact(f.accountID, "Karla Dias", "15550000002")
	c := testutil.NewContact(f.accountID, "Carla Diaz", "15550000003")
	if _, err := f.contactRepo.Create(ctx, nil, []*types.Contact{a, b, c}); err != nil {
		t.Fatalf("seed contacts: %v", err)
	}

	groupRepo := repos.NewContactGroupRepo(f.tx, testutil.Logger(t))
	suppliers := testutil.NewGroup(f.accountID, "suppliers")
	partners := testutil.NewGroup(f.accountID, "partners")
	if _, err := groupRepo.Create(ctx, nil, []*types.ContactGroup{suppliers, partners}); err != nil {
		t.Fatalf("seed groups: %v", err)
	}
	members := []*types.ContactGroupMember{
		{ID: uuid.New(), ContactID: a.ID, GroupID: suppliers.ID},
		{ID: uuid.New(), ContactID: c.ID, GroupID: partners.ID},
	}
	if _, err := f.groupMembers.Create(ctx, nil, members); err != nil {
		t.Fatalf("seed group memberships: %v", err)
	}

	dto, err := f.svc.MergeContacts(ctx, f.accountID, []uuid.UUID{a.ID, b.ID, c.ID}, MergeData{
		PrimaryContactID: &b.ID,
	}, uuid.New())
	if err != nil {
		t.Fatalf("MergeContacts: %v", err)
	}
	if dto.Contact.ID != b.ID {
		t.Fatalf("expected explicit primary %s to survive, got %s", b.ID, dto.Contact.ID)
	}
	if len(dto.Groups) != 2 {
		t.Fatalf("expected union of 2 groups on primary, got %d", len(dto.Groups))
	}
	for _, absorbed := range []uuid.UUID{a.ID, c.ID} {
		got, err := f.contactRepo.GetByID(ctx, nil, f.accountID, absorbed)
		if err != nil {
			t.Fatalf("GetByID absorbed: %v", err)
		}
		if got != nil {
			t.Fatalf("expected absorbed contact %s to be deleted", absorbed)
		}
	}

	logs, err := f.mergeLogs.ListByAccount(ctx, nil, f.accountID, 10)
	if err != nil {
		t.Fatalf("ListByAccount merge logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(logs))
	}
	var sourceIDs []uuid.UUID
	if err := json.Unmarshal(logs[0].SourceContactIDs, &sourceIDs); err != nil {
		t.Fatalf("decode audit source ids: %v", err)
	}
	if len(sourceIDs) != 3 {
		t.Fatalf("expected 3 audit source ids, got %d", len(sourceIDs))
	}
	if logs[0].MergedContactID != b.ID {
		t.Fatalf("audit record points at %s, want %s", logs[0].MergedContactID, b.ID)
	}
}

func TestMergeServiceDefaultsPrimaryToFirst(t *testing.T) {
	f := newMergeFixture(t)
	ctx := context.Background()

	a := testutil.NewContact(f.accountID, "Ana Lima", "15550000001")
	b := testutil.NewContact(f.accountID, "Anna Lima", "15550000002")
	if _, err := f.contactRepo.Create(ctx, nil, []*types.Contact{a, b}); err != nil {
		t.Fatalf("seed contacts: %v", err)
	}

	dto, err := f.svc.MergeContacts(ctx, f.accountID, []uuid.UUID{b.ID, a.ID}, MergeData{}, uuid.New())
	if err != nil {
		t.Fatalf("MergeContacts: %v", err)
	}
	if dto.Contact.ID != b.ID {
		t.Fatalf("expected first listed contact %s as primary, got %s", b.ID, dto.Contact.ID)
	}
	if dto.Contact.Name != b.Name {
		t.Fatalf("expected primary name kept, got %q", dto.Contact.Name)
	}
}

func TestMergeServiceValidation(t *testing.T) {
	f := newMergeFixture(t)
	ctx := context.Background()

	a := testutil.NewContact(f.accountID, "Ana Lima", "15550000001")
	if _, err := f.contactRepo.Create(ctx, nil, []*types.Contact{a}); err != nil {
		t.Fatalf("seed contact: %v", err)
	}

	if _, err := f.svc.MergeContacts(ctx, f.accountID, []uuid.UUID{a.ID}, MergeData{}, uuid.New()); apierr.Code(err) != apierr.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for single contact, got %v", err)
	}
	if _, err := f.svc.MergeContacts(ctx, f.accountID, []uuid.UUID{a.ID, uuid.New()}, MergeData{}, uuid.New()); apierr.Code(err) != apierr.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing contact, got %v", err)
	}
	outsider := uuid.New()
	b := testutil.NewContact(f.accountID, "Anna Lima", "15550000002")
	if _, err := f.contactRepo.Create(ctx, nil, []*types.Contact{b}); err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	if _, err := f.svc.MergeContacts(ctx, f.accountID, []uuid.UUID{a.ID, b.ID}, MergeData{PrimaryContactID: &outsider}, uuid.New()); apierr.Code(err) != apierr.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for primary outside set, got %v", err)
	}
}
