package contact

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talkbase/talkbase-backend/internal/data/repos/testutil"
	types "github.com/talkbase/talkbase-backend/internal/domain"
)

func TestContactRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContactRepo(db, testutil.Logger(t))
	ctx := context.Background()
	accountID := uuid.New()

	created, err := repo.Create(ctx, tx, []*types.Contact{
		testutil.NewContact(accountID, "Maria Silva", "5511988880001"),
		testutil.NewContact(accountID, "João Souza", "5511988880002"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Create: expected 2 contacts, got %d", len(created))
	}

	got, err := repo.GetByID(ctx, tx, accountID, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ID != created[0].ID {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	otherAccount, err := repo.GetByID(ctx, tx, uuid.New(), created[0].ID)
	if err != nil {
		t.Fatalf("GetByID (foreign account): %v", err)
	}
	if otherAccount != nil {
		t.Fatalf("GetByID must be account scoped")
	}

	byPhone, err := repo.GetByPhone(ctx, tx, accountID, "5511988880002")
	if err != nil {
		t.Fatalf("GetByPhone: %v", err)
	}
	if byPhone == nil || byPhone.ID != created[1].ID {
		t.Fatalf("GetByPhone: unexpected result: %+v", byPhone)
	}

	if err := repo.UpdateFields(ctx, tx, accountID, created[0].ID, map[string]any{"name": "Maria S. Silva"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	updated, err := repo.GetByID(ctx, tx, accountID, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if updated.Name != "Maria S. Silva" {
		t.Fatalf("UpdateFields: name = %q", updated.Name)
	}

	count, err := repo.CountByAccount(ctx, tx, accountID)
	if err != nil {
		t.Fatalf("CountByAccount: %v", err)
	}
	if count != 2 {
		t.Fatalf("CountByAccount: %d, want 2", count)
	}

	if err := repo.Delete(ctx, tx, accountID, []uuid.UUID{created[1].ID}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := repo.GetByID(ctx, tx, accountID, created[1].ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if gone != nil {
		t.Fatalf("deleted contact still visible")
	}
}

func TestContactRepoPhoneReuseAfterDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContactRepo(db, testutil.Logger(t))
	ctx := context.Background()
	accountID := uuid.New()

	original := testutil.NewContact(accountID, "Maria Silva", "5511988880007")
	if _, err := repo.Create(ctx, tx, []*types.Contact{original}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A second live row with the same phone must hit the unique index. The
	// savepoint keeps the failed insert from aborting the test transaction.
	dupErr := tx.Transaction(func(inner *gorm.DB) error {
		_, err := repo.Create(ctx, inner, []*types.Contact{
			testutil.NewContact(accountID, "Maria Dupe", "5511988880007"),
		})
		return err
	})
	if dupErr == nil {
		t.Fatalf("expected unique violation for duplicate live phone")
	}

	if err := repo.Delete(ctx, tx, accountID, []uuid.UUID{original.ID}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The index is partial over live rows, so the soft-deleted contact no
	// longer holds the phone slot.
	replacement := testutil.NewContact(accountID, "Maria Nova", "5511988880007")
	if _, err := repo.Create(ctx, tx, []*types.Contact{replacement}); err != nil {
		t.Fatalf("Create after delete: %v", err)
	}
	stored, err := repo.GetByPhone(ctx, tx, accountID, "5511988880007")
	if err != nil {
		t.Fatalf("GetByPhone: %v", err)
	}
	if stored == nil || stored.ID != replacement.ID {
		t.Fatalf("expected replacement contact under reused phone, got %+v", stored)
	}
}

func TestContactRepoCreateInBatches(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContactRepo(db, testutil.Logger(t))
	ctx := context.Background()
	accountID := uuid.New()

	rows := make([]*types.Contact, 0, 250)
	for i := 0; i < 250; i++ {
		rows = append(rows, testutil.NewContact(accountID, "Bulk", uuid.NewString()))
	}
	if err := repo.CreateInBatches(ctx, tx, rows, 100); err != nil {
		t.Fatalf("CreateInBatches: %v", err)
	}

	count, err := repo.CountByAccount(ctx, tx, accountID)
	if err != nil {
		t.Fatalf("CountByAccount: %v", err)
	}
	if count != 250 {
		t.Fatalf("CountByAccount: %d, want 250", count)
	}
}
