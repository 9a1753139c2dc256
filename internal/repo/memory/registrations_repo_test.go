package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gatherhub/gatherhub/internal/domain/registration"
	"github.com/gatherhub/gatherhub/internal/repo/memory"
)

func TestSaveIsUpsertByCompositeKey(t *testing.T) {
	repo := memory.NewRegistrationsRepo()
	ctx := context.Background()

	reg := registration.NewActive("u-1", "ev-1")

	if err := repo.Save(ctx, reg); err != nil {
		t.Fatalf("save: %v", err)
	}

	// same (user,event): overwrite, not a second record
	pos := 1
	reg.Status = registration.StatusWaitlisted
	reg.WaitlistPosition = &pos

	if err := repo.Save(ctx, reg); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := repo.FindByUserAndEvent(ctx, "u-1", "ev-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != registration.StatusWaitlisted {
		t.Fatalf("status = %q, overwrite lost", got.Status)
	}

	all, err := repo.FindByEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("find by event: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d records, want 1", len(all))
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	repo := memory.NewRegistrationsRepo()

	if err := repo.Delete(context.Background(), "u-404", "ev-404"); err != nil {
		t.Fatalf("delete of absent record returned %v, want nil", err)
	}
}

func TestFindByUserAndEventMissing(t *testing.T) {
	repo := memory.NewRegistrationsRepo()

	_, err := repo.FindByUserAndEvent(context.Background(), "u-1", "ev-1")

	if !errors.Is(err, registration.ErrNotFound) {
		t.Fatalf("got err %v, want ErrNotFound", err)
	}
}

func TestCompositeKeysDoNotCollide(t *testing.T) {
	// ids containing the old ":" separator must stay distinct
	repo := memory.NewRegistrationsRepo()
	ctx := context.Background()

	a := registration.NewActive("u:1", "ev")
	b := registration.NewActive("u", "1:ev")

	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := repo.Save(ctx, b); err != nil {
		t.Fatalf("save b: %v", err)
	}

	if _, err := repo.FindByUserAndEvent(ctx, "u:1", "ev"); err != nil {
		t.Fatalf("find a: %v", err)
	}
	if _, err := repo.FindByUserAndEvent(ctx, "u", "1:ev"); err != nil {
		t.Fatalf("find b: %v", err)
	}
}

func TestCountActiveAndWaitlistOrdering(t *testing.T) {
	repo := memory.NewRegistrationsRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, registration.NewActive("u-1", "ev-1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, registration.NewActive("u-2", "ev-1")); err != nil {
		t.Fatalf("save: %v", err)
	}

	// saved out of order on purpose
	if err := repo.Save(ctx, registration.NewWaitlisted("u-4", "ev-1", 2)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, registration.NewWaitlisted("u-3", "ev-1", 1)); err != nil {
		t.Fatalf("save: %v", err)
	}

	// another event must not leak into the counts
	if err := repo.Save(ctx, registration.NewActive("u-1", "ev-2")); err != nil {
		t.Fatalf("save: %v", err)
	}

	count, err := repo.CountActiveByEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("active count = %d, want 2", count)
	}

	waitlist, err := repo.WaitlistByEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("waitlist: %v", err)
	}
	if len(waitlist) != 2 {
		t.Fatalf("waitlist has %d entries, want 2", len(waitlist))
	}
	if waitlist[0].UserID != "u-3" || waitlist[1].UserID != "u-4" {
		t.Fatalf("waitlist not sorted by position: %s, %s", waitlist[0].UserID, waitlist[1].UserID)
	}

	byUser, err := repo.FindByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("find by user: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("u-1 has %d registrations, want 2", len(byUser))
	}
}
