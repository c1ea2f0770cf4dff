package sqlite

import (
	"context"
	"testing"
)

func TestSeedCatalog(t *testing.T) {
	db := newTestDB(t)

	if err := db.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("SeedCatalog() error = %v", err)
	}

	colleges, err := db.Colleges().List(context.Background())
	if err != nil {
		t.Fatalf("List colleges: %v", err)
	}
	if len(colleges) != len(seedColleges) {
		t.Errorf("seeded %d colleges, want %d", len(colleges), len(seedColleges))
	}

	programs, err := db.Programs().ListAll(context.Background())
	if err != nil {
		t.Fatalf("List programs: %v", err)
	}
	if len(programs) == 0 {
		t.Error("seeding left the programs table empty")
	}

	events, err := db.Events().List(context.Background())
	if err != nil {
		t.Fatalf("List events: %v", err)
	}
	if len(events) != len(seedEvents) {
		t.Errorf("seeded %d events, want %d", len(events), len(seedEvents))
	}
}

// Seeding must not duplicate or clobber rows on a restart.
func TestSeedCatalog_SecondRunIsNoop(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SeedCatalog(ctx); err != nil {
		t.Fatalf("SeedCatalog() first run: %v", err)
	}

	colleges, _ := db.Colleges().List(ctx)
	edited := colleges[0]
	edited.Tagline = "EDITED BY ADMIN"
	if err := db.Colleges().Update(ctx, &edited); err != nil {
		t.Fatalf("Update college: %v", err)
	}

	if err := db.SeedCatalog(ctx); err != nil {
		t.Fatalf("SeedCatalog() second run: %v", err)
	}

	after, err := db.Colleges().List(ctx)
	if err != nil {
		t.Fatalf("List colleges after reseed: %v", err)
	}
	if len(after) != len(colleges) {
		t.Errorf("reseed changed college count: %d -> %d", len(colleges), len(after))
	}
	got, err := db.Colleges().GetByID(ctx, edited.ID)
	if err != nil {
		t.Fatalf("GetByID after reseed: %v", err)
	}
	if got.Tagline != "EDITED BY ADMIN" {
		t.Errorf("reseed overwrote an admin edit: tagline = %q", got.Tagline)
	}
}

func TestEnsureAdmin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := db.EnsureAdmin(ctx, "admin@najah.edu", "some-hash")
	if err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	if !created {
		t.Error("EnsureAdmin() should report creation on an empty database")
	}

	admin, err := db.Accounts().GetByEmail(ctx, "admin@najah.edu")
	if err != nil {
		t.Fatalf("GetByEmail after EnsureAdmin: %v", err)
	}
	if admin.Role != "admin" {
		t.Errorf("Role = %q, want admin", admin.Role)
	}

	created, err = db.EnsureAdmin(ctx, "admin@najah.edu", "different-hash")
	if err != nil {
		t.Fatalf("EnsureAdmin() second run: %v", err)
	}
	if created {
		t.Error("EnsureAdmin() must not recreate an existing admin")
	}

	again, _ := db.Accounts().GetByEmail(ctx, "admin@najah.edu")
	if again.PasswordHash != "some-hash" {
		t.Errorf("EnsureAdmin() overwrote the password hash: %q", again.PasswordHash)
	}
}
