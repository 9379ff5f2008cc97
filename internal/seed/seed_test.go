package seed

import (
	"context"
	"testing"

	"microblog/internal/store"
	"microblog/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := sqlite.OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return sqlite.NewWithDB(db)
}

func TestRun_SeedsFixtures(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if err := Run(ctx, st); err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := st.Users().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(fixtureNames) {
		t.Fatalf("want %d users, got %d", len(fixtureNames), n)
	}

	// The first account keeps the bare "test" key the frontend expects.
	u, err := st.Users().GetByAPIKey(ctx, "test")
	if err != nil {
		t.Fatalf("lookup test key: %v", err)
	}
	if u.Name != fixtureNames[0] {
		t.Errorf("test key maps to %q, want %q", u.Name, fixtureNames[0])
	}

	tweets, err := st.Tweets().ListAll(ctx)
	if err != nil {
		t.Fatalf("list tweets: %v", err)
	}
	if want := len(fixtureNames) * 3; len(tweets) != want {
		t.Errorf("want %d tweets, got %d", want, len(tweets))
	}
}

func TestRun_GraphHasNoSelfFollows(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if err := Run(ctx, st); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := range fixtureNames {
		id := int64(i + 1)
		following, err := st.Follows().Following(ctx, id)
		if err != nil {
			t.Fatalf("following(%d): %v", id, err)
		}
		if len(following) != 3 {
			t.Errorf("user %d follows %d users, want 3", id, len(following))
		}
		for _, ref := range following {
			if ref.ID == id {
				t.Errorf("user %d follows itself", id)
			}
		}
	}
}

func TestRun_IdempotentAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if err := Run(ctx, st); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Run(ctx, st); err != nil {
		t.Fatalf("second seed must be a no-op, got %v", err)
	}

	n, err := st.Users().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(fixtureNames) {
		t.Fatalf("second run changed data: %d users", n)
	}
}
