package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"microblog/internal/model"
	"microblog/internal/store"
	"microblog/internal/store/storetest"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func TestSqliteStore_Compliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return NewWithDB(newTestDB(t))
	})
}

// The pre-check inside Likes.Add is only a fast path; the UNIQUE constraint is
// what holds under check-then-insert races. Simulate the lost race by inserting
// the row behind the store's back and verifying the constraint still maps to
// ErrConflict.
func TestSqliteStore_UniqueConstraintBacksPreCheck(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := NewWithDB(db)

	u, err := s.Users().Create(ctx, &model.User{APIKey: "k1", Name: "alice"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	tw, err := s.Tweets().Create(ctx, &model.Tweet{Content: "hi", AuthorID: u.ID}, nil)
	if err != nil {
		t.Fatalf("create tweet: %v", err)
	}

	if _, err := db.ExecContext(ctx, `INSERT INTO likes (user_id, tweet_id) VALUES (?,?)`, u.ID, tw.ID); err != nil {
		t.Fatalf("raw insert: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO likes (user_id, tweet_id) VALUES (?,?)`, u.ID, tw.ID); !isUniqueViolation(err) {
		t.Fatalf("want unique violation, got %v", err)
	}

	if _, err := s.Follows().Add(ctx, u.ID, u.ID); err != nil {
		t.Fatalf("seed follow: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO follows (follower_id, followed_id) VALUES (?,?)`, u.ID, u.ID); !isUniqueViolation(err) {
		t.Fatalf("want unique violation on follow edge, got %v", err)
	}
}

func TestSqliteStore_DeleteTweetRollsBackAtomically(t *testing.T) {
	ctx := context.Background()
	s := NewWithDB(newTestDB(t))

	u, err := s.Users().Create(ctx, &model.User{APIKey: "k1", Name: "alice"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	md, err := s.Media().Create(ctx, "static/media/x.png")
	if err != nil {
		t.Fatalf("create media: %v", err)
	}
	tw, err := s.Tweets().Create(ctx, &model.Tweet{Content: "hi", AuthorID: u.ID}, []int64{md.ID})
	if err != nil {
		t.Fatalf("create tweet: %v", err)
	}

	// A failed delete (wrong author) must leave every row in place.
	if err := s.Tweets().Delete(ctx, tw.ID, u.ID+1); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := s.Tweets().GetByID(ctx, tw.ID); err != nil {
		t.Fatalf("tweet gone after failed delete: %v", err)
	}
	if rows, err := s.Media().GetByIDs(ctx, []int64{md.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("media gone after failed delete: n=%d err=%v", len(rows), err)
	}
}
