package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"microblog/internal/mediafiles"
	"microblog/internal/model"
	"microblog/internal/store"
	"microblog/internal/store/sqlite"
)

func newTestStore(t *testing.T) (store.Store, *mediafiles.Dir) {
	t.Helper()
	db, err := sqlite.OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	files, err := mediafiles.New(t.TempDir())
	if err != nil {
		t.Fatalf("media root: %v", err)
	}
	return sqlite.NewWithDB(db), files
}

func mustUser(t *testing.T, st store.Store, key, name string) *model.User {
	t.Helper()
	u, err := st.Users().Create(context.Background(), &model.User{APIKey: key, Name: name})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func TestTweetService_CreateDropsUnknownMediaIDs(t *testing.T) {
	ctx := context.Background()
	st, files := newTestStore(t)
	svc := NewTweetService(st, files)

	u := mustUser(t, st, "k1", "alice")
	md, err := st.Media().Create(ctx, "static/media/a.png")
	if err != nil {
		t.Fatalf("create media: %v", err)
	}

	tw, err := svc.Create(ctx, u.ID, "hello", []int64{md.ID, md.ID + 100})
	if err != nil {
		t.Fatalf("create tweet: %v", err)
	}

	attached, err := st.Media().ListForTweets(ctx, []int64{tw.ID})
	if err != nil {
		t.Fatalf("list media: %v", err)
	}
	if len(attached) != 1 || attached[0].ID != md.ID {
		t.Fatalf("want only the existing media attached, got %+v", attached)
	}
}

func TestTweetService_DeleteRemovesFilesAndRows(t *testing.T) {
	ctx := context.Background()
	st, files := newTestStore(t)
	svc := NewTweetService(st, files)

	u := mustUser(t, st, "k1", "alice")
	url, err := files.Save("pic.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save file: %v", err)
	}
	md, err := st.Media().Create(ctx, url)
	if err != nil {
		t.Fatalf("create media: %v", err)
	}
	tw, err := svc.Create(ctx, u.ID, "with attachment", []int64{md.ID})
	if err != nil {
		t.Fatalf("create tweet: %v", err)
	}

	if err := svc.Delete(ctx, u, tw.ID); err != nil {
		t.Fatalf("delete tweet: %v", err)
	}

	if _, err := os.Stat(url); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("media file still on disk: %v", err)
	}
	if _, err := st.Tweets().GetByID(ctx, tw.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if rows, err := st.Media().GetByIDs(ctx, []int64{md.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("media row survived cascade: n=%d err=%v", len(rows), err)
	}
}

func TestTweetService_DeleteMissingFileIsNotAnError(t *testing.T) {
	ctx := context.Background()
	st, files := newTestStore(t)
	svc := NewTweetService(st, files)

	u := mustUser(t, st, "k1", "alice")
	url, err := files.Save("pic.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save file: %v", err)
	}
	md, err := st.Media().Create(ctx, url)
	if err != nil {
		t.Fatalf("create media: %v", err)
	}
	tw, err := svc.Create(ctx, u.ID, "with attachment", []int64{md.ID})
	if err != nil {
		t.Fatalf("create tweet: %v", err)
	}

	// Someone cleaned the directory out from under us.
	if err := os.Remove(filepath.Clean(url)); err != nil {
		t.Fatalf("remove file: %v", err)
	}

	if err := svc.Delete(ctx, u, tw.ID); err != nil {
		t.Fatalf("delete with missing file should succeed, got %v", err)
	}
}

func TestTweetService_DeleteForbiddenForNonAuthor(t *testing.T) {
	ctx := context.Background()
	st, files := newTestStore(t)
	svc := NewTweetService(st, files)

	alice := mustUser(t, st, "k1", "alice")
	bob := mustUser(t, st, "k2", "bob")
	tw, err := svc.Create(ctx, alice.ID, "mine", nil)
	if err != nil {
		t.Fatalf("create tweet: %v", err)
	}

	if err := svc.Delete(ctx, bob, tw.ID); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, bob, tw.ID+100); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing tweet, got %v", err)
	}
	// The tweet is untouched.
	if _, err := st.Tweets().GetByID(ctx, tw.ID); err != nil {
		t.Fatalf("tweet gone after forbidden delete: %v", err)
	}
}

func TestTweetService_FeedViewShapes(t *testing.T) {
	ctx := context.Background()
	st, files := newTestStore(t)
	svc := NewTweetService(st, files)

	alice := mustUser(t, st, "k1", "alice")
	bob := mustUser(t, st, "k2", "bob")

	md, err := st.Media().Create(ctx, "static/media/a.png")
	if err != nil {
		t.Fatalf("create media: %v", err)
	}
	bare, err := svc.Create(ctx, alice.ID, "no media", nil)
	if err != nil {
		t.Fatalf("create tweet: %v", err)
	}
	rich, err := svc.Create(ctx, bob.ID, "with media", []int64{md.ID})
	if err != nil {
		t.Fatalf("create tweet: %v", err)
	}
	if _, err := st.Likes().Add(ctx, alice.ID, rich.ID); err != nil {
		t.Fatalf("add like: %v", err)
	}

	views, err := svc.Feed(ctx)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("want 2 feed items, got %d", len(views))
	}

	// Newest first: the second tweet leads.
	if views[0].ID != rich.ID || views[1].ID != bare.ID {
		t.Fatalf("feed order wrong: %d, %d", views[0].ID, views[1].ID)
	}

	if len(views[0].Attachments) != 1 || views[0].Attachments[0] != "static/media/a.png" {
		t.Fatalf("want one attachment, got %v", views[0].Attachments)
	}
	if len(views[0].Likes) != 1 || views[0].Likes[0].UserID != alice.ID || views[0].Likes[0].Name != "alice" {
		t.Fatalf("want alice as liker, got %v", views[0].Likes)
	}
	if views[0].Author != (model.UserRef{ID: bob.ID, Name: "bob"}) {
		t.Fatalf("author wrong: %+v", views[0].Author)
	}

	// No media serializes as null, zero likes as an empty array.
	if views[1].Attachments != nil {
		t.Fatalf("attachments must stay nil without media, got %v", views[1].Attachments)
	}
	if views[1].Likes == nil || len(views[1].Likes) != 0 {
		t.Fatalf("likes must be an empty array, got %v", views[1].Likes)
	}
}

func TestTweetService_FeedEmpty(t *testing.T) {
	st, files := newTestStore(t)
	svc := NewTweetService(st, files)

	views, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("want empty feed, got %d items", len(views))
	}
}
