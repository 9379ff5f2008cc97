package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"microblog/internal/model"
	"microblog/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	newUser := func(name string) *model.User {
		t.Helper()
		u, err := s.Users().Create(ctx, &model.User{APIKey: "key-" + uuid.New().String(), Name: name})
		if err != nil {
			t.Fatalf("CreateUser %s: %v", name, err)
		}
		return u
	}

	alice := newUser("alice")
	bob := newUser("bob")

	// Users
	if got, err := s.Users().GetByID(ctx, alice.ID); err != nil || got.Name != "alice" {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByAPIKey(ctx, alice.APIKey); err != nil || got.ID != alice.ID {
		t.Fatalf("GetByAPIKey: got=%v err=%v", got, err)
	}
	if _, err := s.Users().GetByAPIKey(ctx, "no-such-key"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByAPIKey unknown: want ErrNotFound, got %v", err)
	}
	if _, err := s.Users().Create(ctx, &model.User{APIKey: alice.APIKey, Name: "imposter"}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate api_key: want ErrConflict, got %v", err)
	}
	if n, err := s.Users().Count(ctx); err != nil || n < 2 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	// Media resolution
	m1, err := s.Media().Create(ctx, "static/media/a.png")
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}
	m2, err := s.Media().Create(ctx, "static/media/b.png")
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}
	if got, err := s.Media().GetByIDs(ctx, nil); err != nil || got != nil {
		t.Fatalf("GetByIDs empty input: got=%v err=%v", got, err)
	}
	got, err := s.Media().GetByIDs(ctx, []int64{m1.ID, m2.ID, 999999})
	if err != nil || len(got) != 2 {
		t.Fatalf("GetByIDs subset: n=%d err=%v", len(got), err)
	}

	// Tweet create round-trip with attachments
	tw, err := s.Tweets().Create(ctx, &model.Tweet{Content: "hello world", AuthorID: alice.ID}, []int64{m1.ID, m2.ID})
	if err != nil {
		t.Fatalf("CreateTweet: %v", err)
	}
	fetched, err := s.Tweets().GetByID(ctx, tw.ID)
	if err != nil || fetched.Content != "hello world" || fetched.AuthorID != alice.ID {
		t.Fatalf("GetTweet: got=%+v err=%v", fetched, err)
	}
	if fetched.AuthorName != "alice" {
		t.Fatalf("GetTweet author name: got %q", fetched.AuthorName)
	}
	attached, err := s.Media().ListForTweets(ctx, []int64{tw.ID})
	if err != nil || len(attached) != 2 {
		t.Fatalf("ListForTweets media: n=%d err=%v", len(attached), err)
	}
	for _, m := range attached {
		if m.TweetID == nil || *m.TweetID != tw.ID {
			t.Fatalf("media not attached: %+v", m)
		}
	}

	// Feed ordering: newest first, id descending on equal timestamps
	tw2, err := s.Tweets().Create(ctx, &model.Tweet{Content: "second", AuthorID: bob.ID}, nil)
	if err != nil {
		t.Fatalf("CreateTweet second: %v", err)
	}
	tw3, err := s.Tweets().Create(ctx, &model.Tweet{Content: "third", AuthorID: bob.ID}, nil)
	if err != nil {
		t.Fatalf("CreateTweet third: %v", err)
	}
	feed, err := s.Tweets().ListAll(ctx)
	if err != nil || len(feed) < 3 {
		t.Fatalf("ListAll: n=%d err=%v", len(feed), err)
	}
	for i := 1; i < len(feed); i++ {
		prev, cur := feed[i-1], feed[i]
		if cur.CreatedAt.After(prev.CreatedAt) {
			t.Fatalf("feed not newest-first at %d: %v before %v", i, prev.CreatedAt, cur.CreatedAt)
		}
		if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID > prev.ID {
			t.Fatalf("feed tie-break not id-descending at %d", i)
		}
	}
	if feed[0].ID != tw3.ID {
		t.Fatalf("feed head: got %d want %d", feed[0].ID, tw3.ID)
	}

	// Likes: duplicate pair conflicts, removing absent pair is not found
	if _, err := s.Likes().Add(ctx, bob.ID, tw.ID); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	if _, err := s.Likes().Add(ctx, bob.ID, tw.ID); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate like: want ErrConflict, got %v", err)
	}
	if _, err := s.Likes().Add(ctx, alice.ID, tw.ID); err != nil {
		t.Fatalf("AddLike alice: %v", err)
	}
	likes, err := s.Likes().ListForTweets(ctx, []int64{tw.ID, tw2.ID})
	if err != nil || len(likes) != 2 {
		t.Fatalf("ListForTweets likes: n=%d err=%v", len(likes), err)
	}
	if likes[0].UserID != bob.ID || likes[0].UserName != "bob" {
		t.Fatalf("like join order/name: %+v", likes[0])
	}
	if err := s.Likes().Remove(ctx, alice.ID, tw.ID); err != nil {
		t.Fatalf("RemoveLike: %v", err)
	}
	if err := s.Likes().Remove(ctx, alice.ID, tw.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("remove absent like: want ErrNotFound, got %v", err)
	}

	// Follows: both FK roles resolve independently
	if _, err := s.Follows().Add(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("AddFollow: %v", err)
	}
	if _, err := s.Follows().Add(ctx, alice.ID, bob.ID); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate follow: want ErrConflict, got %v", err)
	}
	// The reverse edge is a distinct pair and must not conflict.
	if _, err := s.Follows().Add(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("reverse follow: %v", err)
	}
	followers, err := s.Follows().Followers(ctx, bob.ID)
	if err != nil || len(followers) != 1 || followers[0].ID != alice.ID || followers[0].Name != "alice" {
		t.Fatalf("Followers: got=%v err=%v", followers, err)
	}
	following, err := s.Follows().Following(ctx, alice.ID)
	if err != nil || len(following) != 1 || following[0].ID != bob.ID {
		t.Fatalf("Following: got=%v err=%v", following, err)
	}
	if err := s.Follows().Remove(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("RemoveFollow: %v", err)
	}
	if err := s.Follows().Remove(ctx, bob.ID, alice.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("remove absent follow: want ErrNotFound, got %v", err)
	}

	// Delete tweet: wrong author is not distinguishable from missing
	if err := s.Tweets().Delete(ctx, tw.ID, bob.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("delete foreign tweet: want ErrNotFound, got %v", err)
	}
	// Cascade: like and media rows disappear with the tweet
	if err := s.Tweets().Delete(ctx, tw.ID, alice.ID); err != nil {
		t.Fatalf("DeleteTweet: %v", err)
	}
	if _, err := s.Tweets().GetByID(ctx, tw.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("deleted tweet still readable: %v", err)
	}
	if rows, err := s.Media().GetByIDs(ctx, []int64{m1.ID, m2.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("media rows survived cascade: n=%d err=%v", len(rows), err)
	}
	if likes, err := s.Likes().ListForTweets(ctx, []int64{tw.ID}); err != nil || len(likes) != 0 {
		t.Fatalf("like rows survived cascade: n=%d err=%v", len(likes), err)
	}
	// Unrelated rows untouched
	if _, err := s.Tweets().GetByID(ctx, tw2.ID); err != nil {
		t.Fatalf("unrelated tweet lost: %v", err)
	}
}
