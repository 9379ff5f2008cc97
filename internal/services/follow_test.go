package services

import (
	"context"
	"errors"
	"testing"

	"microblog/internal/model"
)

func TestFollowService_SelfFollowRejected(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	svc := NewFollowService(st)

	alice := mustUser(t, st, "k1", "alice")

	if err := svc.Follow(ctx, alice.ID, alice.ID); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("want ErrValidation on self-follow, got %v", err)
	}
	if edges, err := st.Follows().Following(ctx, alice.ID); err != nil || len(edges) != 0 {
		t.Fatalf("self-follow edge persisted: n=%d err=%v", len(edges), err)
	}
}

func TestFollowService_FollowLifecycle(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	svc := NewFollowService(st)

	alice := mustUser(t, st, "k1", "alice")
	bob := mustUser(t, st, "k2", "bob")

	if err := svc.Follow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.Follow(ctx, alice.ID, bob.ID); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("want ErrConflict on duplicate edge, got %v", err)
	}
	if err := svc.Follow(ctx, alice.ID, bob.ID+100); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown target, got %v", err)
	}

	if err := svc.Unfollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := svc.Unfollow(ctx, alice.ID, bob.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("want ErrNotFound on absent edge, got %v", err)
	}
}

func TestLikeService_RequiresExistingTweet(t *testing.T) {
	ctx := context.Background()
	st, files := newTestStore(t)
	tweets := NewTweetService(st, files)
	svc := NewLikeService(st)

	alice := mustUser(t, st, "k1", "alice")
	tw, err := tweets.Create(ctx, alice.ID, "hi", nil)
	if err != nil {
		t.Fatalf("create tweet: %v", err)
	}

	if err := svc.Like(ctx, alice.ID, tw.ID+100); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown tweet, got %v", err)
	}
	if err := svc.Like(ctx, alice.ID, tw.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := svc.Like(ctx, alice.ID, tw.ID); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("want ErrConflict on second like, got %v", err)
	}
	if err := svc.Unlike(ctx, alice.ID, tw.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if err := svc.Unlike(ctx, alice.ID, tw.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("want ErrNotFound on absent like, got %v", err)
	}
}

func TestUserService_ProfileBothSides(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	follows := NewFollowService(st)
	users := NewUserService(st)

	alice := mustUser(t, st, "k1", "alice")
	bob := mustUser(t, st, "k2", "bob")
	carol := mustUser(t, st, "k3", "carol")

	// bob and carol follow alice; alice follows bob.
	if err := follows.Follow(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := follows.Follow(ctx, carol.ID, alice.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := follows.Follow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	p, err := users.Profile(ctx, alice)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.ID != alice.ID || p.Name != "alice" {
		t.Fatalf("identity wrong: %+v", p)
	}
	if len(p.Followers) != 2 || len(p.Following) != 1 {
		t.Fatalf("want 2 followers / 1 following, got %d/%d", len(p.Followers), len(p.Following))
	}
	if p.Following[0] != (model.UserRef{ID: bob.ID, Name: "bob"}) {
		t.Fatalf("following wrong: %+v", p.Following)
	}

	// A user with no edges still gets arrays, never nil.
	lone := mustUser(t, st, "k4", "dora")
	p, err = users.Profile(ctx, lone)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Followers == nil || p.Following == nil {
		t.Fatalf("profile slices must be non-nil: %+v", p)
	}
}
