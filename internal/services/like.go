package services

import (
	"context"

	"microblog/internal/store"
)

// LikeService handles like edges between users and tweets.
type LikeService struct {
	store store.Store
}

func NewLikeService(s store.Store) *LikeService { return &LikeService{store: s} }

// Like records that the user liked the tweet. The tweet must exist
// (ErrNotFound); liking twice is ErrConflict.
func (s *LikeService) Like(ctx context.Context, userID, tweetID int64) error {
	if _, err := s.store.Tweets().GetByID(ctx, tweetID); err != nil {
		return err
	}
	_, err := s.store.Likes().Add(ctx, userID, tweetID)
	return err
}

// Unlike removes the like; ErrNotFound when it was never added.
func (s *LikeService) Unlike(ctx context.Context, userID, tweetID int64) error {
	return s.store.Likes().Remove(ctx, userID, tweetID)
}
