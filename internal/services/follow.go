package services

import (
	"context"
	"fmt"

	"microblog/internal/model"
	"microblog/internal/store"
)

// FollowService handles directed follow edges between users.
type FollowService struct {
	store store.Store
}

func NewFollowService(s store.Store) *FollowService { return &FollowService{store: s} }

// Follow creates the follower→followed edge. The target must exist
// (ErrNotFound), a duplicate edge is ErrConflict, and following yourself is
// rejected with ErrValidation.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return fmt.Errorf("cannot follow yourself: %w", model.ErrValidation)
	}
	if _, err := s.store.Users().GetByID(ctx, followedID); err != nil {
		return err
	}
	_, err := s.store.Follows().Add(ctx, followerID, followedID)
	return err
}

// Unfollow removes the edge; ErrNotFound when it does not exist.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	return s.store.Follows().Remove(ctx, followerID, followedID)
}
