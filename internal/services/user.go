package services

import (
	"context"

	"microblog/internal/model"
	"microblog/internal/store"
)

// UserService handles user lookups and profile assembly.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

func (s *UserService) GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	return s.store.Users().GetByAPIKey(ctx, apiKey)
}

// Profile joins the user with both sides of the follow relation. The follower
// and followed roles are two foreign keys onto the same table and are resolved
// independently; order is the underlying insertion order.
func (s *UserService) Profile(ctx context.Context, u *model.User) (*model.Profile, error) {
	followers, err := s.store.Follows().Followers(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.store.Follows().Following(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if followers == nil {
		followers = []model.UserRef{}
	}
	if following == nil {
		following = []model.UserRef{}
	}
	return &model.Profile{
		ID:        u.ID,
		Name:      u.Name,
		Followers: followers,
		Following: following,
	}, nil
}
