package store

import (
	"context"

	"microblog/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
//
// Mutating methods run inside their own transaction and map driver-level
// unique-constraint violations to model.ErrConflict, missing rows to
// model.ErrNotFound.
type Store interface {
	Users() Users
	Tweets() Tweets
	Media() Media
	Likes() Likes
	Follows() Follows
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error)
	Count(ctx context.Context) (int, error)
}

type Tweets interface {
	// Create inserts the tweet and attaches the given media rows in one
	// transaction. mediaIDs must already be resolved to existing rows.
	Create(ctx context.Context, t *model.Tweet, mediaIDs []int64) (*model.Tweet, error)
	GetByID(ctx context.Context, id int64) (*model.Tweet, error)
	// ListAll returns every tweet newest-first; ties on created_at break by
	// id descending.
	ListAll(ctx context.Context) ([]*model.Tweet, error)
	// Delete removes the tweet and cascades to its media and like rows.
	// Returns model.ErrNotFound when no row matches the id+author pair.
	Delete(ctx context.Context, id, authorID int64) error
}

type Media interface {
	Create(ctx context.Context, url string) (*model.Media, error)
	// GetByIDs returns the subset of rows whose ids are in the requested
	// set. Unknown ids are silently dropped; empty input short-circuits
	// without a query.
	GetByIDs(ctx context.Context, ids []int64) ([]*model.Media, error)
	ListForTweets(ctx context.Context, tweetIDs []int64) ([]*model.Media, error)
}

type Likes interface {
	Add(ctx context.Context, userID, tweetID int64) (*model.Like, error)
	Remove(ctx context.Context, userID, tweetID int64) error
	ListForTweets(ctx context.Context, tweetIDs []int64) ([]model.TweetLike, error)
}

type Follows interface {
	Add(ctx context.Context, followerID, followedID int64) (*model.Follow, error)
	Remove(ctx context.Context, followerID, followedID int64) error
	Followers(ctx context.Context, userID int64) ([]model.UserRef, error)
	Following(ctx context.Context, userID int64) ([]model.UserRef, error)
}
