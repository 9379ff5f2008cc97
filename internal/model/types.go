package model

import "time"

// User is an account row. The api_key is the sole authentication credential,
// equality-matched on every request.
type User struct {
	ID     int64  `json:"id"`
	APIKey string `json:"-"`
	Name   string `json:"name"`
}

// Tweet is a short text post. AuthorName is populated by joined reads; it is
// not a column on the tweets table.
type Tweet struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Media is an uploaded file row. TweetID is nil until the media is attached to
// a tweet; rows uploaded but never attached stay orphaned.
type Media struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	TweetID *int64 `json:"tweetId,omitempty"`
}

// Like marks that a user liked a tweet. At most one row per (user, tweet).
type Like struct {
	ID      int64 `json:"id"`
	UserID  int64 `json:"userId"`
	TweetID int64 `json:"tweetId"`
}

// Follow is a directed edge: follower observes followed. At most one row per
// ordered (follower, followed) pair.
type Follow struct {
	ID         int64 `json:"id"`
	FollowerID int64 `json:"followerId"`
	FollowedID int64 `json:"followedId"`
}

// UserRef is the public identity used inside aggregated views.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LikeRef names a liker inside a feed view.
type LikeRef struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// TweetLike is a like row joined with the liking user's name, keyed by tweet
// for batched feed assembly.
type TweetLike struct {
	TweetID  int64
	UserID   int64
	UserName string
}

// TweetView is one feed item. Attachments must stay nil (serialized as null)
// when the tweet has no media; Likes is always an array, possibly empty.
type TweetView struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments"`
	Author      UserRef   `json:"author"`
	Likes       []LikeRef `json:"likes"`
}

// Profile is a user joined with both sides of the follow relation.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Followers []UserRef `json:"followers"`
	Following []UserRef `json:"following"`
}
