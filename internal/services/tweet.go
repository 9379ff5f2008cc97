package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"microblog/internal/mediafiles"
	"microblog/internal/model"
	"microblog/internal/store"
)

// TweetService handles tweet creation, deletion and feed assembly.
type TweetService struct {
	store store.Store
	files *mediafiles.Dir
}

func NewTweetService(s store.Store, files *mediafiles.Dir) *TweetService {
	return &TweetService{store: s, files: files}
}

// Create persists a tweet, attaching whichever of the requested media ids
// resolve to existing rows. Unknown ids are dropped silently and there is no
// ownership check on media — any caller may attach any existing media row.
func (s *TweetService) Create(ctx context.Context, authorID int64, content string, mediaIDs []int64) (*model.Tweet, error) {
	resolved, err := s.store.Media().GetByIDs(ctx, mediaIDs)
	if err != nil {
		return nil, err
	}
	attach := make([]int64, 0, len(resolved))
	for _, m := range resolved {
		attach = append(attach, m.ID)
	}
	return s.store.Tweets().Create(ctx, &model.Tweet{Content: content, AuthorID: authorID}, attach)
}

// Delete removes the caller's tweet, its media files on disk, and cascades the
// row deletion to media and like rows. A tweet that exists but belongs to
// someone else is ErrForbidden; a missing file on disk is logged, not an error.
func (s *TweetService) Delete(ctx context.Context, caller *model.User, tweetID int64) error {
	tw, err := s.store.Tweets().GetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if tw.AuthorID != caller.ID {
		return fmt.Errorf("tweet %d belongs to another user: %w", tweetID, model.ErrForbidden)
	}

	attached, err := s.store.Media().ListForTweets(ctx, []int64{tweetID})
	if err != nil {
		return err
	}
	for _, m := range attached {
		if err := s.files.Remove(m.URL); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Info().Str("url", m.URL).Msg("media file already gone")
				continue
			}
			return err
		}
	}

	return s.store.Tweets().Delete(ctx, tweetID, caller.ID)
}

// Feed assembles every tweet, newest first, with author, attachments and
// likers. Media and like rows are fetched in one batched query per relation
// keyed by the tweet id set. Attachments stays nil when a tweet has no media
// (serialized as null, a deliberate response-shape contract); Likes is always
// an array.
func (s *TweetService) Feed(ctx context.Context) ([]model.TweetView, error) {
	tweets, err := s.store.Tweets().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(tweets) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(tweets))
	for i, t := range tweets {
		ids[i] = t.ID
	}

	mediaRows, err := s.store.Media().ListForTweets(ctx, ids)
	if err != nil {
		return nil, err
	}
	attachments := make(map[int64][]string, len(tweets))
	for _, m := range mediaRows {
		if m.TweetID != nil {
			attachments[*m.TweetID] = append(attachments[*m.TweetID], m.URL)
		}
	}

	likeRows, err := s.store.Likes().ListForTweets(ctx, ids)
	if err != nil {
		return nil, err
	}
	likes := make(map[int64][]model.LikeRef, len(tweets))
	for _, l := range likeRows {
		likes[l.TweetID] = append(likes[l.TweetID], model.LikeRef{UserID: l.UserID, Name: l.UserName})
	}

	views := make([]model.TweetView, 0, len(tweets))
	for _, t := range tweets {
		v := model.TweetView{
			ID:          t.ID,
			Content:     t.Content,
			Attachments: attachments[t.ID], // nil when absent, by contract
			Author:      model.UserRef{ID: t.AuthorID, Name: t.AuthorName},
			Likes:       likes[t.ID],
		}
		if v.Likes == nil {
			v.Likes = []model.LikeRef{}
		}
		views = append(views, v)
	}
	return views, nil
}
