package services

import (
	"context"
	"io"

	"microblog/internal/mediafiles"
	"microblog/internal/model"
	"microblog/internal/store"
)

// MediaService handles uploads: the body goes to durable storage, the path to
// a media row. The row stays orphaned until a tweet attaches it.
type MediaService struct {
	store store.Store
	files *mediafiles.Dir
}

func NewMediaService(s store.Store, files *mediafiles.Dir) *MediaService {
	return &MediaService{store: s, files: files}
}

func (s *MediaService) Upload(ctx context.Context, filename string, body io.Reader) (*model.Media, error) {
	url, err := s.files.Save(filename, body)
	if err != nil {
		return nil, err
	}
	return s.store.Media().Create(ctx, url)
}
