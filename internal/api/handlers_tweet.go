package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"microblog/internal/api/respond"
	"microblog/internal/auth"
	"microblog/internal/model"
	"microblog/internal/services"
)

// TweetHandler provides HTTP transport for tweet and like operations.
type TweetHandler struct {
	tweets *services.TweetService
	likes  *services.LikeService
	auth   *auth.Authorizer
}

func NewTweetHandler(tweets *services.TweetService, likes *services.LikeService, az *auth.Authorizer) *TweetHandler {
	return &TweetHandler{tweets: tweets, likes: likes, auth: az}
}

// CreateTweet POST /api/tweets
func (h *TweetHandler) CreateTweet(w http.ResponseWriter, r *http.Request) {
	key, _ := auth.ExtractAPIKey(r)
	user, err := h.auth.Authorize(r.Context(), key)
	if err != nil {
		respond.WriteUnauthorized(w, "User not found")
		return
	}

	var req struct {
		TweetData     string  `json:"tweet_data"`
		TweetMediaIDs []int64 `json:"tweet_media_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	tw, err := h.tweets.Create(r.Context(), user.ID, req.TweetData, req.TweetMediaIDs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"result":   true,
		"tweet_id": tw.ID,
	})
}

// ListTweets GET /api/tweets
func (h *TweetHandler) ListTweets(w http.ResponseWriter, r *http.Request) {
	key, _ := auth.ExtractAPIKey(r)
	if _, err := h.auth.Authorize(r.Context(), key); err != nil {
		respond.WriteUnauthorized(w, "User not found")
		return
	}

	views, err := h.tweets.Feed(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// An empty feed is 404 by contract, not an empty success list.
	if len(views) == 0 {
		respond.WriteNotFound(w, "No tweets found")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"result": true,
		"tweets": views,
	})
}

// DeleteTweet DELETE /api/tweets/{id}
func (h *TweetHandler) DeleteTweet(w http.ResponseWriter, r *http.Request) {
	key, _ := auth.ExtractAPIKey(r)
	user, err := h.auth.Authorize(r.Context(), key)
	if err != nil {
		respond.WriteUnauthorized(w, "User not found")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respond.WriteBadRequest(w, "invalid tweet id")
		return
	}

	if err := h.tweets.Delete(r.Context(), user, id); err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"result": true})
}

// AddLike POST /api/tweets/{id}/likes
func (h *TweetHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authOr404(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respond.WriteBadRequest(w, "invalid tweet id")
		return
	}

	if err := h.likes.Like(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"result": true})
}

// RemoveLike DELETE /api/tweets/{id}/likes
func (h *TweetHandler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authOr404(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respond.WriteBadRequest(w, "invalid tweet id")
		return
	}

	if err := h.likes.Unlike(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"result": true})
}

// authOr404 authenticates like/follow style endpoints, where an unknown key
// is 404 rather than 401 (the original surface's asymmetry, kept on purpose).
func (h *TweetHandler) authOr404(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	key, _ := auth.ExtractAPIKey(r)
	u, err := h.auth.Authorize(r.Context(), key)
	if err != nil {
		respond.WriteNotFound(w, "User not found")
		return nil, false
	}
	return u, true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
