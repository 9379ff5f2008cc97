package api

import (
	"net/http"

	"microblog/internal/api/respond"
	"microblog/internal/auth"
	"microblog/internal/model"
	"microblog/internal/services"
)

// UserHandler provides HTTP transport for profile and follow operations.
type UserHandler struct {
	users   *services.UserService
	follows *services.FollowService
	auth    *auth.Authorizer
}

func NewUserHandler(users *services.UserService, follows *services.FollowService, az *auth.Authorizer) *UserHandler {
	return &UserHandler{users: users, follows: follows, auth: az}
}

// Me GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authOr404(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, r, user)
}

// GetUser GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.WriteBadRequest(w, "invalid user id")
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeProfile(w, r, user)
}

// Follow POST /api/users/{id}/follow
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	follower, ok := h.authOr404(w, r)
	if !ok {
		return
	}
	followedID, err := pathID(r, "id")
	if err != nil {
		respond.WriteBadRequest(w, "invalid user id")
		return
	}

	if err := h.follows.Follow(r.Context(), follower.ID, followedID); err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"result": true})
}

// Unfollow DELETE /api/users/{id}/follow
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	follower, ok := h.authOr404(w, r)
	if !ok {
		return
	}
	followedID, err := pathID(r, "id")
	if err != nil {
		respond.WriteBadRequest(w, "invalid user id")
		return
	}

	if err := h.follows.Unfollow(r.Context(), follower.ID, followedID); err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"result": true})
}

func (h *UserHandler) writeProfile(w http.ResponseWriter, r *http.Request, user *model.User) {
	profile, err := h.users.Profile(r.Context(), user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"result": true,
		"user":   profile,
	})
}

func (h *UserHandler) authOr404(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	key, _ := auth.ExtractAPIKey(r)
	u, err := h.auth.Authorize(r.Context(), key)
	if err != nil {
		respond.WriteNotFound(w, "User not found")
		return nil, false
	}
	return u, true
}
