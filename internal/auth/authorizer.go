// Package auth resolves the api-key header to a user row. The key is an
// opaque pre-shared bearer token matched by equality; there are no sessions,
// scopes or signatures.
package auth

import (
	"context"
	"errors"
	"net/http"

	"microblog/internal/model"
	"microblog/internal/store"
)

// HeaderName is the request header carrying the API key.
const HeaderName = "api-key"

// ErrMissingAPIKey is returned when the api-key header is absent.
var ErrMissingAPIKey = errors.New("missing api-key header")

// ExtractAPIKey extracts the API key from the api-key header.
func ExtractAPIKey(r *http.Request) (string, error) {
	key := r.Header.Get(HeaderName)
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}

// Authorizer validates API keys against the user table.
type Authorizer struct {
	users store.Users
}

func New(users store.Users) *Authorizer { return &Authorizer{users: users} }

// Authorize resolves the key to its user. Unknown keys surface as
// model.ErrNotFound; callers choose the HTTP status (401 on tweet endpoints,
// 404 elsewhere — the boundary preserves that asymmetry deliberately).
func (a *Authorizer) Authorize(ctx context.Context, apiKey string) (*model.User, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return a.users.GetByAPIKey(ctx, apiKey)
}
