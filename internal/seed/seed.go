// Package seed loads deterministic fixture data for development runs so the
// frontend has accounts (api keys test, test1 … test9) and a populated feed
// to work against.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"microblog/internal/model"
	"microblog/internal/store"
)

var fixtureNames = []string{
	"Alice Martin",
	"Bruno Costa",
	"Carmen Diaz",
	"Daniel Petrov",
	"Elena Vasquez",
	"Farid Rahimi",
	"Grace Okafor",
	"Henrik Larsen",
	"Iris Takahashi",
	"Jonas Weber",
}

// Run inserts the fixture users, tweets and follow edges. It is a no-op when
// any user already exists, so restarts keep the data stable.
func Run(ctx context.Context, st store.Store) error {
	n, err := st.Users().Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info().Msg("fixture data already present, skipping seed")
		return nil
	}

	users := make([]*model.User, 0, len(fixtureNames))
	for i, name := range fixtureNames {
		key := "test"
		if i > 0 {
			key = fmt.Sprintf("test%d", i)
		}
		u, err := st.Users().Create(ctx, &model.User{APIKey: key, Name: name})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", name, err)
		}
		users = append(users, u)

		for j := 1; j <= 3; j++ {
			content := fmt.Sprintf("%s here, post number %d.", name, j)
			if _, err := st.Tweets().Create(ctx, &model.Tweet{Content: content, AuthorID: u.ID}, nil); err != nil {
				return fmt.Errorf("seed tweet for %s: %w", name, err)
			}
		}
	}

	// Each user follows the next three users in the list; the offset keeps
	// the graph self-follow free by construction.
	for i, u := range users {
		for off := 1; off <= 3; off++ {
			target := users[(i+off)%len(users)]
			if _, err := st.Follows().Add(ctx, u.ID, target.ID); err != nil {
				return fmt.Errorf("seed follow %d->%d: %w", u.ID, target.ID, err)
			}
		}
	}

	log.Info().Int("users", len(users)).Msg("fixture data seeded")
	return nil
}
