package sqlite

import "database/sql"

// EnsureSchema creates the tables if they do not exist.
//
// There is deliberately no ON DELETE CASCADE: the tweet-delete cascade is a
// set of explicit statements inside one transaction so the invariant stays
// auditable. The UNIQUE constraints on likes and follows are the correctness
// mechanism for duplicate edges under concurrent inserts; the operation-level
// pre-checks are only the fast path.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            api_key TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS tweets (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            content TEXT NOT NULL,
            author_id INTEGER NOT NULL REFERENCES users(id),
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS medias (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            url TEXT NOT NULL,
            tweet_id INTEGER REFERENCES tweets(id)
        );`,
		`CREATE TABLE IF NOT EXISTS likes (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL REFERENCES users(id),
            tweet_id INTEGER NOT NULL REFERENCES tweets(id),
            UNIQUE(user_id, tweet_id)
        );`,
		`CREATE TABLE IF NOT EXISTS follows (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            follower_id INTEGER NOT NULL REFERENCES users(id),
            followed_id INTEGER NOT NULL REFERENCES users(id),
            UNIQUE(follower_id, followed_id)
        );`,
		`CREATE INDEX IF NOT EXISTS medias_tweet_idx ON medias(tweet_id);`,
		`CREATE INDEX IF NOT EXISTS likes_tweet_idx ON likes(tweet_id);`,
		`CREATE INDEX IF NOT EXISTS follows_followed_idx ON follows(followed_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
