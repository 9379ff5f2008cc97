package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"microblog/internal/model"
	"microblog/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables if they do not exist. The cascade on tweet
// deletion is explicit statements inside the delete transaction, not an
// ON DELETE CASCADE clause; the UNIQUE constraints back the duplicate-edge
// invariants under concurrent inserts.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            api_key TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS tweets (
            id BIGSERIAL PRIMARY KEY,
            content TEXT NOT NULL,
            author_id BIGINT NOT NULL REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS medias (
            id BIGSERIAL PRIMARY KEY,
            url TEXT NOT NULL,
            tweet_id BIGINT REFERENCES tweets(id)
        )`,
		`CREATE TABLE IF NOT EXISTS likes (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            tweet_id BIGINT NOT NULL REFERENCES tweets(id),
            UNIQUE(user_id, tweet_id)
        )`,
		`CREATE TABLE IF NOT EXISTS follows (
            id BIGSERIAL PRIMARY KEY,
            follower_id BIGINT NOT NULL REFERENCES users(id),
            followed_id BIGINT NOT NULL REFERENCES users(id),
            UNIQUE(follower_id, followed_id)
        )`,
		`CREATE INDEX IF NOT EXISTS medias_tweet_idx ON medias(tweet_id)`,
		`CREATE INDEX IF NOT EXISTS likes_tweet_idx ON likes(tweet_id)`,
		`CREATE INDEX IF NOT EXISTS follows_followed_idx ON follows(followed_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users     { return &users{db: s.db} }
func (s *pgStore) Tweets() store.Tweets   { return &tweets{db: s.db} }
func (s *pgStore) Media() store.Media     { return &media{db: s.db} }
func (s *pgStore) Likes() store.Likes     { return &likes{db: s.db} }
func (s *pgStore) Follows() store.Follows { return &follows{db: s.db} }

// HealthPing reports connectivity of the underlying database.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// inArgs renders "$start,$start+1,..." for an IN clause and the matching args.
func inArgs(start int, ids []int64) (string, []interface{}) {
	ph := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", start+i)
		args[i] = id
	}
	return strings.Join(ph, ","), args
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	var id int64
	err := u.db.QueryRowContext(ctx,
		`INSERT INTO users (api_key, name) VALUES ($1,$2) RETURNING id`,
		m.APIKey, m.Name).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("api_key already registered: %w", model.ErrConflict)
		}
		return nil, err
	}
	out := *m
	out.ID = id
	return &out, nil
}

func (u *users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.get(ctx, `SELECT id, api_key, name FROM users WHERE id = $1`, id)
}

func (u *users) GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	return u.get(ctx, `SELECT id, api_key, name FROM users WHERE api_key = $1`, apiKey)
}

func (u *users) get(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var out model.User
	err := u.db.QueryRowContext(ctx, query, arg).Scan(&out.ID, &out.APIKey, &out.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *users) Count(ctx context.Context) (int, error) {
	var n int
	err := u.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// --- Tweets ---

type tweets struct{ db *sql.DB }

func (t *tweets) Create(ctx context.Context, m *model.Tweet, mediaIDs []int64) (*model.Tweet, error) {
	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	out := *m
	err = tx.QueryRowContext(ctx, `
        INSERT INTO tweets (content, author_id) VALUES ($1,$2)
        RETURNING id, created_at`, m.Content, m.AuthorID).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(mediaIDs) > 0 {
		ph, args := inArgs(2, mediaIDs)
		q := fmt.Sprintf(`UPDATE medias SET tweet_id = $1 WHERE id IN (%s)`, ph)
		if _, err := tx.ExecContext(ctx, q, append([]interface{}{out.ID}, args...)...); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *tweets) GetByID(ctx context.Context, id int64) (*model.Tweet, error) {
	var out model.Tweet
	err := t.db.QueryRowContext(ctx, `
        SELECT t.id, t.content, t.author_id, u.name, t.created_at
        FROM tweets t JOIN users u ON u.id = t.author_id
        WHERE t.id = $1`, id).
		Scan(&out.ID, &out.Content, &out.AuthorID, &out.AuthorName, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tweet %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *tweets) ListAll(ctx context.Context) ([]*model.Tweet, error) {
	rows, err := t.db.QueryContext(ctx, `
        SELECT t.id, t.content, t.author_id, u.name, t.created_at
        FROM tweets t JOIN users u ON u.id = t.author_id
        ORDER BY t.created_at DESC, t.id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Tweet
	for rows.Next() {
		var m model.Tweet
		if err := rows.Scan(&m.ID, &m.Content, &m.AuthorID, &m.AuthorName, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (t *tweets) Delete(ctx context.Context, id, authorID int64) error {
	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM tweets WHERE id = $1 AND author_id = $2`, id, authorID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("tweet %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return err
	}

	// Explicit cascade: media rows, like rows, then the tweet itself.
	if _, err := tx.ExecContext(ctx, `DELETE FROM medias WHERE tweet_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE tweet_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1 AND author_id = $2`, id, authorID); err != nil {
		return err
	}
	return tx.Commit()
}

// --- Media ---

type media struct{ db *sql.DB }

func (m *media) Create(ctx context.Context, url string) (*model.Media, error) {
	var id int64
	err := m.db.QueryRowContext(ctx,
		`INSERT INTO medias (url) VALUES ($1) RETURNING id`, url).Scan(&id)
	if err != nil {
		return nil, err
	}
	return &model.Media{ID: id, URL: url}, nil
}

func (m *media) GetByIDs(ctx context.Context, ids []int64) ([]*model.Media, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph, args := inArgs(1, ids)
	q := fmt.Sprintf(`SELECT id, url, tweet_id FROM medias WHERE id IN (%s) ORDER BY id`, ph)
	return m.query(ctx, q, args...)
}

func (m *media) ListForTweets(ctx context.Context, tweetIDs []int64) ([]*model.Media, error) {
	if len(tweetIDs) == 0 {
		return nil, nil
	}
	ph, args := inArgs(1, tweetIDs)
	q := fmt.Sprintf(`SELECT id, url, tweet_id FROM medias WHERE tweet_id IN (%s) ORDER BY id`, ph)
	return m.query(ctx, q, args...)
}

func (m *media) query(ctx context.Context, q string, args ...interface{}) ([]*model.Media, error) {
	rows, err := m.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Media
	for rows.Next() {
		var md model.Media
		if err := rows.Scan(&md.ID, &md.URL, &md.TweetID); err != nil {
			return nil, err
		}
		out = append(out, &md)
	}
	return out, rows.Err()
}

// --- Likes ---

type likes struct{ db *sql.DB }

func (l *likes) Add(ctx context.Context, userID, tweetID int64) (*model.Like, error) {
	tx, err := l.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM likes WHERE user_id = $1 AND tweet_id = $2`, userID, tweetID).Scan(&one)
	if err == nil {
		return nil, fmt.Errorf("like already exists: %w", model.ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO likes (user_id, tweet_id) VALUES ($1,$2) RETURNING id`,
		userID, tweetID).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("like already exists: %w", model.ErrConflict)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &model.Like{ID: id, UserID: userID, TweetID: tweetID}, nil
}

func (l *likes) Remove(ctx context.Context, userID, tweetID int64) error {
	res, err := l.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND tweet_id = $2`, userID, tweetID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("like: %w", model.ErrNotFound)
	}
	return nil
}

func (l *likes) ListForTweets(ctx context.Context, tweetIDs []int64) ([]model.TweetLike, error) {
	if len(tweetIDs) == 0 {
		return nil, nil
	}
	ph, args := inArgs(1, tweetIDs)
	q := fmt.Sprintf(`
        SELECT l.tweet_id, l.user_id, u.name
        FROM likes l JOIN users u ON u.id = l.user_id
        WHERE l.tweet_id IN (%s) ORDER BY l.id`, ph)
	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.TweetLike
	for rows.Next() {
		var tl model.TweetLike
		if err := rows.Scan(&tl.TweetID, &tl.UserID, &tl.UserName); err != nil {
			return nil, err
		}
		out = append(out, tl)
	}
	return out, rows.Err()
}

// --- Follows ---

type follows struct{ db *sql.DB }

func (f *follows) Add(ctx context.Context, followerID, followedID int64) (*model.Follow, error) {
	tx, err := f.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2`,
		followerID, followedID).Scan(&one)
	if err == nil {
		return nil, fmt.Errorf("follow edge already exists: %w", model.ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO follows (follower_id, followed_id) VALUES ($1,$2) RETURNING id`,
		followerID, followedID).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("follow edge already exists: %w", model.ErrConflict)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &model.Follow{ID: id, FollowerID: followerID, FollowedID: followedID}, nil
}

func (f *follows) Remove(ctx context.Context, followerID, followedID int64) error {
	res, err := f.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("follow edge: %w", model.ErrNotFound)
	}
	return nil
}

func (f *follows) Followers(ctx context.Context, userID int64) ([]model.UserRef, error) {
	return f.refs(ctx, `
        SELECT u.id, u.name FROM follows f JOIN users u ON u.id = f.follower_id
        WHERE f.followed_id = $1 ORDER BY f.id`, userID)
}

func (f *follows) Following(ctx context.Context, userID int64) ([]model.UserRef, error) {
	return f.refs(ctx, `
        SELECT u.id, u.name FROM follows f JOIN users u ON u.id = f.followed_id
        WHERE f.follower_id = $1 ORDER BY f.id`, userID)
}

func (f *follows) refs(ctx context.Context, q string, userID int64) ([]model.UserRef, error) {
	rows, err := f.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.UserRef
	for rows.Next() {
		var r model.UserRef
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
