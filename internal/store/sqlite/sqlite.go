package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlitelib "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"microblog/internal/model"
	"microblog/internal/store"
)

// NewWithDB constructs a SQLite-backed store from an existing connection.
// The schema must already be applied (see EnsureSchema).
func NewWithDB(db *sql.DB) store.Store { return &sqlStore{db: db} }

// New opens the database file, applies the schema and returns the store.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

type sqlStore struct{ db *sql.DB }

func (s *sqlStore) Users() store.Users     { return &users{db: s.db} }
func (s *sqlStore) Tweets() store.Tweets   { return &tweets{db: s.db} }
func (s *sqlStore) Media() store.Media     { return &media{db: s.db} }
func (s *sqlStore) Likes() store.Likes     { return &likes{db: s.db} }
func (s *sqlStore) Follows() store.Follows { return &follows{db: s.db} }

// HealthPing reports connectivity of the underlying database.
func (s *sqlStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var se *sqlitelib.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT:
		return true
	}
	return false
}

// placeholders returns "?,?,?" for n args.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	res, err := u.db.ExecContext(ctx,
		`INSERT INTO users (api_key, name) VALUES (?,?)`, m.APIKey, m.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("api_key already registered: %w", model.ErrConflict)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	return &out, nil
}

func (u *users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.get(ctx, `SELECT id, api_key, name FROM users WHERE id = ?`, id)
}

func (u *users) GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	return u.get(ctx, `SELECT id, api_key, name FROM users WHERE api_key = ?`, apiKey)
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

	created := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tweets (content, author_id, created_at) VALUES (?,?,?)`,
		m.Content, m.AuthorID, created)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if len(mediaIDs) > 0 {
		args := append([]interface{}{id}, int64Args(mediaIDs)...)
		q := fmt.Sprintf(`UPDATE medias SET tweet_id = ? WHERE id IN (%s)`, placeholders(len(mediaIDs)))
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = created
	return &out, nil
}

func (t *tweets) GetByID(ctx context.Context, id int64) (*model.Tweet, error) {
	var out model.Tweet
	err := t.db.QueryRowContext(ctx, `
        SELECT t.id, t.content, t.author_id, u.name, t.created_at
        FROM tweets t JOIN users u ON u.id = t.author_id
        WHERE t.id = ?`, id).
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
		`SELECT 1 FROM tweets WHERE id = ? AND author_id = ?`, id, authorID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("tweet %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return err
	}

	// Explicit cascade: media rows, like rows, then the tweet itself.
	if _, err := tx.ExecContext(ctx, `DELETE FROM medias WHERE tweet_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE tweet_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE id = ? AND author_id = ?`, id, authorID); err != nil {
		return err
	}
	return tx.Commit()
}

// --- Media ---

type media struct{ db *sql.DB }

func (m *media) Create(ctx context.Context, url string) (*model.Media, error) {
	res, err := m.db.ExecContext(ctx, `INSERT INTO medias (url) VALUES (?)`, url)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Media{ID: id, URL: url}, nil
}

func (m *media) GetByIDs(ctx context.Context, ids []int64) ([]*model.Media, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(`SELECT id, url, tweet_id FROM medias WHERE id IN (%s) ORDER BY id`, placeholders(len(ids)))
	return m.query(ctx, q, int64Args(ids)...)
}

func (m *media) ListForTweets(ctx context.Context, tweetIDs []int64) ([]*model.Media, error) {
	if len(tweetIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(`SELECT id, url, tweet_id FROM medias WHERE tweet_id IN (%s) ORDER BY id`, placeholders(len(tweetIDs)))
	return m.query(ctx, q, int64Args(tweetIDs)...)
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
		`SELECT 1 FROM likes WHERE user_id = ? AND tweet_id = ?`, userID, tweetID).Scan(&one)
	if err == nil {
		return nil, fmt.Errorf("like already exists: %w", model.ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO likes (user_id, tweet_id) VALUES (?,?)`, userID, tweetID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("like already exists: %w", model.ErrConflict)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &model.Like{ID: id, UserID: userID, TweetID: tweetID}, nil
}

func (l *likes) Remove(ctx context.Context, userID, tweetID int64) error {
	res, err := l.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = ? AND tweet_id = ?`, userID, tweetID)
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
	q := fmt.Sprintf(`
        SELECT l.tweet_id, l.user_id, u.name
        FROM likes l JOIN users u ON u.id = l.user_id
        WHERE l.tweet_id IN (%s) ORDER BY l.id`, placeholders(len(tweetIDs)))
	rows, err := l.db.QueryContext(ctx, q, int64Args(tweetIDs)...)
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
		`SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ?`, followerID, followedID).Scan(&one)
	if err == nil {
		return nil, fmt.Errorf("follow edge already exists: %w", model.ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followed_id) VALUES (?,?)`, followerID, followedID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("follow edge already exists: %w", model.ErrConflict)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &model.Follow{ID: id, FollowerID: followerID, FollowedID: followedID}, nil
}

func (f *follows) Remove(ctx context.Context, followerID, followedID int64) error {
	res, err := f.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`, followerID, followedID)
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
        WHERE f.followed_id = ? ORDER BY f.id`, userID)
}

func (f *follows) Following(ctx context.Context, userID int64) ([]model.UserRef, error) {
	return f.refs(ctx, `
        SELECT u.id, u.name FROM follows f JOIN users u ON u.id = f.followed_id
        WHERE f.follower_id = ? ORDER BY f.id`, userID)
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
