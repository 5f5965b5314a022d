package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/mhutchins/feedboard/internal/domain"
)

// Repository implements domain.PostRepository and domain.UserRepository
// using PostgreSQL.
type Repository struct {
	db *sql.DB
}

// NewRepository connects to PostgreSQL at the given URL, verifies the
// connection, and returns a new Repository. The caller should call Close
// when the repository is no longer needed.
func NewRepository(databaseURL string) (*Repository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the tables if they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL,
			image_url  TEXT NOT NULL,
			creator_id TEXT NOT NULL REFERENCES users (id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_posts (
			user_id TEXT NOT NULL REFERENCES users (id),
			post_id TEXT NOT NULL,
			PRIMARY KEY (user_id, post_id)
		)`,
		`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC, id DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const postColumns = `p.id, p.title, p.content, p.image_url, p.creator_id, p.created_at, p.updated_at, u.name`

// ListPosts retrieves one page of posts, newest first, with creators
// resolved, plus the total post count. Pages are 1-based; pages past the end
// yield an empty slice and the correct total.
func (r *Repository) ListPosts(ctx context.Context, page, perPage int) ([]domain.Post, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	offset := (page - 1) * perPage
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2`,
		perPage, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query posts (page=%d, perPage=%d): %w", page, perPage, err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, total, nil
}

// GetPost retrieves a post by ID with its creator resolved.
func (r *Repository) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		WHERE p.id = $1`,
		id,
	)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, domain.NotFound("Could not find post")
	}
	if err != nil {
		return nil, fmt.Errorf("query post %s: %w", id, err)
	}
	return post, nil
}

// CreatePost inserts a new post, assigning its ID and timestamps.
func (r *Repository) CreatePost(ctx context.Context, post *domain.Post) error {
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, content, image_url, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		post.ID,
		post.Title,
		post.Content,
		post.ImageURL,
		post.CreatorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// UpdatePost rewrites the mutable fields of an existing post.
func (r *Repository) UpdatePost(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET title = $2, content = $3, image_url = $4, updated_at = $5
		WHERE id = $1`,
		post.ID,
		post.Title,
		post.Content,
		post.ImageURL,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update post %s: %w", post.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("Could not find post")
	}
	return nil
}

// DeletePost removes a post by ID.
func (r *Repository) DeletePost(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("Could not find post")
	}
	return nil
}

// GetUser retrieves a user by ID, including its owned post set.
func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := r.getUser(ctx, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadOwnedPosts(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE email = $1`, email)
}

func (r *Repository) getUser(ctx context.Context, where, arg string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.NotFound("Could not find user")
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (r *Repository) loadOwnedPosts(ctx context.Context, user *domain.User) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id FROM user_posts WHERE user_id = $1`,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("query owned posts for user %s: %w", user.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		if err := rows.Scan(&postID); err != nil {
			return fmt.Errorf("scan owned post: %w", err)
		}
		user.Posts = append(user.Posts, postID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate owned posts: %w", err)
	}
	return nil
}

// CreateUser inserts a new user, assigning its ID.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// AddOwnedPost appends a post ID to the user's owned set.
func (r *Repository) AddOwnedPost(ctx context.Context, userID, postID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_posts (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if err != nil {
		return fmt.Errorf("append owned post: %w", err)
	}
	return nil
}

// RemoveOwnedPost pulls a post ID from the user's owned set.
func (r *Repository) RemoveOwnedPost(ctx context.Context, userID, postID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_posts WHERE user_id = $1 AND post_id = $2`,
		userID, postID,
	)
	if err != nil {
		return fmt.Errorf("pull owned post: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		post        domain.Post
		creatorName string
	)
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.ImageURL,
		&post.CreatorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&creatorName,
	)
	if err != nil {
		return nil, err
	}
	post.Creator = &domain.Creator{ID: post.CreatorID, Name: creatorName}
	return &post, nil
}
