package domain

import (
	"context"
	"errors"
	"io"
)

// ErrUnsupportedImage is returned by ImageStore.Save when the payload's MIME
// type is outside the allow-list. It is a soft rejection: no file is stored
// and the caller decides whether absence is an error.
var ErrUnsupportedImage = errors.New("unsupported image type")

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// ListPosts returns one page of posts ordered by creation time
	// descending, with creators resolved, plus the total post count.
	// Pages are 1-based; an out-of-range page yields an empty slice and
	// the correct total.
	ListPosts(ctx context.Context, page, perPage int) ([]Post, int, error)

	// GetPost retrieves a post by ID with its creator resolved.
	GetPost(ctx context.Context, id string) (*Post, error)

	// CreatePost inserts a new post, assigning its ID and timestamps.
	CreatePost(ctx context.Context, post *Post) error

	// UpdatePost rewrites the mutable fields (title, content, image) of
	// the post named by post.ID. Creator and creation time are untouched.
	UpdatePost(ctx context.Context, post *Post) error

	// DeletePost removes a post by ID.
	DeletePost(ctx context.Context, id string) error
}

// UserRepository defines persistence operations for users and the set of
// post IDs each user owns.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// CreateUser inserts a new user, assigning its ID.
	CreateUser(ctx context.Context, user *User) error

	// AddOwnedPost appends a post ID to the user's owned set.
	AddOwnedPost(ctx context.Context, userID, postID string) error

	// RemoveOwnedPost pulls a post ID from the user's owned set.
	RemoveOwnedPost(ctx context.Context, userID, postID string) error
}

// ImageStore stores and removes uploaded image blobs keyed by an opaque
// reference path.
type ImageStore interface {
	// Save writes the payload and returns its reference path, or
	// ErrUnsupportedImage when the MIME type is not an allowed image type.
	Save(payload io.Reader, contentType string) (string, error)

	// Remove deletes the blob behind the reference. A missing blob is not
	// an error; callers log other failures and never escalate them.
	Remove(ref string) error
}

// EventPublisher fans a mutation event out to currently connected
// subscribers. Fire and forget.
type EventPublisher interface {
	Publish(event PostEvent)
}

// TokenIssuer signs a credential token for a user.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}
