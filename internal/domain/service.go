package domain

import (
	"context"
	"log/slog"
	"strings"
)

// PostInput carries the client-supplied fields for creating a post. ImageURL
// is the reference of an already-stored upload, or empty when no image was
// stored.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// UpdateInput carries the client-supplied fields for updating a post.
// NewImageURL is the reference of a freshly stored upload, if any;
// ExistingImageURL is the reference the client echoed back to signal "no
// change". A new upload always wins over the echoed value.
type UpdateInput struct {
	Title            string
	Content          string
	NewImageURL      string
	ExistingImageURL string
}

// FeedService owns the mutation workflow for posts: validation, ownership
// checks, store writes, image cleanup, and event publishing, in that order.
// Nothing is retried and nothing is rolled back; the first failure aborts the
// remaining steps.
type FeedService struct {
	posts  PostRepository
	users  UserRepository
	images ImageStore
	events EventPublisher
	logger *slog.Logger
}

// NewFeedService wires the feed service with its collaborators.
func NewFeedService(posts PostRepository, users UserRepository, images ImageStore, events EventPublisher, logger *slog.Logger) *FeedService {
	return &FeedService{
		posts:  posts,
		users:  users,
		images: images,
		events: events,
		logger: logger,
	}
}

// ListPosts returns one page of the feed, newest first, plus the total count.
func (s *FeedService) ListPosts(ctx context.Context, page, perPage int) ([]Post, int, error) {
	if page < 1 {
		page = 1
	}
	return s.posts.ListPosts(ctx, page, perPage)
}

// GetPost returns a single post with its creator resolved.
func (s *FeedService) GetPost(ctx context.Context, id string) (*Post, error) {
	return s.posts.GetPost(ctx, id)
}

// CreatePost validates the input, persists the post, appends it to the
// caller's owned set, and announces it. The post insert and the owned-set
// append are two separate store operations; if the append fails the post is
// not rolled back and the failure is surfaced as-is.
func (s *FeedService) CreatePost(ctx context.Context, callerID string, in PostInput) (*Post, *Creator, error) {
	if fields := validatePostFields(in.Title, in.Content); len(fields) > 0 {
		return nil, nil, Invalid("Validation failed, entered data is incorrect.", fields...)
	}
	if in.ImageURL == "" {
		return nil, nil, Invalid("No image provided")
	}

	owner, err := s.users.GetUser(ctx, callerID)
	if err != nil {
		return nil, nil, err
	}

	post := &Post{
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		ImageURL:  in.ImageURL,
		CreatorID: callerID,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, nil, err
	}
	if err := s.users.AddOwnedPost(ctx, callerID, post.ID); err != nil {
		s.logger.Error("post created but owned-set append failed", "post", post.ID, "user", callerID, "error", err)
		return nil, nil, err
	}

	creator := &Creator{ID: owner.ID, Name: owner.Name}
	post.Creator = creator

	s.events.Publish(PostEvent{Action: ActionCreate, Post: post, Creator: creator})
	s.logger.Info("post created", "post", post.ID, "user", callerID)
	return post, creator, nil
}

// UpdatePost validates the input, checks ownership, rewrites the post, and
// removes the previous image only after the store update succeeded and only
// when the effective image reference changed.
func (s *FeedService) UpdatePost(ctx context.Context, callerID, id string, in UpdateInput) (*Post, error) {
	if fields := validatePostFields(in.Title, in.Content); len(fields) > 0 {
		return nil, Invalid("Validation failed, entered data is incorrect.", fields...)
	}
	imageURL := in.ExistingImageURL
	if in.NewImageURL != "" {
		imageURL = in.NewImageURL
	}
	if imageURL == "" {
		return nil, Invalid("No file picked")
	}

	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(post.CreatorID, callerID); err != nil {
		return nil, err
	}

	oldImage := post.ImageURL
	post.Title = strings.TrimSpace(in.Title)
	post.Content = strings.TrimSpace(in.Content)
	post.ImageURL = imageURL
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	if imageURL != oldImage {
		if err := s.images.Remove(oldImage); err != nil {
			s.logger.Warn("failed to remove replaced image", "ref", oldImage, "error", err)
		}
	}

	s.events.Publish(PostEvent{Action: ActionUpdate, Post: post})
	s.logger.Info("post updated", "post", post.ID, "user", callerID)
	return post, nil
}

// DeletePost checks ownership, removes the post's image (best effort),
// deletes the post, pulls it from the owner's set, and announces the
// deletion.
func (s *FeedService) DeletePost(ctx context.Context, callerID, id string) error {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(post.CreatorID, callerID); err != nil {
		return err
	}

	if err := s.images.Remove(post.ImageURL); err != nil {
		s.logger.Warn("failed to remove image of deleted post", "ref", post.ImageURL, "error", err)
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return err
	}
	if err := s.users.RemoveOwnedPost(ctx, post.CreatorID, id); err != nil {
		s.logger.Error("post deleted but owned-set pull failed", "post", id, "user", post.CreatorID, "error", err)
		return err
	}

	s.events.Publish(PostEvent{Action: ActionDelete, PostID: id})
	s.logger.Info("post deleted", "post", id, "user", callerID)
	return nil
}

// authorize rejects callers that do not own the resource. Exact equality,
// no roles, no delegation.
func authorize(ownerID, callerID string) error {
	if ownerID != callerID {
		return Forbidden("Not authorized!")
	}
	return nil
}

func validatePostFields(title, content string) []FieldError {
	var fields []FieldError
	if strings.TrimSpace(title) == "" {
		fields = append(fields, FieldError{Field: "title", Message: "title must not be empty"})
	}
	if strings.TrimSpace(content) == "" {
		fields = append(fields, FieldError{Field: "content", Message: "content must not be empty"})
	}
	return fields
}
