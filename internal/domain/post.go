package domain

import "time"

// Post is a single feed item. ID and CreatedAt are assigned by the store
// when the post is created; CreatorID never changes afterwards.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	CreatorID string    `json:"creatorId"`
	Creator   *Creator  `json:"creator,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Creator is the minimal owner projection attached to posts and to create
// events, enough for a client to render attribution without another fetch.
type Creator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is an account that can log in and own posts. Posts holds the IDs of
// the posts the user created; a post ID lives in exactly one user's set from
// creation until the post is deleted.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Posts        []string  `json:"posts,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
