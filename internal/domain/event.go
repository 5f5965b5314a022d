package domain

// EventAction tags a PostEvent with the mutation that produced it.
type EventAction string

const (
	ActionCreate EventAction = "create"
	ActionUpdate EventAction = "update"
	ActionDelete EventAction = "delete"
)

// PostEvent announces a completed mutation to live subscribers. Create events
// carry the post and the creator projection, update events carry the post,
// delete events carry only the post ID since the post is gone. Events are
// never persisted; whoever is subscribed at publish time gets one copy.
type PostEvent struct {
	Action  EventAction
	Post    *Post
	Creator *Creator
	PostID  string
}
