package events

// Type tags of change notifications sent over the broadcast channel.
//
// The payload, when present, is a hint; clients re-fetch rather than
// patching local state from it.
const (
	TaskCreated    = "task_created"
	TaskUpdated    = "task_updated"
	TaskDeleted    = "task_deleted"
	CommentCreated = "comment_created"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// DeletedPayload is the hint carried by a task_deleted event.
type DeletedPayload struct {
	Id int `json:"id"`
}
