package realtime

// Event types pushed to clients
const (
	EventNewComment          = "new_comment"
	EventCommentStatusUpdate = "comment_status_update"
)

// Event is the envelope of every server push: {"type": ..., "payload": ...}.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type NewCommentPayload struct {
	TaskID     uint64 `json:"taskId"`
	CommentID  uint64 `json:"commentId"`
	AuthorName string `json:"authorName"`
	TaskTitle  string `json:"taskTitle"`
}

type CommentStatusPayload struct {
	TaskID       uint64 `json:"taskId"`
	CommentID    uint64 `json:"commentId"`
	Status       string `json:"status"`
	ReviewerName string `json:"reviewerName"`
	TaskTitle    string `json:"taskTitle"`
}
