package events

// Task event types pushed to connected websocket clients.
const (
	TypeTaskCreated   = "task_created"
	TypeTaskCompleted = "task_completed"
	TypeTaskEdited    = "task_edited"
	TypeTaskDeleted   = "task_deleted"
)

// Event is a single task change notification. Owner routes the event to
// the right client connections and is not serialized.
type Event struct {
	Type    string      `json:"event"`
	Owner   string      `json:"-"`
	Payload TaskPayload `json:"payload"`
}

// TaskPayload mirrors the task JSON of the HTTP API.
type TaskPayload struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}
