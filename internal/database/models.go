package database

import "time"

// Event kinds recorded by the relay and the proactive path.
const (
	EventGenerationFailed  = "generation_failed"
	EventDeliveryFailed    = "delivery_failed"
	EventEnqueueFailed     = "enqueue_failed"
	EventProactiveEnqueued = "proactive_enqueued"
	EventPersonaLoadFailed = "persona_load_failed"
)

// Event is one observability record. Conversation content is never stored
// here, only failure and scheduling outcomes.
type Event struct {
	ID        string    `db:"id"         json:"id"`
	Kind      string    `db:"kind"       json:"kind"`
	Detail    string    `db:"detail"     json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
