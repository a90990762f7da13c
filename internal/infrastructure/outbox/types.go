package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Item is an event whose external publish failed and is awaiting retry.
type Item struct {
	ID          string          `json:"id"`
	AggregateID string          `json:"aggregate_id"`
	Kind        string          `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	Retries     int             `json:"retries"`
	Timestamp   time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
