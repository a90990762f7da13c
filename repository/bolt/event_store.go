package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/repository"
)

// EventStore is a BoltDB-backed append-only event log. Keys are
// "<aggregateID>/<version>" with the version zero-padded, so a cursor walk
// over one aggregate prefix yields records in ascending version order.
type EventStore struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the events bucket exists.
func Open(path string, bucket string) (*EventStore, error) {
	if bucket == "" {
		bucket = "events"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "failed to prepare event store directory", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "failed to open event store", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, domain.WrapError(domain.ErrCodeStorage, "failed to create event bucket", err)
	}

	return &EventStore{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Save serializes and appends a single record in its own transaction.
func (s *EventStore) Save(ctx context.Context, event domain.DomainEvent) error {
	if s == nil || s.db == nil {
		return domain.WrapError(domain.ErrCodeStorage, "event store not open", bolt.ErrDatabaseNotOpen)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := domain.EncodeEventData(event)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "failed to serialize event", err)
	}

	record := repository.StoredEvent{
		ID:          uuid.NewString(),
		AggregateID: event.AggregateID(),
		EventType:   string(event.Kind()),
		EventData:   data,
		Version:     event.EventVersion(),
		OccurredAt:  event.OccurredAt(),
		StoredAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "failed to serialize event record", err)
	}

	key := buildKey(record.AggregateID, record.Version)
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(key, payload)
	}); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "failed to append event", err)
	}
	return nil
}

// SaveAll appends the events in list order. Each append is independently
// durable; a failure mid-batch leaves prior records committed.
func (s *EventStore) SaveAll(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := s.Save(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// GetEvents returns the records for one aggregate in ascending version order.
func (s *EventStore) GetEvents(ctx context.Context, aggregateID string) ([]repository.StoredEvent, error) {
	if s == nil || s.db == nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "event store not open", bolt.ErrDatabaseNotOpen)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(aggregateID + "/")
	var records []repository.StoredEvent
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var record repository.StoredEvent
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "failed to read events", err)
	}
	return records, nil
}

// GetAllEvents scans the entire store across aggregates, in no particular
// cross-aggregate order. Meant for audits and rebuilds, not live reads.
func (s *EventStore) GetAllEvents(ctx context.Context) ([]repository.StoredEvent, error) {
	if s == nil || s.db == nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "event store not open", bolt.ErrDatabaseNotOpen)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []repository.StoredEvent
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(_, v []byte) error {
			var record repository.StoredEvent
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "failed to scan event store", err)
	}
	return records, nil
}

// Close closes the Bolt database.
func (s *EventStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes Bolt statistics for monitoring endpoints.
func (s *EventStore) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

func buildKey(aggregateID string, version int64) []byte {
	return []byte(fmt.Sprintf("%s/%020d", aggregateID, version))
}

var _ repository.EventStore = (*EventStore)(nil)
