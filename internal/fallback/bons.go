// Package fallback keeps withdrawal records on the local machine when the
// inventory API cannot take them.
package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/bon"
)

// BonsKey is the key the dashboard keeps locally saved bons under.
const BonsKey = "multiple_bons"

// Storage is a persisted key-value store.
type Storage interface {
	Save(key string, contents io.Reader) error
	Get(key string) ([]byte, error)
}

// BonLog appends withdrawal records to a JSON list in a Storage.
type BonLog struct {
	store  Storage
	logger hclog.Logger
	now    func() time.Time

	mu     sync.Mutex
	lastID int64
}

func NewBonLog(store Storage, logger hclog.Logger) *BonLog {
	return &BonLog{store: store, logger: logger, now: time.Now}
}

// Append stores rec with a time-based identifier and creation timestamp.
func (b *BonLog) Append(ctx context.Context, rec bon.Record) (bon.Record, error) {
	if err := ctx.Err(); err != nil {
		return bon.Record{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load()
	if err != nil {
		return bon.Record{}, err
	}

	now := b.now()
	rec.ID = b.nextID(now, records)
	created := strfmt.DateTime(now.UTC())
	rec.CreatedAt = &created

	records = append(records, rec)

	data, err := json.Marshal(records)
	if err != nil {
		return bon.Record{}, fmt.Errorf("encoding local bons: %w", err)
	}
	if err := b.store.Save(BonsKey, bytes.NewReader(data)); err != nil {
		return bon.Record{}, fmt.Errorf("saving local bons: %w", err)
	}

	b.logger.Info("Bon saved locally", "id", rec.ID, "total", len(records))
	return rec, nil
}

// List returns all locally saved records, oldest first.
func (b *BonLog) List(ctx context.Context) ([]bon.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.load()
}

func (b *BonLog) load() ([]bon.Record, error) {
	data, err := b.store.Get(BonsKey)
	if errors.Is(err, ErrNotFound) {
		return []bon.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading local bons: %w", err)
	}

	records := []bon.Record{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding local bons: %w", err)
	}
	return records, nil
}

// nextID uses the current time in milliseconds, bumped past any identifier
// already handed out so two records saved in the same millisecond differ.
func (b *BonLog) nextID(now time.Time, existing []bon.Record) int64 {
	id := now.UnixMilli()
	last := b.lastID
	for _, r := range existing {
		if r.ID > last {
			last = r.ID
		}
	}
	if id <= last {
		id = last + 1
	}
	b.lastID = id
	return id
}
