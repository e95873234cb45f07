package explorer

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pawnpool/core/events"
	"pawnpool/core/types"
)

// EventRecord is the persisted form of a ledger event, queryable by
// indexer/UI read paths.
type EventRecord struct {
	// Sequence is the emission order; sqlite assigns it monotonically.
	Sequence   uint64    `gorm:"primaryKey;autoIncrement"`
	ID         uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Type       string    `gorm:"index"`
	Attributes string
	CreatedAt  time.Time
}

// attributed is satisfied by event payloads that can expand into a
// broadcastable attribute map.
type attributed interface {
	Event() *types.Event
}

// Indexer persists every emitted ledger event. It satisfies events.Emitter
// so it can be wired straight into the engine; the ledger never depends on
// indexing succeeding.
type Indexer struct {
	mu      sync.Mutex
	db      *gorm.DB
	lastErr error
}

// Open creates or opens the sqlite-backed event index at path.
func Open(path string) (*Indexer, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("explorer: open %s: %w", path, err)
	}
	return NewIndexer(db)
}

// NewIndexer wraps an existing gorm handle and migrates the event schema.
func NewIndexer(db *gorm.DB) (*Indexer, error) {
	if err := db.AutoMigrate(&EventRecord{}); err != nil {
		return nil, fmt.Errorf("explorer: migrate: %w", err)
	}
	return &Indexer{db: db}, nil
}

// Emit implements events.Emitter.
func (ix *Indexer) Emit(evt events.Event) {
	if ix == nil || evt == nil {
		return
	}
	record := EventRecord{
		ID:   uuid.New(),
		Type: evt.EventType(),
	}
	if payload, ok := evt.(attributed); ok {
		if expanded := payload.Event(); expanded != nil {
			encoded, err := json.Marshal(expanded.Attributes)
			if err != nil {
				ix.recordErr(err)
				return
			}
			record.Attributes = string(encoded)
		}
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.db.Create(&record).Error; err != nil {
		ix.lastErr = err
	}
}

// EventsByType returns persisted events of one type in emission order.
func (ix *Indexer) EventsByType(eventType string) ([]EventRecord, error) {
	var records []EventRecord
	err := ix.db.Where("type = ?", eventType).Order("sequence asc").Find(&records).Error
	return records, err
}

// AllEvents returns every persisted event in emission order.
func (ix *Indexer) AllEvents() ([]EventRecord, error) {
	var records []EventRecord
	err := ix.db.Order("sequence asc").Find(&records).Error
	return records, err
}

// Err reports the most recent persistence failure, if any.
func (ix *Indexer) Err() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.lastErr
}

func (ix *Indexer) recordErr(err error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.lastErr = err
}

// Close releases the underlying database handle.
func (ix *Indexer) Close() error {
	sqlDB, err := ix.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
