package message

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrFromRequired      = errors.New("sender label is required")
	ErrDirectionRequired = errors.New("direction is required")
)

// feedBuffer bounds how far a feed subscriber may lag before records are
// dropped for it.
const feedBuffer = 16

// Log is the append-only in-memory message log shared by all handlers.
// Records are immutable once appended and ids are never reused.
type Log struct {
	mu      sync.RWMutex
	records []Record
	nextID  int
	feeds   map[int]chan Record
	feedSeq int
}

// NewLog bootstraps an empty message log.
func NewLog() *Log {
	return &Log{
		records: make([]Record, 0, 64),
		nextID:  1,
		feeds:   make(map[int]chan Record),
	}
}

// Append assigns the next identifier, stamps the record time if unset and
// stores the record. The stored record is returned.
func (l *Log) Append(record Record) (Record, error) {
	if record.From == "" {
		return Record{}, ErrFromRequired
	}
	if record.Direction != DirectionIn && record.Direction != DirectionOut {
		return Record{}, ErrDirectionRequired
	}

	l.mu.Lock()
	record.ID = l.nextID
	l.nextID++
	if record.Time.IsZero() {
		record.Time = time.Now().UTC()
	}
	l.records = append(l.records, record)
	for _, feed := range l.feeds {
		select {
		case feed <- record:
		default:
			// Slow subscriber; drop rather than block the append path.
		}
	}
	l.mu.Unlock()

	return record, nil
}

// Snapshot returns a copy of all records in append order.
func (l *Log) Snapshot() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]Record, len(l.records))
	copy(copied, l.records)
	return copied
}

// Len reports how many records have been appended.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Subscribe registers a live feed of newly appended records. The returned
// cancel function must be called when the consumer goes away.
func (l *Log) Subscribe() (<-chan Record, func()) {
	feed := make(chan Record, feedBuffer)

	l.mu.Lock()
	id := l.feedSeq
	l.feedSeq++
	l.feeds[id] = feed
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		delete(l.feeds, id)
		l.mu.Unlock()
	}
	return feed, cancel
}
