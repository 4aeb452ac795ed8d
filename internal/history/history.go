package history

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/st3v3nmw/urlblock/internal/types"
	"github.com/st3v3nmw/urlblock/pkg/ids"
	"github.com/st3v3nmw/urlblock/pkg/threadsafe"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id VARCHAR(26) PRIMARY KEY,
	action VARCHAR(10) NOT NULL,
	url TEXT NOT NULL,
	timestamp INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS events_timestamp ON events (timestamp);
`

const (
	DefaultLimit         = 50
	MaxLimit             = 500
	defaultFlushInterval = 5 * time.Second
)

type Event struct {
	ID        string       `json:"id"`
	Action    types.Action `json:"action"`
	URL       string       `json:"url"`
	Timestamp time.Time    `json:"timestamp"`
}

// Recorder keeps a log of blocklist changes in sqlite. Events are
// queued in memory and written in batches by a background worker.
type Recorder struct {
	DB          *sql.DB
	Broadcaster *Broadcaster

	queue         threadsafe.Slice[*Event]
	flushInterval time.Duration
	flushMu       sync.Mutex
	wg            sync.WaitGroup
	shutdown      chan struct{}
}

func Open(path string, flushInterval time.Duration) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	// Run migrations
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Recorder{
		DB:            db,
		Broadcaster:   NewBroadcaster(),
		flushInterval: flushInterval,
		shutdown:      make(chan struct{}),
	}, nil
}

func (r *Recorder) Start() {
	r.wg.Add(1)
	go r.worker()
}

// Record queues a change and forwards it to subscribers.
// It never blocks on the database.
func (r *Recorder) Record(action types.Action, url string) {
	now := time.Now().UTC()
	id, err := ids.GenerateULID(now)
	if err != nil {
		slog.Warn("Failed to generate event id", "error", err)
		return
	}

	event := &Event{
		ID:        id.String(),
		Action:    action,
		URL:       url,
		Timestamp: now,
	}
	r.queue.Append(event)
	r.Broadcaster.broadcast(event)
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if r.queue.Len() > 0 {
				r.Flush()
			}

		case <-r.shutdown:
			if r.queue.Len() > 0 {
				r.Flush()
			}
			return
		}
	}
}

// Flush writes the queued events. On failure they are requeued for
// the next attempt.
func (r *Recorder) Flush() error {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	events := r.queue.Drain()
	if len(events) == 0 {
		return nil
	}

	if err := r.insert(events); err != nil {
		slog.Error("Failed to write history", "error", err, "events", len(events))
		r.queue.Append(events...)
		return err
	}

	return nil
}

func (r *Recorder) insert(events []*Event) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO events (id, action, url, timestamp)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		_, err := stmt.Exec(e.ID, e.Action, e.URL, e.Timestamp.UnixMilli())
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Recent returns up to limit events, newest first. Pending events are
// flushed before querying.
func (r *Recorder) Recent(limit int) ([]*Event, error) {
	switch {
	case limit > MaxLimit:
		limit = MaxLimit
	case limit <= 0:
		limit = DefaultLimit
	}

	if err := r.Flush(); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(`
		SELECT id, action, url, timestamp
		FROM events
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		var e Event
		var ts int64
		if err := rows.Scan(&e.ID, &e.Action, &e.URL, &ts); err != nil {
			return nil, err
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		events = append(events, &e)
	}

	return events, rows.Err()
}

// DeleteOlderThan drops events recorded before now - retention.
// A zero retention keeps everything.
func (r *Recorder) DeleteOlderThan(retention time.Duration) error {
	if retention <= 0 {
		return nil
	}

	cutoff := time.Now().Add(-retention).UnixMilli()
	res, err := r.DB.Exec("DELETE FROM events WHERE timestamp < ?", cutoff)
	if err != nil {
		slog.Error("Failed to delete old events", "error", err)
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.Info("Deleted old history events", "count", n)
	}
	return nil
}

// Shutdown stops the worker, flushes pending events and closes the database.
func (r *Recorder) Shutdown() error {
	close(r.shutdown)
	r.wg.Wait()

	if err := r.Flush(); err != nil {
		r.DB.Close()
		return err
	}
	return r.DB.Close()
}
