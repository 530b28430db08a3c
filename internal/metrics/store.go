package metrics

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
)

// New creates a new ActivityStore.
func New(db *sql.DB) ActivityStore {
	return &store{
		db: db,
	}
}

// Increment upserts a counter for the club and increments its value by one.
// Failures are logged and swallowed; counters never fail a request.
func (s *store) Increment(ctx context.Context, clubID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_counters (club_id, key, value) VALUES (?, ?, 1)
		ON CONFLICT(club_id, key) DO UPDATE SET value = value + 1;
	`, clubID, key)
	if err != nil {
		log.Error("Failed to increment activity counter", "error", err, "club_id", clubID, "key", key)
		return
	}
	log.Debug("Incremented activity counter", "club_id", clubID, "key", key)
}

// GetAll returns all counters of the club.
func (s *store) GetAll(ctx context.Context, clubID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM activity_counters WHERE club_id = ?", clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		counters[key] = value
	}
	return counters, rows.Err()
}
