package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/glebk/otter-bot/internal/domain"
)

// StatsRepository implements domain.StatsRepository using SQLite
type StatsRepository struct {
	db *Database
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *Database) *StatsRepository {
	return &StatsRepository{db: db}
}

// counters maps each counter to its column; only these names reach SQL.
var counters = map[domain.Counter]string{
	domain.CounterSleepMinutes:  "total_sleep_minutes",
	domain.CounterFeedEvents:    "feed_events",
	domain.CounterWaterEvents:   "water_events",
	domain.CounterWorkSessions:  "work_sessions",
	domain.CounterHobbySessions: "hobby_sessions",
}

// Get retrieves the counters of a user, zero when nothing was recorded
func (r *StatsRepository) Get(userID int64) (*domain.ActivityStats, error) {
	query := `
		SELECT total_sleep_minutes, feed_events, water_events, work_sessions, hobby_sessions
		FROM activity_stats
		WHERE user_id = ?
	`

	stats := &domain.ActivityStats{UserID: userID}
	err := r.db.GetDB().QueryRow(query, userID).Scan(
		&stats.TotalSleepMinutes,
		&stats.FeedEvents,
		&stats.WaterEvents,
		&stats.WorkSessions,
		&stats.HobbySessions,
	)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

// Add increments one counter. Negative deltas are ignored.
func (r *StatsRepository) Add(userID int64, counter domain.Counter, delta int) error {
	column, ok := counters[counter]
	if !ok {
		return fmt.Errorf("unknown counter %q: %w", counter, domain.ErrInvalidInput)
	}
	if delta <= 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO activity_stats (user_id, %[1]s) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET %[1]s = %[1]s + excluded.%[1]s
	`, column)

	if _, err := r.db.GetDB().Exec(query, userID, delta); err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	return nil
}
