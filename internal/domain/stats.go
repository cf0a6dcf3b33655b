package domain

// Counter names a lifetime activity counter
type Counter string

const (
	CounterSleepMinutes  Counter = "total_sleep_minutes"
	CounterFeedEvents    Counter = "feed_events"
	CounterWaterEvents   Counter = "water_events"
	CounterWorkSessions  Counter = "work_sessions"
	CounterHobbySessions Counter = "hobby_sessions"
)

// ActivityStats holds lifetime counters for one user
type ActivityStats struct {
	UserID            int64
	TotalSleepMinutes int
	FeedEvents        int
	WaterEvents       int
	WorkSessions      int
	HobbySessions     int
}

// StatsRepository defines the interface for activity counters
type StatsRepository interface {
	Get(userID int64) (*ActivityStats, error)
	Add(userID int64, counter Counter, delta int) error
}
