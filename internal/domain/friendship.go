package domain

import "time"

// ActivityType identifies a cooperative activity
type ActivityType string

const (
	ActivityWork     ActivityType = "work"
	ActivityHobby    ActivityType = "hobby"
	ActivityWalk     ActivityType = "walk"
	ActivityTraining ActivityType = "training"
	ActivityMeal     ActivityType = "meal"
)

// Friendship is the symmetric bond between two users.
// UserID1 is always the smaller id.
type Friendship struct {
	UserID1               int64     `json:"user_id_1"`
	UserID2               int64     `json:"user_id_2"`
	FriendshipLevel       int       `json:"friendship_level"`
	TotalSessionsTogether int       `json:"total_sessions_together"`
	FirstMetDate          Timestamp `json:"first_met_date"`
	LastInteraction       Timestamp `json:"last_interaction"`
}

// FriendshipKey returns the pair ordered as (min, max)
func FriendshipKey(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Other returns the id on the opposite side of the pair
func (f *Friendship) Other(userID int64) int64 {
	if f.UserID1 == userID {
		return f.UserID2
	}
	return f.UserID1
}

// Includes reports whether userID is one side of the pair
func (f *Friendship) Includes(userID int64) bool {
	return f.UserID1 == userID || f.UserID2 == userID
}

// CoopSession records one cooperative activity among friends
type CoopSession struct {
	ID              string        `json:"id"`
	ActivityType    ActivityType  `json:"activity_type"`
	UserIDs         []int64       `json:"user_ids"`
	StartTime       time.Time     `json:"start_time"`
	DurationMinutes int           `json:"duration_minutes"`
	ResultHappiness map[int64]int `json:"result_happiness"`
	ResultMoney     map[int64]int `json:"result_money"`
	EventTriggered  string        `json:"event_triggered,omitempty"`
}

// FriendshipRepository stores exactly one record per unordered pair
type FriendshipRepository interface {
	// Get returns nil without error when the pair are not friends.
	Get(a, b int64) (*Friendship, error)
	Save(friendship *Friendship) error
	ListFor(userID int64) ([]*Friendship, error)
}

// CoopSessionRepository defines the interface for coop session storage
type CoopSessionRepository interface {
	Create(session *CoopSession) error
	GetByID(id string) (*CoopSession, error)
	CountForUser(userID int64) (int, error)
}
