package social

import (
	"strings"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
)

const (
	MaxFriendshipLevel = 10
	MaxParticipants    = 6
)

// levelThresholds holds the session count needed to leave each level.
// Seven sessions still count as level 2.
var levelThresholds = []int{3, 8, 15, 30, 50, 75, 100, 150, 200}

// Bonus multiplies coop rewards for a friendship level
type Bonus struct {
	Happiness  float64
	Money      float64
	Experience float64
}

var levelBonuses = [MaxFriendshipLevel]Bonus{
	{1.0, 1.0, 1.0},
	{1.1, 1.05, 1.05},
	{1.15, 1.1, 1.1},
	{1.2, 1.15, 1.15},
	{1.25, 1.2, 1.2},
	{1.3, 1.25, 1.25},
	{1.35, 1.3, 1.3},
	{1.4, 1.35, 1.35},
	{1.45, 1.4, 1.4},
	{1.5, 1.45, 1.45},
}

var participantBonuses = map[int]float64{
	2: 1.2,
	3: 1.35,
	4: 1.5,
	5: 1.65,
	6: 1.8,
}

// Level maps sessions together to a 1..10 friendship level
func Level(sessions int) int {
	for i, threshold := range levelThresholds {
		if sessions < threshold {
			return i + 1
		}
	}
	return MaxFriendshipLevel
}

// Bonuses returns the multipliers for level; out of range levels get level 1
func Bonuses(level int) Bonus {
	if level < 1 || level > MaxFriendshipLevel {
		return levelBonuses[0]
	}
	return levelBonuses[level-1]
}

// ParticipantBonus rewards larger groups, capped at six otters
func ParticipantBonus(n int) float64 {
	if b, ok := participantBonuses[min(n, MaxParticipants)]; ok {
		return b
	}
	return 1.0
}

// Stars renders a friendship level out of ten
func Stars(level int) string {
	level = min(max(level, 0), MaxFriendshipLevel)
	return strings.Repeat("⭐", level) + strings.Repeat("☆", MaxFriendshipLevel-level)
}

// NewFriendship creates the canonical record for the pair a, b
func NewFriendship(a, b int64, now time.Time) (*domain.Friendship, error) {
	if a == b {
		return nil, domain.ErrSelfFriendship
	}
	id1, id2 := domain.FriendshipKey(a, b)
	return &domain.Friendship{
		UserID1:         id1,
		UserID2:         id2,
		FriendshipLevel: 1,
		FirstMetDate:    domain.At(now),
		LastInteraction: domain.At(now),
	}, nil
}

// RecordSession counts one activity together and reports a level change
func RecordSession(f *domain.Friendship, now time.Time) bool {
	prev := f.FriendshipLevel
	f.TotalSessionsTogether++
	f.FriendshipLevel = Level(f.TotalSessionsTogether)
	f.LastInteraction = domain.At(now)
	return f.FriendshipLevel > prev
}
