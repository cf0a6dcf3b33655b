package hobby

import (
	"math"
	"strings"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/events"
	"github.com/glebk/otter-bot/internal/pet"
)

const (
	// ReferencePrice is the price with a 1.0 effectiveness multiplier.
	ReferencePrice    = 20.0
	MinMultiplier     = 0.5
	BaseEnergyCost    = 5.0
	EnergyCostPerMult = 2.0
	WalkEnergyFactor  = 0.7

	MaxMasteryLevel   = 5
	MasteryBonusStep  = 0.1
	StreakBonusDays   = 7
	StreakBonusMult   = 1.3
	OveruseAfterDays  = 3
	PurchaseHappiness = 15
)

// masteryThresholds holds the session count needed to leave each level.
var masteryThresholds = []int{3, 8, 15, 30}

// overusePenalties is indexed by days past OveruseAfterDays.
var overusePenalties = []float64{0.90, 0.85, 0.80, 0.75}

// Effect is the raw benefit of a hobby before mastery and streaks
type Effect struct {
	Happiness  int
	Recovery   int
	EnergyCost int
}

// Outcome is the applied result of a hobby session
type Outcome struct {
	Hobby      *domain.Hobby
	Event      events.Event
	Happiness  int
	Recovery   int
	EnergyCost int
	Level      int
	Streak     int
	LevelUp    bool
}

// PriceMultiplier scales effectiveness linearly with price, so price 50 is 2.5x price 20
func PriceMultiplier(price int) float64 {
	return math.Max(MinMultiplier, float64(price)/ReferencePrice)
}

// Effectiveness returns the base effect of one session of h
func Effectiveness(h *domain.Hobby) Effect {
	m := PriceMultiplier(h.Price)
	return Effect{
		Happiness:  int(math.Round(float64(h.BaseHappiness) * m)),
		Recovery:   int(math.Round(float64(h.BaseFatigueRecovery) * m)),
		EnergyCost: int(math.Round(BaseEnergyCost + EnergyCostPerMult*m)),
	}
}

// MasteryLevel maps total sessions to a 1..5 level
func MasteryLevel(totalSessions int) int {
	for i, threshold := range masteryThresholds {
		if totalSessions < threshold {
			return i + 1
		}
	}
	return MaxMasteryLevel
}

// MasteryBonus returns the happiness and recovery multiplier for a level
func MasteryBonus(level int) float64 {
	level = min(max(level, 1), MaxMasteryLevel)
	return 1 + MasteryBonusStep*float64(level-1)
}

// StreakBonus rewards a week or more of consecutive days
func StreakBonus(streak int) float64 {
	if streak >= StreakBonusDays {
		return StreakBonusMult
	}
	return 1.0
}

// OverusePenalty reduces effectiveness once the same hobby is repeated
// more than three days in a row, bottoming out at 25%.
func OverusePenalty(streak int) float64 {
	over := streak - OveruseAfterDays
	if over <= 0 {
		return 1.0
	}
	return overusePenalties[min(over, len(overusePenalties))-1]
}

// UpdateStreak advances the streak for a session on today (YYYY-MM-DD).
// Repeat sessions on the same day leave it unchanged.
func UpdateStreak(m *domain.HobbyMastery, today string) {
	switch {
	case m.LastSessionDate == today:
		m.Streak = max(m.Streak, 1)
	case isPreviousDay(m.LastSessionDate, today):
		m.Streak++
	default:
		m.Streak = 1
	}
	m.LastSessionDate = today
}

func isPreviousDay(last, today string) bool {
	lastDate, err := time.Parse(domain.DateLayout, last)
	if err != nil {
		return false
	}
	todayDate, err := time.Parse(domain.DateLayout, today)
	if err != nil {
		return false
	}
	return lastDate.AddDate(0, 0, 1).Equal(todayDate)
}

// Play runs one hobby session for the otter and applies its effects
func Play(p *domain.PetState, h *domain.Hobby, event events.Event, today string, now time.Time) (Outcome, error) {
	if !p.IsAlive {
		return Outcome{}, domain.ErrPetDead
	}
	if p.IsAsleep() {
		return Outcome{}, domain.ErrPetAsleep
	}
	if p.AtWork {
		return Outcome{}, domain.ErrPetAtWork
	}
	if !p.HasHobby(h.ID) {
		return Outcome{}, domain.ErrHobbyLocked
	}

	if p.HobbyMastery == nil {
		p.HobbyMastery = make(map[string]*domain.HobbyMastery)
	}
	m, ok := p.HobbyMastery[h.ID]
	if !ok {
		m = &domain.HobbyMastery{HobbyID: h.ID, Level: 1}
		p.HobbyMastery[h.ID] = m
	}

	prevLevel := m.Level
	m.TotalSessions++
	UpdateStreak(m, today)
	m.Level = MasteryLevel(m.TotalSessions)

	base := Effectiveness(h)
	masteryMult := MasteryBonus(m.Level)
	streakMult := StreakBonus(m.Streak)
	overuseMult := OverusePenalty(m.Streak)

	happiness := int(math.Round(float64(base.Happiness)*masteryMult)) + event.Happiness
	recovery := int(math.Round(float64(base.Recovery)*masteryMult*streakMult*overuseMult)) + event.Recovery
	energyCost := base.EnergyCost
	if h.ID == domain.BaseHobbyID {
		energyCost = max(1, int(float64(energyCost)*WalkEnergyFactor))
	}

	p.Happiness = domain.ClampVital(p.Happiness + happiness)
	p.Energy = domain.ClampVital(p.Energy - energyCost)
	p.Fatigue = domain.ClampVital(p.Fatigue - recovery)
	p.AvatarKey = h.AvatarKey
	pet.Touch(p, now)

	return Outcome{
		Hobby:      h,
		Event:      event,
		Happiness:  happiness,
		Recovery:   recovery,
		EnergyCost: energyCost,
		Level:      m.Level,
		Streak:     m.Streak,
		LevelUp:    m.Level > prevLevel && m.TotalSessions > 1,
	}, nil
}

// Buy unlocks h for the otter
func Buy(p *domain.PetState, h *domain.Hobby) error {
	if !p.IsAlive {
		return domain.ErrPetDead
	}
	if p.HasHobby(h.ID) {
		return domain.ErrHobbyOwned
	}
	if p.Money < h.Price {
		return domain.ErrNotEnoughMoney
	}
	p.Money -= h.Price
	p.UnlockHobby(h.ID)
	p.Happiness = domain.ClampVital(p.Happiness + PurchaseHappiness)
	return nil
}

// Stars renders a mastery level as five stars
func Stars(level int) string {
	level = min(max(level, 0), MaxMasteryLevel)
	return strings.Repeat("⭐", level) + strings.Repeat("☆", MaxMasteryLevel-level)
}

// Recommendation suggests a hobby type for the otter's current state
type Recommendation struct {
	Type domain.HobbyType
	Text string
}

// Recommend suggests hobby types based on fatigue, happiness and energy
func Recommend(p *domain.PetState) []Recommendation {
	var recs []Recommendation

	if p.Fatigue > 60 {
		recs = append(recs, Recommendation{
			Type: domain.HobbyCreative,
			Text: "😌 Выдра устала. Спокойное творческое хобби поможет ей восстановиться.",
		})
	}
	if p.Happiness < 40 {
		recs = append(recs, Recommendation{
			Type: domain.HobbyEntertainment,
			Text: "🎭 Выдре грустно. Сходите развлечься: кино, театр или концерт поднимут настроение.",
		})
	}
	if p.Energy > 60 && p.Fatigue < 40 {
		recs = append(recs, Recommendation{
			Type: domain.HobbySport,
			Text: "🏃 У выдры много энергии! Самое время для спорта.",
		})
	}

	return recs
}
