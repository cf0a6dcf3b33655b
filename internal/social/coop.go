package social

import (
	"math"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/events"
)

// Profile is the base reward of a coop activity for one otter
type Profile struct {
	Title     string
	Happiness int
	Money     int
	Recovery  int
	Hunger    int
	Energy    int
	Minutes   int
}

var profiles = map[domain.ActivityType]Profile{
	domain.ActivityWork:     {Title: "💼 Совместная работа", Happiness: 10, Money: 30, Energy: 10, Minutes: 60},
	domain.ActivityHobby:    {Title: "🎨 Совместное хобби", Happiness: 15, Recovery: 120, Energy: 5, Minutes: 60},
	domain.ActivityWalk:     {Title: "🚶 Совместная прогулка", Happiness: 15, Recovery: 80, Energy: 3, Minutes: 30},
	domain.ActivityTraining: {Title: "💪 Совместная тренировка", Happiness: 20, Recovery: 100, Energy: 10, Minutes: 45},
	domain.ActivityMeal:     {Title: "🍽️ Совместный обед", Happiness: 20, Hunger: 30, Minutes: 30},
}

// Activities lists the supported coop activities in menu order
func Activities() []domain.ActivityType {
	return []domain.ActivityType{
		domain.ActivityWalk,
		domain.ActivityMeal,
		domain.ActivityHobby,
		domain.ActivityTraining,
		domain.ActivityWork,
	}
}

// ProfileFor returns the profile of activity, falling back to a walk
func ProfileFor(activity domain.ActivityType) Profile {
	if p, ok := profiles[activity]; ok {
		return p
	}
	return profiles[domain.ActivityWalk]
}

// Gains is what each participant receives from one session
type Gains struct {
	Happiness int
	Money     int
	Recovery  int
	Hunger    int
	Energy    int
}

// Coop computes per-otter gains for a session of participants otters whose
// mutual friendship sits at level.
func Coop(activity domain.ActivityType, participants, level int, event events.Event) Gains {
	p := ProfileFor(activity)
	group := ParticipantBonus(participants)
	bonus := Bonuses(level)

	money := float64(p.Money) * group * bonus.Money * (1 + event.MoneyBonus)

	return Gains{
		Happiness: int(float64(p.Happiness)*group*bonus.Happiness) + event.Happiness,
		Money:     int(math.Round(money)) + event.Money,
		Recovery:  int(float64(p.Recovery)*group) + event.Recovery,
		Hunger:    p.Hunger,
		Energy:    p.Energy,
	}
}

// Apply adds gains to the otter
func Apply(p *domain.PetState, g Gains) {
	p.Happiness = domain.ClampVital(p.Happiness + g.Happiness)
	p.Hunger = domain.ClampVital(p.Hunger + g.Hunger)
	p.Fatigue = domain.ClampVital(p.Fatigue - g.Recovery)
	p.Energy = domain.ClampVital(p.Energy - g.Energy)
	p.Money = max(0, p.Money+g.Money)
}

// CanJoin reports why an otter cannot take part, or nil
func CanJoin(p *domain.PetState) error {
	switch {
	case !p.IsAlive:
		return domain.ErrPetDead
	case p.IsAsleep():
		return domain.ErrPetAsleep
	case p.VacationMode:
		return domain.ErrPetOnVacation
	case p.AtWork:
		return domain.ErrPetAtWork
	}
	return nil
}
