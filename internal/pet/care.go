package pet

import (
	"math"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
)

// WorkShift is the outcome of picking the otter up from work
type WorkShift struct {
	Hours       float64
	Earned      int
	WorkedToday float64
}

// RemainingWorkHours returns how many hours are still allowed today
func RemainingWorkHours(workedToday float64) float64 {
	return math.Max(0, MaxWorkHoursDay-workedToday)
}

// Feed gives the otter a meal
func Feed(p *domain.PetState, now time.Time) error {
	if err := requireAwake(p); err != nil {
		return err
	}
	p.Hunger = domain.ClampVital(p.Hunger + FeedHunger)
	p.Happiness = domain.ClampVital(p.Happiness + FeedHappiness)
	Touch(p, now)
	return nil
}

// GiveWater lets the otter drink
func GiveWater(p *domain.PetState, now time.Time) error {
	if err := requireAwake(p); err != nil {
		return err
	}
	p.Thirst = domain.ClampVital(p.Thirst + WaterThirst)
	p.Happiness = domain.ClampVital(p.Happiness + WaterHappiness)
	Touch(p, now)
	return nil
}

// PutToSleep puts the otter to bed
func PutToSleep(p *domain.PetState, now time.Time) error {
	if !p.IsAlive {
		return domain.ErrPetDead
	}
	if p.IsAsleep() {
		return domain.ErrPetAsleep
	}
	if p.AtWork {
		return domain.ErrPetAtWork
	}
	p.AvatarKey = domain.AvatarSleep
	p.LastSleepStart = domain.At(now)
	Touch(p, now)
	return nil
}

// WakeUp wakes the otter and returns how many minutes it slept
func WakeUp(p *domain.PetState, now time.Time) (int, error) {
	if !p.IsAlive {
		return 0, domain.ErrPetDead
	}
	if !p.IsAsleep() {
		return 0, domain.ErrPetAwake
	}
	if p.AtWork {
		return 0, domain.ErrPetAtWork
	}

	minutes := 0
	if p.LastSleepStart.IsSet() {
		minutes = max(0, int(now.Sub(p.LastSleepStart.Time).Minutes()))
	}

	p.AvatarKey = domain.AvatarAwake
	p.LastSleepStart = domain.Timestamp{}
	p.LastWakeTime = domain.At(now)
	p.Energy = domain.ClampVital(p.Energy + WakeEnergy)
	p.Happiness = domain.ClampVital(p.Happiness + WakeHappiness)
	Touch(p, now)
	return minutes, nil
}

// StartWork sends the otter to work if today's limit allows it
func StartWork(p *domain.PetState, workedToday float64, now time.Time) error {
	if !p.IsAlive {
		return domain.ErrPetDead
	}
	if p.AtWork {
		return domain.ErrPetAtWork
	}
	if p.IsAsleep() {
		return domain.ErrPetAsleep
	}
	if workedToday >= MaxWorkHoursDay {
		return domain.ErrWorkLimitReached
	}

	p.AtWork = true
	p.AvatarKey = domain.AvatarWork
	p.LastWorkStart = domain.At(now)
	Touch(p, now)
	return nil
}

// EndWork pays the otter for the shift, capped by the daily limit
func EndWork(p *domain.PetState, workedToday float64, now time.Time) (WorkShift, error) {
	if !p.IsAlive {
		return WorkShift{}, domain.ErrPetDead
	}
	if !p.AtWork {
		return WorkShift{}, domain.ErrPetNotAtWork
	}

	hours := 0.0
	if p.LastWorkStart.IsSet() {
		hours = math.Max(0, now.Sub(p.LastWorkStart.Time).Hours())
	}
	hours = math.Min(hours, RemainingWorkHours(workedToday))

	earned := Pay(hours)

	p.AtWork = false
	p.AvatarKey = domain.AvatarAwake
	p.LastWorkStart = domain.Timestamp{}
	p.Money += earned
	p.Happiness = domain.ClampVital(p.Happiness + WorkHappiness)
	p.Fatigue = domain.ClampVital(p.Fatigue + int(hours*WorkFatigueHour))
	Touch(p, now)

	return WorkShift{Hours: hours, Earned: earned, WorkedToday: workedToday + hours}, nil
}

// Pay converts worked hours to coins. Any shift longer than a minute earns at least one coin.
func Pay(hours float64) int {
	if hours <= 0 {
		return 0
	}
	earned := int(math.Round(hours * CoinsPerHour))
	if earned == 0 && hours >= MinPaidWorkHours {
		earned = 1
	}
	return earned
}

// ReturnFromVacation ends vacation mode and restarts the decay clock
func ReturnFromVacation(p *domain.PetState, now time.Time) bool {
	if !p.VacationMode {
		return false
	}
	p.VacationMode = false
	Touch(p, now)
	return true
}

func requireAwake(p *domain.PetState) error {
	if !p.IsAlive {
		return domain.ErrPetDead
	}
	if p.IsAsleep() {
		return domain.ErrPetAsleep
	}
	return nil
}
