package pet

import (
	"time"

	"github.com/glebk/otter-bot/internal/domain"
)

// DecayResult describes what a single Degrade call changed
type DecayResult struct {
	Hours           float64
	Rate            float64
	Before          HealthState
	After           HealthState
	Died            bool
	EnteredVacation bool
}

// DecayRate returns the multiplier for a window of the given length
func DecayRate(hours float64) float64 {
	switch {
	case hours > FastestRateAfter:
		return FastestRate
	case hours > FastRateAfter:
		return FastRate
	default:
		return SlowRate
	}
}

// Degrade applies the vitals lost since the last interaction and runs the
// death and vacation transitions. Dead and vacationing otters are left alone.
// LastInteraction is moved to now, so back-to-back calls are no-ops.
func Degrade(p *domain.PetState, now time.Time) DecayResult {
	res := DecayResult{Before: Classify(p)}
	res.After = res.Before

	if !p.IsAlive || p.VacationMode {
		return res
	}

	if !p.LastInteraction.IsSet() {
		p.LastInteraction = domain.At(now)
		return res
	}

	hours := now.Sub(p.LastInteraction.Time).Hours()
	if hours <= 0 {
		return res
	}

	rate := DecayRate(hours)
	res.Hours = hours
	res.Rate = rate

	p.Happiness = decayVital(p.Happiness, HappinessDecayPerHour*hours*rate)
	p.Hunger = decayVital(p.Hunger, HungerDecayPerHour*hours*rate)
	p.Thirst = decayVital(p.Thirst, ThirstDecayPerHour*hours*rate)
	p.Energy = decayVital(p.Energy, EnergyDecayPerHour*hours*rate)

	if p.Fatigue > FatigueThreshold {
		p.Happiness = domain.ClampVital(p.Happiness - FatigueExtraDecay)
		p.Energy = domain.ClampVital(p.Energy - FatigueExtraDecay)
	}

	state := Classify(p)
	if state == HealthCritical {
		if !p.CriticalStateSince.IsSet() {
			p.CriticalStateSince = domain.At(now)
		}
	} else {
		p.CriticalStateSince = domain.Timestamp{}
	}

	lethal := isLethal(p)

	if state == HealthCritical && lethal {
		criticalHours := now.Sub(p.CriticalStateSince.Time).Hours()
		if criticalHours >= CriticalHoursToDeath {
			kill(p)
			res.Died = true
		}
	}

	// A long absence sends a healthy otter on vacation. One that was already
	// in bad shape before the absence does not survive it.
	if !res.Died && hours > VacationAfterHours {
		if (res.Before == HealthCritical || res.Before == HealthVeryPoor) && lethal {
			kill(p)
			res.Died = true
		} else {
			p.VacationMode = true
			p.SetVitals(VacationVital)
			p.CriticalStateSince = domain.Timestamp{}
			res.EnteredVacation = true
		}
	}

	p.LastInteraction = domain.At(now)
	res.After = Classify(p)
	return res
}

// Touch records an interaction without applying decay
func Touch(p *domain.PetState, now time.Time) {
	p.LastInteraction = domain.At(now)
}

func decayVital(v int, loss float64) int {
	return domain.ClampVital(int(float64(v) - loss))
}

// isLethal reports whether at least two vitals are exhausted or all four are nearly so
func isLethal(p *domain.PetState) bool {
	zeros, veryLow := 0, 0
	for _, v := range p.Vitals() {
		if v <= 0 {
			zeros++
		}
		if v < VeryLowVital {
			veryLow++
		}
	}
	return zeros >= LethalZeroVitals || veryLow == len(p.Vitals())
}

func kill(p *domain.PetState) {
	p.IsAlive = false
	p.CriticalStateSince = domain.Timestamp{}
}
