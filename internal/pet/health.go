package pet

import (
	"fmt"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
)

// HealthState is the otter's overall condition
type HealthState string

const (
	HealthHealthy  HealthState = "healthy"
	HealthOK       HealthState = "ok"
	HealthPoor     HealthState = "poor"
	HealthVeryPoor HealthState = "very_poor"
	HealthCritical HealthState = "critical"
	HealthDead     HealthState = "dead"
)

// Classify maps the lowest vital to a health state. Death overrides everything.
func Classify(p *domain.PetState) HealthState {
	if !p.IsAlive {
		return HealthDead
	}

	lowest := min(p.Happiness, p.Hunger, p.Thirst, p.Energy)
	switch {
	case lowest >= HealthyMin:
		return HealthHealthy
	case lowest >= OKMin:
		return HealthOK
	case lowest >= PoorMin:
		return HealthPoor
	case lowest >= VeryPoorMin:
		return HealthVeryPoor
	default:
		return HealthCritical
	}
}

// StatusMessage returns the user-facing description of a health state
func StatusMessage(state HealthState) string {
	switch state {
	case HealthHealthy:
		return "Выдра чувствует себя отлично! 💪"
	case HealthOK:
		return "Выдра чувствует себя хорошо 😊"
	case HealthPoor:
		return "Выдра чувствует себя не очень хорошо 😔"
	case HealthVeryPoor:
		return "Выдра чувствует себя очень плохо! Нужна помощь! 😰"
	case HealthCritical:
		return "⚠️ КРИТИЧЕСКОЕ СОСТОЯНИЕ! Выдра может умереть, если не получит помощь!"
	default:
		return "Выдра мертва 💀"
	}
}

// CriticalWarnings lists what the otter urgently needs
func CriticalWarnings(p *domain.PetState, now time.Time) []string {
	var warnings []string

	switch Classify(p) {
	case HealthCritical:
		if p.Hunger < VeryPoorMin {
			warnings = append(warnings, "🆘 Выдра очень голодна! Нужно срочно покормить!")
		}
		if p.Thirst < VeryPoorMin {
			warnings = append(warnings, "🆘 Выдра очень хочет пить! Нужно срочно дать воды!")
		}
		if p.Happiness < VeryPoorMin {
			warnings = append(warnings, "🆘 Выдра очень несчастна! Нужна забота и внимание!")
		}
		if p.Energy < VeryPoorMin {
			warnings = append(warnings, "🆘 Выдра очень устала! Нужен сон и отдых!")
		}
		if p.CriticalStateSince.IsSet() {
			hours := now.Sub(p.CriticalStateSince.Time).Hours()
			if hours >= CriticalWarnAfter {
				warnings = append(warnings, fmt.Sprintf(
					"⚠️ Выдра в критическом состоянии уже %d часов! Если не помочь в ближайшие 12 часов, она может умереть!",
					int(hours)))
			}
		}

	case HealthVeryPoor:
		if p.Hunger < PoorMin {
			warnings = append(warnings, "😰 Выдра очень голодна! Покорми её, пожалуйста!")
		}
		if p.Thirst < PoorMin {
			warnings = append(warnings, "😰 Выдра очень хочет пить! Дай ей воды!")
		}
		if p.Happiness < PoorMin {
			warnings = append(warnings, "😰 Выдра очень несчастна! Проведи с ней время!")
		}

	case HealthPoor:
		if p.Hunger < OKMin {
			warnings = append(warnings, "😔 Выдра голодна. Не забудь покормить её.")
		}
		if p.Thirst < OKMin {
			warnings = append(warnings, "😔 Выдра хочет пить. Не забудь дать воды.")
		}
	}

	return warnings
}
