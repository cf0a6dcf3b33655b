package pet

import (
	"time"

	"github.com/glebk/otter-bot/internal/domain"
)

// ReviveKind says which revival path applies
type ReviveKind string

const (
	ReviveVacation ReviveKind = "vacation"
	ReviveFree     ReviveKind = "free"
	ReviveChannel  ReviveKind = "channel"
)

// ReviveMode picks the revival path for the otter's current state
func ReviveMode(p *domain.PetState) (ReviveKind, error) {
	switch {
	case p.VacationMode:
		return ReviveVacation, nil
	case p.IsAlive:
		return "", domain.ErrPetAlive
	case p.FreeRevivesLeft > 0:
		return ReviveFree, nil
	default:
		return ReviveChannel, nil
	}
}

// Revive brings the otter back using the given path. Channel membership
// must be verified by the caller before ReviveChannel is applied.
func Revive(p *domain.PetState, kind ReviveKind, now time.Time) {
	vital := ChannelReviveVital
	switch kind {
	case ReviveVacation:
		p.VacationMode = false
		vital = VacationReturnVital
	case ReviveFree:
		p.FreeRevivesLeft = max(0, p.FreeRevivesLeft-1)
		vital = FreeReviveVital
	}

	p.IsAlive = true
	p.SetVitals(vital)
	p.CriticalStateSince = domain.Timestamp{}
	Touch(p, now)
}
