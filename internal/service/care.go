package service

import (
	"context"
	"fmt"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/pet"
	"github.com/glebk/otter-bot/internal/reminder"
)

// CareResult is the otter after a care action
type CareResult struct {
	User *domain.UserState
	// ReturnedFromVacation is set when this action ended the otter's vacation.
	ReturnedFromVacation bool
}

// StatusReport describes the otter's current condition
type StatusReport struct {
	User     *domain.UserState
	Health   pet.HealthState
	Message  string
	Warnings []string
	Decay    pet.DecayResult
}

// WakeResult is the outcome of waking the otter
type WakeResult struct {
	CareResult
	SleptMinutes int
}

// WorkStart is the outcome of sending the otter to work
type WorkStart struct {
	CareResult
	RemainingHours float64
}

// WorkEnd is the outcome of picking the otter up from work
type WorkEnd struct {
	CareResult
	pet.WorkShift
	RemainingHours float64
}

// ReviveResult reports which revival path was used
type ReviveResult struct {
	User *domain.UserState
	Kind pet.ReviveKind
}

// Status applies decay and reports the otter's health
func (s *OtterService) Status(userID int64) (*StatusReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	decay := pet.Degrade(&user.Pet, now)
	if err := s.save(user); err != nil {
		return nil, err
	}

	health := pet.Classify(&user.Pet)
	return &StatusReport{
		User:     user,
		Health:   health,
		Message:  pet.StatusMessage(health),
		Warnings: pet.CriticalWarnings(&user.Pet, now),
		Decay:    decay,
	}, nil
}

// Feed gives the otter a meal
func (s *OtterService) Feed(userID int64) (*CareResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, returned, err := s.withActivePet(userID, func(u *domain.UserState, now time.Time) error {
		return pet.Feed(&u.Pet, now)
	})
	if err != nil {
		return nil, err
	}

	s.count(userID, domain.CounterFeedEvents, 1)
	return &CareResult{User: user, ReturnedFromVacation: returned}, nil
}

// GiveWater lets the otter drink a glass of water
func (s *OtterService) GiveWater(userID int64) (*CareResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, returned, err := s.withActivePet(userID, func(u *domain.UserState, now time.Time) error {
		if err := pet.GiveWater(&u.Pet, now); err != nil {
			return err
		}
		u.TodayStats(s.today(u, now)).PetWaterGlasses++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.count(userID, domain.CounterWaterEvents, 1)
	return &CareResult{User: user, ReturnedFromVacation: returned}, nil
}

// PutToSleep puts the otter to bed
func (s *OtterService) PutToSleep(userID int64) (*CareResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, returned, err := s.withActivePet(userID, func(u *domain.UserState, now time.Time) error {
		return pet.PutToSleep(&u.Pet, now)
	})
	if err != nil {
		return nil, err
	}
	return &CareResult{User: user, ReturnedFromVacation: returned}, nil
}

// WakeUp wakes the otter and records how long it slept
func (s *OtterService) WakeUp(userID int64) (*WakeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var minutes int
	user, returned, err := s.withActivePet(userID, func(u *domain.UserState, now time.Time) error {
		slept, err := pet.WakeUp(&u.Pet, now)
		if err != nil {
			return err
		}
		minutes = slept
		u.TodayStats(s.today(u, now)).PetSleepMinutes += slept
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.count(userID, domain.CounterSleepMinutes, minutes)
	return &WakeResult{
		CareResult:   CareResult{User: user, ReturnedFromVacation: returned},
		SleptMinutes: minutes,
	}, nil
}

// StartWork sends the otter to work within today's hour limit
func (s *OtterService) StartWork(userID int64) (*WorkStart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var remaining float64
	user, returned, err := s.withActivePet(userID, func(u *domain.UserState, now time.Time) error {
		worked := u.WorkHoursByDate[s.today(u, now)]
		if err := pet.StartWork(&u.Pet, worked, now); err != nil {
			return err
		}
		remaining = pet.RemainingWorkHours(worked)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.count(userID, domain.CounterWorkSessions, 1)
	return &WorkStart{
		CareResult:     CareResult{User: user, ReturnedFromVacation: returned},
		RemainingHours: remaining,
	}, nil
}

// EndWork picks the otter up from work and pays for the shift
func (s *OtterService) EndWork(userID int64) (*WorkEnd, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var shift pet.WorkShift
	user, returned, err := s.withActivePet(userID, func(u *domain.UserState, now time.Time) error {
		today := s.today(u, now)
		var err error
		shift, err = pet.EndWork(&u.Pet, u.WorkHoursByDate[today], now)
		if err != nil {
			return err
		}
		u.WorkHoursByDate[today] = shift.WorkedToday
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &WorkEnd{
		CareResult:     CareResult{User: user, ReturnedFromVacation: returned},
		WorkShift:      shift,
		RemainingHours: pet.RemainingWorkHours(shift.WorkedToday),
	}, nil
}

// Revive brings the otter back from death or vacation. Once the free revives
// are spent, the owner must be a member of the revival channel.
func (s *OtterService) Revive(ctx context.Context, userID int64) (*ReviveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	kind, err := pet.ReviveMode(&user.Pet)
	if err != nil {
		return nil, err
	}

	if kind == pet.ReviveChannel {
		if err := s.checkMembership(ctx, userID); err != nil {
			return nil, err
		}
	}

	pet.Revive(&user.Pet, kind, s.now())
	delete(user.LastReminders, reminder.KeyDeath)

	if err := s.save(user); err != nil {
		return nil, err
	}
	return &ReviveResult{User: user, Kind: kind}, nil
}

func (s *OtterService) checkMembership(ctx context.Context, userID int64) error {
	if s.membership == nil {
		return domain.ErrMembershipUnverified
	}

	member, err := s.membership.IsMember(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMembershipUnverified, err)
	}
	if !member {
		return domain.ErrNotChannelMember
	}
	return nil
}
