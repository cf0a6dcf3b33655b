package service

import (
	"fmt"
	"log"
	"time"

	"github.com/glebk/otter-bot/internal/advice"
	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/pet"
)

// WeekDays is the length of the weekly statistics window.
const WeekDays = 7

// OwnerSleep is the outcome of the owner waking up
type OwnerSleep struct {
	User    *domain.UserState
	Minutes int
}

// WaterProgress is the owner's water intake for today
type WaterProgress struct {
	User   *domain.UserState
	Liters float64
	Norm   float64
}

// DayReport holds one day of the weekly statistics
type DayReport struct {
	Date    string
	Weekday time.Weekday
	Stats   domain.DailyStats
}

// WeeklyReport summarizes the last seven local days, oldest first
type WeeklyReport struct {
	User            *domain.UserState
	Days            []DayReport
	SleepMinutes    int
	PetSleep        int
	WaterLiters     float64
	PetGlasses      int
	AvgSleepHours   float64
	FollowedWeeks   int
	AnsweredWeeks   int
	AskForSleepNorm bool
}

// GoToBed records that the owner went to sleep. The otter goes to bed too
// when it is awake and free.
func (s *OtterService) GoToBed(userID int64) (*domain.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pet.Degrade(&user.Pet, now)
	user.TodayStats(s.today(user, now)).SleepTime = domain.At(now)

	if user.Pet.IsAlive && !user.Pet.VacationMode && !user.Pet.IsAsleep() && !user.Pet.AtWork {
		if err := pet.PutToSleep(&user.Pet, now); err != nil {
			log.Printf("Error putting otter %d to bed with its owner: %v", userID, err)
		}
	}

	if err := s.save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// WakeUpSelf records that the owner woke up and counts the night's sleep.
// The night is looked up on today's and yesterday's records, so going to bed
// before midnight is counted too. A sleeping otter wakes with its owner and
// its own nap is counted.
func (s *OtterService) WakeUpSelf(userID int64) (*OwnerSleep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pet.Degrade(&user.Pet, now)

	night := s.openNight(user, now)
	todayStats := user.TodayStats(s.today(user, now))
	todayStats.WakeTime = domain.At(now)

	minutes := 0
	if night != nil {
		minutes = max(0, int(now.Sub(night.SleepTime.Time).Minutes()))
		night.WakeTime = domain.At(now)
		todayStats.SleepMinutes += minutes
	}

	if user.Pet.IsAlive && user.Pet.IsAsleep() && !user.Pet.AtWork {
		slept, err := pet.WakeUp(&user.Pet, now)
		if err != nil {
			return nil, err
		}
		todayStats.PetSleepMinutes += slept
	}

	if err := s.save(user); err != nil {
		return nil, err
	}
	if minutes == 0 {
		return nil, domain.ErrNotSleeping
	}

	s.count(userID, domain.CounterSleepMinutes, minutes)
	return &OwnerSleep{User: user, Minutes: minutes}, nil
}

// openNight returns the most recent record whose bedtime has no wake-up yet
func (s *OtterService) openNight(user *domain.UserState, now time.Time) *domain.DailyStats {
	local := now.In(user.Location(s.fallback))
	for _, day := range []time.Time{local, local.AddDate(0, 0, -1)} {
		stats, ok := user.DailyStats[day.Format(domain.DateLayout)]
		if !ok || !stats.SleepTime.IsSet() {
			continue
		}
		if stats.WakeTime.IsSet() && !stats.WakeTime.Before(stats.SleepTime.Time) {
			continue
		}
		return stats
	}
	return nil
}

// DrinkGlass adds one glass to the owner's water intake for today
func (s *OtterService) DrinkGlass(userID int64) (*WaterProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := user.TodayStats(s.today(user, now))
	stats.WaterLiters += float64(user.Settings.GlassVolumeML) / 1000

	if err := s.save(user); err != nil {
		return nil, err
	}
	return &WaterProgress{User: user, Liters: stats.WaterLiters, Norm: user.Settings.WaterNormLiters}, nil
}

// WeeklyStats collects the owner's sleep and water for the last seven days
func (s *OtterService) WeeklyStats(userID int64) (*WeeklyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	report := buildWeeklyReport(user, s.now().In(user.Location(s.fallback)))
	return report, nil
}

func buildWeeklyReport(user *domain.UserState, local time.Time) *WeeklyReport {
	report := &WeeklyReport{User: user}
	sleepDays := 0

	for i := WeekDays - 1; i >= 0; i-- {
		day := local.AddDate(0, 0, -i)
		date := day.Format(domain.DateLayout)
		stats, ok := user.DailyStats[date]
		if !ok || (stats.SleepMinutes == 0 && stats.WaterLiters == 0) {
			continue
		}

		report.Days = append(report.Days, DayReport{Date: date, Weekday: day.Weekday(), Stats: *stats})
		report.SleepMinutes += stats.SleepMinutes
		report.PetSleep += stats.PetSleepMinutes
		report.WaterLiters += stats.WaterLiters
		report.PetGlasses += stats.PetWaterGlasses
		if stats.SleepMinutes > 0 {
			sleepDays++
		}
	}

	if sleepDays > 0 {
		report.AvgSleepHours = float64(report.SleepMinutes) / float64(sleepDays) / 60
	}
	for _, followed := range user.AdviceState.WeeklyAnswers {
		report.AnsweredWeeks++
		if followed {
			report.FollowedWeeks++
		}
	}
	report.AskForSleepNorm = user.Settings.SleepNormHours == 0 && report.AvgSleepHours > 0
	return report
}

// AnswerSleepNorm handles the owner's answer to "do you get enough sleep?".
// A yes stores the weekly average as the sleep norm. Returns the average.
func (s *OtterService) AnswerSleepNorm(userID int64, enough bool) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return 0, err
	}

	avg := buildWeeklyReport(user, s.now().In(user.Location(s.fallback))).AvgSleepHours
	if !enough {
		return avg, nil
	}
	if avg <= 0 {
		return 0, fmt.Errorf("no sleep recorded this week: %w", domain.ErrNotSleeping)
	}

	user.Settings.SleepNormHours = avg
	if err := s.save(user); err != nil {
		return 0, err
	}
	return avg, nil
}

// DailyAdvice returns today's advice. A second request on the same local day
// returns domain.ErrAdviceAlreadyShown.
func (s *OtterService) DailyAdvice(userID int64) (advice.Advice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return advice.Advice{}, err
	}

	today := s.today(user, s.now())
	a, err := s.advice.ForToday(&user.AdviceState, today, s.rng)
	if err != nil {
		return advice.Advice{}, err
	}

	if err := s.save(user); err != nil {
		return advice.Advice{}, err
	}
	return a, nil
}

// AnswerWeeklyAdvice records whether the owner followed this week's advice
func (s *OtterService) AnswerWeeklyAdvice(userID int64, followed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return err
	}

	advice.RecordWeeklyAnswer(&user.AdviceState, s.today(user, s.now()), followed)
	return s.save(user)
}
