package domain

import (
	"time"
)

// DateLayout is the format of every local calendar date key.
const DateLayout = "2006-01-02"

// Defaults applied to new and repaired users.
const (
	DefaultTimezone      = "Asia/Vladivostok"
	DefaultWaterNorm     = 2.5
	DefaultGlassVolumeML = 300
)

// UserSettings holds per-user preferences
type UserSettings struct {
	Timezone        string  `json:"timezone"`
	PetName         string  `json:"pet_name,omitempty"`
	WaterNormLiters float64 `json:"water_norm_liters"`
	GlassVolumeML   int     `json:"glass_volume_ml"`
	WaterNormSet    bool    `json:"water_norm_set"`
	SleepNormHours  float64 `json:"sleep_norm_hours"`
}

// DailyStats is the user's own sleep and water record for one local day
type DailyStats struct {
	Date            string    `json:"date"`
	SleepMinutes    int       `json:"sleep_minutes"`
	WaterLiters     float64   `json:"water_liters"`
	WakeTime        Timestamp `json:"wake_time"`
	SleepTime       Timestamp `json:"sleep_time"`
	PetSleepMinutes int       `json:"pet_sleep_minutes"`
	PetWaterGlasses int       `json:"pet_water_glasses"`
}

// AdviceState tracks which daily advice the user has seen
type AdviceState struct {
	LastAdviceDate       string              `json:"last_advice_date,omitempty"`
	ShownAdviceIDs       []string            `json:"shown_advice_ids"`
	WeekStartDate        string              `json:"week_start_date,omitempty"`
	MonthlyAdviceSummary map[string][]string `json:"monthly_advice_summary"`
	FirstAdviceDate      string              `json:"first_advice_date,omitempty"`
	WeeklyAnswers        map[string]bool     `json:"weekly_answers"`
}

// UserState is everything persisted for one Telegram user
type UserState struct {
	UserID          int64                  `json:"user_id"`
	Pet             PetState               `json:"pet"`
	Settings        UserSettings           `json:"settings"`
	LastReminders   map[string]string      `json:"last_reminders"`
	WorkHoursByDate map[string]float64     `json:"work_hours_by_date"`
	DailyStats      map[string]*DailyStats `json:"daily_stats"`
	AdviceState     AdviceState            `json:"advice_state"`

	// Friendships is keyed by the other user's id.
	Friendships map[int64]*Friendship `json:"friendships"`
}

// NewUserState returns a user with a fresh otter and default settings
func NewUserState(userID int64, petName, timezone string) *UserState {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	user := &UserState{
		UserID: userID,
		Pet:    NewPetState(petName),
		Settings: UserSettings{
			Timezone:        timezone,
			PetName:         petName,
			WaterNormLiters: DefaultWaterNorm,
			GlassVolumeML:   DefaultGlassVolumeML,
		},
	}
	user.Normalize()
	return user
}

// Normalize repairs a decoded record so every invariant holds
func (u *UserState) Normalize() {
	u.Pet.Normalize()

	if u.Settings.Timezone == "" {
		u.Settings.Timezone = DefaultTimezone
	}
	if u.Settings.WaterNormLiters <= 0 {
		u.Settings.WaterNormLiters = DefaultWaterNorm
	}
	if u.Settings.GlassVolumeML <= 0 {
		u.Settings.GlassVolumeML = DefaultGlassVolumeML
	}

	if u.LastReminders == nil {
		u.LastReminders = make(map[string]string)
	}
	if u.WorkHoursByDate == nil {
		u.WorkHoursByDate = make(map[string]float64)
	}
	if u.DailyStats == nil {
		u.DailyStats = make(map[string]*DailyStats)
	}
	for date, s := range u.DailyStats {
		if s == nil {
			delete(u.DailyStats, date)
			continue
		}
		if s.Date == "" {
			s.Date = date
		}
	}
	if u.AdviceState.ShownAdviceIDs == nil {
		u.AdviceState.ShownAdviceIDs = []string{}
	}
	if u.AdviceState.MonthlyAdviceSummary == nil {
		u.AdviceState.MonthlyAdviceSummary = make(map[string][]string)
	}
	if u.AdviceState.WeeklyAnswers == nil {
		u.AdviceState.WeeklyAnswers = make(map[string]bool)
	}
	if u.Friendships == nil {
		u.Friendships = make(map[int64]*Friendship)
	}
}

// Location returns the user's timezone, or fallback when it cannot be loaded
func (u *UserState) Location(fallback *time.Location) *time.Location {
	if loc, err := time.LoadLocation(u.Settings.Timezone); err == nil && u.Settings.Timezone != "" {
		return loc
	}
	if fallback != nil {
		return fallback
	}
	return time.UTC
}

// LocalDate formats now as a calendar date in the user's timezone
func (u *UserState) LocalDate(now time.Time, fallback *time.Location) string {
	return now.In(u.Location(fallback)).Format(DateLayout)
}

// TodayStats returns the stats record for the given date, creating it if needed
func (u *UserState) TodayStats(date string) *DailyStats {
	if u.DailyStats == nil {
		u.DailyStats = make(map[string]*DailyStats)
	}
	stats, ok := u.DailyStats[date]
	if !ok || stats == nil {
		stats = &DailyStats{Date: date}
		u.DailyStats[date] = stats
	}
	return stats
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	// GetByID returns nil without error when the user does not exist.
	GetByID(id int64) (*UserState, error)
	GetAll() ([]*UserState, error)
	Save(user *UserState) error
}
