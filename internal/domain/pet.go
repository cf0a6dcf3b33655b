package domain

// Vital bounds shared by every pet stat.
const (
	MinVital = 0
	MaxVital = 100

	DefaultVital      = 50
	DefaultPetName    = "Выдра"
	DefaultFreeRevive = 1
)

// Avatar keys describe what the otter is doing right now.
const (
	AvatarAwake = "awake"
	AvatarSleep = "sleep"
	AvatarHobby = "hobby"
	AvatarWork  = "work"
)

// BaseHobbyID is the free hobby every otter owns.
const BaseHobbyID = "walk"

// PetState represents the otter and its vitals
type PetState struct {
	Name      string `json:"name"`
	AvatarKey string `json:"avatar_key"`

	Happiness int `json:"happiness"`
	Energy    int `json:"energy"`
	Hunger    int `json:"hunger"`
	Thirst    int `json:"thirst"`
	Fatigue   int `json:"fatigue"`

	AgeDays         int  `json:"age_days"`
	IsAlive         bool `json:"is_alive"`
	VacationMode    bool `json:"vacation_mode"`
	FreeRevivesLeft int  `json:"free_revives_left"`
	Money           int  `json:"money"`
	AtWork          bool `json:"at_work"`

	UnlockedHobbies      []string                 `json:"unlocked_hobbies"`
	HobbyMastery         map[string]*HobbyMastery `json:"hobby_mastery"`
	UnlockedAchievements []string                 `json:"unlocked_achievements"`

	LastSleepStart     Timestamp `json:"last_sleep_start"`
	LastWakeTime       Timestamp `json:"last_wake_time"`
	LastWorkStart      Timestamp `json:"last_work_start"`
	LastInteraction    Timestamp `json:"last_interaction"`
	CriticalStateSince Timestamp `json:"critical_state_since"`
}

// HobbyMastery tracks progress in a single hobby
type HobbyMastery struct {
	HobbyID         string `json:"hobby_id"`
	Level           int    `json:"level"`
	TotalSessions   int    `json:"total_sessions"`
	Streak          int    `json:"streak"`
	LastSessionDate string `json:"last_session_date,omitempty"`
}

// NewPetState returns a living otter with default vitals
func NewPetState(name string) PetState {
	if name == "" {
		name = DefaultPetName
	}
	return PetState{
		Name:                 name,
		AvatarKey:            AvatarAwake,
		Happiness:            DefaultVital,
		Energy:               DefaultVital,
		Hunger:               DefaultVital,
		Thirst:               DefaultVital,
		IsAlive:              true,
		FreeRevivesLeft:      DefaultFreeRevive,
		UnlockedHobbies:      []string{},
		HobbyMastery:         make(map[string]*HobbyMastery),
		UnlockedAchievements: []string{},
	}
}

// IsAsleep reports whether the otter is sleeping
func (p *PetState) IsAsleep() bool {
	return p.AvatarKey == AvatarSleep || p.LastSleepStart.IsSet()
}

// HasHobby reports whether the hobby is unlocked. The base hobby is always owned.
func (p *PetState) HasHobby(id string) bool {
	if id == BaseHobbyID {
		return true
	}
	for _, h := range p.UnlockedHobbies {
		if h == id {
			return true
		}
	}
	return false
}

// UnlockHobby adds the hobby once
func (p *PetState) UnlockHobby(id string) {
	if !p.HasHobby(id) {
		p.UnlockedHobbies = append(p.UnlockedHobbies, id)
	}
}

// HasAchievement reports whether the achievement was already granted
func (p *PetState) HasAchievement(id string) bool {
	for _, a := range p.UnlockedAchievements {
		if a == id {
			return true
		}
	}
	return false
}

// Vitals returns happiness, hunger, thirst and energy in that order
func (p *PetState) Vitals() [4]int {
	return [4]int{p.Happiness, p.Hunger, p.Thirst, p.Energy}
}

// SetVitals sets all four vitals to v
func (p *PetState) SetVitals(v int) {
	p.Happiness = v
	p.Hunger = v
	p.Thirst = v
	p.Energy = v
}

// Normalize clamps counters and repairs nil collections after decoding
func (p *PetState) Normalize() {
	if p.Name == "" {
		p.Name = DefaultPetName
	}
	if p.AvatarKey == "" {
		p.AvatarKey = AvatarAwake
	}

	p.Happiness = ClampVital(p.Happiness)
	p.Energy = ClampVital(p.Energy)
	p.Hunger = ClampVital(p.Hunger)
	p.Thirst = ClampVital(p.Thirst)
	p.Fatigue = ClampVital(p.Fatigue)

	p.AgeDays = max(p.AgeDays, 0)
	p.FreeRevivesLeft = max(p.FreeRevivesLeft, 0)
	p.Money = max(p.Money, 0)

	if p.UnlockedHobbies == nil {
		p.UnlockedHobbies = []string{}
	}
	if p.UnlockedAchievements == nil {
		p.UnlockedAchievements = []string{}
	}
	if p.HobbyMastery == nil {
		p.HobbyMastery = make(map[string]*HobbyMastery)
	}
	for id, m := range p.HobbyMastery {
		if m == nil {
			delete(p.HobbyMastery, id)
			continue
		}
		if m.HobbyID == "" {
			m.HobbyID = id
		}
		m.Streak = max(m.Streak, 0)
		m.TotalSessions = max(m.TotalSessions, 0)
		m.Level = min(max(m.Level, 1), 5)
	}
}

// ClampVital bounds v to [MinVital, MaxVital]
func ClampVital(v int) int {
	return min(max(v, MinVital), MaxVital)
}
