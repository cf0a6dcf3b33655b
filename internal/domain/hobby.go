package domain

// HobbyType groups hobbies for event tables and recommendations
type HobbyType string

const (
	HobbySport         HobbyType = "sport"
	HobbyCreative      HobbyType = "creative"
	HobbyEntertainment HobbyType = "entertainment"
)

// Hobby is a purchasable activity from the shop catalog
type Hobby struct {
	ID                  string    `json:"id" yaml:"id"`
	Title               string    `json:"title" yaml:"title"`
	Price               int       `json:"price" yaml:"price"`
	AvatarKey           string    `json:"avatar_key" yaml:"avatar_key"`
	Type                HobbyType `json:"hobby_type" yaml:"hobby_type"`
	BaseHappiness       int       `json:"base_happiness" yaml:"base_happiness"`
	BaseFatigueRecovery int       `json:"base_fatigue_recovery" yaml:"base_fatigue_recovery"`
	DurationMinutes     int       `json:"duration_minutes" yaml:"duration_minutes"`
	Description         string    `json:"description,omitempty" yaml:"description"`
}

// Defaults for catalog entries that omit tuning fields.
const (
	DefaultBaseHappiness       = 10
	DefaultBaseFatigueRecovery = 100
	DefaultHobbyDuration       = 60
)

// ApplyDefaults fills zero tuning fields
func (h *Hobby) ApplyDefaults() {
	if h.Type == "" {
		h.Type = HobbySport
	}
	if h.AvatarKey == "" {
		h.AvatarKey = AvatarHobby
	}
	if h.BaseHappiness == 0 {
		h.BaseHappiness = DefaultBaseHappiness
	}
	if h.BaseFatigueRecovery == 0 {
		h.BaseFatigueRecovery = DefaultBaseFatigueRecovery
	}
	if h.DurationMinutes == 0 {
		h.DurationMinutes = DefaultHobbyDuration
	}
}

// HobbyRepository defines the interface for the hobby catalog
type HobbyRepository interface {
	// GetByID returns nil without error when the hobby does not exist.
	GetByID(id string) (*Hobby, error)
	GetAll() ([]*Hobby, error)
	Save(hobby *Hobby) error
}
