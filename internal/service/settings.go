package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glebk/otter-bot/internal/domain"
)

// Settings limits.
const (
	MaxPetNameLength = 32
	MinWaterNorm     = 0.5
	MaxWaterNorm     = 10.0
	MinGlassVolume   = 50
	MaxGlassVolume   = 1000
)

// SetName renames the otter
func (s *OtterService) SetName(userID int64, name string) (*domain.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	return s.updateSettings(userID, func(u *domain.UserState) {
		u.Pet.Name = name
		u.Settings.PetName = name
	})
}

// SetTimezone changes the user's IANA timezone
func (s *OtterService) SetTimezone(userID int64, tz string) (*domain.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tz = strings.TrimSpace(tz)
	if tz == "" {
		return nil, fmt.Errorf("empty timezone: %w", domain.ErrInvalidInput)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, domain.ErrInvalidInput)
	}

	return s.updateSettings(userID, func(u *domain.UserState) {
		u.Settings.Timezone = loc.String()
	})
}

// SetWaterNorm parses and stores the user's daily water norm in liters
func (s *OtterService) SetWaterNorm(userID int64, input string) (*domain.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	norm, err := ParseWaterNorm(input)
	if err != nil {
		return nil, err
	}

	return s.updateSettings(userID, func(u *domain.UserState) {
		u.Settings.WaterNormLiters = norm
		u.Settings.WaterNormSet = true
	})
}

// SetGlassVolume parses and stores the glass volume in milliliters
func (s *OtterService) SetGlassVolume(userID int64, input string) (*domain.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	volume, err := ParseGlassVolume(input)
	if err != nil {
		return nil, err
	}

	return s.updateSettings(userID, func(u *domain.UserState) {
		u.Settings.GlassVolumeML = volume
	})
}

func (s *OtterService) updateSettings(userID int64, fn func(u *domain.UserState)) (*domain.UserState, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	fn(user)
	if err := s.save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ParseWaterNorm reads a liters value such as "2,5", "3 л" or "2.5 литра"
func ParseWaterNorm(input string) (float64, error) {
	text := strings.ToLower(strings.TrimSpace(input))
	for _, unit := range []string{"литров", "литра", "литр", "л", "l"} {
		text = strings.TrimSuffix(text, unit)
	}
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")

	norm, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("water norm %q: %w", input, domain.ErrInvalidInput)
	}
	if math.IsNaN(norm) || math.IsInf(norm, 0) || norm < MinWaterNorm || norm > MaxWaterNorm {
		return 0, fmt.Errorf("water norm %v out of range: %w", norm, domain.ErrInvalidInput)
	}
	return norm, nil
}

// ParseGlassVolume reads a milliliters value such as "250" or "300 мл"
func ParseGlassVolume(input string) (int, error) {
	text := strings.ToLower(input)
	text = strings.NewReplacer("мл", "", "ml", "", " ", "").Replace(text)

	volume, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("glass volume %q: %w", input, domain.ErrInvalidInput)
	}
	if volume < MinGlassVolume || volume > MaxGlassVolume {
		return 0, fmt.Errorf("glass volume %d out of range: %w", volume, domain.ErrInvalidInput)
	}
	return volume, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxPetNameLength {
		return "", fmt.Errorf("pet name %q: %w", name, domain.ErrInvalidInput)
	}
	return name, nil
}
