package service

import (
	"fmt"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/events"
	"github.com/glebk/otter-bot/internal/hobby"
)

// HobbyShop splits the catalog into owned and purchasable hobbies
type HobbyShop struct {
	User   *domain.UserState
	Owned  []*domain.Hobby
	Locked []*domain.Hobby
}

// MasteryView pairs a hobby with the otter's progress in it
type MasteryView struct {
	Hobby   *domain.Hobby
	Mastery domain.HobbyMastery
}

// Hobbies returns the catalog as seen by the user's otter
func (s *OtterService) Hobbies(userID int64) (*HobbyShop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.hobbyRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get hobbies: %w", err)
	}

	shop := &HobbyShop{User: user}
	for _, h := range catalog {
		if user.Pet.HasHobby(h.ID) {
			shop.Owned = append(shop.Owned, h)
		} else {
			shop.Locked = append(shop.Locked, h)
		}
	}
	return shop, nil
}

func (s *OtterService) getHobby(hobbyID string) (*domain.Hobby, error) {
	h, err := s.hobbyRepo.GetByID(hobbyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hobby: %w", err)
	}
	if h == nil {
		return nil, domain.ErrHobbyNotFound
	}
	return h, nil
}

// BuyHobby unlocks a hobby for the otter's coins
func (s *OtterService) BuyHobby(userID int64, hobbyID string) (*CareResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.getHobby(hobbyID)
	if err != nil {
		return nil, err
	}

	user, returned, err := s.withActivePet(userID, func(u *domain.UserState, now time.Time) error {
		return hobby.Buy(&u.Pet, h)
	})
	if err != nil {
		return nil, err
	}
	return &CareResult{User: user, ReturnedFromVacation: returned}, nil
}

// PlayHobby runs one hobby session with a random event
func (s *OtterService) PlayHobby(userID int64, hobbyID string) (*hobby.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.getHobby(hobbyID)
	if err != nil {
		return nil, err
	}

	var outcome hobby.Outcome
	_, _, err = s.withActivePet(userID, func(u *domain.UserState, now time.Time) error {
		event := s.events.Draw(s.rng, events.Hobby, string(h.Type))
		var err error
		outcome, err = hobby.Play(&u.Pet, h, event, s.today(u, now), now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.count(userID, domain.CounterHobbySessions, 1)
	return &outcome, nil
}

// HobbyStats lists the otter's mastery in every hobby it has played
func (s *OtterService) HobbyStats(userID int64) ([]MasteryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.hobbyRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get hobbies: %w", err)
	}

	var views []MasteryView
	for _, h := range catalog {
		m, ok := user.Pet.HobbyMastery[h.ID]
		if !ok || m == nil {
			continue
		}
		views = append(views, MasteryView{Hobby: h, Mastery: *m})
	}
	return views, nil
}

// Recommendations suggests hobby types for the otter's current state
func (s *OtterService) Recommendations(userID int64) ([]hobby.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []hobby.Recommendation
	_, _, err := s.withActivePet(userID, func(u *domain.UserState, now time.Time) error {
		recs = hobby.Recommend(&u.Pet)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}
