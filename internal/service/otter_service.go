package service

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/glebk/otter-bot/internal/advice"
	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/events"
	"github.com/glebk/otter-bot/internal/pet"
)

// MembershipChecker verifies that a user belongs to the revival channel
type MembershipChecker interface {
	IsMember(ctx context.Context, userID int64) (bool, error)
}

// Repositories groups the storage the service works with
type Repositories struct {
	Users       domain.UserRepository
	Friendships domain.FriendshipRepository
	Hobbies     domain.HobbyRepository
	Coop        domain.CoopSessionRepository
	Stats       domain.StatsRepository
}

// OtterService handles business logic for otters and their owners.
// Every exported operation holds the service lock, so one user is never
// mutated by two callers at once.
type OtterService struct {
	mu sync.Mutex

	userRepo       domain.UserRepository
	friendshipRepo domain.FriendshipRepository
	hobbyRepo      domain.HobbyRepository
	coopRepo       domain.CoopSessionRepository
	statsRepo      domain.StatsRepository

	membership MembershipChecker
	events     *events.Catalog
	advice     *advice.Catalog
	fallback   *time.Location
	rng        *rand.Rand
	now        func() time.Time
}

// NewOtterService creates a new OtterService. fallback is used for users
// whose timezone cannot be loaded.
func NewOtterService(repos Repositories, membership MembershipChecker, fallback *time.Location) *OtterService {
	if fallback == nil {
		fallback = time.UTC
	}
	seed := uint64(time.Now().UnixNano())
	return &OtterService{
		userRepo:       repos.Users,
		friendshipRepo: repos.Friendships,
		hobbyRepo:      repos.Hobbies,
		coopRepo:       repos.Coop,
		statsRepo:      repos.Stats,
		membership:     membership,
		events:         events.Default(),
		advice:         advice.Default(),
		fallback:       fallback,
		rng:            rand.New(rand.NewPCG(seed, seed>>1)),
		now:            time.Now,
	}
}

// Lock acquires the process-wide lock shared with the reminder scheduler
func (s *OtterService) Lock() {
	s.mu.Lock()
}

// Unlock releases the process-wide lock
func (s *OtterService) Unlock() {
	s.mu.Unlock()
}

// CreatePet registers a user together with a newborn otter
func (s *OtterService) CreatePet(userID int64, name string) (*domain.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if existing != nil {
		return existing, domain.ErrUserExists
	}

	name, err = cleanName(name)
	if err != nil {
		name = domain.DefaultPetName
	}

	user := domain.NewUserState(userID, name, s.fallback.String())
	pet.Touch(&user.Pet, s.now())

	if err := s.userRepo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUser returns the stored user without applying decay
func (s *OtterService) GetUser(userID int64) (*domain.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadUser(userID)
}

func (s *OtterService) loadUser(userID int64) (*domain.UserState, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *OtterService) save(user *domain.UserState) error {
	if err := s.userRepo.Save(user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// withActivePet loads the user, applies decay and runs fn on a living otter.
// An otter coming back from vacation is woken up first. The user is saved
// even when fn fails so the decay is not applied twice.
func (s *OtterService) withActivePet(userID int64, fn func(u *domain.UserState, now time.Time) error) (*domain.UserState, bool, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	pet.Degrade(&user.Pet, now)

	if !user.Pet.IsAlive {
		if err := s.save(user); err != nil {
			return nil, false, err
		}
		return user, false, domain.ErrPetDead
	}

	returned := pet.ReturnFromVacation(&user.Pet, now)
	fnErr := fn(user, now)

	if err := s.save(user); err != nil {
		return nil, false, err
	}
	return user, returned, fnErr
}

// today returns the user's local calendar date
func (s *OtterService) today(user *domain.UserState, now time.Time) string {
	return user.LocalDate(now, s.fallback)
}

// count bumps an activity counter. Counters are informational, so failures are only logged.
func (s *OtterService) count(userID int64, counter domain.Counter, delta int) {
	if err := s.statsRepo.Add(userID, counter, delta); err != nil {
		log.Printf("Error updating %s for user %d: %v", counter, userID, err)
	}
}

// ActivityStats returns the user's lifetime counters
func (s *OtterService) ActivityStats(userID int64) (*domain.ActivityStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loadUser(userID); err != nil {
		return nil, err
	}
	stats, err := s.statsRepo.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}
