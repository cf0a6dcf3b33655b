package service

import (
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/events"
	"github.com/glebk/otter-bot/internal/pet"
	"github.com/glebk/otter-bot/internal/social"
)

// FriendView is a friendship seen from one side
type FriendView struct {
	UserID     int64
	PetName    string
	Friendship *domain.Friendship
}

// AddFriendResult is the outcome of a new friendship
type AddFriendResult struct {
	Friend     FriendView
	Achieved   []social.Achievement
	FriendGain []social.Achievement
}

// ParticipantError explains why one otter cannot join a coop activity
type ParticipantError struct {
	UserID  int64
	PetName string
	Err     error
}

func (e *ParticipantError) Error() string {
	return fmt.Sprintf("otter %s (%d): %v", e.PetName, e.UserID, e.Err)
}

func (e *ParticipantError) Unwrap() error {
	return e.Err
}

// CoopResult is the outcome of a coop activity
type CoopResult struct {
	Session      *domain.CoopSession
	Profile      social.Profile
	Event        events.Event
	Gains        social.Gains
	Level        int
	Participants []*domain.UserState
	// LeveledUp lists friends whose friendship with the initiator reached a new level.
	LeveledUp    []FriendView
	Achievements map[int64][]social.Achievement
}

// AddFriend creates the friendship between userID and friendID
func (s *OtterService) AddFriend(userID, friendID int64) (*AddFriendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == friendID {
		return nil, domain.ErrSelfFriendship
	}

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	friend, err := s.loadUser(friendID)
	if err != nil {
		return nil, fmt.Errorf("friend %d: %w", friendID, err)
	}

	existing, err := s.friendshipRepo.Get(userID, friendID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if existing != nil {
		return &AddFriendResult{Friend: FriendView{UserID: friendID, PetName: friend.Pet.Name, Friendship: existing}}, domain.ErrAlreadyFriends
	}

	f, err := social.NewFriendship(userID, friendID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.friendshipRepo.Save(f); err != nil {
		return nil, fmt.Errorf("failed to save friendship: %w", err)
	}

	achieved, err := s.grantAchievements(user, false)
	if err != nil {
		return nil, err
	}
	friendGain, err := s.grantAchievements(friend, false)
	if err != nil {
		return nil, err
	}

	return &AddFriendResult{
		Friend:     FriendView{UserID: friendID, PetName: friend.Pet.Name, Friendship: f},
		Achieved:   achieved,
		FriendGain: friendGain,
	}, nil
}

// Friends lists the user's friends, closest first
func (s *OtterService) Friends(userID int64) ([]FriendView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]FriendView, 0, len(user.Friendships))
	for otherID, f := range user.Friendships {
		view := FriendView{UserID: otherID, Friendship: f}
		friend, err := s.userRepo.GetByID(otherID)
		if err != nil {
			return nil, fmt.Errorf("failed to get friend: %w", err)
		}
		if friend == nil {
			continue
		}
		view.PetName = friend.Pet.Name
		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool {
		a, b := views[i].Friendship, views[j].Friendship
		if a.TotalSessionsTogether != b.TotalSessionsTogether {
			return a.TotalSessionsTogether > b.TotalSessionsTogether
		}
		return views[i].UserID < views[j].UserID
	})
	return views, nil
}

// FriendInfo returns the friendship between userID and friendID
func (s *OtterService) FriendInfo(userID, friendID int64) (*FriendView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.friendshipRepo.Get(userID, friendID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	if f == nil {
		return nil, domain.ErrNotFriends
	}

	friend, err := s.loadUser(friendID)
	if err != nil {
		return nil, fmt.Errorf("friend %d: %w", friendID, err)
	}
	return &FriendView{UserID: friendID, PetName: friend.Pet.Name, Friendship: f}, nil
}

// Coop runs a cooperative activity for the initiator and up to five friends.
// With no friends the otter does the activity alone at level 1.
func (s *OtterService) Coop(userID int64, activity domain.ActivityType, friendIDs []int64) (*CoopResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(social.Activities(), activity) {
		return nil, fmt.Errorf("unknown activity %q: %w", activity, domain.ErrInvalidInput)
	}
	friendIDs = uniqueFriends(userID, friendIDs)
	if len(friendIDs)+1 > social.MaxParticipants {
		return nil, domain.ErrTooManyParticipants
	}

	initiator, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pet.Degrade(&initiator.Pet, now)
	if !initiator.Pet.IsAlive {
		if err := s.save(initiator); err != nil {
			return nil, err
		}
		return nil, domain.ErrPetDead
	}
	pet.ReturnFromVacation(&initiator.Pet, now)
	if err := social.CanJoin(&initiator.Pet); err != nil {
		return nil, err
	}

	participants := []*domain.UserState{initiator}
	bonds := make([]*domain.Friendship, 0, len(friendIDs))
	level := social.MaxFriendshipLevel

	for _, id := range friendIDs {
		f := initiator.Friendships[id]
		if f == nil {
			return nil, &ParticipantError{UserID: id, Err: domain.ErrNotFriends}
		}

		friend, err := s.loadUser(id)
		if err != nil {
			return nil, fmt.Errorf("friend %d: %w", id, err)
		}
		pet.Degrade(&friend.Pet, now)
		if !friend.Pet.IsAlive {
			if err := s.save(friend); err != nil {
				return nil, fmt.Errorf("friend %d: %w", id, err)
			}
		}
		if err := social.CanJoin(&friend.Pet); err != nil {
			return nil, &ParticipantError{UserID: id, PetName: friend.Pet.Name, Err: err}
		}

		participants = append(participants, friend)
		bonds = append(bonds, f)
		level = min(level, f.FriendshipLevel)
	}
	if len(bonds) == 0 {
		level = 1
	}

	event := s.events.Draw(s.rng, events.Coop, string(activity))
	gains := social.Coop(activity, len(participants), level, event)
	profile := social.ProfileFor(activity)

	session := &domain.CoopSession{
		ID:              uuid.NewString(),
		ActivityType:    activity,
		StartTime:       now.UTC(),
		DurationMinutes: profile.Minutes,
		ResultHappiness: make(map[int64]int, len(participants)),
		ResultMoney:     make(map[int64]int, len(participants)),
		EventTriggered:  event.Text,
	}
	for _, u := range participants {
		social.Apply(&u.Pet, gains)
		pet.Touch(&u.Pet, now)
		session.UserIDs = append(session.UserIDs, u.UserID)
		session.ResultHappiness[u.UserID] = gains.Happiness
		session.ResultMoney[u.UserID] = gains.Money
	}

	result := &CoopResult{
		Session:      session,
		Profile:      profile,
		Event:        event,
		Gains:        gains,
		Level:        level,
		Participants: participants,
		Achievements: make(map[int64][]social.Achievement),
	}

	for i, f := range bonds {
		if social.RecordSession(f, now) {
			result.LeveledUp = append(result.LeveledUp, FriendView{
				UserID:     participants[i+1].UserID,
				PetName:    participants[i+1].Pet.Name,
				Friendship: f,
			})
		}
		if err := s.friendshipRepo.Save(f); err != nil {
			return nil, fmt.Errorf("failed to save friendship: %w", err)
		}
	}

	if err := s.coopRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to record coop session: %w", err)
	}

	groupHobby := activity == domain.ActivityHobby && len(participants) > 1
	for _, u := range participants {
		granted, err := s.grantAchievements(u, groupHobby)
		if err != nil {
			return nil, err
		}
		if len(granted) > 0 {
			result.Achievements[u.UserID] = granted
		}
		if counter, ok := coopCounters[activity]; ok {
			s.count(u.UserID, counter, 1)
		}
	}
	return result, nil
}

// coopCounters maps coop activities to the lifetime counter they bump
var coopCounters = map[domain.ActivityType]domain.Counter{
	domain.ActivityWork:     domain.CounterWorkSessions,
	domain.ActivityHobby:    domain.CounterHobbySessions,
	domain.ActivityTraining: domain.CounterHobbySessions,
	domain.ActivityMeal:     domain.CounterFeedEvents,
}

// grantAchievements reloads the social history of u, awards what it earned
// and saves u
func (s *OtterService) grantAchievements(u *domain.UserState, hobbyCoop bool) ([]social.Achievement, error) {
	friendships, err := s.friendshipRepo.ListFor(u.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	sessions, err := s.coopRepo.CountForUser(u.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count coop sessions: %w", err)
	}

	u.Friendships = make(map[int64]*domain.Friendship, len(friendships))
	for _, f := range friendships {
		u.Friendships[f.Other(u.UserID)] = f
	}

	granted := social.Grant(&u.Pet, social.Progress{
		Friendships:  friendships,
		CoopSessions: sessions,
		HobbyCoop:    hobbyCoop,
	})
	if err := s.save(u); err != nil {
		return nil, err
	}
	return granted, nil
}

func uniqueFriends(userID int64, ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == userID || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
