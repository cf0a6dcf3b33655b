package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
)

// Sender delivers a notice to a user's chat
type Sender interface {
	Notify(userID int64, n Notice) error
}

// Scheduler periodically evaluates reminders for every user
type Scheduler struct {
	users    domain.UserRepository
	sender   Sender
	lock     sync.Locker
	interval time.Duration
	fallback *time.Location
	now      func() time.Time
}

// NewScheduler creates a scheduler. lock is held for each user pass so
// handlers and the scheduler never mutate the same user concurrently.
func NewScheduler(users domain.UserRepository, sender Sender, lock sync.Locker, interval time.Duration, fallback *time.Location) *Scheduler {
	return &Scheduler{
		users:    users,
		sender:   sender,
		lock:     lock,
		interval: interval,
		fallback: fallback,
		now:      time.Now,
	}
}

// Run starts the tick loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick runs one pass over all users
func (s *Scheduler) Tick() {
	users, err := s.users.GetAll()
	if err != nil {
		log.Printf("Error loading users for reminders: %v", err)
		return
	}

	for _, u := range users {
		if err := s.processUser(u.UserID); err != nil {
			log.Printf("Error processing reminders for user %d: %v", u.UserID, err)
		}
	}
}

func (s *Scheduler) processUser(userID int64) (err error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	// Reload under the lock so handler updates since GetAll are not lost.
	user, err := s.users.GetByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil
	}

	changed := false
	for _, n := range Evaluate(user, s.now().UTC(), s.fallback) {
		if !n.Silent {
			if err := s.sender.Notify(user.UserID, n); err != nil {
				log.Printf("Error sending %s reminder to user %d: %v", n.Key, user.UserID, err)
				if !n.MarkOnFailure {
					continue
				}
			}
		}
		n.Apply(user)
		changed = true
	}

	if !changed {
		return nil
	}
	if err := s.users.Save(user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
