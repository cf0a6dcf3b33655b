package sqlite

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/glebk/otter-bot/internal/domain"
)

const usersNamespace = "users"

// UserRepository implements domain.UserRepository on top of the JSON store.
// Friendships are not stored in the user document; they are hydrated from
// the friendships table on every load.
type UserRepository struct {
	store       *Store
	friendships *FriendshipRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *Database, friendships *FriendshipRepository) *UserRepository {
	return &UserRepository{
		store:       NewStore(db, usersNamespace),
		friendships: friendships,
	}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id int64) (*domain.UserState, error) {
	raw, found, err := r.store.GetRaw(strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, nil
	}

	user, err := decodeUser(id, raw)
	if err != nil {
		return nil, err
	}
	if err := r.load(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetAll retrieves all users. Unreadable records are logged and skipped.
func (r *UserRepository) GetAll() ([]*domain.UserState, error) {
	raw, err := r.store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}

	users := make([]*domain.UserState, 0, len(raw))
	for key, data := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			log.Printf("Error skipping user record %q: %v", key, err)
			continue
		}

		user, err := decodeUser(id, data)
		if err != nil {
			log.Printf("Error decoding user %d: %v", id, err)
			continue
		}
		if err := r.load(user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

// Save stores the user document without its friendship view
func (r *UserRepository) Save(user *domain.UserState) error {
	doc := *user
	doc.Friendships = nil

	if err := r.store.Set(strconv.FormatInt(user.UserID, 10), &doc); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// decodeUser decodes data over a default record. Fields of the wrong type
// keep their defaults; only malformed JSON is an error.
func decodeUser(id int64, data []byte) (*domain.UserState, error) {
	user := domain.NewUserState(id, "", "")
	user.Friendships = nil

	if err := json.Unmarshal(data, user); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("failed to decode user %d: %w", id, err)
		}
		log.Printf("Error in user %d field %s: %v", id, typeErr.Field, err)
	}

	user.UserID = id
	return user, nil
}

// load repairs a decoded user and attaches its friendships
func (r *UserRepository) load(user *domain.UserState) error {
	id := user.UserID
	legacy := user.Friendships
	user.Normalize()

	if err := r.migrateLegacyFriendships(id, legacy); err != nil {
		return err
	}

	friendships, err := r.friendships.ListFor(id)
	if err != nil {
		return fmt.Errorf("failed to load friendships: %w", err)
	}
	user.Friendships = make(map[int64]*domain.Friendship, len(friendships))
	for _, f := range friendships {
		user.Friendships[f.Other(id)] = f
	}
	return nil
}

// migrateLegacyFriendships moves per-user friendship copies written by older
// versions into the canonical table. Existing canonical records win.
func (r *UserRepository) migrateLegacyFriendships(id int64, legacy map[int64]*domain.Friendship) error {
	for otherID, f := range legacy {
		if f == nil || otherID == id {
			continue
		}
		existing, err := r.friendships.Get(id, otherID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		canonical := *f
		canonical.UserID1, canonical.UserID2 = domain.FriendshipKey(id, otherID)
		canonical.FriendshipLevel = min(max(canonical.FriendshipLevel, 1), 10)
		if err := r.friendships.Save(&canonical); err != nil {
			return fmt.Errorf("failed to migrate friendship: %w", err)
		}
	}
	return nil
}
