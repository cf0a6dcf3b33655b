package sqlite

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/glebk/otter-bot/internal/domain"
)

const hobbiesNamespace = "hobbies"

// HobbyRepository implements domain.HobbyRepository on top of the JSON store
type HobbyRepository struct {
	store *Store
}

// NewHobbyRepository creates a new HobbyRepository
func NewHobbyRepository(db *Database) *HobbyRepository {
	return &HobbyRepository{store: NewStore(db, hobbiesNamespace)}
}

// GetByID retrieves a hobby by ID
func (r *HobbyRepository) GetByID(id string) (*domain.Hobby, error) {
	h := &domain.Hobby{}
	found, err := r.store.Get(id, h)
	if err != nil {
		return nil, fmt.Errorf("failed to get hobby: %w", err)
	}
	if !found {
		return nil, nil
	}
	h.ApplyDefaults()
	return h, nil
}

// GetAll retrieves the catalog ordered by price
func (r *HobbyRepository) GetAll() ([]*domain.Hobby, error) {
	raw, err := r.store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all hobbies: %w", err)
	}

	hobbies := make([]*domain.Hobby, 0, len(raw))
	for _, data := range raw {
		h := &domain.Hobby{}
		if err := json.Unmarshal(data, h); err != nil {
			return nil, fmt.Errorf("failed to decode hobby: %w", err)
		}
		h.ApplyDefaults()
		hobbies = append(hobbies, h)
	}

	sort.Slice(hobbies, func(i, j int) bool {
		if hobbies[i].Price != hobbies[j].Price {
			return hobbies[i].Price < hobbies[j].Price
		}
		return hobbies[i].ID < hobbies[j].ID
	})
	return hobbies, nil
}

// Save inserts or replaces a hobby
func (r *HobbyRepository) Save(h *domain.Hobby) error {
	if h.ID == "" {
		return fmt.Errorf("failed to save hobby: %w", domain.ErrInvalidInput)
	}
	if err := r.store.Set(h.ID, h); err != nil {
		return fmt.Errorf("failed to save hobby: %w", err)
	}
	return nil
}

// Seed stores the catalog when no hobbies exist yet
func (r *HobbyRepository) Seed(hobbies []*domain.Hobby) error {
	n, err := r.store.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, h := range hobbies {
		if err := r.Save(h); err != nil {
			return err
		}
	}
	return nil
}
