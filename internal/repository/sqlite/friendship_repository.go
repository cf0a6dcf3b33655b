package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/glebk/otter-bot/internal/domain"
)

// FriendshipRepository implements domain.FriendshipRepository using SQLite.
// Each unordered pair is stored once with user_id_1 < user_id_2.
type FriendshipRepository struct {
	db *Database
}

// NewFriendshipRepository creates a new FriendshipRepository
func NewFriendshipRepository(db *Database) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

const friendshipColumns = `user_id_1, user_id_2, friendship_level, total_sessions_together, first_met_date, last_interaction`

// Get retrieves the friendship between a and b in either order
func (r *FriendshipRepository) Get(a, b int64) (*domain.Friendship, error) {
	id1, id2 := domain.FriendshipKey(a, b)
	query := `SELECT ` + friendshipColumns + ` FROM friendships WHERE user_id_1 = ? AND user_id_2 = ?`

	f, err := scanFriendship(r.db.GetDB().QueryRow(query, id1, id2))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return f, nil
}

// Save inserts or updates the canonical record of the pair
func (r *FriendshipRepository) Save(f *domain.Friendship) error {
	if f.UserID1 == f.UserID2 {
		return domain.ErrSelfFriendship
	}
	f.UserID1, f.UserID2 = domain.FriendshipKey(f.UserID1, f.UserID2)

	query := `
		INSERT INTO friendships (` + friendshipColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id_1, user_id_2) DO UPDATE SET
			friendship_level = excluded.friendship_level,
			total_sessions_together = excluded.total_sessions_together,
			last_interaction = excluded.last_interaction
	`

	_, err := r.db.GetDB().Exec(query,
		f.UserID1,
		f.UserID2,
		f.FriendshipLevel,
		f.TotalSessionsTogether,
		nullTime(f.FirstMetDate),
		nullTime(f.LastInteraction),
	)
	if err != nil {
		return fmt.Errorf("failed to save friendship: %w", err)
	}

	return nil
}

// ListFor retrieves every friendship that includes userID
func (r *FriendshipRepository) ListFor(userID int64) ([]*domain.Friendship, error) {
	query := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE user_id_1 = ? OR user_id_2 = ?
		ORDER BY first_met_date
	`

	rows, err := r.db.GetDB().Query(query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	defer rows.Close()

	var friendships []*domain.Friendship
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friendships = append(friendships, f)
	}

	return friendships, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFriendship(row rowScanner) (*domain.Friendship, error) {
	f := &domain.Friendship{}
	var firstMet, lastInteraction sql.NullTime

	err := row.Scan(
		&f.UserID1,
		&f.UserID2,
		&f.FriendshipLevel,
		&f.TotalSessionsTogether,
		&firstMet,
		&lastInteraction,
	)
	if err != nil {
		return nil, err
	}

	if firstMet.Valid {
		f.FirstMetDate = domain.At(firstMet.Time.UTC())
	}
	if lastInteraction.Valid {
		f.LastInteraction = domain.At(lastInteraction.Time.UTC())
	}
	return f, nil
}

func nullTime(t domain.Timestamp) sql.NullTime {
	if !t.IsSet() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.Time.UTC(), Valid: true}
}
