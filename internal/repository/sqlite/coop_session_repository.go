package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/glebk/otter-bot/internal/domain"
)

// CoopSessionRepository implements domain.CoopSessionRepository using SQLite
type CoopSessionRepository struct {
	db *Database
}

// NewCoopSessionRepository creates a new CoopSessionRepository
func NewCoopSessionRepository(db *Database) *CoopSessionRepository {
	return &CoopSessionRepository{db: db}
}

// Create stores a session together with its participants
func (r *CoopSessionRepository) Create(session *domain.CoopSession) error {
	tx, err := r.db.GetDB().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO coop_sessions (id, activity_type, start_time, duration_minutes, event_triggered)
		VALUES (?, ?, ?, ?, ?)
	`,
		session.ID,
		session.ActivityType,
		session.StartTime.UTC(),
		session.DurationMinutes,
		session.EventTriggered,
	)
	if err != nil {
		return fmt.Errorf("failed to create coop session: %w", err)
	}

	for _, userID := range session.UserIDs {
		_, err := tx.Exec(`
			INSERT INTO coop_participants (session_id, user_id, happiness, money)
			VALUES (?, ?, ?, ?)
		`,
			session.ID,
			userID,
			session.ResultHappiness[userID],
			session.ResultMoney[userID],
		)
		if err != nil {
			return fmt.Errorf("failed to add coop participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit coop session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by ID
func (r *CoopSessionRepository) GetByID(id string) (*domain.CoopSession, error) {
	query := `
		SELECT id, activity_type, start_time, duration_minutes, event_triggered
		FROM coop_sessions
		WHERE id = ?
	`

	session := &domain.CoopSession{
		ResultHappiness: make(map[int64]int),
		ResultMoney:     make(map[int64]int),
	}
	var event sql.NullString

	err := r.db.GetDB().QueryRow(query, id).Scan(
		&session.ID,
		&session.ActivityType,
		&session.StartTime,
		&session.DurationMinutes,
		&event,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coop session: %w", err)
	}
	session.StartTime = session.StartTime.UTC()
	if event.Valid {
		session.EventTriggered = event.String
	}

	rows, err := r.db.GetDB().Query(`
		SELECT user_id, happiness, money
		FROM coop_participants
		WHERE session_id = ?
		ORDER BY user_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get coop participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var happiness, money int
		if err := rows.Scan(&userID, &happiness, &money); err != nil {
			return nil, fmt.Errorf("failed to scan coop participant: %w", err)
		}
		session.UserIDs = append(session.UserIDs, userID)
		session.ResultHappiness[userID] = happiness
		session.ResultMoney[userID] = money
	}

	return session, rows.Err()
}

// CountForUser returns how many sessions the user took part in
func (r *CoopSessionRepository) CountForUser(userID int64) (int, error) {
	var n int
	err := r.db.GetDB().QueryRow(`SELECT COUNT(*) FROM coop_participants WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count coop sessions: %w", err)
	}
	return n, nil
}
