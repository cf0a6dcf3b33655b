package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Database wraps the SQL database connection
type Database struct {
	db *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	database := &Database{db: db}

	if err := database.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// GetDB returns the underlying database connection
func (d *Database) GetDB() *sql.DB {
	return d.db
}

// initSchema creates the database tables
func (d *Database) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, key)
	);

	CREATE TABLE IF NOT EXISTS friendships (
		user_id_1 INTEGER NOT NULL,
		user_id_2 INTEGER NOT NULL,
		friendship_level INTEGER NOT NULL DEFAULT 1,
		total_sessions_together INTEGER NOT NULL DEFAULT 0,
		first_met_date DATETIME,
		last_interaction DATETIME,
		PRIMARY KEY (user_id_1, user_id_2),
		CHECK (user_id_1 < user_id_2)
	);

	CREATE TABLE IF NOT EXISTS coop_sessions (
		id TEXT PRIMARY KEY,
		activity_type TEXT NOT NULL,
		start_time DATETIME NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		event_triggered TEXT
	);

	CREATE TABLE IF NOT EXISTS coop_participants (
		session_id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		happiness INTEGER NOT NULL DEFAULT 0,
		money INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, user_id),
		FOREIGN KEY (session_id) REFERENCES coop_sessions(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS activity_stats (
		user_id INTEGER PRIMARY KEY,
		total_sleep_minutes INTEGER NOT NULL DEFAULT 0,
		feed_events INTEGER NOT NULL DEFAULT 0,
		water_events INTEGER NOT NULL DEFAULT 0,
		work_sessions INTEGER NOT NULL DEFAULT 0,
		hobby_sessions INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_friendships_user2 ON friendships(user_id_2);
	CREATE INDEX IF NOT EXISTS idx_coop_participants_user ON coop_participants(user_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
