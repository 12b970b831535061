package storage

import (
	"fmt"
	"io"

	"gorm.io/gorm"
)

// Migration is one versioned schema change. Applied versions are recorded in
// the schema_migrations table.
type Migration struct {
	Version string
	SQL     string
}

// Migrations is the ordered schema history of the application.
var Migrations = []Migration{
	{
		Version: "20240101_create_users",
		SQL: `CREATE TABLE users (
	id bigserial PRIMARY KEY,
	created_at timestamptz,
	updated_at timestamptz,
	email text NOT NULL UNIQUE,
	password text NOT NULL,
	first_name text NOT NULL DEFAULT '',
	last_name text NOT NULL DEFAULT '',
	administrator boolean NOT NULL DEFAULT false
)`,
	},
	{
		Version: "20240102_create_events",
		SQL: `CREATE TABLE events (
	id bigserial PRIMARY KEY,
	created_at timestamptz,
	updated_at timestamptz,
	title text NOT NULL,
	description text NOT NULL DEFAULT '',
	event_date timestamptz NOT NULL,
	venue text NOT NULL DEFAULT '',
	max_attendees bigint NOT NULL DEFAULT 0,
	created_by bigint NOT NULL REFERENCES users (id)
);
CREATE INDEX idx_events_event_date ON events (event_date)`,
	},
	{
		Version: "20240103_create_rsvps",
		SQL: `CREATE TABLE rsvps (
	user_id bigint NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	event_id bigint NOT NULL REFERENCES events (id) ON DELETE CASCADE,
	created_at timestamptz,
	updated_at timestamptz,
	status text NOT NULL,
	notes text NOT NULL DEFAULT '',
	PRIMARY KEY (user_id, event_id)
)`,
	},
	{
		Version: "20240104_create_notifications",
		SQL: `CREATE TABLE notifications (
	id bigserial PRIMARY KEY,
	created_at timestamptz,
	user_id bigint NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	message text NOT NULL,
	type text NOT NULL,
	link text NOT NULL DEFAULT '',
	read boolean NOT NULL DEFAULT false
);
CREATE INDEX idx_notifications_user_id ON notifications (user_id)`,
	},
}

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (version text PRIMARY KEY)`

// Pending returns the migrations whose version has not been recorded yet, in
// order.
func Pending(db *gorm.DB, migrations []Migration) ([]Migration, error) {
	if err := db.Exec(createVersionTable).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure schema_migrations table: %v", err)
	}

	var applied []string
	if err := db.Table("schema_migrations").Pluck("version", &applied).Error; err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %v", err)
	}

	appliedSet := make(map[string]struct{}, len(applied))
	for _, version := range applied {
		appliedSet[version] = struct{}{}
	}

	var pending []Migration
	for _, migration := range migrations {
		if _, ok := appliedSet[migration.Version]; !ok {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

// Apply runs all pending migrations inside one transaction. A failing
// migration rolls the whole batch back, there is no partial application.
func Apply(db *gorm.DB, migrations []Migration) error {
	pending, err := Pending(db, migrations)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, migration := range pending {
			if err := tx.Exec(migration.SQL).Error; err != nil {
				return fmt.Errorf("migration %s failed: %v", migration.Version, err)
			}
			if err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.Version).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %v", migration.Version, err)
			}
		}
		return nil
	})
}

// WriteOfflineSQL emits the SQL of the given migrations without touching any
// database. Used by the migrate tool's offline mode.
func WriteOfflineSQL(w io.Writer, migrations []Migration) error {
	if _, err := fmt.Fprintf(w, "BEGIN;\n\n%s;\n\n", createVersionTable); err != nil {
		return err
	}

	for _, migration := range migrations {
		_, err := fmt.Fprintf(w, "-- %s\n%s;\nINSERT INTO schema_migrations (version) VALUES ('%s');\n\n", migration.Version, migration.SQL, migration.Version)
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "COMMIT;")
	return err
}
