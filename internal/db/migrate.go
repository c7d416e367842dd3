package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is IF NOT EXISTS, so
// re-running against an existing database is a no-op.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL
		           CHECK(role IN ('ADMIN','PROJECT_MANAGER','DEVELOPER','CLIENT')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS clients (
		id           TEXT PRIMARY KEY,
		company_name TEXT NOT NULL,
		contact_name TEXT NOT NULL,
		email        TEXT NOT NULL UNIQUE,
		phone        TEXT NOT NULL DEFAULT '',
		website      TEXT NOT NULL DEFAULT '',
		notes        TEXT NOT NULL DEFAULT '',
		user_id      TEXT REFERENCES users(id) ON DELETE SET NULL,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id                        TEXT PRIMARY KEY,
		name                      TEXT NOT NULL,
		status                    TEXT NOT NULL,
		workflow_phase            TEXT NOT NULL,
		workflow_phase_updated_at TEXT,
		intake_status             TEXT NOT NULL DEFAULT '',
		client_id                 TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		project_manager_id        TEXT REFERENCES users(id) ON DELETE SET NULL,
		start_date                TEXT,
		end_date                  TEXT,
		workflow_metadata         TEXT NOT NULL DEFAULT '{}',
		created_at                TEXT NOT NULL,
		updated_at                TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS intakes (
		id                       TEXT PRIMARY KEY,
		status                   TEXT NOT NULL,
		form_data                TEXT NOT NULL DEFAULT '{}',
		summary                  TEXT NOT NULL DEFAULT '',
		priority                 TEXT NOT NULL DEFAULT 'MEDIUM',
		submitted_at             TEXT NOT NULL,
		assigned_admin_id        TEXT REFERENCES users(id) ON DELETE SET NULL,
		approved_for_estimate_at TEXT,
		returned_for_info_at     TEXT,
		client_decision_at       TEXT,
		client_id                TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		project_id               TEXT REFERENCES projects(id) ON DELETE SET NULL,
		checklist                TEXT NOT NULL DEFAULT '{}',
		notes                    TEXT NOT NULL DEFAULT '',
		created_at               TEXT NOT NULL,
		updated_at               TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS proposals (
		id                  TEXT PRIMARY KEY,
		status              TEXT NOT NULL,
		summary             TEXT NOT NULL DEFAULT '',
		line_items          TEXT NOT NULL DEFAULT '[]',
		selected_modules    TEXT NOT NULL DEFAULT '[]',
		estimated_hours     REAL NOT NULL DEFAULT 0,
		estimate_cents      INTEGER NOT NULL DEFAULT 0,
		sent_at             TEXT,
		client_approved_at  TEXT,
		client_declined_at  TEXT,
		approval_notes      TEXT NOT NULL DEFAULT '',
		intake_id           TEXT NOT NULL REFERENCES intakes(id) ON DELETE CASCADE,
		project_id          TEXT REFERENCES projects(id) ON DELETE SET NULL,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL,
		priority        TEXT NOT NULL DEFAULT 'MEDIUM',
		due_date        TEXT,
		assignee_id     TEXT REFERENCES users(id) ON DELETE SET NULL,
		is_deliverable  INTEGER NOT NULL DEFAULT 0,
		deliverable_key TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS task_status_history (
		id          TEXT PRIMARY KEY,
		task_id     TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		from_status TEXT NOT NULL,
		to_status   TEXT NOT NULL,
		note        TEXT NOT NULL,
		actor_id    TEXT NOT NULL,
		context     TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS invoices (
		id             TEXT PRIMARY KEY,
		invoice_number TEXT NOT NULL UNIQUE,
		amount_cents   INTEGER NOT NULL,
		status         TEXT NOT NULL,
		issue_date     TEXT NOT NULL,
		due_date       TEXT NOT NULL,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS workflow_events (
		id         TEXT PRIMARY KEY,
		entity     TEXT NOT NULL,
		entity_id  TEXT NOT NULL,
		project_id TEXT NOT NULL DEFAULT '',
		actor_id   TEXT NOT NULL,
		status     TEXT NOT NULL,
		message    TEXT NOT NULL,
		metadata   TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_intakes_client ON intakes(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_intake ON proposals(intake_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_task_history_task ON task_status_history(task_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_project ON invoices(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_project ON workflow_events(project_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_entity ON workflow_events(entity, entity_id, created_at)`,
}
