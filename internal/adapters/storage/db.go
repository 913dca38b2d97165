package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// WAL is ignored for :memory: databases
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		member_id TEXT NOT NULL DEFAULT '',
		google_subject TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_account_google_subject ON account(google_subject);

	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		trainer_id TEXT NOT NULL DEFAULT '',
		banned INTEGER NOT NULL DEFAULT 0,
		ban_reason TEXT NOT NULL DEFAULT '',
		joined_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_member_trainer ON member(trainer_id);

	CREATE TABLE IF NOT EXISTS attendance_record (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		check_in_time TEXT,
		check_out_time TEXT,
		late_arrival INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT '',
		last_updated TEXT NOT NULL,
		UNIQUE (member_id, date)
	);

	CREATE TABLE IF NOT EXISTS attendance_correction (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		requested_at TEXT NOT NULL,
		handled_by TEXT NOT NULL DEFAULT '',
		handled_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_correction_status ON attendance_correction(status);

	CREATE TABLE IF NOT EXISTS badge (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		name TEXT NOT NULL,
		milestone INTEGER NOT NULL,
		awarded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_badge_member ON badge(member_id);

	CREATE TABLE IF NOT EXISTS notification (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		message TEXT NOT NULL,
		read INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notification_member ON notification(member_id);

	CREATE TABLE IF NOT EXISTS payment (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		currency TEXT NOT NULL,
		method TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		gateway_ref TEXT NOT NULL DEFAULT '',
		refund_amount INTEGER NOT NULL DEFAULT 0,
		refund_reason TEXT NOT NULL DEFAULT '',
		refunded_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_payment_member ON payment(member_id);

	CREATE TABLE IF NOT EXISTS bill (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		title TEXT NOT NULL,
		amount INTEGER NOT NULL,
		currency TEXT NOT NULL DEFAULT '',
		due_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS installment_plan (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		total INTEGER NOT NULL,
		installments INTEGER NOT NULL,
		interval TEXT NOT NULL,
		start_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS product (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price INTEGER NOT NULL,
		stock_quantity INTEGER NOT NULL DEFAULT 0,
		sku TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		expiry_date TEXT NOT NULL DEFAULT '',
		discount INTEGER NOT NULL DEFAULT 0,
		image_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS product_review (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		member_id TEXT NOT NULL,
		rating INTEGER NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS wishlist_item (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		added_at TEXT NOT NULL,
		UNIQUE (member_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS diet_plan (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		meals TEXT NOT NULL DEFAULT '[]',
		calories_goal INTEGER NOT NULL DEFAULT 0,
		protein_goal REAL NOT NULL DEFAULT 0,
		fat_goal REAL NOT NULL DEFAULT 0,
		carbs_goal REAL NOT NULL DEFAULT 0,
		assigned_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS nutrient_intake (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		calories INTEGER NOT NULL DEFAULT 0,
		protein REAL NOT NULL DEFAULT 0,
		fat REAL NOT NULL DEFAULT 0,
		carbs REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS water_intake (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		liters REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS supplement_recommendation (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		name TEXT NOT NULL,
		dosage TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS favorite_meal (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		meal TEXT NOT NULL,
		added_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS diet_comment (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		plan_id TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL,
		posted_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS training_session_log (
		id TEXT PRIMARY KEY,
		trainer_id TEXT NOT NULL,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		exercises TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		logged_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS routine (
		id TEXT PRIMARY KEY,
		trainer_id TEXT NOT NULL DEFAULT '',
		member_id TEXT NOT NULL,
		name TEXT NOT NULL,
		exercises TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		suggested_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scheduled_session (
		id TEXT PRIMARY KEY,
		trainer_id TEXT NOT NULL,
		member_id TEXT NOT NULL DEFAULT '',
		starts_at TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scheduled_session_trainer ON scheduled_session(trainer_id, starts_at);

	CREATE TABLE IF NOT EXISTS trainer_availability (
		trainer_id TEXT PRIMARY KEY,
		slots TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS progress_log (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		weight_kg REAL,
		bmi REAL,
		body_fat_pct REAL,
		muscle_mass_kg REAL,
		notes TEXT NOT NULL DEFAULT '',
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_progress_member_date ON progress_log(member_id, date);

	CREATE TABLE IF NOT EXISTS chat_message (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		content TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		reply_to TEXT NOT NULL DEFAULT '',
		reactions TEXT NOT NULL DEFAULT '{}',
		sent_at TEXT NOT NULL,
		edited INTEGER NOT NULL DEFAULT 0,
		edited_at TEXT,
		deleted INTEGER NOT NULL DEFAULT 0,
		deleted_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_chat_message_room ON chat_message(room_id, sent_at);

	CREATE TABLE IF NOT EXISTS typing_status (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS presence (
		user_id TEXT PRIMARY KEY,
		online INTEGER NOT NULL DEFAULT 0,
		last_active TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS theme_preferences (
		account_id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		primary_color TEXT NOT NULL,
		secondary_color TEXT NOT NULL,
		font_size TEXT NOT NULL,
		high_contrast INTEGER NOT NULL DEFAULT 0,
		dyslexia_font INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_log (
		id TEXT PRIMARY KEY,
		event TEXT NOT NULL,
		severity TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		fields TEXT NOT NULL DEFAULT '{}',
		occurred_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_event_log_event ON event_log(event, occurred_at);

	CREATE TABLE IF NOT EXISTS outbox (
		id TEXT PRIMARY KEY,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
