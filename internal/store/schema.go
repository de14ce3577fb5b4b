package store

// Entities form a strict containment tree rooted at rooms; every foreign key
// cascades so deleting a room removes all descendants.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id            TEXT PRIMARY KEY,
		code          TEXT NOT NULL UNIQUE,
		status        TEXT NOT NULL DEFAULT 'WAITING',
		current_round INTEGER NOT NULL DEFAULT 0,
		state_version INTEGER NOT NULL DEFAULT 1,
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		id           TEXT PRIMARY KEY,
		room_id      TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		nickname     TEXT NOT NULL,
		display_name TEXT NOT NULL,
		is_host      INTEGER NOT NULL DEFAULT 0,
		joined_at    TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_players_room ON players(room_id)`,
	`CREATE TABLE IF NOT EXISTS rounds (
		id           TEXT PRIMARY KEY,
		room_id      TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		round_number INTEGER NOT NULL,
		phase        TEXT NOT NULL DEFAULT 'NORMAL',
		status       TEXT NOT NULL DEFAULT 'waiting_actions',
		started_at   TIMESTAMP NOT NULL,
		ended_at     TIMESTAMP,
		UNIQUE(room_id, round_number)
	)`,
	`CREATE TABLE IF NOT EXISTS pairs (
		id         TEXT PRIMARY KEY,
		room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		round_id   TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
		player1_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		player2_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pairs_round ON pairs(round_id)`,
	`CREATE TABLE IF NOT EXISTS actions (
		id         TEXT PRIMARY KEY,
		room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		round_id   TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
		player_id  TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		choice     TEXT NOT NULL,
		payoff     INTEGER,
		created_at TIMESTAMP NOT NULL,
		UNIQUE(round_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id          TEXT PRIMARY KEY,
		room_id     TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		round_id    TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
		sender_id   TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		receiver_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		content     TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL,
		UNIQUE(round_id, sender_id)
	)`,
	`CREATE TABLE IF NOT EXISTS indicators (
		id        TEXT PRIMARY KEY,
		room_id   TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		player_id TEXT NOT NULL UNIQUE REFERENCES players(id) ON DELETE CASCADE,
		symbol    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS event_logs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		event_type TEXT NOT NULL,
		data       TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_event_logs_room ON event_logs(room_id, id)`,
}
