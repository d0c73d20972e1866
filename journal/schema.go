package journal

var schema = []string{
	`CREATE TABLE IF NOT EXISTS table_events (
		id          BIGSERIAL PRIMARY KEY,
		event       TEXT NOT NULL,
		conn_id     TEXT NOT NULL,
		card_names  TEXT[] NOT NULL DEFAULT '{}',
		detail      TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS table_events_recorded_at ON table_events (recorded_at)`,
}
