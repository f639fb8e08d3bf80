package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create agent cache with FTS5",
		SQL: `
			CREATE TABLE agents (
				id             TEXT PRIMARY KEY,
				position       INTEGER NOT NULL,
				name           TEXT NOT NULL DEFAULT '',
				tagline        TEXT NOT NULL DEFAULT '',
				description    TEXT NOT NULL DEFAULT '',
				category       TEXT NOT NULL DEFAULT '',
				tags           TEXT NOT NULL DEFAULT '',
				likes          INTEGER NOT NULL DEFAULT 0,
				data           TEXT NOT NULL
			);

			CREATE INDEX idx_agents_position ON agents (position);
			CREATE INDEX idx_agents_category ON agents (category);

			CREATE VIRTUAL TABLE agent_fts USING fts5(
				name,
				tagline,
				description,
				category,
				tags,
				content='agents',
				content_rowid='rowid'
			);

			CREATE TRIGGER agents_ai AFTER INSERT ON agents BEGIN
				INSERT INTO agent_fts(rowid, name, tagline, description, category, tags)
				VALUES (new.rowid, new.name, new.tagline, new.description, new.category, new.tags);
			END;

			CREATE TRIGGER agents_ad AFTER DELETE ON agents BEGIN
				INSERT INTO agent_fts(agent_fts, rowid, name, tagline, description, category, tags)
				VALUES ('delete', old.rowid, old.name, old.tagline, old.description, old.category, old.tags);
			END;

			CREATE TRIGGER agents_au AFTER UPDATE ON agents BEGIN
				INSERT INTO agent_fts(agent_fts, rowid, name, tagline, description, category, tags)
				VALUES ('delete', old.rowid, old.name, old.tagline, old.description, old.category, old.tags);
				INSERT INTO agent_fts(rowid, name, tagline, description, category, tags)
				VALUES (new.rowid, new.name, new.tagline, new.description, new.category, new.tags);
			END;

			CREATE TABLE cache_meta (
				key    TEXT PRIMARY KEY,
				value  TEXT NOT NULL
			);
		`,
	},
	{
		Version: 2,
		Name:    "create sessions",
		SQL: `
			CREATE TABLE sessions (
				api_base    TEXT PRIMARY KEY,
				email       TEXT NOT NULL DEFAULT '',
				token       TEXT NOT NULL,
				saved_at    TEXT NOT NULL DEFAULT (datetime('now'))
			);
		`,
	},
	{
		Version: 3,
		Name:    "create like and bookmark ledger",
		SQL: `
			CREATE TABLE likes (
				api_base    TEXT NOT NULL,
				agent_id    TEXT NOT NULL,
				liked_at    TEXT NOT NULL DEFAULT (datetime('now')),
				PRIMARY KEY (api_base, agent_id)
			);

			CREATE TABLE bookmarks (
				api_base    TEXT NOT NULL,
				agent_id    TEXT NOT NULL,
				saved_at    TEXT NOT NULL DEFAULT (datetime('now')),
				PRIMARY KEY (api_base, agent_id)
			);
		`,
	},
}
