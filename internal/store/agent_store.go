package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/soyeahso/azent/internal/domain"
)

const (
	metaFetchedAt = "agents.fetched_at"
	metaAPIBase   = "agents.api_base"
)

// CachedAgents is the last agent collection written to the cache.
type CachedAgents struct {
	Agents    []domain.Agent
	APIBase   string
	FetchedAt time.Time
}

// AgentStore caches the agent collection with full-text search via SQLite FTS5.
type AgentStore struct {
	db *DB
}

// NewAgentStore creates an agent cache using the given database.
func NewAgentStore(db *DB) *AgentStore {
	return &AgentStore{db: db}
}

// Replace swaps the cached collection for agents, preserving their order.
func (s *AgentStore) Replace(apiBase string, agents []domain.Agent, fetchedAt time.Time) error {
	err := s.db.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM agents`); err != nil {
			return fmt.Errorf("clearing agent cache: %w", err)
		}

		stmt, err := tx.Prepare(
			`INSERT INTO agents (id, position, name, tagline, description, category, tags, likes, data)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   position = excluded.position,
			   name = excluded.name,
			   tagline = excluded.tagline,
			   description = excluded.description,
			   category = excluded.category,
			   tags = excluded.tags,
			   likes = excluded.likes,
			   data = excluded.data`,
		)
		if err != nil {
			return fmt.Errorf("preparing agent insert: %w", err)
		}
		defer stmt.Close()

		for i, a := range agents {
			data, err := json.Marshal(a)
			if err != nil {
				return fmt.Errorf("encoding agent %s: %w", a.ID, err)
			}
			id := a.ID
			if id == "" {
				id = fmt.Sprintf("_pos%d", i)
			}
			desc := a.ShortDescription
			if a.Description != "" {
				desc = a.ShortDescription + " " + a.Description
			}
			if _, err := stmt.Exec(id, i, a.Name, a.Tagline, desc, a.Category,
				strings.Join(a.Tags, " "), a.LikeCount(), string(data)); err != nil {
				return fmt.Errorf("caching agent %s: %w", id, err)
			}
		}

		for k, v := range map[string]string{
			metaFetchedAt: fetchedAt.UTC().Format(time.RFC3339Nano),
			metaAPIBase:   apiBase,
		} {
			if _, err := tx.Exec(
				`INSERT INTO cache_meta (key, value) VALUES (?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v); err != nil {
				return fmt.Errorf("writing cache metadata: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.db.log.Debug().Int("agents", len(agents)).Msg("agent cache replaced")
	return nil
}

// Load returns the cached collection in its original order. A cache that
// has never been written returns an empty result and no error.
func (s *AgentStore) Load() (*CachedAgents, error) {
	rows, err := s.db.sql.Query(`SELECT data FROM agents ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents, err := scanAgents(rows)
	if err != nil {
		return nil, err
	}

	out := &CachedAgents{Agents: agents}
	out.APIBase, _ = s.meta(metaAPIBase)
	if ts, _ := s.meta(metaFetchedAt); ts != "" {
		out.FetchedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return out, nil
}

// Count returns the number of cached agents.
func (s *AgentStore) Count() (int, error) {
	var n int
	err := s.db.sql.QueryRow(`SELECT COUNT(*) FROM agents`).Scan(&n)
	return n, err
}

// Get returns one cached agent, or nil if it is not cached.
func (s *AgentStore) Get(id string) (*domain.Agent, error) {
	var data string
	err := s.db.sql.QueryRow(`SELECT data FROM agents WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var a domain.Agent
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, fmt.Errorf("decoding cached agent %s: %w", id, err)
	}
	return &a, nil
}

// Search finds cached agents matching every word of query, best match
// first. Words match as prefixes. Limit of 0 defaults to 20.
func (s *AgentStore) Search(query string, limit int) ([]domain.Agent, error) {
	if limit <= 0 {
		limit = 20
	}
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.sql.Query(
		`SELECT a.data
		 FROM agent_fts
		 JOIN agents a ON a.rowid = agent_fts.rowid
		 WHERE agent_fts MATCH ?
		 ORDER BY rank, a.position
		 LIMIT ?`,
		match, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAgents(rows)
}

// ftsQuery turns free text into an FTS5 expression of quoted prefix terms,
// so punctuation in user input cannot break the MATCH syntax.
func ftsQuery(q string) string {
	words := strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, len(words))
	for i, w := range words {
		terms[i] = `"` + w + `"*`
	}
	return strings.Join(terms, " ")
}

func (s *AgentStore) meta(key string) (string, error) {
	var v string
	err := s.db.sql.QueryRow(`SELECT value FROM cache_meta WHERE key = ?`, key).Scan(&v)
	return v, err
}

func scanAgents(rows *sql.Rows) ([]domain.Agent, error) {
	var agents []domain.Agent
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var a domain.Agent
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			continue
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}
