package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/soyeahso/azent/internal/domain"
)

// AccountStore keeps the login session and the user's like and bookmark
// history, keyed by API base URL so several backends can coexist.
type AccountStore struct {
	db *DB
}

// NewAccountStore creates an account store using the given database.
func NewAccountStore(db *DB) *AccountStore {
	return &AccountStore{db: db}
}

// SaveSession stores the session for apiBase, replacing any previous one.
func (s *AccountStore) SaveSession(apiBase string, sess domain.Session) error {
	_, err := s.db.sql.Exec(
		`INSERT INTO sessions (api_base, email, token, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(api_base) DO UPDATE SET
		   email = excluded.email,
		   token = excluded.token,
		   saved_at = excluded.saved_at`,
		apiBase, sess.Email, sess.Token, time.Now().UTC().Format(time.DateTime),
	)
	return err
}

// Session returns the stored session for apiBase, or nil if there is none.
func (s *AccountStore) Session(apiBase string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.sql.QueryRow(
		`SELECT email, token FROM sessions WHERE api_base = ?`, apiBase,
	).Scan(&sess.Email, &sess.Token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession forgets the session for apiBase.
func (s *AccountStore) DeleteSession(apiBase string) error {
	_, err := s.db.sql.Exec(`DELETE FROM sessions WHERE api_base = ?`, apiBase)
	return err
}

// RecordLike notes that the user liked agentID. Repeats are ignored.
func (s *AccountStore) RecordLike(apiBase, agentID string) error {
	_, err := s.db.sql.Exec(
		`INSERT INTO likes (api_base, agent_id, liked_at) VALUES (?, ?, ?)
		 ON CONFLICT(api_base, agent_id) DO NOTHING`,
		apiBase, agentID, time.Now().UTC().Format(time.DateTime),
	)
	return err
}

// HasLiked reports whether a like for agentID was recorded.
func (s *AccountStore) HasLiked(apiBase, agentID string) (bool, error) {
	var n int
	err := s.db.sql.QueryRow(
		`SELECT COUNT(*) FROM likes WHERE api_base = ? AND agent_id = ?`, apiBase, agentID,
	).Scan(&n)
	return n > 0, err
}

// SetBookmark records whether agentID is in the user's wishlist.
func (s *AccountStore) SetBookmark(apiBase, agentID string, saved bool) error {
	if !saved {
		_, err := s.db.sql.Exec(`DELETE FROM bookmarks WHERE api_base = ? AND agent_id = ?`, apiBase, agentID)
		return err
	}
	_, err := s.db.sql.Exec(
		`INSERT INTO bookmarks (api_base, agent_id, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(api_base, agent_id) DO UPDATE SET saved_at = excluded.saved_at`,
		apiBase, agentID, time.Now().UTC().Format(time.DateTime),
	)
	return err
}

// Bookmarks lists bookmarked agent ids, most recent first.
func (s *AccountStore) Bookmarks(apiBase string) ([]string, error) {
	rows, err := s.db.sql.Query(
		`SELECT agent_id FROM bookmarks WHERE api_base = ? ORDER BY saved_at DESC, agent_id`, apiBase,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
