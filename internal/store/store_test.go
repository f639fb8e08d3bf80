package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/logging"
)

const apiBase = "http://localhost:5000/api"

func testDB(t *testing.T) *DB {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db)
	v, err := db.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].Version, v)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "azent.db")
	db, err := Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.FileExists(t, path)
}

func TestMigrations_Applied(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	err := db.migrate()
	require.NoError(t, err)

	var count int
	err = db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestSchema_TablesExist(t *testing.T) {
	db := testDB(t)

	tables := []string{"agents", "agent_fts", "cache_meta", "sessions", "likes", "bookmarks"}
	for _, table := range tables {
		var name string
		err := db.sql.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

// --- Agent cache tests ---

func cacheFixture() []domain.Agent {
	return []domain.Agent{
		{ID: "a1", Name: "Scribe", Category: "Content Creation", Tagline: "Writes your blog", Tags: []string{"writing"}, Likes: 3},
		{ID: "a2", Name: "Ledger", Category: "Productivity", ShortDescription: "Bookkeeping for teams", Likes: 7},
		{ID: "a3", Name: "Pilot", Category: "Coding", Description: "Pair programmer for Go and Rust", Tags: []string{"code", "review"}},
	}
}

func TestAgentStore_EmptyLoad(t *testing.T) {
	s := NewAgentStore(testDB(t))

	cached, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, cached.Agents)
	assert.True(t, cached.FetchedAt.IsZero())
	assert.Empty(t, cached.APIBase)
}

func TestAgentStore_ReplaceAndLoad(t *testing.T) {
	s := NewAgentStore(testDB(t))
	fetched := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	require.NoError(t, s.Replace(apiBase, cacheFixture(), fetched))

	cached, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, cacheFixture(), cached.Agents)
	assert.Equal(t, apiBase, cached.APIBase)
	assert.True(t, cached.FetchedAt.Equal(fetched))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAgentStore_ReplaceDropsOld(t *testing.T) {
	s := NewAgentStore(testDB(t))
	require.NoError(t, s.Replace(apiBase, cacheFixture(), time.Now()))
	require.NoError(t, s.Replace(apiBase, []domain.Agent{{ID: "z", Name: "Zed"}}, time.Now()))

	cached, err := s.Load()
	require.NoError(t, err)
	require.Len(t, cached.Agents, 1)
	assert.Equal(t, "z", cached.Agents[0].ID)

	results, err := s.Search("scribe", 10)
	require.NoError(t, err)
	assert.Empty(t, results, "replaced agents must leave the index")
}

func TestAgentStore_Get(t *testing.T) {
	s := NewAgentStore(testDB(t))
	require.NoError(t, s.Replace(apiBase, cacheFixture(), time.Now()))

	a, err := s.Get("a2")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Ledger", a.Name)

	missing, err := s.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAgentStore_Search(t *testing.T) {
	s := NewAgentStore(testDB(t))
	require.NoError(t, s.Replace(apiBase, cacheFixture(), time.Now()))

	tests := []struct {
		query string
		want  []string
	}{
		{"scribe", []string{"a1"}},
		{"blog", []string{"a1"}},
		{"bookkeep", []string{"a2"}},
		{"programmer go", []string{"a3"}},
		{"review", []string{"a3"}},
		{"coding", []string{"a3"}},
		{"nothing-here", nil},
		{`"unbalanced AND (`, nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, err := s.Search(tt.query, 10)
			require.NoError(t, err)
			var ids []string
			for _, a := range results {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"code"* "docs"*`, ftsQuery("code & docs"))
	assert.Equal(t, `"AND"*`, ftsQuery(`"AND" (`))
	assert.Equal(t, "", ftsQuery("  -- "))
}

// --- Account store tests ---

func TestAccountStore_Session(t *testing.T) {
	s := NewAccountStore(testDB(t))

	sess, err := s.Session(apiBase)
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, s.SaveSession(apiBase, domain.Session{Email: "ada@example.com", Token: "t1"}))
	require.NoError(t, s.SaveSession(apiBase, domain.Session{Email: "ada@example.com", Token: "t2"}))
	require.NoError(t, s.SaveSession("https://other/api", domain.Session{Token: "x"}))

	sess, err = s.Session(apiBase)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "t2", sess.Token)
	assert.Equal(t, "ada@example.com", sess.Email)

	require.NoError(t, s.DeleteSession(apiBase))
	sess, err = s.Session(apiBase)
	require.NoError(t, err)
	assert.Nil(t, sess)

	other, err := s.Session("https://other/api")
	require.NoError(t, err)
	require.NotNil(t, other)
}

func TestAccountStore_Likes(t *testing.T) {
	s := NewAccountStore(testDB(t))

	liked, err := s.HasLiked(apiBase, "a1")
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, s.RecordLike(apiBase, "a1"))
	require.NoError(t, s.RecordLike(apiBase, "a1"))

	liked, err = s.HasLiked(apiBase, "a1")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = s.HasLiked("https://other/api", "a1")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestAccountStore_Bookmarks(t *testing.T) {
	s := NewAccountStore(testDB(t))

	require.NoError(t, s.SetBookmark(apiBase, "a1", true))
	require.NoError(t, s.SetBookmark(apiBase, "a2", true))
	require.NoError(t, s.SetBookmark(apiBase, "a1", false))

	ids, err := s.Bookmarks(apiBase)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, ids)

	require.NoError(t, s.SetBookmark(apiBase, "missing", false))
}
