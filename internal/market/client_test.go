package market

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/logging"
	"github.com/soyeahso/azent/internal/version"
)

func newTestClient(t *testing.T, token string, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/api/", Token: token}, logging.New(nil, "silent"))
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(Options{BaseURL: "/api"}, logging.New(nil, "silent"))
	assert.Error(t, err)
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, 200, []domain.Agent{})
	}))

	_, err := c.ListAgents(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(got.Get("X-Request-ID"))
	assert.NoError(t, err, "request id must be a uuid")
	assert.Equal(t, version.UserAgent(), got.Get("User-Agent"))
	assert.Empty(t, got.Get("Authorization"), "anonymous calls carry no token")
}

func TestListAgents(t *testing.T) {
	c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/agents/all", r.URL.Path)
		writeJSON(w, 200, []map[string]any{
			{"_id": "a1", "name": "Scribe", "likes": 2},
			{"_id": "a2", "name": "Ledger"},
		})
	}))

	agents, err := c.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "a1", agents[0].ID)
	assert.Equal(t, 2, agents[0].Likes)
	assert.Equal(t, 0, agents[1].Likes)
}

func TestSearchAgentsEscapesQuery(t *testing.T) {
	c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/agents/search", r.URL.Path)
		assert.Equal(t, "code & docs", r.URL.Query().Get("query"))
		writeJSON(w, 200, []domain.Agent{{ID: "x"}})
	}))

	agents, err := c.SearchAgents(context.Background(), "code & docs")
	require.NoError(t, err)
	assert.Len(t, agents, 1)
}

func TestSimilarAgents(t *testing.T) {
	c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/agents/similar/a1", r.URL.Path)
		writeJSON(w, 200, map[string]any{
			"agent":       map[string]any{"_id": "a1", "name": "Scribe"},
			"bestMatches": []map[string]any{{"_id": "a2"}, {"_id": "a3"}},
		})
	}))

	res, err := c.SimilarAgents(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Scribe", res.Agent.Name)
	assert.Len(t, res.BestMatches, 2)
}

func TestNotFound(t *testing.T) {
	c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]string{"message": "Agent not found"})
	}))

	_, err := c.SimilarAgents(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Agent not found", apiErr.Message)
	assert.Equal(t, "/api/agents/similar/missing", apiErr.Path)
	assert.Contains(t, apiErr.Error(), "404")
}

func TestErrorMessageFallback(t *testing.T) {
	assert.Equal(t, "boom", errorMessage([]byte(`{"error":"boom"}`)))
	assert.Equal(t, "plain text", errorMessage([]byte("  plain text\n")))
	assert.Len(t, errorMessage([]byte(strings.Repeat("x", 500))), 200)
}

func TestAuthenticatedCallRequiresToken(t *testing.T) {
	c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	err := c.Like(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = c.ReviewQueues(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLike(t *testing.T) {
	c := newTestClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/users/a1/like", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, 200, map[string]string{"message": "ok"})
	}))

	assert.NoError(t, c.Like(context.Background(), "a1"))
}

func TestLikeAlreadyLiked(t *testing.T) {
	c := newTestClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 400, map[string]string{"message": "You have already liked this agent"})
	}))

	err := c.Like(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrAlreadyLiked)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestUnauthorized(t *testing.T) {
	for _, code := range []int{401, 403} {
		c := newTestClient(t, "expired", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, code, map[string]string{"message": "nope"})
		}))
		err := c.Like(context.Background(), "a1")
		assert.ErrorIs(t, err, ErrUnauthorized, "status %d", code)
	}
}

func TestToggleWishlist(t *testing.T) {
	status := 200
	c := newTestClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/wishlist/a1", r.URL.Path)
		writeJSON(w, status, map[string]any{"agent": map[string]any{"savedByCount": 5}})
	}))

	res, err := c.ToggleWishlist(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.Equal(t, 5, res.SavedByCount)

	status = 201
	res, err = c.ToggleWishlist(context.Background(), "a1")
	require.NoError(t, err)
	assert.False(t, res.Added)
}

func TestLoginTokenSources(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var creds domain.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "ada@example.com", creds.Email)
			writeJSON(w, 200, map[string]string{"token": "body-token"})
		}))
		tok, err := c.Login(context.Background(), domain.Credentials{Email: "ada@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "body-token", tok)
	})

	t.Run("cookie", func(t *testing.T) {
		c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "cookie-token"})
			writeJSON(w, 200, map[string]string{"message": "Login successful"})
		}))
		tok, err := c.Login(context.Background(), domain.Credentials{Email: "a@b.c"})
		require.NoError(t, err)
		assert.Equal(t, "cookie-token", tok)
	})

	t.Run("missing", func(t *testing.T) {
		c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, map[string]string{})
		}))
		_, err := c.Login(context.Background(), domain.Credentials{})
		assert.Error(t, err)
	})
}

func TestPasswordFlows(t *testing.T) {
	var paths []string
	c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeJSON(w, 200, map[string]string{"message": "ok"})
	}))

	require.NoError(t, c.ForgotPassword(context.Background(), "a@b.c"))
	require.NoError(t, c.ResetPassword(context.Background(), "reset/tok", "new-pw"))
	msg, err := c.Signup(context.Background(), domain.Signup{Name: "Ada", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "ok", msg)
	assert.Equal(t, []string{
		"/api/users/forgot-password",
		"/api/users/reset-password/reset/tok",
		"/api/users/signup",
	}, paths)
	assert.True(t, strings.HasSuffix(c.GoogleAuthURL(), "/api/users/auth/google"))
}

func TestReviewQueues(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	c := newTestClient(t, "admin", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.URL.Path] = true
		mu.Unlock()
		status := strings.TrimPrefix(r.URL.Path, "/api/admin/agents/")
		writeJSON(w, 200, []map[string]any{{"_id": status + "-1", "status": status}})
	}))

	queues, err := c.ReviewQueues(context.Background())
	require.NoError(t, err)
	require.Len(t, queues, 4)
	for _, st := range domain.Statuses {
		require.Len(t, queues[st], 1)
		assert.Equal(t, string(st)+"-1", queues[st][0].ID)
		assert.True(t, seen["/api/admin/agents/"+string(st)])
	}
}

func TestReviewQueuesFailure(t *testing.T) {
	c := newTestClient(t, "admin", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/rejected") {
			writeJSON(w, 403, map[string]string{"message": "Admins only"})
			return
		}
		writeJSON(w, 200, []domain.Agent{})
	}))

	_, err := c.ReviewQueues(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSetAgentStatus(t *testing.T) {
	var body domain.StatusChange
	c := newTestClient(t, "admin", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/admin/agents/a1/status", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, 200, map[string]string{"message": "updated"})
	}))

	err := c.SetAgentStatus(context.Background(), "a1", domain.StatusChange{Status: domain.StatusOnHold})
	assert.Error(t, err, "on hold needs instructions")

	err = c.SetAgentStatus(context.Background(), "a1", domain.StatusChange{Status: domain.StatusOnHold, Instructions: "add a logo"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnHold, body.Status)
	assert.Equal(t, "add a logo", body.Instructions)
}

func TestCreateAgentMultipart(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("PNGDATA"), 0o644))

	c := newTestClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/agents/create", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Scribe", r.FormValue("name"))
		assert.Equal(t, "a, b", r.FormValue("tags"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		f, hdr, err := r.FormFile("logo")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "logo.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(data))

		_, _, err = r.FormFile("thumbnail")
		assert.ErrorIs(t, err, http.ErrMissingFile)

		writeJSON(w, 201, map[string]any{"agent": map[string]any{"_id": "new", "name": "Scribe", "status": "requested"}})
	}))

	got, err := c.CreateAgent(context.Background(), domain.Submission{Name: "Scribe", Tags: []string{"a", "b"}, LogoPath: logo})
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)
	assert.Equal(t, domain.StatusRequested, got.Status)
}

func TestCreateAgentValidates(t *testing.T) {
	c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid submission must not be sent")
	}))
	_, err := c.CreateAgent(context.Background(), domain.Submission{})
	assert.Error(t, err)
}

func TestContextCancel(t *testing.T) {
	c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []domain.Agent{})
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListAgents(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
