package market

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/soyeahso/azent/internal/domain"
)

// ListAgents fetches every published agent.
func (c *Client) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	var agents []domain.Agent
	if err := c.getJSON(ctx, c.endpoint(nil, "agents", "all"), false, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// SearchAgents runs a server-side search.
func (c *Client) SearchAgents(ctx context.Context, query string) ([]domain.Agent, error) {
	var agents []domain.Agent
	u := c.endpoint(url.Values{"query": {query}}, "agents", "search")
	if err := c.getJSON(ctx, u, false, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// SimilarAgents fetches an agent along with its closest matches.
func (c *Client) SimilarAgents(ctx context.Context, id string) (*domain.SimilarResult, error) {
	var res domain.SimilarResult
	if err := c.getJSON(ctx, c.endpoint(nil, "agents", "similar", id), false, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateAgent submits a new listing for review. Logo and thumbnail paths in
// the submission are uploaded as files when set.
func (c *Client) CreateAgent(ctx context.Context, sub domain.Submission) (*domain.Agent, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range sub.FormFields() {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", kv[0], err)
		}
	}
	for _, f := range [][2]string{{"logo", sub.LogoPath}, {"thumbnail", sub.ThumbnailPath}} {
		if f[1] == "" {
			continue
		}
		if err := attachFile(w, f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	var created struct {
		domain.Agent
		Wrapped *domain.Agent `json:"agent"`
	}
	_, err := c.do(ctx, call{
		method:      http.MethodPost,
		url:         c.endpoint(nil, "agents", "create"),
		body:        &buf,
		contentType: w.FormDataContentType(),
		authed:      c.LoggedIn(),
	}, &created)
	if err != nil {
		return nil, err
	}
	if created.Wrapped != nil {
		return created.Wrapped, nil
	}
	return &created.Agent, nil
}

func attachFile(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s file: %w", field, err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("creating %s part: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copying %s file: %w", field, err)
	}
	return nil
}
