package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/soyeahso/azent/internal/domain"
)

// DefaultNewsPageSize is used when a NewsQuery leaves PageSize unset.
const DefaultNewsPageSize = 12

// NewsQuery selects a page of headlines. Empty Query or Source are omitted.
type NewsQuery struct {
	Query    string
	Source   string
	Page     int
	PageSize int
}

// ListBlogs fetches every blog post.
func (c *Client) ListBlogs(ctx context.Context) ([]domain.BlogPost, error) {
	var posts []domain.BlogPost
	if err := c.getJSON(ctx, c.endpoint(nil, "blogs"), false, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetBlog fetches one post.
func (c *Client) GetBlog(ctx context.Context, id string) (*domain.BlogPost, error) {
	var post domain.BlogPost
	if err := c.getJSON(ctx, c.endpoint(nil, "blogs", id), false, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreateBlog publishes a post. Sections without an id get a fresh one, and
// MainImage is uploaded as a file when it names a local path.
func (c *Client) CreateBlog(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	sections := make([]domain.BlogSection, len(post.Sections))
	for i, s := range post.Sections {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		sections[i] = s
	}
	sectionsJSON, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("encoding sections: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"title", post.Title},
		{"content", post.Content},
		{"tags", strings.Join(post.Tags, ",")},
		{"category", post.Category},
		{"sections", string(sectionsJSON)},
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", kv[0], err)
		}
	}
	if post.MainImage != "" && !isRemote(post.MainImage) {
		if err := attachFile(w, "mainImage", post.MainImage); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	var created domain.BlogPost
	_, err = c.do(ctx, call{
		method:      http.MethodPost,
		url:         c.endpoint(nil, "blogs"),
		body:        &buf,
		contentType: w.FormDataContentType(),
		authed:      c.LoggedIn(),
	}, &created)
	if err != nil {
		return nil, fmt.Errorf("creating blog: %w", err)
	}
	return &created, nil
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// UploadImage uploads an image for embedding in a post and returns its URL.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := attachFile(w, "image", path); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing form: %w", err)
	}

	var out struct {
		URL string `json:"url"`
	}
	_, err := c.do(ctx, call{
		method:      http.MethodPost,
		url:         c.endpoint(nil, "blogs", "upload-image"),
		body:        &buf,
		contentType: w.FormDataContentType(),
		authed:      c.LoggedIn(),
	}, &out)
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return out.URL, nil
}

// News queries the news proxy.
func (c *Client) News(ctx context.Context, nq NewsQuery) (*domain.NewsPage, error) {
	nq.Page = max(nq.Page, 1)
	if nq.PageSize <= 0 {
		nq.PageSize = DefaultNewsPageSize
	}
	q := url.Values{}
	if nq.Query != "" {
		q.Set("q", nq.Query)
	}
	if nq.Source != "" {
		q.Set("sources", nq.Source)
	}
	q.Set("page", strconv.Itoa(nq.Page))
	q.Set("pageSize", strconv.Itoa(nq.PageSize))

	var out domain.NewsPage
	if err := c.getJSON(ctx, c.endpoint(q, "news"), false, &out); err != nil {
		return nil, fmt.Errorf("fetching news: %w", err)
	}
	return &out, nil
}

// NewsSources lists the outlets the news proxy can filter by.
func (c *Client) NewsSources(ctx context.Context) ([]domain.NewsSource, error) {
	var out struct {
		Sources []domain.NewsSource `json:"sources"`
	}
	if err := c.getJSON(ctx, c.endpoint(nil, "news", "sources"), false, &out); err != nil {
		return nil, fmt.Errorf("fetching news sources: %w", err)
	}
	return out.Sources, nil
}

// Subscribe adds an address to the newsletter.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	_, err := c.sendJSON(ctx, http.MethodPost, c.endpoint(nil, "newsletter", "subscribe"), false,
		map[string]string{"email": email}, nil)
	return err
}

// SendNewsletter broadcasts to all subscribers. Admin only.
func (c *Client) SendNewsletter(ctx context.Context, n domain.Newsletter) error {
	_, err := c.sendJSON(ctx, http.MethodPost, c.endpoint(nil, "newsletter", "send"), true, n, nil)
	if err != nil {
		return fmt.Errorf("sending newsletter: %w", err)
	}
	return nil
}
