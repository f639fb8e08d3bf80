package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/richtext"
)

// DefaultBlogPageSize is how many posts each "load more" step reveals.
const DefaultBlogPageSize = 6

// SearchBlogs returns the posts whose title, any tag, or plain-text content
// contains term (Unicode case-folded), restricted to category when it is
// non-empty. An empty term matches every post.
func SearchBlogs(posts []domain.BlogPost, term, category string) []domain.BlogPost {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))
	out := make([]domain.BlogPost, 0, len(posts))
	for _, p := range posts {
		if category != "" && p.Category != category {
			continue
		}
		if needle == "" || blogContains(fold, p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func blogContains(fold cases.Caser, p domain.BlogPost, needle string) bool {
	if strings.Contains(fold.String(p.Title), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(fold.String(tag), needle) {
			return true
		}
	}
	return strings.Contains(fold.String(richtext.PlainText(p.Content)), needle)
}

// BlogCategories lists the distinct non-empty categories in first-seen order.
func BlogCategories(posts []domain.BlogPost) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range posts {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// LoadMore returns the first loads*pageSize posts, the way a "load more"
// list grows. It reports whether more posts remain.
func LoadMore(posts []domain.BlogPost, pageSize, loads int) ([]domain.BlogPost, bool) {
	if pageSize <= 0 {
		pageSize = DefaultBlogPageSize
	}
	if loads < 1 {
		loads = 1
	}
	n := min(pageSize*loads, len(posts))
	return posts[:n:n], n < len(posts)
}
