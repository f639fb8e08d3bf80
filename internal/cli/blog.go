package cli

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soyeahso/azent/internal/catalog"
	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/hooks"
	"github.com/soyeahso/azent/internal/richtext"
)

func newBlogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Read and publish marketplace blog posts",
	}

	cmd.AddCommand(newBlogListCmd())
	cmd.AddCommand(newBlogCategoriesCmd())
	cmd.AddCommand(newBlogShowCmd())
	cmd.AddCommand(newBlogCreateCmd())
	cmd.AddCommand(newBlogUploadImageCmd())
	return cmd
}

func newBlogListCmd() *cobra.Command {
	var (
		search   string
		category string
		page     int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blog posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				posts, err := a.client.ListBlogs(cmd.Context())
				if err != nil {
					return err
				}
				matched := catalog.SearchBlogs(posts, search, category)
				shown, more := catalog.LoadMore(matched, cfg.Browse.BlogPageSize, page)

				out := cmd.OutOrStdout()
				if len(shown) == 0 {
					fmt.Fprintln(out, "No posts found.")
					return nil
				}
				for _, p := range shown {
					printBlogLine(out, p)
				}
				if more {
					dimColor.Fprintf(out, "\n%d of %d posts; use --page %d for more\n", len(shown), len(matched), page+1)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match title, tags or content")
	cmd.Flags().StringVar(&category, "category", "", "only posts in this category")
	cmd.Flags().IntVar(&page, "page", 1, "number of pages to show")
	return cmd
}

func newBlogCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List blog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				posts, err := a.client.ListBlogs(cmd.Context())
				if err != nil {
					return err
				}
				for _, c := range catalog.BlogCategories(posts) {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", c)
				}
				return nil
			})
		},
	}
}

func newBlogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a blog post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				post, err := a.client.GetBlog(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printBlogPost(cmd.OutOrStdout(), *post)
				return nil
			})
		},
	}
}

func newBlogCreateCmd() *cobra.Command {
	var (
		file     string
		title    string
		category string
		image    string
		tags     []string
		sections bool
		draft    bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a blog post written in Markdown",
		Long: "Publish a Markdown file as a blog post. The title defaults to the first\n" +
			"level-one heading. With --sections, each level-two heading starts a section.\n" +
			"With --draft the rendered post is written to the drafts directory instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading post: %w", err)
			}
			post, err := composePost(string(src), sections)
			if err != nil {
				return err
			}
			if title != "" {
				post.Title = title
			}
			if post.Title == "" {
				return errors.New("post has no title; add a '# Heading' or pass --title")
			}
			post.Category = category
			post.Tags = tags
			post.MainImage = image

			out := cmd.OutOrStdout()
			if draft {
				path, err := saveDraft(post)
				if err != nil {
					return err
				}
				goodColor.Fprintf(out, "Draft written to %s\n", path)
				return nil
			}

			return withApp(func(a *app) error {
				created, err := a.client.CreateBlog(cmd.Context(), post)
				if err != nil {
					return err
				}
				a.hooks.EmitAsync(cmd.Context(), hooks.EventBlogPublished, map[string]any{
					"id":    created.ID,
					"title": created.Title,
				})
				goodColor.Fprintf(out, "Published %q (id %s).\n", created.Title, created.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Markdown file")
	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&category, "category", "", "post category")
	cmd.Flags().StringVar(&image, "image", "", "main image (local file or URL)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma-separated tags")
	cmd.Flags().BoolVar(&sections, "sections", false, "split level-two headings into sections")
	cmd.Flags().BoolVar(&draft, "draft", false, "render to the drafts directory instead of publishing")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// composePost renders Markdown into a post. A leading level-one heading
// becomes the title.
func composePost(src string, split bool) (domain.BlogPost, error) {
	var post domain.BlogPost
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if t, ok := strings.CutPrefix(l, "# "); ok {
			post.Title = strings.TrimSpace(t)
			lines = lines[i+1:]
		}
		break
	}

	body := strings.Join(lines, "\n")
	var parts []mdSection
	if split {
		body, parts = splitSections(lines)
	}

	content, err := richtext.ToHTML(body)
	if err != nil {
		return post, err
	}
	post.Content = content
	for _, p := range parts {
		h, err := richtext.ToHTML(p.body)
		if err != nil {
			return post, err
		}
		post.Sections = append(post.Sections, domain.BlogSection{Title: p.title, Content: h})
	}
	return post, nil
}

type mdSection struct {
	title string
	body  string
}

// splitSections cuts lines at level-two headings. Text before the first
// heading is returned as the intro.
func splitSections(lines []string) (string, []mdSection) {
	var (
		intro []string
		parts []mdSection
		cur   []string
	)
	flush := func() {
		if len(parts) > 0 {
			parts[len(parts)-1].body = strings.Join(cur, "\n")
		} else {
			intro = cur
		}
		cur = nil
	}
	for _, l := range lines {
		if t, ok := strings.CutPrefix(l, "## "); ok {
			flush()
			parts = append(parts, mdSection{title: strings.TrimSpace(t)})
			continue
		}
		cur = append(cur, l)
	}
	flush()
	return strings.Join(intro, "\n"), parts
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func saveDraft(post domain.BlogPost) (string, error) {
	if err := paths.EnsureDirs(); err != nil {
		return "", err
	}
	slug := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(post.Title), "-"), "-")
	if slug == "" {
		slug = "untitled"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n%s", html.EscapeString(post.Title), post.Content)
	for _, s := range post.Sections {
		fmt.Fprintf(&b, "<h2>%s</h2>\n%s", html.EscapeString(s.Title), s.Content)
	}
	path := filepath.Join(paths.Drafts, slug+".html")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", fmt.Errorf("writing draft: %w", err)
	}
	return path, nil
}

func newBlogUploadImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload-image <file>",
		Short: "Upload an image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				u, err := a.client.UploadImage(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), u)
				return nil
			})
		},
	}
}
