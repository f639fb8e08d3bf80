package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/soyeahso/azent/internal/catalog"
	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/richtext"
	"github.com/soyeahso/azent/internal/snapshot"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
	goodColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	likeColor  = color.New(color.FgMagenta)
)

func setColor(disabled bool) {
	if disabled {
		color.NoColor = true
	}
}

func printAgentLine(w io.Writer, a domain.Agent) {
	fmt.Fprintf(w, "  %s  %s  %s  %s\n",
		dimColor.Sprintf("%-24s", a.ID),
		titleColor.Sprintf("%-24s", truncate(a.Name, 24)),
		likeColor.Sprintf("♥ %-4d", a.LikeCount()),
		truncate(a.Summary(), 60))
}

func printAgents(w io.Writer, agents []domain.Agent) {
	if len(agents) == 0 {
		fmt.Fprintln(w, "  (no agents)")
		return
	}
	for _, a := range agents {
		printAgentLine(w, a)
	}
}

func printFilters(w io.Writer, fs domain.FilterState) {
	parts := make([]string, 0, len(domain.Facets))
	for _, f := range domain.Facets {
		sel := fs.Selection(f)
		label := sel.Display(f)
		if !sel.IsAny() {
			label = goodColor.Sprint(label)
		}
		parts = append(parts, label)
	}
	fmt.Fprintf(w, "Filters: %s\n", strings.Join(parts, " | "))
}

func printView(w io.Writer, v catalog.View, snap snapshot.Snapshot, grouped bool) {
	printSource(w, snap)
	printFilters(w, v.State.Filter)
	fmt.Fprintln(w)

	if grouped {
		for _, g := range v.Groups {
			titleColor.Fprintf(w, "%s (%d)\n", g.Category, len(g.Agents))
			printAgents(w, g.Agents)
			fmt.Fprintln(w)
		}
		return
	}

	printAgents(w, v.Items)
	fmt.Fprintln(w)
	if v.TotalPages == 0 {
		fmt.Fprintln(w, "No agents match these filters.")
		return
	}
	fmt.Fprintf(w, "Page %d of %d (%d matching agents)\n", v.State.Page, v.TotalPages, v.Matched)
}

func printSource(w io.Writer, snap snapshot.Snapshot) {
	if snap.Source == snapshot.SourceCache {
		msg := "offline: showing cached agents"
		if !snap.FetchedAt.IsZero() {
			msg += " from " + snap.FetchedAt.Local().Format(time.DateTime)
		}
		warnColor.Fprintln(w, msg)
	}
}

func printAgentDetail(w io.Writer, a domain.Agent, placeholder string) {
	titleColor.Fprintln(w, a.Name)
	if a.Tagline != "" {
		fmt.Fprintln(w, a.Tagline)
	}
	fmt.Fprintln(w)

	rows := [][2]string{
		{"ID", a.ID},
		{"Category", a.CategoryKey()},
		{"Industry", a.Industry},
		{"Pricing", a.PricingModel},
		{"Price", a.Price},
		{"Access", a.AccessModel},
		{"Likes", fmt.Sprint(a.LikeCount())},
		{"Saved by", fmt.Sprint(a.SaveCount())},
		{"Website", a.WebsiteURL},
		{"Logo", a.LogoOr(placeholder)},
		{"Created by", a.CreatedBy},
		{"Status", string(a.Status)},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", dimColor.Sprintf("%-11s", r[0]+":"), r[1])
	}
	if len(a.Tags) > 0 {
		fmt.Fprintf(w, "%s %s\n", dimColor.Sprintf("%-11s", "Tags:"), strings.Join(a.Tags, ", "))
	}

	if desc := richtext.PlainText(a.Description); desc != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, desc)
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, a.Summary())
	}
	printList(w, "Key features", a.KeyFeatures)
	printList(w, "Use cases", a.UseCases)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	titleColor.Fprintln(w, title)
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

func printQueue(w io.Writer, st domain.Status, agents []domain.Agent) {
	titleColor.Fprintf(w, "%s (%d)\n", st, len(agents))
	for _, a := range agents {
		line := fmt.Sprintf("  %s  %s", dimColor.Sprintf("%-24s", a.ID), truncate(a.Name, 32))
		if a.Instructions != "" {
			line += "  " + warnColor.Sprint(truncate(a.Instructions, 40))
		}
		fmt.Fprintln(w, line)
	}
}

func printBlogLine(w io.Writer, p domain.BlogPost) {
	meta := p.Category
	if !p.CreatedAt.IsZero() {
		if meta != "" {
			meta += ", "
		}
		meta += p.CreatedAt.Format(time.DateOnly)
	}
	fmt.Fprintf(w, "  %s  %s  %s\n",
		dimColor.Sprintf("%-24s", p.ID),
		titleColor.Sprint(truncate(p.Title, 48)),
		dimColor.Sprint(meta))
	if ex := richtext.Excerpt(p.Content, 100); ex != "" {
		fmt.Fprintf(w, "      %s\n", ex)
	}
}

func printBlogPost(w io.Writer, p domain.BlogPost) {
	titleColor.Fprintln(w, p.Title)
	if len(p.Tags) > 0 || p.Category != "" {
		dimColor.Fprintf(w, "%s  %s\n", p.Category, strings.Join(p.Tags, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, richtext.PlainText(p.Content))
	for _, s := range p.Sections {
		fmt.Fprintln(w)
		titleColor.Fprintln(w, s.Title)
		fmt.Fprintln(w, richtext.PlainText(s.Content))
	}
}

func printArticle(w io.Writer, a domain.NewsArticle) {
	fmt.Fprintf(w, "  %s\n", titleColor.Sprint(a.Title))
	meta := a.Source.Name
	if !a.PublishedAt.IsZero() {
		meta += " " + a.PublishedAt.Format(time.DateOnly)
	}
	fmt.Fprintf(w, "    %s %s\n", dimColor.Sprint(strings.TrimSpace(meta)), a.URL)
	if a.Description != "" {
		fmt.Fprintf(w, "    %s\n", truncate(richtext.PlainText(a.Description), 120))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
