package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/azent/internal/market"
)

func newNewsCmd() *cobra.Command {
	var (
		query  string
		source string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Read AI news headlines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				nq := market.NewsQuery{
					Query:    query,
					Source:   source,
					Page:     page,
					PageSize: cfg.Browse.NewsPageSize,
				}
				res, err := a.client.News(cmd.Context(), nq)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(res.Articles) == 0 {
					fmt.Fprintln(out, "No articles found.")
					return nil
				}
				for _, art := range res.Articles {
					printArticle(out, art)
				}
				size := max(nq.PageSize, 1)
				pages := (res.TotalResults + size - 1) / size
				dimColor.Fprintf(out, "\nPage %d of %d (%d results)\n", max(page, 1), pages, res.TotalResults)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search terms")
	cmd.Flags().StringVar(&source, "source", "", "only this source id (see 'news sources')")
	cmd.Flags().IntVar(&page, "page", 1, "page number")

	cmd.AddCommand(&cobra.Command{
		Use:   "sources",
		Short: "List news sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				sources, err := a.client.NewsSources(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range sources {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", dimColor.Sprintf("%-28s", s.ID), s.Name)
				}
				return nil
			})
		},
	})
	return cmd
}
