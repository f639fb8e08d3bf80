package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soyeahso/azent/internal/catalog"
	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/market"
	"github.com/soyeahso/azent/internal/snapshot"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent"},
		Short:   "Browse and act on agent listings",
	}

	cmd.AddCommand(newAgentsListCmd())
	cmd.AddCommand(newAgentsTopCmd())
	cmd.AddCommand(newAgentsCategoriesCmd())
	cmd.AddCommand(newAgentsShowCmd())
	cmd.AddCommand(newAgentsSearchCmd())
	cmd.AddCommand(newAgentsLikeCmd())
	cmd.AddCommand(newAgentsBookmarkCmd())
	cmd.AddCommand(newAgentsSubmitCmd())
	cmd.AddCommand(newAgentsWatchCmd())
	return cmd
}

type facetFlags struct {
	category string
	industry string
	pricing  string
	access   string
}

func (f *facetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "only agents in this category")
	cmd.Flags().StringVar(&f.industry, "industry", "", "only agents for this industry")
	cmd.Flags().StringVar(&f.pricing, "pricing", "", "only agents with this pricing model")
	cmd.Flags().StringVar(&f.access, "access", "", "only agents with this access model")
}

// apply selects each non-empty facet flag on state.
func (f *facetFlags) apply(state catalog.ViewState) catalog.ViewState {
	values := map[domain.Facet]string{
		domain.FacetCategory: f.category,
		domain.FacetIndustry: f.industry,
		domain.FacetPricing:  f.pricing,
		domain.FacetAccess:   f.access,
	}
	for _, facet := range domain.Facets {
		if sel := domain.SelectionFrom(values[facet]); !sel.IsAny() {
			state = state.WithFacet(facet, sel)
		}
	}
	return state
}

// warnUnknownFacets prints suggestions for selected values no agent or menu
// entry has.
func warnUnknownFacets(w io.Writer, fs domain.FilterState, agents []domain.Agent) {
	for _, f := range domain.Facets {
		v, ok := fs.Selection(f).Get()
		if !ok || slices.Contains(catalog.FacetValues(f, agents), v) {
			continue
		}
		msg := fmt.Sprintf("unknown %s %q", strings.ToLower(f.Label()), v)
		if s := catalog.Suggest(f, v, agents); len(s) > 0 {
			msg += "; did you mean " + strings.Join(s, ", ") + "?"
		}
		warnColor.Fprintln(w, msg)
	}
}

func newAgentsListCmd() *cobra.Command {
	var (
		facets  facetFlags
		page    int
		offline bool
		grouped bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agents, filtered and paginated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				state := catalog.NewViewState()
				state.PageSize = cfg.Browse.PageSize
				state.TopN = cfg.Browse.TopN
				state = facets.apply(state).WithPage(page)

				view, snap, err := a.svc.View(cmd.Context(), state, offline)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				warnUnknownFacets(out, state.Filter, snap.Agents)
				printView(out, view, snap, grouped)
				return nil
			})
		},
	}
	facets.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	cmd.Flags().BoolVar(&offline, "offline", false, "use the local cache instead of the API")
	cmd.Flags().BoolVar(&grouped, "grouped", false, "group matching agents by category instead of paging")
	return cmd
}

func newAgentsTopCmd() *cobra.Command {
	var (
		n       int
		offline bool
	)
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the most liked agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if !cmd.Flags().Changed("limit") {
					n = cfg.Browse.TopN
				}
				snap, err := a.svc.Load(cmd.Context(), offline)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printSource(out, snap)
				for i, ag := range catalog.TopByLikes(snap.Agents, n) {
					fmt.Fprintf(out, "%3d.", i+1)
					printAgentLine(out, ag)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", catalog.DefaultTopN, "number of agents to show")
	cmd.Flags().BoolVar(&offline, "offline", false, "use the local cache instead of the API")
	return cmd
}

func newAgentsCategoriesCmd() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories with agent counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				snap, err := a.svc.Load(cmd.Context(), offline)
				if err != nil {
					return err
				}
				counts := map[string]int{}
				for _, g := range catalog.GroupByCategory(snap.Agents) {
					counts[g.Category] = len(g.Agents)
				}
				out := cmd.OutOrStdout()
				printSource(out, snap)
				for _, c := range catalog.Categories(snap.Agents) {
					fmt.Fprintf(out, "  %-28s %d\n", c, counts[c])
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "use the local cache instead of the API")
	return cmd
}

func newAgentsShowCmd() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an agent and similar agents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				res, src, err := a.svc.Show(cmd.Context(), args[0], offline)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if src == snapshot.SourceCache {
					warnColor.Fprintln(out, "offline: showing cached agent")
				}
				printAgentDetail(out, res.Agent, cfg.Browse.PlaceholderLogo)
				if a.svc.HasLiked(res.Agent.ID) {
					fmt.Fprintln(out)
					likeColor.Fprintln(out, "♥ you liked this agent")
				}
				if len(res.BestMatches) > 0 {
					fmt.Fprintln(out)
					titleColor.Fprintln(out, "Similar agents")
					printAgents(out, res.BestMatches)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "use the local cache instead of the API")
	return cmd
}

func newAgentsSearchCmd() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search agents by name, description and tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				agents, src, err := a.svc.Search(cmd.Context(), strings.Join(args, " "), offline)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if src == snapshot.SourceCache {
					warnColor.Fprintln(out, "offline: searching cached agents")
				}
				printAgents(out, agents)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "search the local cache instead of the API")
	return cmd
}

func newAgentsLikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Like an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				likes, err := a.svc.Like(cmd.Context(), args[0])
				out := cmd.OutOrStdout()
				switch {
				case errors.Is(err, market.ErrAlreadyLiked):
					warnColor.Fprintln(out, "You have already liked this agent.")
					return nil
				case errors.Is(err, market.ErrNotLoggedIn):
					return errors.New("you need to log in to like agents (azent user login)")
				case err != nil:
					return err
				}
				if likes > 0 {
					goodColor.Fprintf(out, "Agent liked (%d likes).\n", likes)
				} else {
					goodColor.Fprintln(out, "Agent liked.")
				}
				return nil
			})
		},
	}
}

func newAgentsBookmarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "bookmark <id>",
		Aliases: []string{"wishlist"},
		Short:   "Add an agent to your wishlist, or remove it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				res, err := a.svc.ToggleBookmark(cmd.Context(), args[0])
				if errors.Is(err, market.ErrNotLoggedIn) {
					return errors.New("you need to log in to bookmark agents (azent user login)")
				}
				if err != nil {
					return err
				}
				verb := "removed from"
				if res.Added {
					verb = "added to"
				}
				goodColor.Fprintf(cmd.OutOrStdout(), "Agent %s wishlist (saved by %d).\n", verb, res.SavedByCount)
				return nil
			})
		},
	}
}

func newAgentsSubmitCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new agent listing for review",
		Long: "Submit a new agent listing described in a YAML file. Keys follow the listing\n" +
			"form: name, createdBy, websiteUrl, contactEmail, accessModel, pricingModel,\n" +
			"category, industry, tagline, description, keyFeatures, useCases, tags, logo, ...",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := readSubmission(file)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				created, err := a.svc.Submit(cmd.Context(), sub)
				if err != nil {
					return err
				}
				goodColor.Fprintf(cmd.OutOrStdout(), "Submitted %s (id %s), pending review.\n", created.Name, created.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file describing the listing")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readSubmission(path string) (domain.Submission, error) {
	var sub domain.Submission
	data, err := os.ReadFile(path)
	if err != nil {
		return sub, fmt.Errorf("reading submission: %w", err)
	}
	if err := yaml.Unmarshal(data, &sub); err != nil {
		return sub, fmt.Errorf("parsing submission: %w", err)
	}
	if err := sub.Validate(); err != nil {
		return sub, fmt.Errorf("invalid submission: %w", err)
	}
	return sub, nil
}

func newAgentsWatchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh the agent cache periodically and report changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				interval = time.Duration(cfg.Browse.WatchSeconds) * time.Second
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return withApp(func(a *app) error {
				out := cmd.OutOrStdout()
				prev := -1
				return a.svc.Watch(ctx, interval, func(snap snapshot.Snapshot, err error) {
					stamp := time.Now().Format(time.TimeOnly)
					if err != nil {
						warnColor.Fprintf(out, "%s refresh failed: %v\n", stamp, err)
						return
					}
					if snap.Empty() {
						return
					}
					n := len(snap.Agents)
					switch {
					case prev < 0:
						fmt.Fprintf(out, "%s %d agents\n", stamp, n)
					case n != prev:
						goodColor.Fprintf(out, "%s %d agents (%+d)\n", stamp, n, n-prev)
					}
					prev = n
				})
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "time between refreshes")
	return cmd
}
