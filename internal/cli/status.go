package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/azent/internal/auth"
	"github.com/soyeahso/azent/internal/config"
	"github.com/soyeahso/azent/internal/version"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show azent status and configuration summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.Info())
			fmt.Fprintln(out)

			fmt.Fprintf(out, "Config:  %s\n", paths.Config)
			fmt.Fprintf(out, "Data:    %s\n", paths.Data)
			fmt.Fprintf(out, "Logs:    %s\n", paths.Logs)
			if cfgErr != nil {
				warnColor.Fprintf(out, "Config:  error loading: %v (using defaults)\n", cfgErr)
			}
			fmt.Fprintln(out)

			fmt.Fprintf(out, "API:     %s (timeout %s)\n", cfg.API.BaseURL, cfg.API.Timeout())

			return withApp(func(a *app) error {
				printLogin(out, a)
				printCache(out, a)

				if events := a.hooks.Events(); len(events) > 0 {
					for _, e := range events {
						fmt.Fprintf(out, "Hooks:   %s (%d)\n", e, a.hooks.Count(e))
					}
				} else {
					fmt.Fprintln(out, "Hooks:   none")
				}

				if issues := config.Validate(&cfg); len(issues) > 0 {
					fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
					for _, issue := range issues {
						fmt.Fprintf(out, "  - %s\n", issue)
					}
				}
				return nil
			})
		},
	}
}

func printLogin(w io.Writer, a *app) {
	token := cfg.API.Token
	who := "token from config"
	if token == "" && a.session != nil {
		token = a.session.Token
		who = a.session.Email
	}
	if token == "" {
		fmt.Fprintln(w, "Login:   not logged in")
		return
	}

	claims, err := auth.Inspect(token)
	if err != nil {
		warnColor.Fprintf(w, "Login:   %s (%v)\n", who, err)
		return
	}
	line := who
	if claims.IsAdmin() {
		line += " [admin]"
	}
	switch {
	case claims.Expired(time.Now()):
		warnColor.Fprintf(w, "Login:   %s, expired %s\n", line, claims.ExpiresAt.Local().Format(time.DateTime))
	case !claims.ExpiresAt.IsZero():
		fmt.Fprintf(w, "Login:   %s, expires %s\n", line, claims.ExpiresAt.Local().Format(time.DateTime))
	default:
		fmt.Fprintf(w, "Login:   %s\n", line)
	}
}

func printCache(w io.Writer, a *app) {
	if a.agents == nil {
		fmt.Fprintln(w, "Cache:   disabled")
		return
	}
	cached, err := a.agents.Load()
	if err != nil {
		warnColor.Fprintf(w, "Cache:   error: %v\n", err)
		return
	}
	if len(cached.Agents) == 0 {
		fmt.Fprintf(w, "Cache:   empty (%s)\n", paths.CacheDB(cfg.Cache))
		return
	}
	fmt.Fprintf(w, "Cache:   %d agents from %s, fetched %s\n",
		len(cached.Agents), cached.APIBase, cached.FetchedAt.Local().Format(time.DateTime))
}
