package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/hooks"
	"github.com/soyeahso/azent/internal/market"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Review submitted agents (admin accounts only)",
	}

	cmd.AddCommand(newAdminQueueCmd())
	cmd.AddCommand(newAdminSetStatusCmd())
	return cmd
}

func newAdminQueueCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List submissions by review status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				out := cmd.OutOrStdout()
				if status != "" {
					st, err := domain.ParseStatus(status)
					if err != nil {
						return err
					}
					agents, err := a.client.AgentsByStatus(cmd.Context(), st)
					if err != nil {
						return adminError(err)
					}
					printQueue(out, st, agents)
					return nil
				}

				queues, err := a.client.ReviewQueues(cmd.Context())
				if err != nil {
					return adminError(err)
				}
				for i, st := range domain.Statuses {
					if i > 0 {
						fmt.Fprintln(out)
					}
					printQueue(out, st, queues[st])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only this queue (requested, accepted, rejected, onHold)")
	return cmd
}

func newAdminSetStatusCmd() *cobra.Command {
	var instructions string
	cmd := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Move a submission to another review status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				change := domain.StatusChange{Status: st, Instructions: instructions}
				if err := a.client.SetAgentStatus(cmd.Context(), args[0], change); err != nil {
					return adminError(err)
				}
				a.hooks.EmitAsync(cmd.Context(), hooks.EventAgentStatusChanged, map[string]any{
					"agentId":      args[0],
					"status":       string(st),
					"instructions": instructions,
				})
				goodColor.Fprintf(cmd.OutOrStdout(), "Agent %s is now %s.\n", args[0], st)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&instructions, "instructions", "", "notes for the submitter (required for onHold)")
	return cmd
}

// adminError rewords authorization failures for admin commands.
func adminError(err error) error {
	switch {
	case errors.Is(err, market.ErrNotLoggedIn):
		return fmt.Errorf("admin commands need a logged-in admin account: %w", err)
	case errors.Is(err, market.ErrUnauthorized):
		return fmt.Errorf("this account is not an admin: %w", err)
	}
	return err
}
