package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/hooks"
	"github.com/soyeahso/azent/internal/market"
	"github.com/soyeahso/azent/internal/richtext"
)

func newNewsletterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsletter",
		Short: "Subscribe to or send the marketplace newsletter",
	}

	cmd.AddCommand(newNewsletterSubscribeCmd())
	cmd.AddCommand(newNewsletterSendCmd())
	return cmd
}

func newNewsletterSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <email>",
		Short: "Subscribe an address to the newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if err := a.client.Subscribe(cmd.Context(), args[0]); err != nil {
					return err
				}
				goodColor.Fprintf(cmd.OutOrStdout(), "Subscribed %s.\n", args[0])
				return nil
			})
		},
	}
}

func newNewsletterSendCmd() *cobra.Command {
	var subject, text, markdown string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a newsletter to all subscribers (admin only)",
		Long: "Send a newsletter. The HTML body is rendered from --markdown when given,\n" +
			"otherwise the configured newsletter.defaultHtml is used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := composeNewsletter(subject, text, markdown)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				if err := a.client.SendNewsletter(cmd.Context(), n); err != nil {
					if errors.Is(err, market.ErrNotLoggedIn) {
						return errors.New("sending a newsletter needs a logged-in admin account")
					}
					return err
				}
				a.hooks.EmitAsync(cmd.Context(), hooks.EventNewsletterSent, map[string]any{
					"subject": n.Subject,
				})
				goodColor.Fprintf(cmd.OutOrStdout(), "Newsletter %q sent.\n", n.Subject)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "email subject")
	cmd.Flags().StringVar(&text, "text", "", "plain-text body")
	cmd.Flags().StringVar(&markdown, "markdown", "", "Markdown file rendered as the HTML body")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

// composeNewsletter builds the message. Without --text the plain body is
// derived from the HTML.
func composeNewsletter(subject, text, markdownPath string) (domain.Newsletter, error) {
	n := domain.Newsletter{Subject: subject, Text: text, HTML: cfg.Newsletter.DefaultHTML}
	if markdownPath != "" {
		src, err := os.ReadFile(markdownPath)
		if err != nil {
			return n, fmt.Errorf("reading newsletter: %w", err)
		}
		if n.HTML, err = richtext.ToHTML(string(src)); err != nil {
			return n, err
		}
	}
	if n.Text == "" {
		n.Text = richtext.PlainText(n.HTML)
	}
	if n.Text == "" && n.HTML == "" {
		return n, errors.New("newsletter has no body; pass --text or --markdown")
	}
	return n, nil
}
