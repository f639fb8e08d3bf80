package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/azent/internal/auth"
	"github.com/soyeahso/azent/internal/domain"
)

// passwordEnv is read when --password is not given.
const passwordEnv = "AZENT_PASSWORD"

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Log in, sign up and manage your account",
	}

	cmd.AddCommand(newUserLoginCmd())
	cmd.AddCommand(newUserSignupCmd())
	cmd.AddCommand(newUserLogoutCmd())
	cmd.AddCommand(newUserWhoamiCmd())
	cmd.AddCommand(newUserBookmarksCmd())
	cmd.AddCommand(newUserForgotPasswordCmd())
	cmd.AddCommand(newUserResetPasswordCmd())
	cmd.AddCommand(newUserGoogleURLCmd())
	return cmd
}

// readPassword takes the password from the flag, then the environment,
// then the first line of in.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(passwordEnv); env != "" {
		return env, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}

func newUserLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Long:  "Log in with email and password. The password comes from --password, then $" + passwordEnv + ", then standard input.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				token, err := a.client.Login(cmd.Context(), domain.Credentials{Email: email, Password: pw})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if a.accounts == nil {
					warnColor.Fprintln(out, "local store disabled; set api.token to keep this session:")
					fmt.Fprintln(out, token)
					return nil
				}
				if err := a.accounts.SaveSession(a.client.BaseURL(), domain.Session{Email: email, Token: token}); err != nil {
					return fmt.Errorf("saving session: %w", err)
				}
				goodColor.Fprintf(out, "Logged in as %s.\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserSignupCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				msg, err := a.client.Signup(cmd.Context(), domain.Signup{Name: name, Email: email, Password: pw})
				if err != nil {
					return err
				}
				if msg == "" {
					msg = "Account created."
				}
				goodColor.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if a.accounts == nil || a.session == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
					return nil
				}
				if err := a.accounts.DeleteSession(a.client.BaseURL()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged out %s.\n", a.session.Email)
				return nil
			})
		},
	}
}

func newUserWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if a.session == nil && cfg.API.Token == "" {
					return errors.New("not logged in")
				}
				token := cfg.API.Token
				out := cmd.OutOrStdout()
				if a.session != nil {
					token = a.session.Token
					fmt.Fprintf(out, "Email:   %s\n", a.session.Email)
				}
				claims, err := auth.Inspect(token)
				if err != nil {
					return err
				}
				if claims.Subject != "" {
					fmt.Fprintf(out, "User ID: %s\n", claims.Subject)
				}
				if claims.Email != "" && (a.session == nil || claims.Email != a.session.Email) {
					fmt.Fprintf(out, "Token:   %s\n", claims.Email)
				}
				role := claims.Role
				if role == "" {
					role = "user"
				}
				fmt.Fprintf(out, "Role:    %s\n", role)
				if !claims.ExpiresAt.IsZero() {
					exp := claims.ExpiresAt.Local().Format(time.DateTime)
					if claims.Expired(time.Now()) {
						warnColor.Fprintf(out, "Expired: %s\n", exp)
					} else {
						fmt.Fprintf(out, "Expires: %s\n", exp)
					}
				}
				return nil
			})
		},
	}
}

func newUserBookmarksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bookmarks",
		Short: "List agents bookmarked from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if a.accounts == nil {
					return errors.New("bookmarks need the local store (cache.store is \"none\")")
				}
				ids, err := a.accounts.Bookmarks(a.client.BaseURL())
				if err != nil {
					return err
				}
				agents := make([]domain.Agent, 0, len(ids))
				for _, id := range ids {
					ag, err := a.agents.Get(id)
					if err != nil {
						return err
					}
					if ag == nil {
						ag = &domain.Agent{ID: id, Name: "(not cached)"}
					}
					agents = append(agents, *ag)
				}
				printAgents(cmd.OutOrStdout(), agents)
				return nil
			})
		},
	}
}

func newUserForgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Email a password reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if err := a.client.ForgotPassword(cmd.Context(), args[0]); err != nil {
					return err
				}
				goodColor.Fprintf(cmd.OutOrStdout(), "Reset link sent to %s.\n", args[0])
				return nil
			})
		},
	}
}

func newUserResetPasswordCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset-password <reset-token>",
		Short: "Set a new password using a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				if err := a.client.ResetPassword(cmd.Context(), args[0], pw); err != nil {
					return err
				}
				goodColor.Fprintln(cmd.OutOrStdout(), "Password updated. Log in with the new password.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}

func newUserGoogleURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "google-url",
		Short: "Print the Google sign-in URL to open in a browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				fmt.Fprintln(cmd.OutOrStdout(), a.client.GoogleAuthURL())
				return nil
			})
		},
	}
}
