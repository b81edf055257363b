package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophtodo/internal/client/auth"
	"github.com/iudanet/gophtodo/internal/client/storage"
	pkgapi "github.com/iudanet/gophtodo/pkg/api"
)

type registerFlags struct {
	email       string
	name        string
	profileLink string
}

func (c *Cli) newRegisterCmd() *cobra.Command {
	flags := &registerFlags{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runRegister(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.email, "email", "", "account email (prompted if empty)")
	cmd.Flags().StringVar(&flags.name, "name", "", "display name")
	cmd.Flags().StringVar(&flags.profileLink, "profile-link", "", "avatar URL")

	return cmd
}

func (c *Cli) runRegister(ctx context.Context, flags *registerFlags) error {
	c.io.Println("=== Registration ===")

	email, err := c.promptIfEmpty(flags.email, "Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	// Подтверждение пароля
	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	profile, err := c.authService.Register(ctx, pkgapi.RegisterRequest{
		Email:       email,
		Name:        flags.name,
		Password:    password,
		ProfileLink: flags.profileLink,
	})
	if err != nil {
		return err
	}

	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", profile.ID)
	c.io.Printf("Email: %s\n", profile.Email)
	c.io.Println("Please run 'gophtodo login' to start using the service.")

	return nil
}

func (c *Cli) newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c.io.Println("=== Login ===")

			email, err := c.promptIfEmpty(email, "Email: ")
			if err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}

			password, err := c.io.ReadPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			session, err := c.authService.Login(ctx, email, password)
			if err != nil {
				return err
			}

			c.printLoggedIn(session)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (prompted if empty)")

	return cmd
}

func (c *Cli) newLoginGoogleCmd() *cobra.Command {
	var idToken string

	cmd := &cobra.Command{
		Use:   "login-google",
		Short: "Log in with a Google ID token",
		Long: `Exchange a Google ID token (for example from a browser sign-in)
for a GophTodo session. The account is created on first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			token, err := c.promptIfEmpty(idToken, "Google ID token: ")
			if err != nil {
				return fmt.Errorf("failed to read id token: %w", err)
			}

			session, err := c.authService.LoginGoogle(ctx, token)
			if err != nil {
				return err
			}

			c.printLoggedIn(session)
			return nil
		},
	}

	cmd.Flags().StringVar(&idToken, "id-token", "", "Google ID token (prompted if empty)")

	return cmd
}

func (c *Cli) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := c.authService.Logout(cmd.Context())
			if errors.Is(err, auth.ErrNotLoggedIn) {
				c.io.Println("Not logged in.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			c.io.Println("✓ Logout successful!")
			c.io.Println("Your local session has been deleted.")
			return nil
		},
	}
}

func (c *Cli) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show local authentication status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := c.authService.Session(cmd.Context())
			if errors.Is(err, auth.ErrNotLoggedIn) {
				c.io.Println("Status: Not authenticated")
				c.io.Println("Run 'gophtodo login' to authenticate.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to check authentication: %w", err)
			}

			expiresAt := time.Unix(session.ExpiresAt, 0)

			c.io.Println("Status: Authenticated")
			c.io.Printf("Server: %s\n", session.ServerURL)
			c.io.Printf("Email: %s\n", session.Email)
			c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))

			if remaining := time.Until(expiresAt); remaining > 0 {
				c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
			} else {
				c.io.Println("⚠️  Token has expired. Please login again.")
			}
			return nil
		},
	}
}

func (c *Cli) newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the profile stored on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			token, err := c.token(ctx)
			if err != nil {
				return err
			}

			profile, err := c.apiClient.Profile(ctx, token)
			if err != nil {
				return c.serverError(ctx, err)
			}

			c.io.Printf("ID: %s\n", profile.ID)
			c.io.Printf("Email: %s\n", profile.Email)
			if profile.Name != "" {
				c.io.Printf("Name: %s\n", profile.Name)
			}
			if profile.ProfileLink != "" {
				c.io.Printf("Avatar: %s\n", profile.ProfileLink)
			}
			c.io.Printf("Created: %s\n", profile.CreatedAt.Format(time.RFC3339))
			if profile.LastLogin != nil {
				c.io.Printf("Last login: %s\n", profile.LastLogin.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func (c *Cli) printLoggedIn(session *storage.Session) {
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", session.Email)
	if session.Name != "" {
		c.io.Printf("Name: %s\n", session.Name)
	}
	c.io.Printf("Token expires: %s\n", time.Unix(session.ExpiresAt, 0).Format(time.RFC3339))
}

func (c *Cli) promptIfEmpty(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	return c.io.ReadInput(prompt)
}
