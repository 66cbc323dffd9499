package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrap-app/cli/internal/auth"
	"github.com/scrap-app/cli/internal/payload"
	"github.com/scrap-app/cli/internal/prompt"
	"github.com/scrap-app/cli/internal/render"
)

var (
	authEmail    string
	authPassword string
	authName     string
	authPayload  string
	verifyOutput string
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage scrap authentication",
	Long: `Manage the credential used for the scrap API.

Examples:
  # Interactive login
  scrap auth login

  # Non-interactive login
  scrap auth login --email you@example.com --password secret

  # Create an account from a JSON document
  scrap auth register --payload account.json

  # Check auth status
  scrap auth status

  # Remove the stored credential
  scrap auth logout`,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Long: `Create a scrap account, store the issued credential and verify it.

The registration document is either read from --payload or built from
--name, --email and --password. It is validated before anything is sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthRegister(cmd)
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with scrap",
	Long: `Log in to the scrap API. Interactive by default when run in a terminal.

Non-interactive flags:
  --email EMAIL        Account email
  --password PASSWORD  Account password`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthLogin(cmd)
	},
}

var authVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the stored credential is valid",
	Long: `Call the authenticated /me endpoint with the stored credential and print
the response. Nothing is sent when no credential is stored.

Examples:
  scrap auth verify
  scrap auth verify -o raw`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthVerify(cmd)
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current authentication state",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}

		detail := "Run 'scrap auth login' to authenticate"
		if cred, ok := s.tokens.Current(); ok && s.client.Authenticated() {
			detail = fmt.Sprintf("Token: %s (keyring service %s)", auth.Mask(cred.Value), s.cfg.KeyringService)
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Status(s.client.Authenticated(), detail))
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		s.client.ClearCredential()
		if s.client.Authenticated() {
			return fmt.Errorf("failed to remove credential from keyring service %s", s.cfg.KeyringService)
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Success("Credential removed successfully"))
		return nil
	},
}

func runAuthLogin(cmd *cobra.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	candidate := auth.LoginCandidate{Email: authEmail, Password: authPassword}
	if candidate.Email == "" || candidate.Password == "" {
		if !isTerminal(os.Stdin) {
			return fmt.Errorf("--email and --password are required in non-interactive mode")
		}
		candidate, err = prompt.Login(cmd.Context(), os.Stdin, cmd.OutOrStdout(), authEmail)
		if err != nil {
			return interactiveError(err)
		}
	}

	if _, err := s.client.Login(cmd.Context(), candidate); err != nil {
		return s.fail("login failed", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.Success("Logged in as "+candidate.Email))
	return nil
}

func runAuthRegister(cmd *cobra.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	doc, err := registrationDocument(cmd)
	if err != nil {
		return err
	}

	body, err := s.client.Register(cmd.Context(), doc)
	if err != nil {
		return s.fail("registration failed", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, render.Success("Account created"))
	return render.Body(out, body, verifyOutput, colorEnabled())
}

// registrationDocument resolves the validated registration payload from
// --payload, flags or the interactive form, in that order.
func registrationDocument(cmd *cobra.Command) (json.RawMessage, error) {
	if authPayload != "" {
		return payload.FromFile(authPayload)
	}

	reg := payload.Registration{Name: authName, Email: authEmail, Password: authPassword}
	if reg.Email == "" || reg.Password == "" {
		if !isTerminal(os.Stdin) {
			return nil, fmt.Errorf("--payload or --email and --password are required in non-interactive mode")
		}
		var err error
		reg, err = prompt.Registration(cmd.Context(), os.Stdin, cmd.OutOrStdout(), authName, authEmail)
		if err != nil {
			return nil, interactiveError(err)
		}
	}
	return payload.FromRegistration(reg)
}

func runAuthVerify(cmd *cobra.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	body, err := s.client.Verify(cmd.Context())
	if err != nil {
		return s.fail("verification failed", err)
	}
	return render.Body(cmd.OutOrStdout(), body, verifyOutput, colorEnabled())
}

func interactiveError(err error) error {
	if errors.Is(err, prompt.ErrAborted) {
		return fmt.Errorf("cancelled")
	}
	return fmt.Errorf("interactive prompt failed: %w", err)
}

func colorEnabled() bool {
	return !noColor && isTerminal(os.Stdout)
}

func init() {
	authLoginCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	authLoginCmd.Flags().StringVar(&authPassword, "password", "", "Account password")

	authRegisterCmd.Flags().StringVar(&authName, "name", "", "Display name")
	authRegisterCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	authRegisterCmd.Flags().StringVar(&authPassword, "password", "", "Account password")
	authRegisterCmd.Flags().StringVar(&authPayload, "payload", "", "Path to a JSON registration document")
	authRegisterCmd.Flags().StringVarP(&verifyOutput, "output", "o", "pretty", "Output format: json, pretty, raw")

	authVerifyCmd.Flags().StringVarP(&verifyOutput, "output", "o", "pretty", "Output format: json, pretty, raw")

	authCmd.AddCommand(authRegisterCmd, authLoginCmd, authVerifyCmd, authStatusCmd, authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}
