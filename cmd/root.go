package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/scrap-app/cli/internal/api"
	"github.com/scrap-app/cli/internal/apierr"
	"github.com/scrap-app/cli/internal/auth"
	"github.com/scrap-app/cli/internal/config"
	"github.com/scrap-app/cli/internal/logging"
	"github.com/scrap-app/cli/internal/render"
)

var (
	// Global flags
	configPath string
	baseURL    string
	logLevel   string
	logFormat  string
	noColor    bool

	version = "dev" // This will be set during build
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scrap",
	Short: "scrap CLI - sign in to the scrap service",
	Long: `scrap is a command-line client for the scrap service. It registers accounts,
logs in, keeps the issued credential in the system keyring and uses it to call
authenticated endpoints.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || !isTerminal(os.Stdout) {
			render.DisableColor()
		}
	},
}

// session bundles what every auth subcommand needs.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	tokens *auth.Tokens
	client *api.Client
}

// newSession resolves configuration and builds a keyring-backed client.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.Init(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	tokens := auth.NewTokens(auth.NewKeyringStore(cfg.KeyringService), logger)

	client, err := api.NewClient(api.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		UserAgent: "scrap-cli/" + version,
		Logger:    logger,
	}, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &session{cfg: cfg, logger: logger, tokens: tokens, client: client}, nil
}

// loadConfig applies command line flags on top of file and environment settings.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// commandError shows the user-safe text of a domain error while keeping the
// error itself reachable through errors.Is and errors.As.
type commandError struct {
	op  string
	err error
}

func (e *commandError) Error() string {
	return fmt.Sprintf("%s: %s", e.op, apierr.UserMessage(e.err))
}

func (e *commandError) Unwrap() error {
	return e.err
}

// fail logs err in full at debug level and returns its user-facing form.
func (s *session) fail(op string, err error) error {
	s.logger.Debug(op, "kind", apierr.KindOf(err), "error", err)
	return &commandError{op: op, err: err}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the command tree and prints a styled error line on failure.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), render.Failure("Error: "+err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.scrap/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the scrap API (default "+api.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Add version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of scrap CLI",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scrap CLI v%s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
}
