package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zatekoja/hms-frontdesk/internal/adapters/backend"
	"github.com/zatekoja/hms-frontdesk/internal/adapters/cache"
	"github.com/zatekoja/hms-frontdesk/internal/adapters/session"
	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/application/workspace"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
	"github.com/zatekoja/hms-frontdesk/internal/query"
	"github.com/zatekoja/hms-frontdesk/pkg/config"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
	"github.com/zatekoja/hms-frontdesk/pkg/secrets"
)

const cliSessionID = "hmsctl"

func main() {
	rootCmd := &cobra.Command{
		Use:           "hmsctl",
		Short:         "Hospital front desk from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("backend", "", "Backend base URL (default $BACKEND_URL)")
	rootCmd.PersistentFlags().String("session-file", "", "Session file (default $HMSCTL_SESSION_FILE)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log at debug level")

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(patientsCmd())
	rootCmd.AddCommand(queueCmd())
	rootCmd.AddCommand(appointmentsCmd())
	rootCmd.AddCommand(paymentsCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(verifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// open restores the workspace persisted in the session file
func open(cmd *cobra.Command) (*workspace.Workspace, error) {
	_ = godotenv.Load()
	if _, err := secrets.Apply(cmd.Context(), secrets.ConfigFromEnv()); err != nil {
		return nil, fmt.Errorf("failed to load secrets from Vault: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := zerolog.WarnLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	observability.InitLogger("hmsctl", "development")
	log.Logger = log.Logger.Level(level)

	baseURL := cfg.Backend.BaseURL
	if flag, _ := cmd.Flags().GetString("backend"); flag != "" {
		baseURL = flag
	}
	sessionFile := cfg.Session.CLIFile
	if flag, _ := cmd.Flags().GetString("session-file"); flag != "" {
		sessionFile = flag
	}

	policy := query.DefaultPolicy()
	policy.Retries = cfg.Cache.QueryRetries
	storage := session.NewFileStorage(sessionFile)

	ws := workspace.New(cliSessionID, workspace.Options{
		Cache:        cache.NewMemoryAdapter(),
		Storage:      func(string) providers.SessionStorage { return storage },
		Repositories: backend.NewRepositoryFactory(hmsapi.NewClient(baseURL, cfg.Backend.Timeout())),
		Policy:       policy,
		Flags:        services.NewFeatureFlags(config.FeatureConfig{}),
	})
	if err := ws.Init(cmd.Context()); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	return ws, nil
}

// openAuthed is open for commands that need a signed-in user
func openAuthed(cmd *cobra.Command) (*workspace.Workspace, error) {
	ws, err := open(cmd)
	if err != nil {
		return nil, err
	}
	if !ws.Session.Snapshot().IsAuthenticated {
		return nil, apperrors.NewUnauthorizedError("not signed in, run hmsctl login")
	}
	return ws, nil
}

// printJSON writes v to stdout and the session's notifications to stderr
func printJSON(ws *workspace.Workspace, v interface{}) error {
	for _, n := range ws.Notifications.Drain() {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Message)
	}
	if v == nil {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
