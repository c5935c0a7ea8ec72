package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/logger"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rootFlags are the persistent flags every subcommand can read.
type rootFlags struct {
	debug bool
	workspaceFlags
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:          "querydesk",
		Short:        "querydesk: ask a query-processing backend in plain language",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// A missing .env is fine.
			_ = godotenv.Load()
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags.workspaceFlags)
			if err != nil {
				return err
			}

			log, cleanup := startLogging(ws, flags.debug, false)
			defer cleanup()

			deps := tui.Deps{
				Submit:        ws.submitter(log, nil, true),
				Endpoint:      ws.endpoint(),
				Environment:   ws.env.Name,
				WorkspaceRoot: ws.root,
				Warning:       ws.warning,
				Logger:        log,
				Debug:         flags.debug,
			}

			return tui.Run(deps)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&flags.debug, "debug", false, "enable verbose logging to .querydesk/logs/querydesk.log")
	pf.StringVarP(&flags.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	pf.StringVarP(&flags.env, "env", "e", "", "Environment name or path (optional; defaults to workspace default env)")
	pf.StringVar(&flags.backendURL, "backend-url", "", "Backend base URL (overrides config, env file and QUERYDESK_BACKEND_URL)")

	cmd.AddCommand(
		queryCmd(&flags),
		runCmd(&flags),
		validateCmd(&flags),
		serveCmd(&flags),
		historyCmd(&flags),
		booksCmd(&flags),
		envsCmd(&flags),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

// startLogging opens the diagnostic log for ws. Outside a workspace the log
// goes under the user cache directory.
func startLogging(ws *workspaceCtx, debug, stderr bool) (*slog.Logger, func()) {
	root := ws.root
	if root != "" {
		root, _ = filepath.Abs(root)
	}

	cleanup, _ := logger.Setup(logger.Config{
		Root:   root,
		Debug:  debug,
		Stderr: stderr,
	})
	return logger.L(), func() {
		if cleanup != nil {
			_ = cleanup()
		}
	}
}
