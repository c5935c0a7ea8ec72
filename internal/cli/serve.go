package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/metrics"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ui/web"
)

func serveCmd(flags *rootFlags) *cobra.Command {
	var listen string
	var noSave bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query page over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags.workspaceFlags)
			if err != nil {
				return err
			}

			log, cleanup := startLogging(ws, flags.debug, true)
			defer cleanup()

			if ws.warning != nil {
				log.Warn("env.load_failed", "err", ws.warning)
			}

			if !flags.debug {
				gin.SetMode(gin.ReleaseMode)
			}

			exp := metrics.NewExporter(metrics.DefaultConfig())
			srv, err := web.NewServer(
				ws.submitter(log, exp, !noSave),
				web.WithMetrics(exp),
				web.WithLogger(log),
			)
			if err != nil {
				return err
			}

			addr := strings.TrimSpace(listen)
			if addr == "" {
				addr = ws.cfg.Server.Listen
			}

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Serve(ctx, addr)
		},
	}

	c.Flags().StringVar(&listen, "listen", "", "Listen address (defaults to server.listen or QUERYDESK_LISTEN)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save queries under history/")
	return c
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
