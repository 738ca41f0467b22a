package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getsentry/apple-system-symbols-upload/internal/infra/httpapi"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/logger"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP endpoint that triggers firmware imports",
		Long: "Starts a small HTTP server so scheduled infrastructure can\n" +
			"trigger imports with a GET request:\n\n" +
			"  GET /                      import latest for every configured OS\n" +
			"  GET /<os_name>             import latest for one OS\n" +
			"  GET /<os_name>/<version>   import a pinned version\n\n" +
			"Append ?type=ota to import OTA archives instead of IPSWs.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(opts)
			if err != nil {
				return err
			}
			defer a.cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := httpapi.NewServer(a.firmware, a.cfg.Devices, logger.L())
			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	c.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return c
}
