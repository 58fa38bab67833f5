package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/validata-io/validata/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string
	var profileRows int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the validation HTTP API",
		Long: `Serve exposes validation and profiling over HTTP. Upload a CSV as
multipart form data to POST /v1/validate?table=NAME or
POST /v1/profile, and list catalog tables at GET /v1/tables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			rows := profileRows
			if !cmd.Flags().Changed("profile-rows") {
				rows = cc.Cfg.Profile.Rows
			}

			srv := server.New(cc.Engine, cc.Logger, rows)
			return runServer(cmd.Context(), cc, addr, srv.Router())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().IntVar(&profileRows, "profile-rows", 5, "default sample rows for the profile endpoint")
	return cmd
}

func runServer(ctx context.Context, cc *CommandContext, addr string, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		cc.Logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cc.Logger.Debug("shutting down http server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
