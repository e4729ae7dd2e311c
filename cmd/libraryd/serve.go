package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-ledger/library/accessgate"
	"github.com/AntonStoeckl/library-lending-ledger/library/accounts"
	"github.com/AntonStoeckl/library-lending-ledger/library/httpapi"
	"github.com/AntonStoeckl/library-lending-ledger/library/lending"
	"github.com/AntonStoeckl/library-lending-ledger/library/notifier"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			if err = cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(os.Stdout, cfg.LogLevel)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			obs := newTelemetry(logger)

			store, err := openStore(ctx, cfg, logger, obs)
			if err != nil {
				return err
			}
			defer store.close()

			gate, err := accessgate.NewGate([]byte(cfg.JWTSecret), accessgate.WithTokenTTL(cfg.TokenTTL))
			if err != nil {
				return err
			}

			hub := notifier.NewHub(notifier.WithQueueSize(cfg.NotifierQueueSize), notifier.WithLogger(logger))
			go hub.Run(ctx)

			ledger := lending.NewLedger(
				store.eventStore,
				lending.WithNotifier(hub),
				lending.WithLogger(logger),
				lending.WithMetrics(obs.metrics),
				lending.WithOperationTimeout(cfg.OperationTimeout),
			)

			accountService := accounts.NewService(
				store.eventStore,
				gate,
				accounts.WithLogger(logger),
				accounts.WithOperationTimeout(cfg.OperationTimeout),
			)

			gin.SetMode(gin.ReleaseMode)
			router := httpapi.NewRouter(httpapi.Dependencies{
				Ledger:   ledger,
				Accounts: accountService,
				Gate:     gate,
				Events:   hub.ServeWS,
				Logger:   logger,
			})

			server := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("http server listening", "addr", cfg.HTTPAddr, "store", cfg.Store)
				serveErr <- server.ListenAndServe()
			}()

			select {
			case err = <-serveErr:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err

			case <-ctx.Done():
				logger.Info("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		},
	}
}
