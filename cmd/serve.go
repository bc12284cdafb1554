package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ai_copywriter/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync() //nolint:errcheck

		if a.cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv, err := server.New(a.agent, server.Options{
			AllowedOrigins: a.cfg.Server.CORSAllowedOrigins,
			SessionTTL:     a.cfg.Server.SessionTTL,
			RequestTimeout: a.cfg.Server.RequestTimeout,
			VariantCount:   a.cfg.Generation.Variants,
		}, a.log.Named("http"))
		if err != nil {
			return err
		}

		addr := a.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.log.Info("starting HTTP server",
				zap.String("addr", addr),
				zap.String("provider", a.cfg.LLM.Provider),
				zap.String("model", a.cfg.LLM.Model))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}
		a.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("HTTP server forced to shutdown", zap.Error(err))
			return err
		}
		a.log.Info("server exiting")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
