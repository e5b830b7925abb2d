package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	internalhttp "github.com/EternisAI/silo-auth/internal/api/http"
	"github.com/EternisAI/silo-auth/internal/auth"
	"github.com/EternisAI/silo-auth/internal/db"
	"github.com/EternisAI/silo-auth/internal/encryption"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newAuthService(cfg Config, handle *storeHandle) (*auth.Service, error) {
	padding, err := encryption.ParsePadding(cfg.Encryption.Padding)
	if err != nil {
		return nil, err
	}
	signer, err := auth.NewJWTSigner(cfg.JWT)
	if err != nil {
		return nil, err
	}
	return auth.NewService(handle.store, encryption.NewDecrypter(padding), signer, cfg.Auth), nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	slog.Info("Silo Auth Server", "version", AppVersion)

	handle, err := openStore(ctx, config.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer handle.close()

	authService, err := newAuthService(config, handle)
	if err != nil {
		return err
	}

	services := &internalhttp.Services{
		AuthService: authService,
		JWTSecret:   config.JWT.Secret,
		AdminAPIKey: config.Http.AdminAPIKey,
		Ping:        handle.ping,
		Version:     AppVersion,
	}
	if services.AdminAPIKey == "" {
		slog.Warn("http.admin_api_key is not set; key pair issuance is unauthenticated")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(config.Http.AllowedOrigins),
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-API-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(gin.Recovery())
	if err := internalhttp.SetupRoute(engine, services); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Http.Port),
		Handler: engine,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case serveErr = <-errChan:
		slog.Error("Server error", "error", serveErr)
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
	return serveErr
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Store.Driver == db.DriverMemory {
				return errors.New("the memory store has no schema to migrate")
			}
			if err := db.RunMigrations(config.Store); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			slog.Info("Migrations applied", "driver", config.Store.Driver)
			return nil
		},
	}
}

func newKeyPairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keypair",
		Short: "Manage API key pairs",
	}

	var apikey string
	create := &cobra.Command{
		Use:   "create",
		Short: "Issue an RSA key pair for an API key and print the public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			handle, err := openStore(ctx, config.Store)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer handle.close()

			// Issuance neither decrypts nor signs.
			authService := auth.NewService(handle.store, nil, nil, config.Auth)

			issued, err := authService.CreateKeyPair(ctx, apikey, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Key pair %d created for %s. The public key is shown only once:\n\n%s",
				issued.Record.ID, issued.Record.APIKey, issued.PublicKey)
			return nil
		},
	}
	create.Flags().StringVar(&apikey, "apikey", "", "API key to bind the key pair to")
	_ = create.MarkFlagRequired("apikey")

	cmd.AddCommand(create)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), AppVersion)
		},
	}
}
