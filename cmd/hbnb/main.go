package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/oauth2"

	adapthttp "hbnb/internal/adapter/http"
	"hbnb/internal/adapter/memory"
	"hbnb/internal/adapter/postgres"
	"hbnb/internal/app"
)

// CLI is the server configuration. Every flag falls back to an environment
// variable.
type CLI struct {
	Addr        string        `kong:"env='ADDR',default=':8080',help='Listen address.'"`
	Store       string        `kong:"env='STORE',enum='memory,postgres',default='memory',help='Repository backend.'"`
	DatabaseURL string        `kong:"name='database-url',env='DATABASE_URL',help='PostgreSQL connection string (store=postgres).'"`
	JWTSecret   string        `kong:"name='jwt-secret',env='JWT_SECRET',help='HS256 signing secret. A random one is generated when empty.'"`
	TokenTTL    time.Duration `kong:"name='token-ttl',env='TOKEN_TTL',default='1h',help='Access token lifetime.'"`
	LogLevel    string        `kong:"short='l',env='LOG_LEVEL',enum='debug,info,warn,error',default='info',help='Log level.'"`

	AdminEmail    string `kong:"env='ADMIN_EMAIL',help='Bootstrap admin e-mail, used when no users exist.'"`
	AdminPassword string `kong:"env='ADMIN_PASSWORD',help='Bootstrap admin password.'"`

	LoginRate  float64 `kong:"env='LOGIN_RATE',default='1',help='Login attempts per second per client. 0 disables limiting.'"`
	LoginBurst int     `kong:"env='LOGIN_BURST',default='5',help='Login burst per client.'"`

	OIDCIssuer       string `kong:"name='oidc-issuer',env='OIDC_ISSUER',help='OpenID Connect issuer URL.'"`
	OIDCClientID     string `kong:"name='oidc-client-id',env='OIDC_CLIENT_ID',help='OpenID Connect client ID.'"`
	OIDCClientSecret string `kong:"name='oidc-client-secret',env='OIDC_CLIENT_SECRET',help='OpenID Connect client secret.'"`
	OIDCRedirectURL  string `kong:"name='oidc-redirect-url',env='OIDC_REDIRECT_URL',help='OpenID Connect redirect URL.'"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("hbnb"),
		kong.Description("HBnB vacation rental API server."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	logger, err := newLogger(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(&cli, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	return config.Build()
}

func run(cli *CLI, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(cli)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info("store ready", zap.String("store", cli.Store))

	secret := cli.JWTSecret
	if secret == "" {
		if secret, err = app.GenerateSecret(); err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		logger.Warn("JWT_SECRET not set; tokens will not survive a restart")
	}

	facade := app.NewFacade(repos)
	authSvc := app.NewAuthService(facade, []byte(secret), cli.TokenTTL)

	if cli.AdminEmail != "" {
		if err := bootstrapAdmin(ctx, authSvc, cli, logger); err != nil {
			return err
		}
	}

	oidcConfig, err := setupOIDC(ctx, cli)
	if err != nil {
		return err
	}

	h := adapthttp.New(facade, authSvc, adapthttp.Options{
		Logger:     logger,
		OIDC:       oidcConfig,
		LoginRate:  cli.LoginRate,
		LoginBurst: cli.LoginBurst,
	}).Handler()

	srv := &http.Server{
		Addr:              cli.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cli.Addr), zap.Bool("sso", oidcConfig.Enabled))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cli *CLI) (app.Repositories, func(), error) {
	switch cli.Store {
	case "postgres":
		if cli.DatabaseURL == "" {
			return app.Repositories{}, nil, errors.New("DATABASE_URL is required for the postgres store")
		}
		db, err := postgres.Open(cli.DatabaseURL)
		if err != nil {
			return app.Repositories{}, nil, fmt.Errorf("db open: %w", err)
		}
		return app.Repositories{Users: db, Places: db, Reviews: db, Amenities: db}, func() { _ = db.Close() }, nil
	default:
		db := memory.New()
		return app.Repositories{Users: db, Places: db, Reviews: db, Amenities: db}, func() {}, nil
	}
}

func bootstrapAdmin(ctx context.Context, authSvc *app.AuthService, cli *CLI, logger *zap.Logger) error {
	u, err := authSvc.CreateInitialAdmin(ctx, cli.AdminEmail, cli.AdminPassword)
	if errors.Is(err, app.ErrUsersExist) {
		logger.Debug("users exist; skipping admin bootstrap")
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	logger.Info("created initial admin", zap.String("id", u.ID), zap.String("email", u.Email))
	return nil
}

func setupOIDC(ctx context.Context, cli *CLI) (adapthttp.OIDCConfig, error) {
	if cli.OIDCIssuer == "" {
		return adapthttp.OIDCConfig{}, nil
	}
	if cli.OIDCClientID == "" || cli.OIDCRedirectURL == "" {
		return adapthttp.OIDCConfig{}, errors.New("OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required with OIDC_ISSUER")
	}
	provider, err := oidc.NewProvider(ctx, cli.OIDCIssuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, fmt.Errorf("oidc provider: %w", err)
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     cli.OIDCClientID,
			ClientSecret: cli.OIDCClientSecret,
			RedirectURL:  cli.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}
