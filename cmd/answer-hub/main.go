package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"answer-hub/internal/adapter/gateway"
	adapterhandler "answer-hub/internal/adapter/handler"
	infracache "answer-hub/internal/infrastructure/cache"
	infratoken "answer-hub/internal/infrastructure/token"
	"answer-hub/internal/domain"
	"answer-hub/internal/usecase"

	"answer-hub/config"
	appmiddleware "answer-hub/middleware"
	"answer-hub/utils/logger"
	"answer-hub/utils/otel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
	}

	// Initialize structured logger
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"identity_url", cfg.IdentityURL,
		"port", cfg.Port,
		"provider_timeout", cfg.ProviderTimeout)

	// Infrastructure
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	snapshots := infracache.NewSnapshotStore(rdb, cfg.SnapshotKey, 0)

	identityClientCfg := gateway.DefaultClientConfig("identity")
	identityClientCfg.Timeout = cfg.ProviderTimeout
	identityGW := gateway.NewIdentityGateway(cfg.IdentityURL, cfg.IdentityProjectID, identityClientCfg, slog.Default())

	profileClientCfg := gateway.DefaultClientConfig("profile-store")
	profileClientCfg.Timeout = cfg.ProviderTimeout
	profileGW := gateway.NewProfileGateway(cfg.IdentityURL, cfg.IdentityProjectID, cfg.IdentityAPIKey,
		cfg.ProfileDatabaseID, cfg.ProfileCollectionID, profileClientCfg, slog.Default())

	jwtIssuer := infratoken.NewJWTIssuer(infratoken.JWTConfig{
		Secret:   cfg.AssertionSecret,
		Issuer:   cfg.AssertionIssuer,
		Audience: cfg.AssertionAudience,
		TTL:      cfg.AssertionTTL,
	})
	csrfGenerator := infratoken.NewHMACCSRFGenerator(cfg.CSRFSecret)

	// Usecases
	loginUC := usecase.NewLoginUser(identityGW, profileGW, slog.Default())
	authState := usecase.NewAuthState(identityGW, snapshots, loginUC, slog.Default())
	registerUC := usecase.NewRegisterUser(identityGW, profileGW, authState, slog.Default())
	evaluateUC := usecase.NewEvaluateRequest(identityGW, domain.DefaultRouteTable(), cfg.HomePath, cfg.LoginPath, slog.Default())
	csrfUC := usecase.NewGenerateCSRF(identityGW, csrfGenerator, slog.Default())

	// Warm the session state from the persisted snapshot, then confirm it
	// against the provider before serving traffic.
	authState.Restore(ctx)
	authState.Hydrate(ctx)

	// Handlers
	authHandler := adapterhandler.NewAuthHandler(registerUC, authState)
	sessionHandler := adapterhandler.NewSessionHandler(authState, jwtIssuer)
	csrfHandler := adapterhandler.NewCSRFHandler(csrfUC)
	gateHandler := adapterhandler.NewGateHandler()
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Session gate over everything except the service's own API surface.
	e.Use(appmiddleware.SessionGate(evaluateUC, jwtIssuer, serviceAPISkipper))

	// Rate limiters per endpoint group
	sessionRL := appmiddleware.SessionRateLimiter()
	authRL := appmiddleware.AuthRateLimiter()
	csrfRL := appmiddleware.CSRFRateLimiter()

	// Service API routes
	e.GET("/session", sessionHandler.Handle, sessionRL.Middleware())
	e.POST("/csrf", csrfHandler.Handle, csrfRL.Middleware())
	e.GET("/health", healthHandler.Handle)

	authGroup := e.Group("/auth", authRL.Middleware())
	authGroup.POST("/register", authHandler.HandleRegister)
	authGroup.POST("/login", authHandler.HandleLogin)
	authGroup.POST("/logout", authHandler.HandleLogout)

	// Everything else is gated page traffic; allowed requests terminate
	// here with the identity headers the gate stamped.
	e.Any("/*", gateHandler.Handle)

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting answer-hub server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// serviceAPISkipper exempts the service's own endpoints from the session
// gate; they carry their own auth semantics. Static assets and the health
// probe are exempt via the shared skipper.
func serviceAPISkipper(c echo.Context) bool {
	if appmiddleware.GateSkipper(c) {
		return true
	}
	path := c.Request().URL.Path
	if path == "/session" || path == "/csrf" {
		return true
	}
	return strings.HasPrefix(path, "/auth/")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8888"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
