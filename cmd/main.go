package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"banking-dashboard/internal/app"
	"banking-dashboard/internal/client"
	"banking-dashboard/internal/config"
	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/forms"
	"banking-dashboard/internal/gateway"
	"banking-dashboard/internal/guard"
	"banking-dashboard/internal/metrics"
	"banking-dashboard/internal/mockserver"
	"banking-dashboard/internal/session"
	"banking-dashboard/internal/views"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

const usage = `Usage: banking-dashboard [command]

Commands:
  run [route]     open the dashboard (default), optionally at a route such as /signup
  whoami          show the signed-in user
  notifications   list transaction notifications for the signed-in user
  logout          clear the stored session
  serve-demo      start the demo backend on DEMO_ADDR

Configuration is read from the environment and an optional .env file:
  BANKING_API_URL, BANKING_SESSION_FILE, BANKING_HTTP_TIMEOUT,
  BANKING_METRICS_FILE, LOG_LEVEL, ACCESSIBLE, DEMO_ADDR, DEMO_JWT_SECRET
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.LogLevel,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	cmd, args := "run", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "run":
		route := ""
		if len(args) > 0 {
			route = args[0]
		}
		err = runDashboard(ctx, cfg, logger, route)
	case "whoami":
		err = whoami(ctx, cfg, logger)
	case "notifications":
		err = notifications(ctx, cfg, logger)
	case "logout":
		err = logout(cfg, logger)
	case "serve-demo":
		err = serveDemo(ctx, cfg, logger)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("command failed", "cmd", cmd, "err", err)
		os.Exit(1)
	}
}

// backend is the wiring shared by the commands that talk to the API.
type backend struct {
	store    *session.Store
	gateway  *gateway.Gateway
	api      *client.Client
	registry *prometheus.Registry
}

func connect(cfg *config.Config, logger *log.Logger) (*backend, error) {
	storage, err := session.NewFileStorage(cfg.SessionFile)
	if err != nil {
		return nil, err
	}
	store, err := session.New(storage, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewPrometheusCollector("banking_dashboard")
	if err := collector.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	gw := gateway.New(cfg.APIURL, store, logger,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gateway.WithMetrics(collector),
	)

	return &backend{
		store:    store,
		gateway:  gw,
		api:      client.New(gw, store, logger),
		registry: registry,
	}, nil
}

// flushMetrics writes the request metrics for a textfile collector.
func (b *backend) flushMetrics(cfg *config.Config, logger *log.Logger) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(cfg.MetricsFile, b.registry); err != nil {
		logger.Warn("failed to write metrics file", "path", cfg.MetricsFile, "err", err)
	}
}

func runDashboard(ctx context.Context, cfg *config.Config, logger *log.Logger, route string) error {
	b, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	defer b.flushMetrics(cfg, logger)

	deps := views.Deps{
		Session:      b.store,
		Auth:         b.api.Auth,
		Accounts:     b.api.Accounts,
		Transactions: b.api.Transactions,
		Prompter:     forms.NewHuhPrompter(cfg.Accessible),
		Notifier:     views.NewNotifier(os.Stdout, logger),
		Out:          os.Stdout,
		Logger:       logger,
	}

	router := app.NewRouter(guard.New(b.store), map[string]views.View{
		guard.RouteLogin:          views.NewLogin(deps),
		guard.RouteSignup:         views.NewSignup(deps),
		guard.RouteDashboard:      views.NewDashboard(deps),
		guard.RouteAdminDashboard: views.NewAdmin(deps, func() *views.AccountBook {
			return views.NewSampleAccountBook(time.Now)
		}),
	}, logger)
	b.gateway.SetNavigator(router)

	if route == "" {
		route = landing(b.store)
	}
	logger.Debug("starting dashboard", "api", cfg.APIURL, "route", route)
	return router.Run(ctx, route)
}

// landing picks the first route: a restored session goes straight to its
// dashboard, anything else to "/".
func landing(s *session.Store) string {
	switch {
	case !s.IsAuthenticated():
		return guard.RouteRoot
	case s.HasRole(domain.RoleAdmin):
		return guard.RouteAdminDashboard
	default:
		return guard.RouteDashboard
	}
}

func whoami(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	b, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	defer b.flushMetrics(cfg, logger)

	user, ok := b.store.User()
	if !ok {
		fmt.Println("Not signed in")
		return nil
	}

	profile, err := b.api.Profile.Me(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			fmt.Println("Session expired. Please sign in again.")
			return nil
		}
		logger.Warn("failed to fetch profile, showing stored session", "err", err)
		profile = &domain.Profile{ID: user.ID, Username: user.Username, Email: user.Email, Roles: user.Roles}
	}

	roles := make([]string, 0, len(profile.Roles))
	for _, r := range profile.Roles.Sorted() {
		roles = append(roles, string(r))
	}
	fmt.Printf("%s (id %d)\n", profile.Username, profile.ID)
	if name := strings.TrimSpace(profile.FirstName + " " + profile.LastName); name != "" {
		fmt.Printf("Name:  %s\n", name)
	}
	fmt.Printf("Email: %s\n", profile.Email)
	fmt.Printf("Roles: %s\n", strings.Join(roles, ", "))
	return nil
}

func notifications(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	b, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	defer b.flushMetrics(cfg, logger)

	userID := b.store.UserID()
	if userID == "" {
		fmt.Println("Not signed in")
		return nil
	}

	notes, err := b.api.Notifications.ForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load notifications: %w", err)
	}
	views.PrintNotifications(os.Stdout, notes, time.Now())
	return nil
}

func logout(cfg *config.Config, logger *log.Logger) error {
	storage, err := session.NewFileStorage(cfg.SessionFile)
	if err != nil {
		return err
	}
	store, err := session.New(storage, logger)
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func serveDemo(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	demo, err := mockserver.New(mockserver.Config{Secret: cfg.DemoSecret, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to start demo backend: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.DemoAddr,
		Handler:      demo.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("demo backend listening", "addr", cfg.DemoAddr, "api", "/api", "metrics", "/metrics")
		logger.Info("seeded logins", "user", "testuser", "admin", "testadmin", "password", mockserver.SeedPassword)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down demo backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("demo backend shutdown: %w", err)
	}
	logger.Info("demo backend stopped")
	return nil
}
