package bootstrap

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bloodconnect/bloodconnect-web/config"
	"github.com/bloodconnect/bloodconnect-web/internal/adapters/reaper"
	"github.com/bloodconnect/bloodconnect-web/internal/adapters/restapi"
	"github.com/bloodconnect/bloodconnect-web/internal/observability/metrics"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
	"github.com/bloodconnect/bloodconnect-web/internal/service"
)

var (
	_ ports.AuthAPI  = (*restapi.Client)(nil)
	_ ports.DonorAPI = (*restapi.Client)(nil)
	_ ports.StaffAPI = (*restapi.Client)(nil)
	_ ports.AdminAPI = (*restapi.Client)(nil)
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	API      *restapi.Client
	Gateway  *service.AuthGateway
	Registry *service.SessionRegistry
	Donor    *service.DonorService
	Staff    *service.StaffService
	Admin    *service.AdminService
	Chat     *service.ChatService
	Backend  *SessionBackend

	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	Metrics       *metrics.Recorder
	Registry      *prometheus.Registry
	MetricsConfig config.MetricsConfig
}

// Handler returns the /metrics handler, or nil when metrics are disabled.
func (o ObservabilityContainer) Handler() http.Handler {
	if o.Registry == nil || !o.MetricsConfig.Enabled {
		return nil
	}
	return metrics.Handler(o.Registry)
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config  *config.AppConfig
	Backend *SessionBackend
	Logger  *slog.Logger
	// Transport overrides the REST client's round tripper (tests).
	Transport http.RoundTripper
}

// buildObservability configures the Prometheus registry and recorder.
func buildObservability(cfg config.ObservabilityConfig) ObservabilityContainer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return ObservabilityContainer{
		Metrics:       metrics.NewRecorder(reg),
		Registry:      reg,
		MetricsConfig: cfg.Metrics,
	}
}

// NewServices initializes all application services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service dependencies are required")
	}
	if deps.Backend == nil || deps.Backend.Storage == nil {
		return ServiceContainer{}, errors.New("session storage is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	obs := buildObservability(cfg.Observability)

	api, err := restapi.New(restapi.Options{
		BaseURL:          cfg.API.BaseURL,
		Timeout:          cfg.API.Timeout,
		UserAgent:        cfg.API.UserAgent,
		ErrorMessageExpr: cfg.API.ErrorMessageExpr,
		ErrorFieldsExpr:  cfg.API.ErrorFieldsExpr,
		Transport:        deps.Transport,
		Logger:           logger,
		Observer:         obs.Metrics,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("rest client: %w", err)
	}

	gateway, err := service.NewAuthGateway(service.AuthGatewayOptions{API: api, Logger: logger})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("auth gateway: %w", err)
	}

	registry, err := service.NewSessionRegistry(service.SessionRegistryOptions{
		Storage:        deps.Backend.Storage,
		Gateway:        gateway,
		TTL:            cfg.Session.TTL,
		RestoreTimeout: cfg.Session.RestoreTimeout,
		IdleTTL:        cfg.Session.CacheTTL,
		Logger:         logger,
		Metrics:        obs.Metrics,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("session registry: %w", err)
	}

	donor, err := service.NewDonorService(service.DonorServiceOptions{API: api, CacheTTL: cfg.Session.CacheTTL, Logger: logger})
	if err != nil {
		registry.Close()
		return ServiceContainer{}, fmt.Errorf("donor service: %w", err)
	}
	staff, err := service.NewStaffService(service.StaffServiceOptions{API: api, Logger: logger})
	if err != nil {
		registry.Close()
		return ServiceContainer{}, fmt.Errorf("staff service: %w", err)
	}
	admin, err := service.NewAdminService(service.AdminServiceOptions{API: api, CacheTTL: cfg.Session.CacheTTL, Logger: logger})
	if err != nil {
		registry.Close()
		return ServiceContainer{}, fmt.Errorf("admin service: %w", err)
	}

	chat := service.NewChatService(service.ChatServiceOptions{
		IdleTTL: cfg.Session.CacheTTL,
		Metrics: obs.Metrics,
	})

	return ServiceContainer{
		API:           api,
		Gateway:       gateway,
		Registry:      registry,
		Donor:         donor,
		Staff:         staff,
		Admin:         admin,
		Chat:          chat,
		Backend:       deps.Backend,
		Observability: obs,
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// Signals overrides the OS signal source (tests).
	Signals <-chan os.Signal
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) (*http.Server, error) {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil, nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
		ErrCh:    deps.errCh,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}
	logger := deps.logger
	if logger == nil {
		logger = slog.Default()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}
		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newSessionReaperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeSessionReaper,
		name: "session reaper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			backend := deps.cfg.Services.Backend
			if backend == nil || backend.Purger == nil {
				// Redis expires sessions itself.
				deps.logger.InfoContext(ctx, "session backend expires entries natively; reaper idle")
				<-ctx.Done()
				return nil
			}
			var sessionCfg config.SessionConfig
			if deps.cfg.Config != nil {
				sessionCfg = deps.cfg.Config.Session
			}
			runner, err := reaper.NewRunner(reaper.RunnerOptions{
				Purger:  backend.Purger,
				Config:  sessionCfg,
				Logger:  deps.logger,
				Metrics: deps.cfg.Services.Observability.Metrics,
			})
			if err != nil {
				return err
			}
			return runner.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newSessionReaperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) (ServiceStartupResult, error) {
	server, err := startHTTPServerIfEnabled(deps)
	if err != nil {
		return ServiceStartupResult{}, err
	}
	return ServiceStartupResult{
		HTTPServer: server,
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}, nil
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	result, err := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})
	if err != nil {
		releaseServices(cfg.Services, logger)
		return fmt.Errorf("start services: %w", err)
	}

	signals := cfg.Signals
	if signals == nil {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		signals = quit
	}

	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		signals:     signals,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		services:    cfg.Services,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	signals     <-chan os.Signal
	errCh       <-chan error
	httpServer  *http.Server
	services    ServiceContainer
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case sig := <-cfg.signals:
		cfg.logger.Info("shutting down services...", "signal", sig)
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	var stopErr error
	if cfg.httpServer != nil {
		// The service context is already cancelled; shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), 10*time.Second)
		defer cancel()

		stopErr = ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		})
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	releaseServices(cfg.services, cfg.logger)
	return stopErr
}

// releaseServices stops in-process session stores and closes storage connections.
func releaseServices(services ServiceContainer, logger *slog.Logger) {
	if services.Registry != nil {
		services.Registry.Close()
	}
	if err := services.Backend.Close(); err != nil {
		logger.Warn("closing session backend", "error", err)
	}
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
