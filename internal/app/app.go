// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/subtune/internal/adapter/audio/beepsink"
	"github.com/tejashwikalptaru/subtune/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/subtune/internal/adapter/audio/tags"
	"github.com/tejashwikalptaru/subtune/internal/adapter/clipboard"
	"github.com/tejashwikalptaru/subtune/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/subtune/internal/adapter/mpris"
	"github.com/tejashwikalptaru/subtune/internal/adapter/notify"
	"github.com/tejashwikalptaru/subtune/internal/adapter/repository/file"
	"github.com/tejashwikalptaru/subtune/internal/adapter/subsonic"
	"github.com/tejashwikalptaru/subtune/internal/adapter/ui/tui"
	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/logger"
	"github.com/tejashwikalptaru/subtune/internal/ports"
	"github.com/tejashwikalptaru/subtune/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	logFile io.Closer

	// Infrastructure
	eventBus ports.EventBus
	client   ports.LibraryClient
	sink     ports.AudioSink

	// Remote surfaces
	remote     ports.RemoteControl
	nowPlaying *notify.NowPlaying
	events     *eventLog

	// Services
	configService     *service.ConfigService
	queueService      *service.QueueService
	libraryService    *service.LibraryService
	playbackService   *service.PlaybackService
	navigationService *service.NavigationService
	session           *service.Session

	shutdownOnce sync.Once
}

// Config holds application configuration.
type Config struct {
	// AppName is the display name, also used as the MPRIS identity
	AppName string

	// ConfigPath is the user config file ("" for the default location)
	ConfigPath string

	// LogFile receives the logs ("" for the default location)
	LogFile string

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// UseMockAudio replaces the sound card with a silent sink
	UseMockAudio bool

	// DisableMPRIS skips registering on the D-Bus session bus
	DisableMPRIS bool

	// Headless builds only the config and library layers, for one-shot commands
	Headless bool

	// TestConfigRepository and TestLogOutput are injected by tests (nil for production)
	TestConfigRepository ports.ConfigRepository
	TestLogOutput        io.Writer
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppName:  "SubTune",
		LogLevel: loggerCfg.Level,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	app := &Application{}

	// Step 1: Create logger
	output := config.TestLogOutput
	if output == nil {
		f, err := openLogFile(config.LogFile)
		if err != nil {
			return nil, err
		}
		app.logFile = f
		output = f
	}
	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: "text",
		Output: output,
	})
	app.logger.Info("initializing application",
		slog.String("app_name", config.AppName),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 2: Load the user configuration
	repo := config.TestConfigRepository
	if repo == nil {
		path := config.ConfigPath
		if path == "" {
			var err error
			if path, err = file.DefaultConfigPath(); err != nil {
				app.closeLog()
				return nil, err
			}
		}
		repo = file.NewConfigRepository(app.logger.With(slog.String("repository", "config")), path)
	}
	app.configService = service.NewConfigService(app.logger.With(slog.String("service", "config")), repo)
	cfg, err := app.configService.Load()
	if err != nil {
		app.closeLog()
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Step 3: Create the library layer
	app.client = subsonic.NewClient(app.logger.With(slog.String("component", "subsonic")), cfg)
	app.libraryService = service.NewLibraryService(
		app.logger.With(slog.String("service", "library")),
		app.client,
		service.NewTitles(cfg.ShowEasterEggs),
		cfg.SearchLimits(),
	)
	if config.Headless {
		return app, nil
	}

	// Step 4: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(app.logger.With(slog.String("component", "eventbus")))
	app.events = newEventLog(app.logger.With(slog.String("component", "events")), app.eventBus)

	// Step 5: Create an audio sink
	if config.UseMockAudio {
		sink := mock.NewSink()
		sink.SetLogger(app.logger.With(slog.String("sink", "mock")))
		app.sink = sink
	} else {
		sink, err := beepsink.NewSink(app.logger.With(slog.String("sink", "beep")))
		if err != nil {
			app.Shutdown()
			return nil, fmt.Errorf("failed to initialize audio output: %w", err)
		}
		app.sink = sink
	}

	// Step 6: Create services (with dependency injection)
	app.queueService = service.NewQueueService(
		app.logger.With(slog.String("service", "queue")),
		app.eventBus,
	)
	app.playbackService = service.NewPlaybackService(
		app.logger.With(slog.String("service", "playback")),
		app.client,
		app.sink,
		tags.NewReader(),
		app.queueService,
		app.eventBus,
	)
	app.navigationService = service.NewNavigationService(
		app.logger.With(slog.String("service", "navigation")),
		app.libraryService,
	)

	// Step 7: Remote control and notifications
	if !config.DisableMPRIS {
		server, err := mpris.NewServer(app.logger.With(slog.String("component", "mpris")), app.eventBus, config.AppName)
		if err != nil {
			app.Shutdown()
			return nil, fmt.Errorf("failed to start MPRIS server (use --no-mpris to skip): %w", err)
		}
		app.remote = server
	}
	if cfg.Notifications {
		app.nowPlaying = notify.NewNowPlaying(
			app.logger.With(slog.String("component", "notify")),
			notify.NewDesktop(config.AppName),
			app.eventBus,
		)
	}

	// Step 8: The loop
	app.session = service.NewSession(
		app.logger.With(slog.String("service", "session")),
		app.navigationService,
		app.playbackService,
		app.queueService,
		app.remote,
		clipboard.NewSystem(),
	)

	return app, nil
}

func openLogFile(path string) (io.WriteCloser, error) {
	if path == "" {
		var err error
		if path, err = logger.DefaultLogPath(); err != nil {
			return nil, fmt.Errorf("failed to locate log file: %w", err)
		}
	}
	f, err := logger.OpenLogFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Config returns the loaded user configuration.
func (a *Application) Config() domain.Config {
	return a.configService.Config()
}

// ConfigPath returns where the user configuration is stored.
func (a *Application) ConfigPath() string {
	return a.configService.Path()
}

// Session returns the interactive loop, nil for headless applications.
func (a *Application) Session() *service.Session {
	return a.session
}

// Ping checks that the server is reachable and accepts the credentials.
func (a *Application) Ping(ctx context.Context) error {
	return a.libraryService.Ping(ctx)
}

// Search runs a one-shot query against the server.
func (a *Application) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	results, _, err := a.libraryService.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return results.Hits(), nil
}

// Run starts the application.
// This is called from main.go after the application is created and blocks
// until the user quits or ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.session == nil {
		return fmt.Errorf("application was built headless")
	}
	a.logger.Info("SubTune started")

	a.session.Start(ctx)
	return tui.Run(ctx, a.session)
}

// Shutdown gracefully shuts down the application.
// This should be called via deferring in main.go. It is safe to call twice.
func (a *Application) Shutdown() {
	a.shutdownOnce.Do(a.shutdown)
}

func (a *Application) shutdown() {
	a.logger.Info("shutting down application")

	// Stop audio before the remote surfaces go away
	if a.playbackService != nil {
		a.playbackService.Stop()
	}

	if a.nowPlaying != nil {
		if err := a.nowPlaying.Close(); err != nil {
			a.logger.Warn("failed to close notifications", slog.Any("error", err))
		}
	}

	if a.remote != nil {
		if err := a.remote.Close(); err != nil {
			a.logger.Warn("failed to close MPRIS server", slog.Any("error", err))
		}
	}

	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.logger.Warn("failed to close audio sink", slog.Any("error", err))
		}
	}

	if a.events != nil {
		a.events.close()
	}

	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", err))
		}
	}

	a.logger.Info("application shutdown complete")
	a.closeLog()
}

func (a *Application) closeLog() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}
