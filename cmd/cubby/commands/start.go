package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/internal/telemetry"
	"github.com/marmos91/cubby/pkg/api"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/config"
	"github.com/marmos91/cubby/pkg/metrics"
	"github.com/marmos91/cubby/pkg/vault"
	"github.com/marmos91/cubby/pkg/vault/journal"
	"github.com/spf13/cobra"
)

var (
	foreground bool
	pidFile    string
	logFile    string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Cubby server",
	Long: `Start the Cubby server with the specified configuration.

By default, the server runs in the background (daemon mode). Use --foreground
to run in the foreground for debugging or when managed by a process supervisor.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/cubby/config.yaml.

Examples:
  # Start in background (default)
  cubby start

  # Start in foreground
  cubby start --foreground

  # Start with custom config file
  cubby start --config /etc/cubby/config.yaml

  # Start with environment variable overrides
  CUBBY_LOGGING_LEVEL=DEBUG cubby start --foreground`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&foreground, "foreground", "f", false, "Run in foreground (default: background/daemon mode)")
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/cubby/cubby.pid)")
	startCmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file for daemon mode (default: $XDG_STATE_HOME/cubby/cubby.log)")
}

func runStart(cmd *cobra.Command, args []string) error {
	// Handle daemon mode (background)
	if !foreground {
		return startDaemon()
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "cubby",
		ServiceVersion: buildVersion,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "cubby",
		ServiceVersion: buildVersion,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	fmt.Println("Cubby - Personal file storage server")
	logger.Info("Configuration loaded",
		"source", getConfigSource(GetConfigFile()),
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format)
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	}

	// Initialize metrics (if enabled)
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		logger.Info("Metrics enabled", "endpoint", "/metrics")
	} else {
		logger.Info("Metrics collection disabled")
	}

	// Initialize the catalog store
	catalog, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog store: %w", err)
	}
	defer func() {
		if err := catalog.Close(); err != nil {
			logger.Error("catalog close error", "error", err)
		}
	}()

	// Open the intent journal (if enabled)
	var jnl *journal.Journal
	if cfg.Journal.IsEnabled() {
		jnl, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("failed to open intent journal: %w", err)
		}
		defer func() {
			if err := jnl.Close(); err != nil {
				logger.Error("journal close error", "error", err)
			}
		}()
		logger.Info("Intent journal enabled", "path", cfg.Journal.Path)
	} else {
		logger.Info("Intent journal disabled")
	}

	// Initialize the vault
	vlt, err := vault.New(catalog, vault.Config{
		StorageRoot:    cfg.Storage.Root,
		MaxPayloadSize: int64(cfg.Storage.MaxUploadSize),
		Journal:        jnl,
		Metrics:        m.Vault(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}
	logger.Info("Vault initialized", "storage_root", cfg.Storage.Root)

	// Ensure admin user exists. A password hash from config takes
	// precedence; otherwise a random password is generated on first run.
	initialized, err := catalog.IsAdminInitialized(ctx)
	if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if !initialized && cfg.Admin.PasswordHash != "" {
		if _, err := catalog.CreateUser(ctx, models.DefaultAdminUser(cfg.Admin.PasswordHash)); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		logger.Info("Admin user created from configured password hash", "username", models.DefaultAdminUsername)
	} else {
		adminPassword, err := catalog.EnsureAdminUser(ctx)
		if err != nil {
			return fmt.Errorf("failed to ensure admin user: %w", err)
		}
		if adminPassword != "" {
			logger.Info("Admin user created", "username", models.DefaultAdminUsername)
			fmt.Printf("\n*** IMPORTANT: Admin user created with password: %s ***\n", adminPassword)
			fmt.Println("Please save this password. It will not be shown again.")
			fmt.Println()
		}
	}

	// Surface intents left behind by an interrupted previous run
	vlt.ReportPendingIntents(ctx)

	// Create the API server
	apiServer, err := api.NewServer(cfg.API, catalog, vlt, m)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}
	logger.Info("API server configured", "port", cfg.API.Port)

	// Write PID file if specified
	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	// Start the server in background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")

		// Drain in-flight requests within the configured timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		if err := apiServer.Stop(shutdownCtx); err != nil {
			shutdownCancel()
			cancel()
			<-serverDone
			return err
		}
		shutdownCancel()
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}

// startDaemon re-invokes the binary with --foreground in a new session,
// with stdout and stderr appended to the daemon log file.
func startDaemon() error {
	pidPath := pidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}
	logPath := logFile
	if logPath == "" {
		logPath = GetDefaultLogFile()
	}
	for _, p := range []string{pidPath, logPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if pid, ok := livePid(pidPath); ok {
		return fmt.Errorf("Cubby is already running (PID %d)\nUse 'cubby stop' to stop the running instance", pid)
	}
	// A leftover PID file from a dead process is stale
	_ = os.Remove(pidPath)

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	args := []string{"start", "--foreground", "--pid-file", pidPath}
	if cfgFile := GetConfigFile(); cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}

	out, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = out.Close() }()

	daemon := exec.Command(executable, args...)
	daemon.Stdout = out
	daemon.Stderr = out
	// Own session, so the daemon survives the terminal closing
	daemon.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := daemon.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	fmt.Printf("Cubby started in background (PID %d)\n", daemon.Process.Pid)
	fmt.Printf("  PID file: %s\n", pidPath)
	fmt.Printf("  Log file: %s\n", logPath)
	fmt.Println("\nUse 'cubby stop' to stop the server")
	fmt.Println("Use 'cubby status' to check server status")

	return nil
}
