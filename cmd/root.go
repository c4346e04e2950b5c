package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/adapters/feed"
	"github.com/kamal-hamza/folio/internal/adapters/imaging"
	"github.com/kamal-hamza/folio/internal/adapters/repository"
	"github.com/kamal-hamza/folio/internal/core/ports"
	"github.com/kamal-hamza/folio/internal/core/services"
	"github.com/kamal-hamza/folio/pkg/config"
	"github.com/kamal-hamza/folio/pkg/ui"
	"github.com/kamal-hamza/folio/pkg/vault"
)

var (
	// Global vault and configuration
	appVault  *vault.Vault
	appConfig *config.Config

	// Storage
	kvStore   ports.KVStore
	postStore *services.PostStore

	// Services
	listService     *services.ListService
	autosaveService *services.AutosaveService
	transferService *services.TransferService
	dashboard       *services.Dashboard
	feedService     *services.FeedService

	// Adapters
	feedClient   ports.FeedClient
	imageEncoder *imaging.Encoder

	logFile io.Closer

	// Global flags
	dataDirFlag string
	verboseFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - a terminal blog authoring dashboard",
	Long: ui.StyleTitle.Render("folio") + " - Blog Authoring Dashboard\n\n" +
		"Write, preview and publish blog posts from the terminal.\n" +
		"Posts live in a local store; a remote feed and a small web server show what is published.\n\n" +
		"Run without a subcommand to open the dashboard.",
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	RunE:               runDashboard,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Override the data directory")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Write logs to stderr instead of the log file")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// version needs nothing
	if cmd.Name() == "version" {
		return nil
	}

	v, err := vault.New()
	if err != nil {
		return fmt.Errorf("failed to initialize data directory: %w", err)
	}
	if dataDirFlag != "" {
		v = vault.NewAt(dataDirFlag, v.ConfigPath)
	}
	if err := v.Initialize(); err != nil {
		return err
	}
	appVault = v

	if err := config.LoadDotEnv(".env", appVault.EnvPath()); err != nil {
		return err
	}
	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	if err := setupLogging(cmd); err != nil {
		return err
	}

	// The config command must work even when the store cannot be opened
	if cmd.Name() == "config" || (cmd.HasParent() && cmd.Parent().Name() == "config") {
		return nil
	}

	kv, err := openKVStore(cfg, appVault)
	if err != nil {
		return err
	}
	kvStore = kv

	ctx := getContext()
	postStore = services.NewPostStore(kvStore)
	postStore.Load(ctx)

	listService = services.NewListService(postStore)
	autosaveService = services.NewAutosaveService(kvStore, cfg.AutosaveMaxAge(), nil)
	transferService = services.NewTransferService(postStore, nil)
	dashboard = services.NewDashboard(postStore, autosaveService, transferService)

	feedClient = feed.NewClient(&http.Client{Timeout: cfg.FeedTimeout()}, cfg.FeedBaseURL)
	feedService = services.NewFeedService(feedClient, fallbackCards())

	imageEncoder = &imaging.Encoder{
		MaxWidth:  cfg.ImageMaxWidth,
		MaxHeight: cfg.ImageMaxHeight,
		Quality:   cfg.ImageQuality,
	}

	return nil
}

// shutdownApp releases the store and the log file
func shutdownApp(cmd *cobra.Command, args []string) error {
	var firstErr error
	if kvStore != nil {
		if err := kvStore.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close store: %w", err)
		}
		kvStore = nil
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	return firstErr
}

// openKVStore opens the configured storage backend
func openKVStore(cfg *config.Config, v *vault.Vault) (ports.KVStore, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return repository.NewSQLiteKV(v.DatabasePath())
	default:
		return repository.NewFileKV(v.StorePath)
	}
}

// setupLogging routes slog to the log file, or to stderr for serve and --verbose.
// The dashboard owns the terminal, so it must never log to stderr.
func setupLogging(cmd *cobra.Command) error {
	level := parseLogLevel(appConfig.LogLevel)

	var w io.Writer = os.Stderr
	if !verboseFlag && cmd.Name() != "serve" {
		f, err := os.OpenFile(appVault.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		w = f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
