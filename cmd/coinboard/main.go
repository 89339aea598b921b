package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/coinboard/internal/config"
	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/log"
	"github.com/mmcdole/coinboard/internal/market"
	"github.com/mmcdole/coinboard/internal/service"
	"github.com/mmcdole/coinboard/internal/store"
	"github.com/mmcdole/coinboard/internal/tui"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = ""

var configPath string

var rootCmd = &cobra.Command{
	Use:          domain.AppManifest.ShortName,
	Short:        domain.AppManifest.Description,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
}

func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runTUI()
	}
	rootCmd.Version = domain.AppManifest.Version
	if Version != "" {
		rootCmd.Version = Version
	}
	rootCmd.SetVersionTemplate(domain.AppManifest.ShortName + " {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultConfigFile()+")")

	rootCmd.AddCommand(pageCmd, favoritesCmd, cacheCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the services shared by every command
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	logFile   io.Closer // nil with the null logger
	store     *store.Store
	market    *service.MarketService
	favorites *service.FavoritesService
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, logFile = log.NullLogger(), nil
	}
	slog.SetDefault(logger)

	st, err := store.Open(cfg.Cache.Dir)
	if err != nil {
		// Another instance may hold the database; run without persistence
		logger.Warn("cache unavailable, using memory store", "dir", cfg.Cache.Dir, "error", err)
		st, _ = store.Open("")
	}

	client, err := market.NewClient(cfg, st, logger)
	if err != nil {
		st.Close()
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("failed to create market client: %w", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		logFile:   logFile,
		store:     st,
		market:    service.NewMarketService(client, st, logger),
		favorites: service.NewFavoritesService(st, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close store", "error", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

func runTUI() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting "+domain.AppManifest.ShortName, "version", rootCmd.Version)

	themePath := configPath
	if themePath == "" {
		themePath = config.DefaultConfigFile()
	}
	model := tui.NewModel(a.market, a.favorites, a.cfg, themePath)

	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
