package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"bookstats/internal/app"
	"bookstats/internal/config"
	"bookstats/internal/eventbus"
	"bookstats/internal/logger"
	"bookstats/internal/metrics"
	"bookstats/internal/ui"
)

func main() {
	var (
		configPath string
		query      string
		logPath    string
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (TOML or YAML)")
	flag.StringVar(&configPath, "c", "", "Path to config file (shorthand)")
	flag.StringVar(&query, "query", "", "Initial search query")
	flag.StringVar(&logPath, "log", "", "Log file (overrides logging.file)")
	flag.Parse()

	if query == "" && flag.NArg() > 0 {
		query = flag.Arg(0)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Config is loaded before the logger exists, so nothing is published yet
	configSvc := config.NewConfigServiceWithBus(nil, configPath)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if query != "" {
		cfg.Search.DefaultQuery = query
	}
	if logPath != "" {
		cfg.Logging.File = logPath
	}

	// The TUI owns the terminal, so logs go to a file
	log := zerolog.Nop()
	logFile, err := logger.OpenFile(cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
	} else {
		defer logFile.Close()
		log = app.NewLogger(cfg, logFile)
	}
	log.Info().Str("config", configSvc.Path()).Msg("starting bookstats")

	bus := eventbus.New(log)
	defer bus.Close()

	client, err := app.NewClient(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to create books client")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	detach := metrics.Attach(bus)
	defer detach()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, log); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	controller := app.NewController(cfg, client, bus, log)
	defer controller.Cancel()

	uiModel := ui.NewModel(ctx, controller, cfg, log)
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Forward every controller transition so the loading indicator updates
	// while a search is still in flight
	controller.OnChange(ui.ForwardStates(p))

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("error running program")
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("UI exited normally")
}
