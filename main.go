package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"editgrep/internal/config"
	"editgrep/internal/domain"
	"editgrep/internal/eventbus"
	"editgrep/internal/ui"
	"editgrep/internal/ui/coordinator"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Directory to search (defaults to the current directory)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path (defaults to " + config.FileName + " in the directory)",
		},
		&cli.StringFlag{
			Name:  "include",
			Usage: "Comma separated globs of files to search (e.g. '*.yaml, packages/**')",
		},
		&cli.StringFlag{
			Name:  "exclude",
			Usage: "Comma separated globs of files to skip",
		},
		&cli.BoolFlag{
			Name:  "case",
			Usage: "Match case",
		},
		&cli.BoolFlag{
			Name:    "word",
			Aliases: []string{"w"},
			Usage:   "Match whole words only",
		},
		&cli.BoolFlag{
			Name:    "regex",
			Aliases: []string{"e"},
			Usage:   "Treat the query as a regular expression",
		},
	}
}

func main() {
	app := &cli.App{
		Name:   "editgrep",
		Usage:  "Find and replace in files and across a directory of config files",
		Flags:  commonFlags(),
		Action: editCommand,
		Commands: []*cli.Command{
			{
				Name:      "edit",
				Usage:     "Open the interactive editor (default)",
				ArgsUsage: "[file]",
				Flags:     commonFlags(),
				Action:    editCommand,
			},
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Search every file and print matching lines",
				ArgsUsage: "<query>",
				Flags:     commonFlags(),
				Action:    searchCommand,
			},
			{
				Name:      "replace",
				Aliases:   []string{"r"},
				Usage:     "Replace a query in every file",
				ArgsUsage: "<query> <replacement>",
				Flags: append(commonFlags(), &cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "Replace without asking for confirmation",
				}),
				Action: replaceCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends the log to editgrep.log; the terminal belongs to the UI
func setupLogging() func() {
	logFile, err := os.OpenFile("editgrep.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
		return func() {}
	}
	log.SetOutput(logFile)
	return func() { logFile.Close() }
}

// loadConfig resolves the root directory and loads its config, applying
// command line overrides.
func loadConfig(c *cli.Context, bus eventbus.EventBus) (*config.Config, error) {
	targetDir := c.String("dir")
	if targetDir == "" {
		var err error
		targetDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", targetDir, err)
	}

	configSvc := config.NewConfigServiceWithBus(bus)
	configPath := c.String("config")
	if configPath == "" {
		configPath = filepath.Join(absDir, config.FileName)
	}

	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = configSvc.LoadFromPath(configPath)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded config from %s", configPath)
	} else if c.IsSet("config") {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	} else {
		cfg, err = configSvc.Load()
		if err != nil {
			return nil, err
		}
	}

	// The directory on the command line wins over root_dir
	if c.IsSet("dir") || cfg.RootDir == "" {
		cfg.RootDir = absDir
	}
	if c.IsSet("include") {
		cfg.Search.Include = c.String("include")
	}
	if c.IsSet("exclude") {
		cfg.Search.Exclude = c.String("exclude")
	}
	if c.IsSet("case") {
		cfg.Search.CaseSensitive = c.Bool("case")
	}
	if c.IsSet("word") {
		cfg.Search.WholeWord = c.Bool("word")
	}
	if c.IsSet("regex") {
		cfg.Search.UsePattern = c.Bool("regex")
	}
	return cfg, nil
}

func editCommand(c *cli.Context) error {
	defer setupLogging()()

	bus := eventbus.New()
	defer bus.Close()

	cfg, err := loadConfig(c, bus)
	if err != nil {
		return err
	}

	coord := coordinator.NewCoordinator(cfg, bus)
	if err := coord.Index.Refresh(c.Context); err != nil {
		return err
	}
	if file := c.Args().First(); file != "" {
		if _, err := coord.Workspace.Open(file); err != nil {
			return err
		}
	}

	uiModel := ui.NewModel(cfg, coord)
	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	// Files changed on disk: recount matches in the open buffer
	unsubscribe := bus.Subscribe(domain.EventCollectionChanged, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	defer unsubscribe()

	if os.Getenv("EDITGREP_E2E_TEST") != "" {
		fmt.Println("__READY__")
	}

	log.Printf("Starting UI in %s", cfg.RootDir)
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		return fmt.Errorf("error running program: %w", err)
	}
	log.Printf("UI exited normally")
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: editgrep search <query>", 2)
	}
	defer setupLogging()()

	cfg, err := loadConfig(c, nil)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	host := newConsoleHost(c.Args().First(), os.Stdout, os.Stdin)
	coord := coordinator.NewCoordinator(cfg, nil)
	coord.Attach(host)

	coord.Global.Search(ctx, host.CurrentQuery(), coord.Options, coord.Filters)
	return host.Err()
}

func replaceCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: editgrep replace <query> <replacement>", 2)
	}
	defer setupLogging()()

	cfg, err := loadConfig(c, nil)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	query, replacement := c.Args().Get(0), c.Args().Get(1)
	host := newConsoleHost(query, os.Stdout, os.Stdin)
	host.assumeYes = c.Bool("yes")
	coord := coordinator.NewCoordinator(cfg, nil)
	coord.Attach(host)

	// The confirm prompt counts what the last search found
	host.quiet = true
	coord.Global.Search(ctx, query, coord.Options, coord.Filters)
	host.quiet = false
	if err := host.Err(); err != nil {
		return err
	}
	if coord.Global.LastResults().Empty() {
		fmt.Fprintln(host.out, "No results")
		return nil
	}

	if err := coord.Replacer.Replace(ctx, query, replacement, coord.Global.LastResults()); err != nil {
		return err
	}
	return host.Err()
}
