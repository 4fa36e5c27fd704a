package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/bidcraft/internal/config"
	"github.com/amishk599/bidcraft/internal/model"
	"github.com/amishk599/bidcraft/internal/notifier"
	"github.com/amishk599/bidcraft/internal/proposal"
	"github.com/amishk599/bidcraft/internal/templates"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "bidcraft",
	Short: "Freelance proposal generator",
	Long:  "bidcraft turns a pasted job posting into short, pain-point-first proposal drafts.",
	// With no subcommand, open the interactive generator.
	RunE:         runInteractive,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: BIDCRAFT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > BIDCRAFT_CONFIG env var > "./config.yaml".
// A missing ./config.yaml is not an error; defaults are used instead.
func loadConfig(path string) (*config.Config, error) {
	explicit := true
	if path == "" {
		if env := os.Getenv("BIDCRAFT_CONFIG"); env != "" {
			path = env
		} else {
			path = defaultConfigPath
			explicit = false
		}
	}
	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// setupLogger writes to stderr so generated proposals on stdout stay clean.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// setupGenerator loads the template store and wires the pipeline. A non-zero
// seed makes wording choices reproducible.
func setupGenerator(cfg *config.Config, seed uint64, logger *slog.Logger) (*proposal.Generator, error) {
	store, err := loadTemplates(cfg.Generation.Templates)
	if err != nil {
		return nil, err
	}

	chooser := proposal.DefaultChooser()
	if seed != 0 {
		chooser = proposal.NewSeededChooser(seed)
		logger.Debug("seeded chooser", "seed", seed)
	}
	return proposal.New(store, chooser, logger), nil
}

func loadTemplates(path string) (*templates.Store, error) {
	if path == "" {
		return templates.Default()
	}
	return templates.LoadFile(path)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
