package main

import (
	"fmt"
	"os"

	"github.com/prasetyowira/qrgen/config"
	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/history"
	"github.com/prasetyowira/qrgen/domain/qr"
	historyStore "github.com/prasetyowira/qrgen/infrastructure/history"
	appLogger "github.com/prasetyowira/qrgen/infrastructure/logger"
	"github.com/prasetyowira/qrgen/infrastructure/qrcode"
	"github.com/prasetyowira/qrgen/infrastructure/render"
	"github.com/spf13/cobra"
)

// cliApp holds the services shared by subcommands. It is opened on first use.
type cliApp struct {
	cfg     config.Config
	encoder *qrcode.Encoder
	service *qr.Service
	history *history.Log
	close   func() error
}

// open loads configuration, applies persistent flag overrides and wires the
// generation pipeline.
func (a *cliApp) open(cmd *cobra.Command) error {
	if a.service != nil {
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if level, _ := flags.GetString("log-level"); flags.Changed("log-level") {
		cfg.LogLevel = level
	} else if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		cfg.LogLevel = "error"
	}
	if flags.Changed("history-backend") {
		cfg.HistoryBackend, _ = flags.GetString("history-backend")
	}
	if flags.Changed("history-path") {
		path, _ := flags.GetString("history-path")
		cfg.HistoryPath = path
		cfg.DatabaseURL = path
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger.Initialize(cfg.LogLevel)

	store, closeStore, err := historyStore.Open(cmd.Context(), cfg.HistoryBackend, cfg.HistoryLocation())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}

	style, _ := cfg.Style()
	a.cfg = cfg
	a.encoder = qrcode.NewEncoder()
	a.history = history.NewLog(store)
	a.service = qr.NewService(a.encoder, render.NewComposer(), a.history, style)
	a.close = closeStore

	appLogger.CtxDebug(cmd.Context(), "CLI ready", appLogger.LoggerInfo{
		ContextFunction: constant.CtxCLI,
		Data: map[string]interface{}{
			constant.DataCommand: cmd.Name(),
			constant.DataBackend: cfg.HistoryBackend,
			constant.DataPath:    cfg.HistoryLocation(),
		},
	})
	return nil
}

func (a *cliApp) shutdown() error {
	appLogger.Close()
	if a.close == nil {
		return nil
	}
	err := a.close()
	a.close = nil
	return err
}

// NewRootCmd creates the root command for qrgen.
func NewRootCmd() *cobra.Command {
	app := &cliApp{}

	cmd := &cobra.Command{
		Use:   "qrgen",
		Short: "Generate QR codes from free text, WiFi credentials and contact cards",
		Long: `qrgen detects what kind of text it is given and encodes it as a QR code.

Bare domains and www. hosts become https:// links, email addresses become
mailto: links, phone numbers become tel: links and @handles become Instagram
profile links. Anything else is encoded verbatim.

Every generated code is recorded in a short history (the 10 most recent).
Settings are read from .qrgen.yaml (or $QRGEN_CONFIG) and environment variables.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return app.shutdown()
		},
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().String("log-level", "error", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("history-backend", "", "History backend (json or sqlite)")
	cmd.PersistentFlags().String("history-path", "", "History file or database path")

	// Add subcommands
	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newWiFiCmd(app))
	cmd.AddCommand(newVCardCmd(app))
	cmd.AddCommand(newBatchCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(NewDetectCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
