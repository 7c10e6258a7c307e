package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/eypacha/drawandroll/internal/config"
	"github.com/eypacha/drawandroll/internal/game/cards"
	"github.com/eypacha/drawandroll/internal/report"
	"github.com/eypacha/drawandroll/internal/sim"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev" // set via ldflags during build

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, config.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Use --help for usage.")
		return exitUsage
	}

	logger, err := initLogger(cfg.Logging, cfg.Verbose)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return exitFailure
	}
	defer logger.Sync()

	logger.Debug("starting simulator",
		zap.String("version", version),
		zap.String("config", cfg.File),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := simulate(ctx, cfg, logger, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Use --help for usage.")
		return exitFailure
	}
	return exitOK
}

func simulate(ctx context.Context, cfg *config.Config, logger *zap.Logger, stdout io.Writer) error {
	batchPath, err := filepath.Abs(cfg.Batch)
	if err != nil {
		return err
	}
	pool, err := cards.Load(batchPath)
	if err != nil {
		return err
	}
	logger.Info("card pool loaded",
		zap.String("path", batchPath),
		zap.String("batch_id", pool.BatchID),
		zap.Int("cards", len(pool.Cards)),
	)

	runner, err := sim.NewRunner(pool, sim.Options{
		Games:     cfg.Games,
		Seed:      cfg.Seed,
		MaxTurns:  cfg.MaxTurns,
		Workers:   cfg.Workers,
		BotA:      cfg.Bots.A,
		BotB:      cfg.Bots.B,
		Rotate:    cfg.Bots.Rotate,
		Verbose:   cfg.Verbose,
		ReplayDir: cfg.ReplayDir,
	}, logger)
	if err != nil {
		return err
	}
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	rep := report.New(report.Config{
		BatchPath: batchPath,
		BatchID:   pool.BatchID,
		MaxTurns:  cfg.MaxTurns,
		BotA:      cfg.Bots.A,
		BotB:      cfg.Bots.B,
		Rotate:    cfg.Bots.Rotate,
	}, res)

	if err := report.WriteSummary(stdout, rep); err != nil {
		return err
	}
	if !cfg.JSON {
		return nil
	}

	data, err := report.EncodeJSON(rep)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\n=== JSON ===\n%s\n", data)

	if cfg.Out != "" {
		outPath, err := filepath.Abs(cfg.Out)
		if err != nil {
			return err
		}
		if err := report.WriteFile(outPath, rep); err != nil {
			return err
		}
		format := "JSON"
		if report.IsYAMLPath(outPath) {
			format = "YAML"
		}
		fmt.Fprintf(stdout, "%s written to %s\n", format, outPath)
	}
	return nil
}

// initLogger builds the diagnostic logger. Logs go to stderr so stdout stays
// a clean report. --verbose raises the level to info so per-match lines show.
func initLogger(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.WarnLevel
	}
	if verbose && level > zapcore.InfoLevel {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	return zapCfg.Build()
}
