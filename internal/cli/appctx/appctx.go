// Package appctx provides a shared bootstrap helper for CLI commands.
// It centralizes config loading, flag overrides, logger construction and
// ledger opening to reduce boilerplate across commands.
package appctx

import (
	"fmt"
	"io"
	"os"

	"github.com/lherron/tambo/internal/config"
	"github.com/lherron/tambo/internal/ledger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App holds the shared application context for commands.
type App struct {
	// Config is the loaded configuration with flag overrides applied
	Config *config.Config

	// Ledger is the opened run history (nil unless requested and configured)
	Ledger *ledger.Ledger

	// Logger writes to the command's stderr
	Logger *zap.Logger
}

// Close releases resources held by the App.
// Safe to call multiple times.
func (a *App) Close() {
	if a.Ledger != nil {
		a.Ledger.Close()
		a.Ledger = nil
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

// LedgerMode says whether a command uses the run ledger
type LedgerMode int

const (
	// LedgerNone never opens the ledger
	LedgerNone LedgerMode = iota
	// LedgerOptional opens the ledger when a path is configured
	LedgerOptional
	// LedgerRequired fails when no ledger path is configured
	LedgerRequired
)

// Options configures the bootstrap behavior.
type Options struct {
	Ledger LedgerMode
}

// DefaultOptions returns options for commands that only need config.
func DefaultOptions() Options {
	return Options{Ledger: LedgerNone}
}

// WithLedger returns options that require the ledger.
func WithLedger() Options {
	return Options{Ledger: LedgerRequired}
}

// RunFunc is the signature for command run functions.
type RunFunc func(app *App, cmd *cobra.Command, args []string) error

// WithApp wraps a command's run function with shared bootstrap logic.
// Resources are released automatically when the wrapped function returns.
func WithApp(opts Options, fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := Bootstrap(cmd, opts)
		if err != nil {
			return err
		}
		defer app.Close()

		return fn(app, cmd, args)
	}
}

// Bootstrap initializes the App according to the given options.
// Callers are responsible for calling App.Close() when done.
func Bootstrap(cmd *cobra.Command, opts Options) (*App, error) {
	app := &App{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	if v := flagValue(cmd, "ledger"); v != "" {
		app.Config.LedgerPath = v
	}
	if v := flagValue(cmd, "log-level"); v != "" {
		app.Config.LogLevel = v
	}

	var errOut io.Writer = os.Stderr
	if cmd != nil {
		errOut = cmd.ErrOrStderr()
	}
	app.Logger, err = NewLogger(app.Config.LogLevel, errOut)
	if err != nil {
		return nil, err
	}

	switch opts.Ledger {
	case LedgerRequired:
		if app.Config.LedgerPath == "" {
			return nil, fmt.Errorf("no ledger configured (use --ledger or set TAMBO_LEDGER_PATH)")
		}
		fallthrough
	case LedgerOptional:
		if app.Config.LedgerPath == "" {
			break
		}
		l, err := openLedger(app.Config.LedgerPath, app.Logger)
		if err != nil {
			return nil, err
		}
		app.Ledger = l
		app.Logger.Debug("ledger opened", zap.String("path", l.Path()))
	}

	return app, nil
}

func openLedger(path string, logger *zap.Logger) (*ledger.Ledger, error) {
	l, err := ledger.Open(path)
	if err != nil {
		return nil, err
	}

	pending, err := l.Pending()
	if err != nil {
		l.Close()
		return nil, err
	}
	if len(pending) == 0 {
		return l, nil
	}

	logger.Debug("migrating ledger", zap.String("path", path), zap.Strings("pending", pending))
	applied, err := l.Migrate()
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to migrate ledger: %w", err)
	}
	logger.Info("ledger migrated", zap.String("path", path), zap.Strings("applied", applied))
	return l, nil
}

// NewLogger builds a console logger at the named level writing to w
func NewLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), lvl)

	return zap.New(core), nil
}

func flagValue(cmd *cobra.Command, name string) string {
	if cmd == nil {
		return ""
	}
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}
