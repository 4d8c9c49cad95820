package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hmlt/config"
	"hmlt/misc"
	"hmlt/state"
)

// setup runs after command line parsing and before any command action.
// Bare invocation (help, version) gets no environment.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)
	cfgFile := cmd.String("config")

	cfg, err := config.LoadConfiguration(cfgFile)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	env.Cfg = cfg

	if cmd.Bool("debug") {
		if env.Rpt, err = openReport(env.Cfg, cfgFile); err != nil {
			return ctx, err
		}
	}

	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	if err := env.LoadNames(); err != nil {
		return ctx, fmt.Errorf("unable to load names: %w", err)
	}

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()))
	switch {
	case env.Rpt != nil:
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	case len(cfgFile) == 0:
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

// openReport starts debug report and puts effective configuration into it
// when it came from a file.
func openReport(cfg *config.Config, cfgFile string) (*config.Report, error) {
	rpt, err := cfg.Reporting.Prepare()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare debug report: %w", err)
	}
	if len(cfgFile) == 0 {
		return rpt, nil
	}
	if data, err := config.Dump(cfg); err == nil {
		rpt.StoreData("config/"+filepath.Base(cfgFile), data)
	}
	return rpt, nil
}

// teardown releases whatever setup acquired. Logger is gone after
// RestoreStdLog so failures are only returned.
func teardown(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	var errs error
	if env.Rpt != nil {
		if err := env.Rpt.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unable to close debug report: %w", err))
		}
	}
	if env.Cfg != nil {
		errs = multierr.Append(errs, removeEmptyPanicLog(env.Cfg.Logging.FileLogger.Destination))
	}
	return errs
}

// removeEmptyPanicLog drops crash output file created next to the log when
// nothing was written into it.
func removeEmptyPanicLog(logFile string) error {
	if len(logFile) == 0 {
		return nil
	}
	debug.SetCrashOutput(nil, debug.CrashOptions{})

	name := filepath.Join(filepath.Dir(logFile), misc.GetAppName()+"-panic.log")
	fi, err := os.Stat(name)
	if err != nil || fi.Size() > 0 {
		return nil
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", name, err)
	}
	return nil
}

// errLogged is set when command error already went to the log, main then
// only sets exit code.
var errLogged bool

func logExitError(ctx context.Context, _ *cli.Command, err error) {
	if env := state.EnvFromContext(ctx); env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errLogged = true
	}
}

func passUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func unknownCommand(ctx context.Context, _ *cli.Command, name string) {
	if env := state.EnvFromContext(ctx); env.Log != nil {
		env.Log.Warn("Unknown command, nothing to do", zap.String("command", name))
		return
	}
	fmt.Fprintf(os.Stderr, "Unknown command %q, nothing to do\n", name)
}
