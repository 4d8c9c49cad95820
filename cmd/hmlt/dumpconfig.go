package main

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"hmlt/config"
	"hmlt/state"
)

func dumpConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if extra := cmd.Args().Slice(); len(extra) > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", extra[1:]))
	}

	kind, data := "actual", []byte(nil)
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	var out io.Writer = os.Stdout
	dest := cmd.Args().Get(0)
	if len(dest) > 0 {
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dest, err)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("unable to close '%s': %w", dest, cerr)
			}
		}()
		out = f
	} else {
		dest = "STDOUT"
	}

	env.Log.Info("Writing configuration", zap.String("state", kind), zap.String("file", dest))
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
