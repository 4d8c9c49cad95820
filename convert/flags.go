package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"hmlt/common"
	"hmlt/state"
)

// applyCodecFlags superimposes command line codec settings on top of
// configuration for a single invocation.
func applyCodecFlags(cmd *cli.Command, env *state.LocalEnv) error {
	c := &env.Cfg.Codec
	if cmd.IsSet("game") {
		v, err := common.ParseVersion(cmd.String("game"))
		if err != nil {
			return fmt.Errorf("unknown game version requested: %w", err)
		}
		c.Game = v
	}
	if cmd.IsSet("lang-map") {
		c.LangMap = cmd.String("lang-map")
	}
	if cmd.IsSet("default-locale") {
		c.DefaultLocale = cmd.String("default-locale")
	}
	if cmd.IsSet("hex-precision") {
		c.HexPrecision = cmd.Bool("hex-precision")
	}
	if cmd.IsSet("symmetric") {
		c.Symmetric = cmd.Bool("symmetric")
	}
	return nil
}

// errMetaPathSingle rejects --metapath for inputs with many resources.
var errMetaPathSingle = errors.New("sidecar path may only be specified for a single file")

// applyMetaPath stores absolute sidecar location requested on command line.
func applyMetaPath(cmd *cli.Command, env *state.LocalEnv) (err error) {
	env.MetaPath = ""
	if p := cmd.String("metapath"); len(p) > 0 {
		env.MetaPath, err = filepath.Abs(p)
	}
	return err
}

// sourceAndDestination returns absolute source and destination paths from
// command arguments, destination defaults to working directory.
func sourceAndDestination(cmd *cli.Command, log *zap.Logger) (src, dst string, err error) {
	src = cmd.Args().Get(0)
	if len(src) == 0 {
		return "", "", errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return "", "", err
	}

	dst = cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return "", "", fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return "", "", err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	return src, dst, nil
}

func commandWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
