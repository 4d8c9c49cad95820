package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hmlt/clng"
	"hmlt/common"
	"hmlt/ditl"
	"hmlt/dlge"
	"hmlt/locr"
	"hmlt/resource"
	"hmlt/schemas"
	"hmlt/state"
)

// Rebuild is "rebuild" command: editable documents back to resources.
func Rebuild(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("rebuild").With(zap.String("run", env.RunID))

	src, dst, err := sourceAndDestination(cmd, log)
	if err != nil {
		return err
	}
	if err := applyCodecFlags(cmd, env); err != nil {
		return err
	}
	if err := applyMetaPath(cmd, env); err != nil {
		return err
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("game", env.Cfg.Codec.Game))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return processDocuments(ctx, src, dst, log)
}

// processDocuments rebuilds single document or all documents found in
// directory tree.
func processDocuments(ctx context.Context, src, dst string, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}
	if fi.Mode().IsRegular() {
		return rebuildFile(ctx, src, filepath.Base(src), dst, log)
	}
	if !fi.Mode().IsDir() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
	if len(state.EnvFromContext(ctx).MetaPath) > 0 {
		return errMetaPathSingle
	}

	files, err := listFiles(ctx, src, log)
	if err != nil {
		return err
	}

	var errs error
	count := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isDocumentFile(path) {
			continue
		}
		count++
		rel := strings.TrimPrefix(strings.TrimPrefix(path, src), string(filepath.Separator))
		if err := rebuildFile(ctx, path, rel, dst, log); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", rel, err))
		}
	}
	if count == 0 {
		log.Debug("Nothing to process", zap.String("dir", src))
	}
	if errs != nil {
		return fmt.Errorf("unable to process directory: %w", errs)
	}
	return nil
}

func rebuildFile(ctx context.Context, path, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	data, err := os.ReadFile(path)
	if err == nil {
		err = rebuildDocument(ctx, data, src, dst, log)
	}
	if err != nil {
		log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		if env.Rpt != nil {
			if rerr := env.Rpt.StoreCopy("failed/"+filepath.Base(path), path); rerr != nil {
				log.Warn("Unable to store failed input in report", zap.Error(rerr))
			}
		}
	}
	return err
}

// rebuildResource decodes document of known type and dispatches it to its
// codec.
func rebuildResource(env *state.LocalEnv, rt common.ResourceType, data []byte) (*resource.Rebuilt, error) {
	switch rt {
	case common.ResourceTypeDLGE:
		var doc dlge.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return dlge.Rebuild(&doc, env.DLGEOptions())
	case common.ResourceTypeLOCR:
		var doc locr.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return locr.Rebuild(&doc, env.LOCROptions())
	case common.ResourceTypeDITL:
		var doc ditl.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return ditl.Rebuild(&doc, env.DITLOptions())
	case common.ResourceTypeCLNG:
		var doc clng.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return clng.Rebuild(&doc)
	}
	return nil, fmt.Errorf("unsupported resource type %s", rt)
}

// rebuildDocument produces resource and its sidecar from editable document.
// "src" is path of the document relative to the original source.
func rebuildDocument(ctx context.Context, data []byte, src, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Rebuild starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Rebuild ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("from", src), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("rebuild panic: %v", r)
		} else if rerr == nil {
			log.Info("Rebuild completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	rt, err := sniffType(data)
	if err != nil {
		return err
	}
	if env.Cfg.Output.ValidateSchema {
		if err := schemas.Validate(rt, data); err != nil {
			return fmt.Errorf("document does not match %s schema: %w", rt, err)
		}
	}

	rebuilt, err := rebuildResource(env, rt, data)
	if err != nil {
		return fmt.Errorf("unable to rebuild %s: %w", rt, err)
	}
	for _, w := range multierr.Errors(rebuilt.Warnings) {
		log.Warn("Document was not reproduced exactly", zap.String("from", src), zap.Error(w))
	}

	metaData, err := rebuilt.Meta.Marshal()
	if err != nil {
		return fmt.Errorf("unable to prepare sidecar: %w", err)
	}

	outputName = buildRebuiltPath(rebuilt.Meta.HashValue+rt.Ext(), src, dst, env)
	metaName := outputName + resource.MetaSuffix
	if len(env.MetaPath) > 0 {
		metaName = env.MetaPath
	}
	return writeOutputs(env, log,
		outputFile{outputName, rebuilt.File},
		outputFile{metaName, metaData},
	)
}
