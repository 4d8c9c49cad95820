// Package convert drives codecs over files, directories and archives: it
// turns game resources into editable documents and back.
package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"hmlt/archive"
	"hmlt/clng"
	"hmlt/common"
	"hmlt/config"
	"hmlt/ditl"
	"hmlt/dlge"
	"hmlt/locr"
	"hmlt/resource"
	"hmlt/state"
)

// treeSeq keeps names of tree dumps in debug report unique.
var treeSeq atomic.Int64

// Run is "convert" command: resources to editable documents.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert").With(zap.String("run", env.RunID))

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

	// zip entries without UTF-8 flag carry names in unknown code page
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("game", env.Cfg.Codec.Game))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process walks src from the full path up until an existing prefix is found.
// That prefix is a directory, a single resource or an archive, whatever
// remains is path inside archive.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// may be inside archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if len(env.MetaPath) > 0 {
				return errMetaPathSingle
			}
			if err := processDir(ctx, head, dst, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			if len(env.MetaPath) > 0 {
				return errMetaPathSingle
			}
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), "", dst, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if rt, ok := resourceType(head); ok && len(tail) == 0 {
			// resource cannot have tail
			return processFile(ctx, head, filepath.Base(head), rt, dst, log)
		}
		return fmt.Errorf("input was not recognized as game resource (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

func naturalCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}

// listFiles returns regular files under dir in natural order.
func listFiles(ctx context.Context, dir string, log *zap.Logger) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	slices.SortFunc(files, naturalCompare)
	return files, err
}

// processDir walks directory tree finding resources and archives and
// processes them. Single failure does not stop processing, all failures are
// returned together.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	files, err := listFiles(ctx, dir, log)
	if err != nil {
		return err
	}

	var errs error
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		if rt, ok := resourceType(path); ok {
			count++
			if err := processFile(ctx, path, rel, rt, dst, log); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", rel, err))
			}
			continue
		}
		if strings.HasSuffix(strings.ToLower(path), resource.MetaSuffix) {
			// consumed with its resource
			continue
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !isArchive {
			log.Debug("Skipping file, not recognized as resource or archive", zap.String("file", path))
			continue
		}
		count++
		if err := processArchive(ctx, path, "", filepath.Dir(rel), dst, log); err != nil {
			log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", rel, err))
		}
	}
	return errs
}

// processArchive walks all resources inside archive under "pathIn" and
// processes them.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, log *zap.Logger) (err error) {
	env := state.EnvFromContext(ctx)

	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	var errs error
	err = archive.Walk(path, pathIn, env.CodePage, func(arc string, e *archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		count++

		data, err := archive.ReadFile(e.File)
		if err != nil {
			log.Error("Unable to read file in archive", zap.String("archive", arc), zap.String("file", e.Name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", e.Name, err))
			return nil
		}
		var metaData []byte
		if e.Meta != nil {
			if metaData, err = archive.ReadFile(e.Meta); err != nil {
				log.Error("Unable to read sidecar in archive", zap.String("archive", arc), zap.String("file", e.Name), zap.Error(err))
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", e.Name, err))
				return nil
			}
		}

		if err := processResource(ctx, e.Type, data, metaData, filepath.Join(pathOut, filepath.FromSlash(e.Name)), dst, log); err != nil {
			log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", e.Name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", e.Name, err))
		}
		return nil
	})
	return multierr.Append(err, errs)
}

// readResource loads resource body together with its sidecar. Sidecar
// absent next to the resource gives nil metaData, explicitly requested
// sidecar must exist.
func readResource(path, metaPath string) ([]byte, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	explicit := len(metaPath) > 0
	if !explicit {
		metaPath = path + resource.MetaSuffix
	}
	metaData, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return nil, nil, fmt.Errorf("sidecar %s was not found", metaPath)
			}
			return data, nil, nil
		}
		return nil, nil, fmt.Errorf("unable to read sidecar: %w", err)
	}
	return data, metaData, nil
}

// processFile converts single resource file, failed inputs are copied into
// debug report.
func processFile(ctx context.Context, path, src string, rt common.ResourceType, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	data, metaData, err := readResource(path, env.MetaPath)
	if err == nil {
		err = processResource(ctx, rt, data, metaData, src, dst, log)
	}
	if err != nil {
		log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		if env.Rpt != nil {
			if rerr := env.Rpt.StoreCopy("failed/"+filepath.Base(path), path); rerr != nil {
				log.Warn("Unable to store failed input in report", zap.Error(rerr))
			}
			if metaData != nil {
				env.Rpt.StoreData(fmt.Sprintf("failed/%d-%s%s", treeSeq.Add(1), filepath.Base(path), resource.MetaSuffix), metaData)
			}
		}
	}
	return err
}

// decodeResource dispatches resource body to its codec. For dialogue events
// human readable tree is returned as well.
func decodeResource(env *state.LocalEnv, rt common.ResourceType, data []byte, meta *resource.Meta) (json.Marshaler, string, error) {
	switch rt {
	case common.ResourceTypeDLGE:
		doc, err := dlge.Convert(data, meta, env.DLGEOptions())
		if err != nil {
			return nil, "", err
		}
		return doc, dlge.Dump(doc), nil
	case common.ResourceTypeLOCR:
		doc, err := locr.Convert(data, meta, env.LOCROptions())
		return doc, "", err
	case common.ResourceTypeDITL:
		doc, err := ditl.Convert(data, meta, env.DITLOptions())
		return doc, "", err
	case common.ResourceTypeCLNG:
		doc, err := clng.Convert(data, meta, env.CLNGOptions())
		return doc, "", err
	}
	return nil, "", fmt.Errorf("unsupported resource type %s", rt)
}

// marshalDocument renders editable document, subtitles are kept readable.
func marshalDocument(doc json.Marshaler, indent bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// processResource converts single resource and writes its document under
// dst. "src" names the resource relative to what was given on the command
// line: base name for a single file, relative path for directory or archive
// entries.
func processResource(ctx context.Context, rt common.ResourceType, data, metaData []byte, src, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Conversion starting", zap.String("from", src), zap.Stringer("type", rt))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("from", src), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	if metaData == nil {
		return fmt.Errorf("sidecar %s was not found", filepath.Base(src)+resource.MetaSuffix)
	}
	meta, err := resource.ParseMeta(metaData)
	if err != nil {
		return err
	}

	doc, tree, err := decodeResource(env, rt, data, meta)
	if err != nil {
		return fmt.Errorf("unable to convert %s: %w", rt, err)
	}
	out, err := marshalDocument(doc, env.Cfg.Output.Indent)
	if err != nil {
		return fmt.Errorf("unable to prepare document: %w", err)
	}

	outputName = buildOutputPath(newValues(config.NameTemplateFieldName, meta, rt, env.Cfg.Codec.Game, src), src, dst, env)
	if err := writeOutputs(env, log, outputFile{outputName, out}); err != nil {
		return err
	}

	if env.Rpt != nil && len(tree) > 0 {
		env.Rpt.StoreData(fmt.Sprintf("tree/%d-%s.txt", treeSeq.Add(1), filepath.Base(src)), []byte(tree))
	}
	return nil
}

type outputFile struct {
	name string
	data []byte
}

// writeOutputs checks all destinations before writing anything, so resource
// is either fully written or not written at all.
func writeOutputs(env *state.LocalEnv, log *zap.Logger, files ...outputFile) error {
	for _, f := range files {
		if _, err := os.Stat(f.name); err == nil {
			if !env.Overwrite {
				return fmt.Errorf("output file already exists: %s", f.name)
			}
			log.Warn("Overwriting existing file", zap.String("file", f.name))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.name), 0755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
		if err := os.WriteFile(f.name, f.data, 0644); err != nil {
			return fmt.Errorf("unable to write output: %w", err)
		}
	}
	return nil
}
