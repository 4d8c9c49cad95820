package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"hmlt/resource"
	"hmlt/state"
)

// Info is "info" command: prints dependency table of a single resource and,
// for dialogue events, its container tree.
func Info(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("info").With(zap.String("run", env.RunID))

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if err := applyCodecFlags(cmd, env); err != nil {
		return err
	}
	if err := applyMetaPath(cmd, env); err != nil {
		return err
	}

	log.Debug("Describing resource", zap.String("source", src), zap.Stringer("game", env.Cfg.Codec.Game))
	return describe(ctx, src, commandWriter(cmd))
}

func referenceTable(name, kind string, size int, refs []resource.Reference) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("%s %s", kind, name)
	tw.AppendHeader(table.Row{"#", "Reference", "Flag"})
	for i, ref := range refs {
		tw.AppendRow(table.Row{strconv.Itoa(i), ref.Hash, ref.Flag})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d bytes", size), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// describe decodes resource at path and writes human readable description.
func describe(ctx context.Context, path string, w io.Writer) error {
	env := state.EnvFromContext(ctx)

	rt, ok := resourceType(path)
	if !ok {
		return fmt.Errorf("input was not recognized as game resource (%s)", path)
	}
	if fi, err := os.Stat(path); err != nil {
		return fmt.Errorf("input source was not found (%s): %w", path, err)
	} else if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", path)
	}

	data, metaData, err := readResource(path, env.MetaPath)
	if err != nil {
		return err
	}
	if metaData == nil {
		return fmt.Errorf("sidecar %s was not found", filepath.Base(path)+resource.MetaSuffix)
	}
	meta, err := resource.ParseMeta(metaData)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, referenceTable(meta.Name(), rt.String(), len(data), meta.HashReferenceData)); err != nil {
		return err
	}

	doc, tree, err := decodeResource(env, rt, data, meta)
	if err != nil {
		return fmt.Errorf("unable to convert %s: %w", rt, err)
	}
	if len(tree) > 0 {
		_, err = io.WriteString(w, tree)
		return err
	}
	out, err := marshalDocument(doc, true)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
