// dlgedump prints raw records of a DLGE resource in stream order without
// resolving them into container tree. Useful when resource cannot be
// converted: every record up to the broken one is still shown.
//
// Subtitles are printed as encrypted bytes, references as raw indexes into
// sidecar dependency table (resolved when sidecar is present).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hmlt/common"
	"hmlt/dlge"
	"hmlt/lang"
	"hmlt/resource"
	"hmlt/utils/debug"
)

func main() {
	game := flag.String("game", common.VersionH3.String(), "game version ("+strings.Join(common.VersionNames(), ", ")+")")
	langMap := flag.String("langmap", "", "comma separated locales replacing built-in language table")
	out := flag.String("out", "", "write dump to file instead of stdout")
	overwrite := flag.Bool("overwrite", false, "overwrite existing output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: dlgedump [-game version] [-langmap locales] [-out file] [-overwrite] <file.DLGE>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	defer func(startedAt time.Time) {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", time.Since(startedAt))
	}(time.Now())

	v, err := common.ParseVersion(*game)
	if err != nil {
		fmt.Fprintf(os.Stderr, "game version: %v\n", err)
		os.Exit(2)
	}

	inPath := flag.Arg(0)
	b, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", inPath, err)
		os.Exit(1)
	}

	var meta *resource.Meta
	if data, err := os.ReadFile(inPath + resource.MetaSuffix); err == nil {
		if meta, err = resource.ParseMeta(data); err != nil {
			fmt.Fprintf(os.Stderr, "sidecar ignored: %v\n", err)
		}
	}

	text, err := dump(b, v, lang.Resolve(v, *langMap), meta)
	if err != nil {
		// keep what was decoded before the failure
		fmt.Fprintf(os.Stderr, "scan %s: %v\n", inPath, err)
	}

	if len(*out) == 0 {
		fmt.Print(text)
	} else if werr := writeOutput(*out, []byte(text), *overwrite); werr != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", werr)
		os.Exit(1)
	}
	if err != nil {
		os.Exit(1)
	}
}

func dump(data []byte, v common.Version, table lang.Table, meta *resource.Meta) (string, error) {
	tw := debug.NewTreeWriter()
	tw.Line(0, "DLGE [%d bytes] game=%s languages=%s", len(data), v, table)

	ref := func(idx uint32) string {
		if idx == 0xFFFFFFFF {
			return "none"
		}
		if meta != nil && int(idx) < len(meta.HashReferenceData) {
			return fmt.Sprintf("%d (%s)", idx, meta.HashReferenceData[idx].Hash)
		}
		return fmt.Sprintf("%d", idx)
	}

	count := map[dlge.Kind]int{}
	ditl, clng, root, err := dlge.Scan(data, v, len(table), func(offset int, rec any) error {
		switch rec := rec.(type) {
		case *dlge.WavRecord:
			idx := count[dlge.KindWavFile]
			count[dlge.KindWavFile]++
			tw.Line(1, "@%06X WavFile #%d soundtag=%08X wavName=%08X", offset, idx, rec.SoundTag, rec.WavName)
			for i, loc := range rec.Locales {
				code := "?"
				if i < len(table) {
					code = table[i]
				}
				tw.Line(2, "%s wav=%s ffx=%s", code, ref(loc.Wav), ref(loc.Ffx))
				if len(loc.Subtitle) > 0 {
					tw.Hex(3, "subtitle", loc.Subtitle)
				}
			}
		case *dlge.ContainerRecord:
			idx := count[rec.Kind]
			count[rec.Kind]++
			tw.Line(1, "@%06X %s #%d group=%08X default=%08X [%d]", offset, rec.Kind, idx, rec.SwitchGroup, rec.Default, len(rec.Entries))
			for _, e := range rec.Entries {
				hashes := make([]string, 0, len(e.Hashes))
				for _, h := range e.Hashes {
					hashes = append(hashes, fmt.Sprintf("%08X", h))
				}
				tw.Line(2, "-> %s #%d [%s]", e.Ref.Kind(), e.Ref.Index(), strings.Join(hashes, ","))
			}
		}
		return nil
	})
	if err != nil {
		return tw.String(), err
	}
	tw.Line(1, "DITL %s", ref(ditl))
	tw.Line(1, "CLNG %s", ref(clng))
	tw.Line(1, "root %s #%d", root.Kind(), root.Index())
	return tw.String(), nil
}

func writeOutput(path string, data []byte, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("output file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
