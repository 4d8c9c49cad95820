package main

import (
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"

	"hmlt/common"
	"hmlt/convert"
	"hmlt/resource"
)

const convertHelp = `
SOURCE:
    path to resource(s) to process, one of:
        "[path_to_file]file.DLGE" - single resource
        "[path_to_directory]directory" - every resource under directory, symbolic links are not followed
        "[path_to_archive]archive.zip[path_in_archive]/file.LOCR" - single resource inside archive
        "[path_to_archive]archive.zip[path_in_archive]" - every resource under archive path

    Resource types: %s. Each resource needs "%s" sidecar with the
    same base name next to it unless --metapath points elsewhere. Archives
    inside archives are skipped.

DESTINATION:
    directory for "<resource>.json" documents, current working directory if absent
`

const rebuildHelp = `
SOURCE:
    JSON document or directory with documents (*.json). Resource type comes
    from document "$schema" or is recognized by document content.

DESTINATION:
    directory for "<hash>.<TYPE>" resources and their sidecars, current
    working directory if absent
`

const dumpconfigHelp = `
DESTINATION:
    file to write configuration to, STDOUT if absent

Active configuration is embedded defaults merged with configuration file
given by --config. Use --default to see embedded defaults alone.
`

// codecFlags override "codec" section of configuration.
func codecFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "game", Aliases: []string{"g"},
			Usage: "game `VERSION` resources belong to (" + strings.Join(common.VersionNames(), ", ") + ")"},
		&cli.StringFlag{Name: "lang-map", Usage: "comma separated `LOCALES` replacing built-in language table of the game"},
		&cli.StringFlag{Name: "default-locale", Usage: "`LOCALE` whose subtitles are kept without sound references"},
		&cli.BoolFlag{Name: "hex-precision", Usage: "write random weights as exact hexadecimal values"},
		&cli.BoolFlag{Name: "symmetric", Usage: "use legacy symmetric cipher for subtitles (h2016 resources)"},
	}
}

func metaPathFlag() cli.Flag {
	return &cli.StringFlag{Name: "metapath", Aliases: []string{"mp"},
		Usage: "sidecar `FILE` to use instead of \"<file>" + resource.MetaSuffix + "\", single file input only"}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "put all output into destination, do not repeat source directory structure"},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "replace existing output files"},
	}
}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:         "convert",
			Usage:        "Converts game resource(s) to editable JSON documents",
			ArgsUsage:    "SOURCE [DESTINATION]",
			OnUsageError: passUsageError,
			Action:       convert.Run,
			Flags: append(append(codecFlags(), outputFlags()...), metaPathFlag(),
				&cli.StringFlag{Name: "force-zip-cp",
					Usage: "use `ENCODING` for all non UTF-8 file names inside archives (IANA character set name)"}),
			CustomHelpTemplate: cli.CommandHelpTemplate +
				fmt.Sprintf(convertHelp, strings.Join(common.ResourceTypeNames(), ", "), resource.MetaSuffix),
		},
		{
			Name:               "rebuild",
			Usage:              "Rebuilds game resource(s) and sidecar(s) from edited JSON documents",
			ArgsUsage:          "SOURCE [DESTINATION]",
			OnUsageError:       passUsageError,
			Action:             convert.Rebuild,
			Flags:              append(append(codecFlags(), outputFlags()...), metaPathFlag()),
			CustomHelpTemplate: cli.CommandHelpTemplate + rebuildHelp,
		},
		{
			Name:         "info",
			Usage:        "Prints dependencies and structure of a single game resource",
			ArgsUsage:    "RESOURCE",
			OnUsageError: passUsageError,
			Action:       convert.Info,
			Flags:        append(codecFlags(), metaPathFlag()),
		},
		{
			Name:         "dumpconfig",
			Usage:        "Dumps either default or actual configuration (YAML)",
			ArgsUsage:    "DESTINATION",
			OnUsageError: passUsageError,
			Action:       dumpConfiguration,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
			},
			CustomHelpTemplate: cli.CommandHelpTemplate + dumpconfigHelp,
		},
	}
}
