// Command strata extracts a document's structure as JSON or Markdown.
//
// Usage:
//
//	strata extract [flags] FILE
//	strata pages FILE
//	strata fax --rows N [flags] FILE
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tsawler/strata"
	"github.com/tsawler/strata/format"
	"github.com/tsawler/strata/htmldoc"
	"github.com/tsawler/strata/internal/config"
	"github.com/tsawler/strata/ocr"
	"github.com/tsawler/strata/structure"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "strata:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "strata",
		Usage:     "Extract hierarchical document structure from PDF, HTML, Markdown and images",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				Sources: cli.EnvVars("STRATA_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "diagnostic log format: text or json",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "diagnostic log level: debug, info, warn or error",
				Value: "warn",
			},
		},
		Commands: []*cli.Command{
			extractCommand(),
			pagesCommand(),
			faxCommand(),
		},
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract the structure of a document",
		ArgsUsage: "FILE",
		Flags: append(outputFlags(),
			&cli.StringFlag{
				Name:  "pages",
				Usage: "PDF pages to extract, e.g. 1,3-5 (default: all)",
			},
			&cli.StringFlag{
				Name:  "input-format",
				Usage: "override format detection: pdf, html, markdown or image",
			},
			&cli.IntFlag{
				Name:  "k-clusters",
				Usage: "number of font-size clusters (2-10)",
			},
			&cli.Float64Flag{
				Name:  "ocr-threshold",
				Usage: "flag pages whose text covers less than this fraction of the page",
			},
			&cli.BoolFlag{
				Name:  "detect-layers",
				Usage: "classify page headers, footers and footnotes",
			},
			&cli.BoolFlag{
				Name:  "flat",
				Usage: "disable hierarchy detection; every block becomes a paragraph",
			},
			&cli.StringFlag{
				Name:  "navigation",
				Usage: "HTML navigation exclusion: none, explicit, standard or aggressive",
			},
			&cli.BoolFlag{
				Name:  "title",
				Usage: "emit the HTML <title> as the document title",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "OCR language, e.g. eng or deu+eng",
			},
			&cli.IntFlag{
				Name:  "dpi",
				Usage: "source resolution of an image, used to resample before OCR",
			},
		),
		Action: runExtract,
	}
}

func pagesCommand() *cli.Command {
	return &cli.Command{
		Name:      "pages",
		Usage:     "Print the number of pages in a document",
		ArgsUsage: "FILE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			filename, err := fileArg(cmd)
			if err != nil {
				return err
			}
			n, err := strata.Open(filename).PageCount()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, n)
			return err
		},
	}
}

func faxCommand() *cli.Command {
	return &cli.Command{
		Name:      "fax",
		Usage:     "Recognize a raw CCITT fax stream",
		ArgsUsage: "FILE",
		Flags: append(outputFlags(),
			&cli.IntFlag{
				Name:     "rows",
				Usage:    "image height in pixels",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "columns",
				Usage: "image width in pixels",
				Value: 1728,
			},
			&cli.BoolFlag{
				Name:  "group4",
				Usage: "the stream uses T.6 (Group 4) coding",
			},
			&cli.BoolFlag{
				Name:  "black-is-1",
				Usage: "set bits are black",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "OCR language, e.g. eng or deu+eng",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ext, err := newExtractor(cmd)
			if err != nil {
				return err
			}
			ext = ext.Fax(ocr.FaxOptions{
				Columns:  cmd.Int("columns"),
				Rows:     cmd.Int("rows"),
				Group4:   cmd.Bool("group4"),
				BlackIs1: cmd.Bool("black-is-1"),
			})
			if lang := cmd.String("lang"); lang != "" {
				ext = ext.Language(lang)
			}
			return writeResult(ctx, cmd, ext)
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: markdown, json or document",
			Value:   "markdown",
		},
		&cli.BoolFlag{
			Name:  "furniture",
			Usage: "include headers and footers in Markdown output",
		},
	}
}

func runExtract(ctx context.Context, cmd *cli.Command) error {
	ext, err := newExtractor(cmd)
	if err != nil {
		return err
	}

	if spec := cmd.String("pages"); spec != "" {
		pages, err := parsePages(spec)
		if err != nil {
			return err
		}
		ext = ext.Pages(pages...)
	}
	if name := cmd.String("input-format"); name != "" {
		f, err := parseFormat(name)
		if err != nil {
			return err
		}
		ext = ext.Format(f)
	}
	if cmd.IsSet("k-clusters") {
		ext = ext.KClusters(cmd.Int("k-clusters"))
	}
	if cmd.IsSet("ocr-threshold") {
		ext = ext.OCRThreshold(cmd.Float64("ocr-threshold"))
	}
	if cmd.Bool("detect-layers") {
		ext = ext.DetectLayers()
	}
	if name := cmd.String("navigation"); name != "" {
		mode, ok := htmldoc.ParseNavigationExclusionMode(name)
		if !ok {
			return fmt.Errorf("unknown navigation mode %q", name)
		}
		ext = ext.Navigation(mode)
	}
	if cmd.Bool("title") {
		ext = ext.EmitTitle()
	}
	if lang := cmd.String("lang"); lang != "" {
		ext = ext.Language(lang)
	}
	if cmd.IsSet("dpi") {
		ext = ext.SourceDPI(cmd.Int("dpi"))
	}

	return writeResult(ctx, cmd, ext)
}

// newExtractor applies the configuration file and logging flags shared by
// every command. Command line flags are applied afterwards and win.
func newExtractor(cmd *cli.Command) (*strata.Extractor, error) {
	filename, err := fileArg(cmd)
	if err != nil {
		return nil, err
	}

	settings := config.Default()
	if path := cmd.String("config"); path != "" {
		settings, err = config.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	logger, err := newLogger(cmd.Root().ErrWriter, cmd.String("log-format"), cmd.String("log-level"))
	if err != nil {
		return nil, err
	}

	conf := settings.Processor
	if cmd.Bool("flat") {
		conf.Enabled = false
	}
	processor, err := strata.NewWithConfig(conf)
	if err != nil {
		return nil, err
	}

	ext := strata.Open(filename).
		Processor(processor.WithLogger(logger)).
		Navigation(settings.Navigation)
	if settings.OCRLanguage != "" {
		ext = ext.Language(settings.OCRLanguage)
	}
	if settings.SourceDPI > 0 {
		ext = ext.SourceDPI(settings.SourceDPI)
	}
	return ext, nil
}

func writeResult(ctx context.Context, cmd *cli.Command, ext *strata.Extractor) error {
	out := cmd.Root().Writer

	switch cmd.String("output") {
	case "markdown", "md":
		opts := structure.DefaultMarkdownOptions()
		opts.IncludeFurniture = cmd.Bool("furniture")
		md, err := ext.MarkdownWithOptions(ctx, opts)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, md)
		return err
	case "json":
		doc, err := ext.Structure(ctx)
		if err != nil {
			return err
		}
		return encodeJSON(out, doc)
	case "document":
		result, err := ext.Document(ctx)
		if err != nil {
			return err
		}
		return encodeJSON(out, result)
	default:
		return fmt.Errorf("unknown output format %q", cmd.String("output"))
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fileArg(cmd *cli.Command) (string, error) {
	if cmd.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one FILE argument", cmd.Name)
	}
	return cmd.Args().First(), nil
}

func newLogger(w io.Writer, logFormat, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch logFormat {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", logFormat)
	}
}

func parseFormat(name string) (format.Format, error) {
	switch strings.ToLower(name) {
	case "pdf":
		return format.PDF, nil
	case "html", "htm":
		return format.HTML, nil
	case "markdown", "md":
		return format.Markdown, nil
	case "image":
		return format.Image, nil
	default:
		return format.Unknown, fmt.Errorf("unknown input format %q", name)
	}
}

// parsePages parses a comma separated list of pages and inclusive ranges
func parsePages(spec string) ([]int, error) {
	var pages []int
	for part := range strings.SplitSeq(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("invalid page range %q", part)
		}
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages in %q", spec)
	}
	return pages, nil
}
