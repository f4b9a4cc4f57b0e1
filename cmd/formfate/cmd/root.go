package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfate/internal/config"
	"github.com/goliatone/go-formfate/internal/loader"
	"github.com/goliatone/go-formfate/pkg/formdef"
	"github.com/goliatone/go-formfate/pkg/memo"
	"github.com/goliatone/go-formfate/pkg/validation"
)

// ErrInvalid is returned after a report when at least one document failed.
var ErrInvalid = errors.New("one or more documents are invalid")

// Execute runs the formfate command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Each call returns an independent
// tree so tests can run commands side by side.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	var (
		cfgFile string
		verbose bool
		format  string
	)

	root := &cobra.Command{
		Use:   "formfate",
		Short: "Validate and inspect declarative form definitions",
		Long: `formfate checks JSON or YAML form definitions and answers the
questions a renderer asks of them.

Commands:
  validate  - report every problem in one or more definitions
  defaults  - print the initial value map of a definition
  eval      - print field visibility and disabled state for a value map
  fill      - prompt for field values in the terminal
  values    - check a value map against the definition's JSON Schema
  lint      - report advisory findings that do not fail validation
  schema    - print the JSON Schema of a definition's value map
  docs      - render a field reference as Markdown or HTML

Definitions are read from file paths, http(s) URLs when enabled in the
configuration, or stdin when the argument is "-".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = strings.ToLower(format)
			}
			return a.setup(cfg, cmd)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./formfate.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")

	root.AddCommand(
		newValidateCommand(a),
		newDefaultsCommand(a),
		newEvalCommand(a),
		newFillCommand(a),
		newValuesCommand(a),
		newLintCommand(a),
		newSchemaCommand(a),
		newDocsCommand(a),
	)
	// PersistentPostRun is skipped when RunE fails, so release resources here.
	for _, sub := range root.Commands() {
		closeAfter(sub, a)
	}
	return root
}

func closeAfter(cmd *cobra.Command, a *app) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return run(cmd, args)
	}
}

// app carries the state shared by subcommands once flags and configuration
// are resolved.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	loader     *loader.Loader
	memo       *memo.Memo
	validation []validation.Option
	out        io.Writer
	in         io.Reader
}

func (a *app) setup(cfg config.Config, cmd *cobra.Command) error {
	if cfg.Format != "json" && cfg.Format != "yaml" {
		return fmt.Errorf("format must be json or yaml, got %q", cfg.Format)
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	a.in = cmd.InOrStdin()
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))

	a.validation = []validation.Option{validation.WithMaxDepth(cfg.MaxDepth)}
	if len(cfg.CustomTypes) > 0 {
		a.validation = append(a.validation, validation.WithCustomTypes(cfg.CustomTypes...))
	}

	var loaderOpts []formdef.LoaderOption
	if cfg.HTTP.Enabled {
		loaderOpts = append(loaderOpts, formdef.WithHTTPFallback(cfg.HTTP.Timeout))
	}
	if cfg.HTTP.MaxBytes > 0 {
		loaderOpts = append(loaderOpts, formdef.WithMaxBytes(cfg.HTTP.MaxBytes))
	}
	a.loader = loader.New(formdef.NewLoaderOptions(loaderOpts...))

	if cfg.Cache.Enabled {
		memoCfg := memo.DefaultConfig()
		if cfg.Cache.MaxCost > 0 {
			memoCfg.MaxCost = cfg.Cache.MaxCost
		}
		memoCfg.TTL = cfg.Cache.TTL
		m, err := memo.New(memoCfg, memo.WithValidationOptions(a.validation...))
		if err != nil {
			return fmt.Errorf("create cache: %w", err)
		}
		a.memo = m
	}

	a.logger.Debug("configuration resolved",
		"format", cfg.Format,
		"max_depth", cfg.MaxDepth,
		"http", cfg.HTTP.Enabled,
		"cache", cfg.Cache.Enabled,
	)
	return nil
}

func (a *app) close() {
	if a.memo != nil {
		a.memo.Close()
		a.memo = nil
	}
}

// read resolves a command argument into a raw document.
func (a *app) read(ctx context.Context, arg string) (formdef.RawDocument, error) {
	if arg == "-" {
		data, err := io.ReadAll(a.in)
		if err != nil {
			return formdef.RawDocument{}, fmt.Errorf("read stdin: %w", err)
		}
		return formdef.NewRawDocument(formdef.SourceInline("stdin"), data)
	}

	src := formdef.SourceFromFile(arg)
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		var err error
		if src, err = formdef.SourceFromURL(arg); err != nil {
			return formdef.RawDocument{}, err
		}
	}

	raw, err := a.loader.Load(ctx, src)
	if err != nil {
		return formdef.RawDocument{}, err
	}
	a.logger.Debug("definition loaded",
		"source", raw.Location(),
		"kind", string(src.Kind()),
		"fingerprint", raw.Fingerprint(),
	)
	return raw, nil
}

// validate runs validation through the cache when one is configured.
func (a *app) validate(ctx context.Context, raw formdef.RawDocument) (formdef.Document, error) {
	if a.memo != nil {
		return a.memo.Validate(ctx, raw)
	}
	return validation.Validate(raw, a.validation...)
}

// document reads and validates a single definition argument.
func (a *app) document(ctx context.Context, arg string) (formdef.Document, error) {
	raw, err := a.read(ctx, arg)
	if err != nil {
		return formdef.Document{}, err
	}
	doc, err := a.validate(ctx, raw)
	if err != nil {
		return formdef.Document{}, fmt.Errorf("%s: %w", raw.Location(), err)
	}
	return doc, nil
}

// values reads a JSON or YAML object from path.
func (a *app) values(ctx context.Context, path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := a.loader.Load(ctx, formdef.SourceFromFile(path))
	if err != nil {
		return nil, err
	}
	node, err := formdef.Parse(raw.Raw())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	value, err := formdef.NodeValue(node)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	values, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: values must be an object", path)
	}
	return values, nil
}

// write prints v in the configured format. YAML output is derived from the
// JSON encoding so both formats share field names and key order.
func (a *app) write(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if a.cfg.Format == "yaml" {
		node, err := formdef.Parse(payload)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		return enc.Close()
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	buf.WriteByte('\n')
	_, err = a.out.Write(buf.Bytes())
	return err
}
