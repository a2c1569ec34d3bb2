package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sleroq/wordpress-to-yaml/internal/app/exporter"
	"github.com/sleroq/wordpress-to-yaml/internal/config"
	"github.com/sleroq/wordpress-to-yaml/internal/logging"
)

var summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

type convertFlags struct {
	configPath        string
	postTypes         []string
	excludeFields     []string
	convertToMarkdown bool
	notesDir          string
	filenameEscaping  string
	logLevel          string
	logFormat         string
	progress          bool
}

func newRootCmd() *cobra.Command {
	var f convertFlags
	cmd := &cobra.Command{
		Use:   "wordpress-to-yaml <xml_file> <yaml_file>",
		Short: "Convert a WordPress export to YAML",
		Long: "Reads a WordPress eXtended RSS export and writes its posts, pages and attachments " +
			"as a YAML list of records, decoding serialized custom fields and resolving gallery " +
			"and thumbnail attachment references.",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, f)
			if err != nil {
				return err
			}
			return runConvert(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	flags.StringSliceVar(&f.postTypes, "post-types", nil, "Post types to keep in the output (default: all)")
	flags.StringSliceVar(&f.excludeFields, "exclude-custom-fields", nil, "Glob patterns of custom field keys to drop")
	flags.BoolVar(&f.convertToMarkdown, "convert-to-markdown", false, "Convert post content from HTML to Markdown")
	flags.StringVar(&f.notesDir, "notes-dir", "", "Also write one Markdown note per record into this directory")
	flags.StringVar(&f.filenameEscaping, "filename-escaping", "auto", "Note filename escaping: auto, posix or windows")
	flags.StringVar(&f.logLevel, "log-level", "warn", "Log level: trace, debug, info, warn or error")
	flags.StringVar(&f.logFormat, "log-format", "console", "Log format: console, json or pretty")
	flags.BoolVar(&f.progress, "progress", true, "Show a progress bar when stderr is a terminal")

	cmd.AddCommand(newMarkdownCmd(), newUnserializeCmd())
	return cmd
}

// resolveConfig layers positional arguments and explicitly set flags over
// the environment and config file.
func resolveConfig(cmd *cobra.Command, args []string, f convertFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath, os.LookupEnv)
	if err != nil {
		return config.Config{}, err
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}

	changed := cmd.Flags().Changed
	if changed("post-types") {
		cfg.PostTypes = f.postTypes
	}
	if changed("exclude-custom-fields") {
		cfg.ExcludeCustomFields = f.excludeFields
	}
	if changed("convert-to-markdown") {
		cfg.ConvertToMarkdown = f.convertToMarkdown
	}
	if changed("notes-dir") {
		cfg.NotesDir = f.notesDir
	}
	if changed("filename-escaping") {
		cfg.FilenameEscaping = f.filenameEscaping
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("progress") {
		cfg.Progress = f.progress
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runConvert(cmd *cobra.Command, cfg config.Config) error {
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}

	stats, err := exporter.Exporter{
		InputPath:           cfg.Input,
		OutputPath:          cfg.Output,
		PostTypes:           cfg.PostTypes,
		ExcludeCustomFields: cfg.ExcludeCustomFields,
		ConvertToMarkdown:   cfg.ConvertToMarkdown,
		NotesDir:            cfg.NotesDir,
		FilenameEscaping:    cfg.FilenameEscaping,
		Progress:            cfg.Progress,
		Logger:              logger,
	}.Run()
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("exported %d records (%d attachments indexed)", stats.Records, stats.Attachments)
	if stats.Notes > 0 {
		summary += fmt.Sprintf(", wrote %d notes", stats.Notes)
	}
	fmt.Fprintln(cmd.OutOrStdout(), summaryStyle.Render(summary))
	return nil
}
