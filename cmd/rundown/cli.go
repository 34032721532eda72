package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/rundown"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Metrics rundown.Metrics

	// Records and Ledger are set when a database is configured.
	Records rundown.RecordService
	Ledger  rundown.SourceLedger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config      kong.ConfigFlag `help:"Load flag defaults from a YAML file"`
	Verbose     bool            `short:"v" help:"Log every processed file"`
	DB          string          `env:"RUNDOWN_DB" help:"SQLite database for extracted records"`
	MetricsFile string          `name:"metrics-file" help:"Write Prometheus counters to this textfile"`

	Clean   CleanCmd   `cmd:"" help:"Prune exports to whitelisted metadata and store them under canonical names"`
	Extract ExtractCmd `cmd:"" help:"Extract broadcast records from exports"`
	Records RecordsCmd `cmd:"" help:"Print stored records as CSV"`
	Arrange ArrangeCmd `cmd:"" help:"Move files into ISO week folders by modification time"`
	Name    NameCmd    `cmd:"" help:"Print the canonical name of export files"`
}

// CleanCmd is the "clean" subcommand.
type CleanCmd struct {
	Source      string `required:"" env:"RUNDOWN_SOURCE" type:"existingdir" help:"Directory with raw exports"`
	Target      string `required:"" env:"RUNDOWN_TARGET" help:"Directory for cleaned exports"`
	Concurrency int    `short:"c" default:"1" help:"Files processed at once"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Source       string            `required:"" env:"RUNDOWN_SOURCE" help:"Directory with exports"`
	Year         int               `help:"ISO year of the week folder to read"`
	Week         int               `help:"ISO week of the week folder to read"`
	Output       string            `short:"o" env:"RUNDOWN_EXPORT" help:"CSV output file, - for stdout"`
	Contributors bool              `help:"Add contributor columns"`
	Labels       bool              `help:"Render format labels and station abbreviations"`
	FormatLabels map[string]string `name:"format-label" env:"RUNDOWN_FORMAT_LABELS" help:"Label of a format code used with --labels, e.g. 3=Interview"`
	Strict       bool              `help:"Fail a file when a block has no hourly rundown"`
	Lenient      bool              `help:"Treat a file without rundown object as empty"`
	TicksPerMs   float64           `name:"ticks-per-ms" default:"1" help:"Timespan ticks per millisecond"`
	KeepDupes    bool              `name:"keep-duplicates" help:"Keep records equal to an earlier record"`
	Incremental  bool              `help:"Skip files unchanged since the last run (requires --db)"`
	Concurrency  int               `short:"c" default:"1" help:"Files processed at once"`
}

// RecordsCmd is the "records" subcommand.
type RecordsCmd struct {
	Source       string            `help:"Only records of this export"`
	Station      string            `help:"Only records of this station code"`
	Date         string            `help:"Only records of this date (YYYY-MM-DD)"`
	Limit        int               `help:"Maximum number of records"`
	Offset       int               `help:"Number of records to skip"`
	Contributors bool              `help:"Add contributor columns"`
	Labels       bool              `help:"Render format labels and station abbreviations"`
	FormatLabels map[string]string `name:"format-label" env:"RUNDOWN_FORMAT_LABELS" help:"Label of a format code used with --labels, e.g. 3=Interview"`
}

// ArrangeCmd is the "arrange" subcommand.
type ArrangeCmd struct {
	Dir    string `arg:"" type:"existingdir" help:"Directory to arrange"`
	DryRun bool   `short:"n" help:"Show files grouped by date without moving them"`
}

// NameCmd is the "name" subcommand.
type NameCmd struct {
	Files []string `arg:"" help:"Export file names"`
}
