package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotimetable/internal/app"
	"github.com/hyperifyio/gotimetable/internal/prompt"
	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// Exit codes
const (
	exitOK         = 0
	exitConfig     = 1
	exitParseError = 2
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := app.LoadEnvFiles(".env"); err != nil {
		log.Warn().Err(err).Msg("load .env")
	}

	var (
		cfg        app.Config
		configPath string
	)
	flag.StringVar(&configPath, "config", os.Getenv("TIMETABLE_CONFIG"), "Path to YAML or JSON config file")
	flag.StringVar(&cfg.InputPath, "input", "", "Saved timetable page; '-' reads stdin, empty re-exports the stored timetable")
	flag.StringVar(&cfg.Encoding, "encoding", "", "Charset of the input page, e.g. gbk; empty detects")
	flag.StringVar(&cfg.OutputICS, "ics", "", "Write the timetable as an iCalendar file")
	flag.StringVar(&cfg.OutputWeeks, "weeks.ics", "", "Write an all-day week number calendar")
	flag.StringVar(&cfg.OutputXLSX, "xlsx", "", "Write the weekly grid as a spreadsheet")
	flag.StringVar(&cfg.OutputPDF, "pdf", "", "Write the weekly grid as a PDF")
	flag.StringVar(&cfg.PDFFont, "pdf.font", "", "UTF-8 TrueType font for the PDF grid")
	flag.StringVar(&cfg.CacheDir, "cache.dir", ".gotimetable-cache", "Cache directory for located markup and token streams")
	flag.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.BoolVar(&cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.StringVar(&cfg.StoreDir, "store", ".gotimetable", "Directory holding parsed timetables")
	flag.BoolVar(&cfg.StoreReplace, "store.replace", false, "Remove previously stored timetables before saving")
	flag.IntVar(&cfg.StartWeek, "weeks.start", 0, "First teaching week for courses without printed weeks")
	flag.IntVar(&cfg.EndWeek, "weeks.end", 0, "Last teaching week for courses without printed weeks")
	flag.IntVar(&cfg.IndicatorWeeks, "weeks.indicator", 0, "Number of week events; 0 uses the last course week")
	flag.StringVar(&cfg.TermStart, "term.start", "", "Monday of week 1 (YYYY-MM-DD)")
	flag.StringVar(&cfg.TimeZone, "term.tz", "", "IANA time zone for calendar events; empty uses local time")
	flag.StringVar(&cfg.MorningStart, "bell.morning", "", "Morning first class start (HH:MM)")
	flag.StringVar(&cfg.AfternoonStart, "bell.afternoon", "", "Afternoon first class start (HH:MM)")
	flag.StringVar(&cfg.EveningStart, "bell.evening", "", "Evening first class start (HH:MM)")
	flag.IntVar(&cfg.ClassMinutes, "bell.class", 0, "Minutes per class")
	flag.IntVar(&cfg.SmallBreak, "bell.smallBreak", 0, "Minutes between the classes of a block")
	flag.IntVar(&cfg.LargeBreak, "bell.largeBreak", 0, "Minutes between blocks")
	flag.StringVar(&cfg.WatchDir, "watch", "", "Parse every page saved into this directory until interrupted")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.Parse()

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config")
			os.Exit(exitConfig)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(exitConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(exitCode(run(ctx, cfg, newPrompter(cfg))))
}

// newPrompter asks on the terminal unless stdin carries the page itself.
func newPrompter(cfg app.Config) prompt.Prompter {
	if cfg.InputPath == "-" {
		return nil
	}
	return prompt.Terminal{In: os.Stdin, Out: os.Stderr}
}

func run(ctx context.Context, cfg app.Config, prompter prompt.Prompter) error {
	a, err := app.New(ctx, cfg, prompter)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	if cfg.WatchDir != "" {
		return a.Watch(ctx, cfg.WatchDir, func(path string, res *app.Result, err error) {
			if err == nil {
				report(res)
			}
		})
	}
	res, err := a.Run(ctx)
	if err != nil {
		return err
	}
	report(res)
	return nil
}

func report(res *app.Result) {
	if res.ExportErr != nil {
		log.Warn().Err(res.ExportErr).Msg("generation failed")
		return
	}
	log.Info().Int("courses", res.Timetable.Len()).Str("stored", res.StorePath).Msg("generation succeeded")
}

// exitCode maps classified failures to 2 and anything else to 1.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	log.Error().Err(err).Msg("run failed")
	for _, target := range []error{
		timetable.ErrNoClipboardData,
		timetable.ErrNoHTMLContent,
		timetable.ErrNoTableContent,
		timetable.ErrUndefinedStructure,
		timetable.ErrMalformedWeekRange,
		timetable.ErrUnexpectedParse,
		timetable.ErrPromptDismissed,
	} {
		if errors.Is(err, target) {
			return exitParseError
		}
	}
	return exitConfig
}
