package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotimetable/internal/cache"
	"github.com/hyperifyio/gotimetable/internal/export"
	"github.com/hyperifyio/gotimetable/internal/prompt"
	"github.com/hyperifyio/gotimetable/internal/source"
	"github.com/hyperifyio/gotimetable/internal/store"
	"github.com/hyperifyio/gotimetable/internal/timetable"
)

type App struct {
	cfg      Config
	pipeline Pipeline
	store    *store.Store
}

// Result is the outcome of one run. ExportErr collects renderer and
// persistence failures; the timetable is valid even when it is set.
type Result struct {
	Timetable *timetable.Timetable
	StorePath string
	ExportErr error
}

// New prepares the cache and store. prompter may be nil when the week range
// is configured or never needed.
func New(_ context.Context, cfg Config, prompter prompt.Prompter) (*App, error) {
	a := &App{cfg: cfg}
	a.pipeline = Pipeline{Prompter: prompter, Weeks: cfg.Weeks()}
	if cfg.CacheDir != "" {
		// Apply cache invalidation controls
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("cache purged")
			}
		}
		a.pipeline.Cache = &cache.Cache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	if cfg.StoreDir != "" {
		a.store = &store.Store{Dir: cfg.StoreDir}
	}
	return a, nil
}

func (a *App) Close() {
	// nothing yet
}

// Run parses the configured input, or re-exports the stored timetable when
// no input is configured.
func (a *App) Run(ctx context.Context) (*Result, error) {
	if a.cfg.InputPath == "" {
		return a.Reexport(ctx)
	}
	return a.RunSource(ctx, source.File{Path: a.cfg.InputPath, Encoding: a.cfg.Encoding})
}

// RunSource parses the markup src supplies, stores and exports it.
func (a *App) RunSource(ctx context.Context, src source.Source) (*Result, error) {
	markup, err := src.Markup(ctx)
	if err != nil {
		return nil, err
	}
	tt, err := a.pipeline.Parse(ctx, markup)
	if err != nil {
		return nil, err
	}
	log.Info().Int("courses", tt.Len()).Msg("timetable parsed")

	res := &Result{Timetable: tt}
	var errs []error
	if a.store != nil {
		path, err := a.store.Save(tt, a.cfg.StoreReplace)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: store: %w", timetable.ErrExportFailure, err))
		} else {
			res.StorePath = path
			log.Debug().Str("path", path).Msg("timetable stored")
		}
	}
	if err := a.Export(tt); err != nil {
		errs = append(errs, err)
	}
	res.ExportErr = errors.Join(errs...)
	return res, nil
}

// Reexport renders the most recently stored timetable.
func (a *App) Reexport(_ context.Context) (*Result, error) {
	if a.store == nil {
		return nil, errors.New("no input and no store configured")
	}
	tt, err := a.store.LoadLatest()
	if err != nil {
		return nil, err
	}
	log.Info().Int("courses", tt.Len()).Msg("stored timetable loaded")
	return &Result{Timetable: tt, ExportErr: a.Export(tt)}, nil
}

// Export runs every configured renderer. Each failure wraps ErrExportFailure
// and does not stop the others.
func (a *App) Export(tt *timetable.Timetable) error {
	var errs []error
	if a.cfg.NeedsTiming() {
		timing, err := a.cfg.Timing()
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", timetable.ErrExportFailure, err))
		} else {
			errs = append(errs, a.exportCalendars(tt, timing)...)
		}
	}
	if a.cfg.OutputXLSX != "" {
		errs = append(errs, export.WriteXLSX(a.cfg.OutputXLSX, tt))
	}
	if a.cfg.OutputPDF != "" {
		errs = append(errs, export.WritePDF(a.cfg.OutputPDF, tt, export.PDFOptions{FontFile: a.cfg.PDFFont}))
	}
	return errors.Join(errs...)
}

func (a *App) exportCalendars(tt *timetable.Timetable, timing export.Timing) []error {
	var errs []error
	if a.cfg.OutputICS != "" {
		cal, err := export.Calendar(tt, timing)
		if err == nil {
			err = export.WriteCalendar(a.cfg.OutputICS, cal)
		}
		errs = append(errs, err)
	}
	if a.cfg.OutputWeeks != "" {
		weeks := a.cfg.IndicatorWeeks
		if weeks == 0 {
			weeks = lastWeek(tt)
		}
		cal, err := export.WeekIndicator(timing, weeks)
		if err == nil {
			err = export.WriteCalendar(a.cfg.OutputWeeks, cal)
		}
		errs = append(errs, err)
	}
	return errs
}

// lastWeek is the latest week any course occurs in.
func lastWeek(tt *timetable.Timetable) int {
	last := 0
	for _, c := range tt.Courses {
		for _, r := range c.Repetitions {
			last = max(last, r.ToWeek)
		}
	}
	return last
}
