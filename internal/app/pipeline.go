package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotimetable/internal/cache"
	"github.com/hyperifyio/gotimetable/internal/detect"
	"github.com/hyperifyio/gotimetable/internal/locate"
	"github.com/hyperifyio/gotimetable/internal/parse"
	"github.com/hyperifyio/gotimetable/internal/prompt"
	"github.com/hyperifyio/gotimetable/internal/timetable"
	"github.com/hyperifyio/gotimetable/internal/tokenize"
)

// Pipeline turns captured page markup into a Timetable: locate the grid,
// tokenize it, ask for a week range when courses print only a weekly count,
// then parse and merge.
type Pipeline struct {
	// Prompter is asked at most once per parse.
	Prompter prompt.Prompter
	// Cache, when set, keeps the located markup and its token stream.
	Cache *cache.Cache
	// Weeks, when valid, answers the week prompt without asking.
	Weeks timetable.WeekRange
}

// Parse runs every stage on markup. Classified failures are returned as
// wrapped timetable sentinels.
func (p Pipeline) Parse(ctx context.Context, markup string) (*timetable.Timetable, error) {
	loc, err := locate.FromHTML(markup)
	if err != nil {
		return nil, err
	}
	res, err := p.tokens(ctx, loc.Markup)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("template", res.Template.String()).Int("lines", len(res.Lines)).Msg("tokenized")

	parser := parse.New(res)
	weeks, err := p.weeks(ctx, parser.Lines())
	if err != nil {
		return nil, err
	}
	return parser.Parse(weeks)
}

// tokens tokenizes markup, reusing a cached stream for identical markup.
func (p Pipeline) tokens(ctx context.Context, markup string) (tokenize.Result, error) {
	if p.Cache == nil {
		return tokenize.Tokenize(markup)
	}
	key := cache.KeyFrom(cache.KindTokens, markup)
	if template, lines, ok, err := p.Cache.GetTokens(ctx, key); err == nil && ok {
		log.Debug().Str("key", key).Msg("token cache hit")
		return tokenize.Result{Template: template, Lines: lines}, nil
	}
	if err := p.Cache.Save(ctx, cache.KeyFrom(cache.KindMarkup, markup), []byte(markup)); err != nil {
		log.Warn().Err(err).Msg("cache markup")
	}
	res, err := tokenize.Tokenize(markup)
	if err != nil {
		return res, err
	}
	if err := p.Cache.SaveTokens(ctx, key, res.Template, res.Lines); err != nil {
		log.Warn().Err(err).Msg("cache tokens")
	}
	return res, nil
}

// weeks resolves the range for weekly-count courses. A stream without such
// courses needs none.
func (p Pipeline) weeks(ctx context.Context, lines []string) (timetable.WeekRange, error) {
	report := detect.Scan(lines)
	if !report.Required() {
		return timetable.WeekRange{}, nil
	}
	if p.Weeks.Valid() {
		log.Info().Int("start", p.Weeks.Start).Int("end", p.Weeks.End).Int("courses", len(report.Entries)).Msg("using configured week range")
		return p.Weeks, nil
	}
	if p.Prompter == nil {
		return timetable.WeekRange{}, fmt.Errorf("%w: week range required and no prompt available", timetable.ErrPromptDismissed)
	}
	log.Info().Int("courses", len(report.Entries)).Msg("week range required")
	weeks, err := p.Prompter.AskWeeks(ctx, report.Summary())
	if err != nil {
		return timetable.WeekRange{}, err
	}
	log.Debug().Int("start", weeks.Start).Int("end", weeks.End).Msg("week range supplied")
	return weeks, nil
}
