package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotimetable/internal/source"
)

// isPage reports whether a file dropped in the watch directory is a saved page.
func isPage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// Watch parses every page written into dir until ctx is done. Each page is
// handled independently; a failure is logged and watching continues.
func (a *App) Watch(ctx context.Context, dir string, done func(path string, res *Result, err error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Info().Str("dir", dir).Msg("watching for captured pages")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) || !isPage(ev.Name) {
				continue
			}
			res, err := a.RunSource(ctx, source.File{Path: ev.Name, Encoding: a.cfg.Encoding})
			if err != nil {
				log.Warn().Err(err).Str("path", ev.Name).Msg("captured page not parsed")
			}
			if done != nil {
				done(ev.Name, res, err)
			}
		}
	}
}
