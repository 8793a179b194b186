package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// Kinds of intermediate files kept between runs.
const (
	KindMarkup = "markup"
	KindTokens = "tokens"
)

var extensions = map[string]string{
	KindMarkup: ".html",
	KindTokens: ".txt",
}

// Cache stores the captured page and its token stream keyed by content digest.
type Cache struct {
	Dir string
	// StrictPerms, when true, enforces 0700 on the cache directory and 0600 on
	// files.
	StrictPerms bool
}

func (c *Cache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	perm := os.FileMode(0o755)
	if c.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(c.Dir, perm); err != nil {
		return err
	}
	// tighten a directory created earlier without strict perms
	if c.StrictPerms {
		if info, err := os.Stat(c.Dir); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(c.Dir, 0o700)
		}
	}
	return nil
}

// KeyFrom builds a cache key from the entry kind and the content it derives from.
func KeyFrom(kind string, content string) string {
	h := sha256.Sum256([]byte(kind + "\n\n" + content))
	return kind + "-" + hex.EncodeToString(h[:])
}

func (c *Cache) pathFor(key string) string {
	ext := ".bin"
	if kind, _, ok := strings.Cut(key, "-"); ok {
		if e, known := extensions[kind]; known {
			ext = e
		}
	}
	return filepath.Join(c.Dir, key+ext)
}

// Get returns cached bytes if present.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := c.ensureDir(); err != nil {
		return nil, false, err
	}
	p := c.pathFor(key)
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false, nil
	}
	// touch for age based purging
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return b, true, nil
}

// Save writes bytes to cache.
func (c *Cache) Save(_ context.Context, key string, data []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if c.StrictPerms {
		mode = 0o600
	}
	return os.WriteFile(c.pathFor(key), data, mode)
}

// SaveTokens stores a token stream with its template letter on the first line.
func (c *Cache) SaveTokens(ctx context.Context, key string, template timetable.Template, lines []string) error {
	return c.Save(ctx, key, []byte(template.String()+"\n"+strings.Join(lines, "\n")))
}

// GetTokens loads a stream written by SaveTokens.
func (c *Cache) GetTokens(ctx context.Context, key string) (timetable.Template, []string, bool, error) {
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return timetable.TemplateA, nil, false, err
	}
	head, body, _ := strings.Cut(string(b), "\n")
	if body == "" {
		return timetable.ParseTemplate(head), nil, true, nil
	}
	return timetable.ParseTemplate(head), strings.Split(body, "\n"), true, nil
}
