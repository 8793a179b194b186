// Package store persists parsed timetables as line-oriented text files.
package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// legacyPhases maps phase names written by older versions to phase codes.
var legacyPhases = map[string]string{
	"amI":   "11",
	"amII":  "12",
	"pmI":   "21",
	"pmII":  "22",
	"pmIII": "23",
	"eve":   "31",
	"eveII": "32",
}

// Store keeps timetable files in Dir; the most recently written one is current.
type Store struct {
	Dir string
}

// Save writes tt to a new file in the store, removing older files first when
// replace is set, and returns the file path.
func (s Store) Save(tt *timetable.Timetable, replace bool) (string, error) {
	if replace {
		if err := s.Clear(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create store: %w", err)
	}
	f, err := os.CreateTemp(s.Dir, "timetable-*.txt")
	if err != nil {
		return "", fmt.Errorf("create store file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, tt); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write store file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close store file: %w", err)
	}
	return f.Name(), nil
}

// Clear removes every stored timetable.
func (s Store) Clear() error {
	if strings.TrimSpace(s.Dir) == "" {
		return fmt.Errorf("store dir not configured")
	}
	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	return nil
}

// Latest returns the most recently modified file, or "" when the store is empty.
func (s Store) Latest() (string, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("list store: %w", err)
	}
	var latest string
	var latestMod int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); latest == "" || mod > latestMod {
			latest = filepath.Join(s.Dir, e.Name())
			latestMod = mod
		}
	}
	return latest, nil
}

// LoadLatest reads the current timetable. An empty store yields an empty
// timetable.
func (s Store) LoadLatest() (*timetable.Timetable, error) {
	path, err := s.Latest()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return timetable.New(nil), nil
	}
	return Load(path)
}

// Load reads a timetable file, laid out and with identities rendered.
func Load(path string) (*timetable.Timetable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	tt, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return tt, nil
}

// Encode writes one line per course.
func Encode(w io.Writer, tt *timetable.Timetable) error {
	for _, c := range tt.Courses {
		dup := 0
		if c.Duplicate {
			dup = 1
		}
		_, err := fmt.Fprintf(w, "cN:%s;cP:%s;cW:%d;cTl:%s;clP:%c;clPh:%s;cT:%s;cR:%s;dpt:%d\n",
			c.Name, timetable.FormatStandardRepetitions(c.Repetitions), c.DayOfWeek, c.Template,
			c.ClassPeriod, c.ClassPhase, c.Educator, c.Location, dup)
		if err != nil {
			return fmt.Errorf("write course %q: %w", c.Name, err)
		}
	}
	return nil
}

// Decode reads lines written by Encode or by older versions. Courses without
// a name are dropped.
func Decode(r io.Reader) (*timetable.Timetable, error) {
	sc := bufio.NewScanner(r)
	var courses []*timetable.Course
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		c := timetable.NewCourse(timetable.TemplateA)
		for _, item := range strings.Split(line, ";") {
			key, value, ok := strings.Cut(item, ":")
			if !ok {
				continue
			}
			decodeField(c, key, value)
		}
		if c.Name != "" {
			courses = append(courses, c)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	tt := timetable.New(courses)
	tt.Layout()
	tt.RenderUIDs()
	return tt, nil
}

func decodeField(c *timetable.Course, key, value string) {
	switch key {
	case "cN":
		c.Name = value
	case "cT":
		c.Educator = value
	case "cR":
		c.Location = value
	case "cP":
		reps := timetable.ParseStandardRepetitions(value)
		if len(reps) == 0 {
			raw, err := timetable.ParseRepetitions(value)
			if err != nil {
				log.Warn().Err(err).Str("weeks", value).Msg("stored weeks unreadable")
			}
			reps = raw
		}
		c.Repetitions = reps
	case "cW":
		if day, err := strconv.Atoi(value); err == nil {
			c.DayOfWeek = day
		}
	case "cTl":
		c.Template = timetable.ParseTemplate(value)
	case "clP":
		if value != "" {
			c.ClassPeriod = value[0]
		}
	case "clPh":
		if phase, ok := legacyPhases[value]; ok {
			value = phase
		}
		c.ClassPhase = value
	case "dpt":
		c.Duplicate = value == "1"
	}
}
