package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, envKey string, def string) {
		if *dst != "" && *dst != def {
			return
		}
		if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
			*dst = v
		}
	}
	setString(&cfg.InputPath, "TIMETABLE_INPUT", "")
	setString(&cfg.Encoding, "TIMETABLE_ENCODING", "")
	setString(&cfg.OutputICS, "OUTPUT_ICS", "")
	setString(&cfg.OutputWeeks, "OUTPUT_WEEKS", "")
	setString(&cfg.OutputXLSX, "OUTPUT_XLSX", "")
	setString(&cfg.OutputPDF, "OUTPUT_PDF", "")
	setString(&cfg.PDFFont, "PDF_FONT", "")
	setString(&cfg.CacheDir, "CACHE_DIR", cacheDirDefault)
	setString(&cfg.StoreDir, "STORE_DIR", storeDirDefault)
	setString(&cfg.TermStart, "TERM_START", "")
	setString(&cfg.TimeZone, "TIME_ZONE", "")
	setString(&cfg.MorningStart, "MORNING_START", "")
	setString(&cfg.AfternoonStart, "AFTERNOON_START", "")
	setString(&cfg.EveningStart, "EVENING_START", "")
	setString(&cfg.WatchDir, "WATCH_DIR", "")

	setInt := func(dst *int, envKey string) {
		if *dst != 0 {
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(envKey))); err == nil && n > 0 {
			*dst = n
		}
	}
	setInt(&cfg.StartWeek, "WEEKS_START")
	setInt(&cfg.EndWeek, "WEEKS_END")
	setInt(&cfg.IndicatorWeeks, "WEEKS_INDICATOR")
	setInt(&cfg.ClassMinutes, "CLASS_MINUTES")
	setInt(&cfg.SmallBreak, "SMALL_BREAK")
	setInt(&cfg.LargeBreak, "LARGE_BREAK")

	// Optional durations
	if cfg.CacheMaxAge == 0 {
		if s := os.Getenv("CACHE_MAX_AGE"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.CacheMaxAge = d
			}
		}
	}

	// Booleans
	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.StoreReplace, "STORE_REPLACE")
}
