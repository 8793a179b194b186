package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Flag defaults that file config may replace.
const (
	cacheDirDefault = ".gotimetable-cache"
	storeDirDefault = ".gotimetable"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Input    string `yaml:"input" json:"input"`
	Encoding string `yaml:"encoding" json:"encoding"`

	Output struct {
		ICS   string `yaml:"ics" json:"ics"`
		Weeks string `yaml:"weeks" json:"weeks"`
		XLSX  string `yaml:"xlsx" json:"xlsx"`
		PDF   string `yaml:"pdf" json:"pdf"`
	} `yaml:"output" json:"output"`

	PDF struct {
		Font string `yaml:"font" json:"font"`
	} `yaml:"pdf" json:"pdf"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	Store struct {
		Dir     string `yaml:"dir" json:"dir"`
		Replace bool   `yaml:"replace" json:"replace"`
	} `yaml:"store" json:"store"`

	Weeks struct {
		Start     int `yaml:"start" json:"start"`
		End       int `yaml:"end" json:"end"`
		Indicator int `yaml:"indicator" json:"indicator"`
	} `yaml:"weeks" json:"weeks"`

	Term struct {
		Start        string `yaml:"start" json:"start"`
		TimeZone     string `yaml:"timeZone" json:"timeZone"`
		Morning      string `yaml:"morning" json:"morning"`
		Afternoon    string `yaml:"afternoon" json:"afternoon"`
		Evening      string `yaml:"evening" json:"evening"`
		ClassMinutes int    `yaml:"classMinutes" json:"classMinutes"`
		SmallBreak   int    `yaml:"smallBreak" json:"smallBreak"`
		LargeBreak   int    `yaml:"largeBreak" json:"largeBreak"`
	} `yaml:"term" json:"term"`

	Watch   string `yaml:"watch" json:"watch"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset or still at their flag default.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, v string, def string) {
		if (*dst == "" || *dst == def) && v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if *dst == 0 && v > 0 {
			*dst = v
		}
	}

	setString(&cfg.InputPath, fc.Input, "")
	setString(&cfg.Encoding, fc.Encoding, "")
	setString(&cfg.OutputICS, fc.Output.ICS, "")
	setString(&cfg.OutputWeeks, fc.Output.Weeks, "")
	setString(&cfg.OutputXLSX, fc.Output.XLSX, "")
	setString(&cfg.OutputPDF, fc.Output.PDF, "")
	setString(&cfg.PDFFont, fc.PDF.Font, "")

	setString(&cfg.CacheDir, fc.Cache.Dir, cacheDirDefault)
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}

	setString(&cfg.StoreDir, fc.Store.Dir, storeDirDefault)
	if !cfg.StoreReplace && fc.Store.Replace {
		cfg.StoreReplace = true
	}

	setInt(&cfg.StartWeek, fc.Weeks.Start)
	setInt(&cfg.EndWeek, fc.Weeks.End)
	setInt(&cfg.IndicatorWeeks, fc.Weeks.Indicator)

	setString(&cfg.TermStart, fc.Term.Start, "")
	setString(&cfg.TimeZone, fc.Term.TimeZone, "")
	setString(&cfg.MorningStart, fc.Term.Morning, "")
	setString(&cfg.AfternoonStart, fc.Term.Afternoon, "")
	setString(&cfg.EveningStart, fc.Term.Evening, "")
	setInt(&cfg.ClassMinutes, fc.Term.ClassMinutes)
	setInt(&cfg.SmallBreak, fc.Term.SmallBreak)
	setInt(&cfg.LargeBreak, fc.Term.LargeBreak)

	setString(&cfg.WatchDir, fc.Watch, "")
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" && strings.TrimSpace(cfg.WatchDir) == "" && strings.TrimSpace(cfg.StoreDir) == "" {
		return errors.New("config: input path, watch dir or store dir is required")
	}
	if cfg.StartWeek < 0 || cfg.EndWeek < 0 || cfg.IndicatorWeeks < 0 {
		return errors.New("config: negative weeks are not allowed")
	}
	if (cfg.StartWeek == 0) != (cfg.EndWeek == 0) {
		return errors.New("config: weeks.start and weeks.end must be set together")
	}
	if cfg.StartWeek > cfg.EndWeek {
		return fmt.Errorf("config: weeks.start %d is after weeks.end %d", cfg.StartWeek, cfg.EndWeek)
	}
	if cfg.ClassMinutes < 0 || cfg.SmallBreak < 0 || cfg.LargeBreak < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.NeedsTiming() {
		if strings.TrimSpace(cfg.TermStart) == "" {
			return errors.New("config: term.start is required for calendar output (or set TERM_START)")
		}
		if _, err := cfg.Timing(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
