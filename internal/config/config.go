package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

const maxActionItems = 12

const envPrefix = "WAYBAR_BANDSYNC"

type Runtime struct {
	ConfigFile string

	GroupID string
	DBPath  string

	Lookahead        time.Duration
	QueryLookback    time.Duration
	QueryAhead       time.Duration
	IncludeCancelled bool
	MaxItems         int
	Timeout          time.Duration

	RefreshCron string
	NotifyLead  time.Duration
	NotifyIcon  string
	LogLevel    string

	StateDir      string
	MenuDir       string
	MenuPath      string
	ItemsPath     string
	NotifiedPath  string
	SelectionPath string
}

func Load() (Runtime, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Runtime{}, fmt.Errorf("resolve home dir: %w", err)
	}

	xdgConfig := xdgDir("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	xdgState := xdgDir("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	xdgData := xdgDir("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))

	configFile := strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG_FILE"))
	if configFile == "" {
		configFile = filepath.Join(xdgConfig, "waybar", "bandsync.env")
	}

	if err := loadEnvFile(configFile); err != nil {
		return Runtime{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	_ = v.BindEnv("group_id", envPrefix+"_GROUP_ID", "BAND_GROUP_ID")
	_ = v.BindEnv("db_path", envPrefix+"_DB_PATH")
	_ = v.BindEnv("lookahead_minutes", envPrefix+"_LOOKAHEAD_MINUTES", "LOOKAHEAD_MINUTES")
	_ = v.BindEnv("query_lookback_minutes", envPrefix+"_QUERY_LOOKBACK_MINUTES", "QUERY_LOOKBACK_MINUTES")
	_ = v.BindEnv("query_ahead_days", envPrefix+"_QUERY_AHEAD_DAYS", "QUERY_AHEAD_DAYS")
	_ = v.BindEnv("include_cancelled", envPrefix+"_INCLUDE_CANCELLED", "INCLUDE_CANCELLED")
	_ = v.BindEnv("max_items", envPrefix+"_MAX_ITEMS", "MAX_ITEMS")
	_ = v.BindEnv("timeout_seconds", envPrefix+"_TIMEOUT_SECONDS")
	_ = v.BindEnv("refresh_cron", envPrefix+"_REFRESH_CRON", "REFRESH_CRON")
	_ = v.BindEnv("notify_lead_minutes", envPrefix+"_NOTIFY_LEAD_MINUTES", "NOTIFY_LEAD_MINUTES")
	_ = v.BindEnv("notify_icon", envPrefix+"_NOTIFY_ICON")
	_ = v.BindEnv("log_level", envPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("state_dir", envPrefix+"_STATE_DIR")
	_ = v.BindEnv("menu_dir", envPrefix+"_MENU_DIR")

	defaultStateDir := filepath.Join(xdgState, "waybar", "bandsync")
	defaultMenuDir := filepath.Join(xdgState, "waybar", "menus")
	defaultDBPath := filepath.Join(xdgData, "bandsync", "events.db")

	v.SetDefault("group_id", "")
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("lookahead_minutes", 24*60)
	v.SetDefault("query_lookback_minutes", 240)
	v.SetDefault("query_ahead_days", 30)
	v.SetDefault("include_cancelled", false)
	v.SetDefault("max_items", 8)
	v.SetDefault("timeout_seconds", 20)
	v.SetDefault("refresh_cron", "*/5 * * * *")
	v.SetDefault("notify_lead_minutes", 60)
	v.SetDefault("notify_icon", "audio-x-generic")
	v.SetDefault("log_level", "info")
	v.SetDefault("state_dir", defaultStateDir)
	v.SetDefault("menu_dir", defaultMenuDir)

	refreshCron := strings.TrimSpace(v.GetString("refresh_cron"))
	if _, err := cron.ParseStandard(refreshCron); err != nil {
		return Runtime{}, fmt.Errorf("invalid refresh_cron %q: %w", refreshCron, err)
	}

	maxItems := clamp(v.GetInt("max_items"), 1, maxActionItems)

	timeoutSeconds := v.GetInt("timeout_seconds")
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}

	queryAheadDays := v.GetInt("query_ahead_days")
	if queryAheadDays <= 0 {
		queryAheadDays = 30
	}

	stateDir := fallback(v.GetString("state_dir"), defaultStateDir)
	menuDir := fallback(v.GetString("menu_dir"), defaultMenuDir)

	return Runtime{
		ConfigFile:       configFile,
		GroupID:          strings.TrimSpace(v.GetString("group_id")),
		DBPath:           fallback(v.GetString("db_path"), defaultDBPath),
		Lookahead:        minutes(v.GetInt("lookahead_minutes")),
		QueryLookback:    minutes(v.GetInt("query_lookback_minutes")),
		QueryAhead:       time.Duration(queryAheadDays) * 24 * time.Hour,
		IncludeCancelled: v.GetBool("include_cancelled"),
		MaxItems:         maxItems,
		Timeout:          time.Duration(timeoutSeconds) * time.Second,
		RefreshCron:      refreshCron,
		NotifyLead:       minutes(v.GetInt("notify_lead_minutes")),
		NotifyIcon:       strings.TrimSpace(v.GetString("notify_icon")),
		LogLevel:         strings.TrimSpace(v.GetString("log_level")),
		StateDir:         stateDir,
		MenuDir:          menuDir,
		MenuPath:         filepath.Join(menuDir, "bandsync.xml"),
		ItemsPath:        filepath.Join(stateDir, "occurrences.json"),
		NotifiedPath:     filepath.Join(stateDir, "notified.json"),
		SelectionPath:    filepath.Join(stateDir, "selected-group.json"),
	}, nil
}

// loadEnvFile exports KEY=value lines from path into the process
// environment. Variables that are already set win.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file %s: %w", path, err)
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return fmt.Errorf("parse env file %s: %w", path, err)
	}

	for _, key := range cfg.Section(ini.DefaultSection).Keys() {
		name := strings.TrimSpace(strings.TrimPrefix(key.Name(), "export "))
		if name == "" {
			continue
		}
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		_ = os.Setenv(name, unquote(strings.TrimSpace(key.Value())))
	}
	return nil
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '\'' && value[len(value)-1] == '\'') ||
			(value[0] == '"' && value[len(value)-1] == '"') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func xdgDir(env, defaultDir string) string {
	if value := strings.TrimSpace(os.Getenv(env)); value != "" {
		return value
	}
	return defaultDir
}

func minutes(value int) time.Duration {
	if value < 0 {
		value = 0
	}
	return time.Duration(value) * time.Minute
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func fallback(value, defaultValue string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return defaultValue
}
