package config

import (
	"fmt"
	"net/url"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultAPIURL       = "http://localhost:3333/api"
	DefaultDatabasePath = "$HOME/.local/share/expenses/session.db"
	DefaultLogFile      = "$HOME/.local/share/expenses/expenses.log"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultTheme        = "default"
)

// Config is the resolved configuration of one run.
type Config struct {
	APIURL       string
	APIToken     string
	DatabasePath string
	LogLevel     string
	LogFormat    string
	LogFile      string
	Theme        string
	// Width overrides the measured terminal width when choosing a page
	// size. Zero means measure.
	Width int
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.token", "")
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("logging.file", DefaultLogFile)
	v.SetDefault("ui.width", 0)
	v.SetDefault("ui.theme", DefaultTheme)
}

// LoadDotEnv loads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		common.LogDebug("no .env file loaded", common.Fields{"error": err.Error()})
	}
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIURL:       v.GetString("api.url"),
		APIToken:     v.GetString("api.token"),
		DatabasePath: ExpandPath(v.GetString("database.path")),
		LogLevel:     v.GetString("logging.level"),
		LogFormat:    v.GetString("logging.format"),
		LogFile:      ExpandPath(v.GetString("logging.file")),
		Theme:        v.GetString("ui.theme"),
		Width:        v.GetInt("ui.width"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a run cannot do without.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("%w: api.url", common.ErrMissingConfig)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.url %q is not an http(s) URL", common.ErrInvalidConfig, c.APIURL)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if c.Width < 0 {
		return fmt.Errorf("%w: ui.width must not be negative", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json", "":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
