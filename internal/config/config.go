package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/search"
)

// AppName names the config directory and the default config file's location.
const AppName = "seqsearch"

var validate = validator.New()

// Config holds all application configuration
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Search  SearchConfig  `mapstructure:"search"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`
	Data    DataConfig    `mapstructure:"data"`
}

type GeneralConfig struct {
	// BaseURL is the search page URL the query string is appended to.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type SearchConfig struct {
	Schema   models.Schema `mapstructure:"schema"`
	Hidden   []HiddenField `mapstructure:"hidden" validate:"dive"`
	PageSize int           `mapstructure:"page_size" validate:"min=1,max=10000"`
}

// HiddenField is one forced baseline value. Value is a string, a bool, a
// number or a list whose null entries stand for logical nulls.
type HiddenField struct {
	Name  string `mapstructure:"name" validate:"required"`
	Value any    `mapstructure:"value"`
}

type UIConfig struct {
	Theme           string `mapstructure:"theme" validate:"oneof=default catppuccin-mocha"`
	MouseEnabled    bool   `mapstructure:"mouse_enabled"`
	PanelWidthRatio int    `mapstructure:"panel_width_ratio" validate:"min=10,max=80"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=auto console json"`
	// File receives log output while the interactive explorer owns the terminal.
	File string `mapstructure:"file"`
}

type HistoryConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries" validate:"min=0"`
	Persist    bool `mapstructure:"persist"`
}

type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Search: SearchConfig{
			Schema:   DefaultSchema(),
			PageSize: 100,
		},
		UI: UIConfig{
			Theme:           "default",
			MouseEnabled:    true,
			PanelWidthRatio: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
			Persist:    true,
		},
	}
}

// Load loads configuration from path, or from the default locations when path
// is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, AppName))
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SEQSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("general.base_url", "")
	v.SetDefault("search.page_size", 100)
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.mouse_enabled", true)
	v.SetDefault("ui.panel_width_ratio", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.file", "")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)
	v.SetDefault("history.persist", true)
	v.SetDefault("data.dir", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if len(cfg.Search.Schema.Fields) == 0 {
		cfg.Search.Schema = DefaultSchema()
	}
	if cfg.Data.Dir == "" {
		if dir, err := GetConfigPath(); err == nil {
			cfg.Data.Dir = dir
		} else {
			cfg.Data.Dir = "." + AppName
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags, the schema's cross-field rules and the hidden
// values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Search.Schema.Validate(); err != nil {
		return err
	}
	if _, err := c.HiddenValues(); err != nil {
		return err
	}
	return nil
}

// HiddenValues converts the configured hidden fields.
func (c *Config) HiddenValues() (search.HiddenValues, error) {
	out := make(search.HiddenValues, len(c.Search.Hidden))
	for _, h := range c.Search.Hidden {
		if _, dup := out[h.Name]; dup {
			return nil, fmt.Errorf("invalid config: hidden field %q set twice", h.Name)
		}
		v, err := hiddenValue(h.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid config: hidden field %q: %w", h.Name, err)
		}
		out[h.Name] = v
	}
	return out, nil
}

func hiddenValue(raw any) (search.Value, error) {
	switch v := raw.(type) {
	case nil:
		return search.Scalar(""), nil
	case []any:
		items := make([]search.Item, len(v))
		for i, elem := range v {
			if elem == nil {
				items[i] = search.Null()
				continue
			}
			s, err := scalarString(elem)
			if err != nil {
				return search.Value{}, err
			}
			items[i] = search.Of(s)
		}
		return search.List(items...), nil
	case []string:
		return search.Strings(v...), nil
	default:
		s, err := scalarString(v)
		if err != nil {
			return search.Value{}, err
		}
		return search.Scalar(s), nil
	}
}

func scalarString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case int, int64, float64, uint64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", raw)
	}
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// NewReducer builds the search reducer for the configured schema and hidden
// values.
func (c *Config) NewReducer() (*search.Reducer, error) {
	hidden, err := c.HiddenValues()
	if err != nil {
		return nil, err
	}
	return search.NewReducer(&c.Search.Schema, hidden), nil
}
