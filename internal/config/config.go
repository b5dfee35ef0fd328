package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kjstillabower/weather-collector/internal/locations"
)

const (
	defaultAPIURL      = "http://api.weatherapi.com/v1/current.json"
	defaultAPITimeout  = 10 * time.Second
	defaultOutputDir   = "."
	defaultMetricsAddr = ":9090"
)

// Config holds collector configuration loaded from YAML, .env and env.
type Config struct {
	LogLevel string

	WeatherAPIKey     string        `validate:"required"`
	WeatherAPIURL     string        `validate:"required,url"`
	WeatherAPITimeout time.Duration `validate:"gt=0"`

	Locations []string

	// OutputDir receives timestamped files. OutputFile, when set, is used verbatim instead.
	OutputDir  string `validate:"required"`
	OutputFile string
	ShowTable  bool

	// ScheduleInterval of zero means run once and exit.
	ScheduleInterval time.Duration `validate:"gte=0"`
	MetricsAddr      string

	MetricsTextfile string
}

type fileConfig struct {
	LogLevel string `yaml:"log_level"`

	WeatherAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather_api"`

	Locations []string `yaml:"locations"`

	Output struct {
		Dir       string `yaml:"dir"`
		File      string `yaml:"file"`
		ShowTable bool   `yaml:"show_table"`
	} `yaml:"output"`

	Schedule struct {
		Interval    string `yaml:"interval"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"schedule"`

	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

type secretsFile struct {
	WeatherAPIKey string `yaml:"weather_api_key"`
}

var validate = validator.New()

// Load reads configuration from config/{ENV_NAME}.yaml (default dev) and config/secrets.yaml,
// after loading .env into the environment. Env vars override file values.
// The default dev file may be absent; an explicitly named ENV_NAME file must exist.
// API key comes from WEATHER_API_KEY env or secrets file. Call from project root.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := os.Getenv("ENV_NAME")
	explicitEnv := env != ""
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}

	var fc fileConfig
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	case os.IsNotExist(err) && !explicitEnv:
		// defaults only
	case os.IsNotExist(err):
		return nil, fmt.Errorf("config file not found: %s", configPath)
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{
		LogLevel:  fc.LogLevel,
		Locations: fc.Locations,
		ShowTable: fc.Output.ShowTable,
	}

	cfg.WeatherAPIKey = strings.TrimSpace(os.Getenv("WEATHER_API_KEY"))
	if cfg.WeatherAPIKey == "" {
		secretsPath := filepath.Join(cwd, "config", "secrets.yaml")
		secretsData, err := os.ReadFile(secretsPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read secrets file: %w", err)
			}
		} else {
			var sec secretsFile
			if err := yaml.Unmarshal(secretsData, &sec); err != nil {
				return nil, fmt.Errorf("parse secrets file: %w", err)
			}
			cfg.WeatherAPIKey = strings.TrimSpace(sec.WeatherAPIKey)
		}
	}
	if cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("WEATHER_API_KEY required (set env, .env or config/secrets.yaml weather_api_key)")
	}

	cfg.WeatherAPIURL = firstNonEmpty(os.Getenv("WEATHER_API_URL"), fc.WeatherAPI.URL, defaultAPIURL)

	timeout := firstNonEmpty(os.Getenv("WEATHER_API_TIMEOUT"), fc.WeatherAPI.Timeout)
	cfg.WeatherAPITimeout, err = parseDuration(timeout, defaultAPITimeout)
	if err != nil {
		return nil, fmt.Errorf("weather_api.timeout: %w", err)
	}

	if v := os.Getenv("WEATHER_LOCATIONS"); strings.TrimSpace(v) != "" {
		cfg.Locations = locations.Parse(v).Names()
	}
	// An absent list gets the defaults; an explicit empty one (locations: [])
	// is kept and yields a header-only run.
	if cfg.Locations == nil {
		cfg.Locations = locations.Default().Names()
	}

	cfg.OutputDir = firstNonEmpty(os.Getenv("OUTPUT_DIR"), fc.Output.Dir, defaultOutputDir)
	cfg.OutputFile = strings.TrimSpace(fc.Output.File)

	cfg.ScheduleInterval, err = parseDuration(fc.Schedule.Interval, 0)
	if err != nil {
		return nil, fmt.Errorf("schedule.interval: %w", err)
	}
	cfg.MetricsAddr = firstNonEmpty(fc.Schedule.MetricsAddr, defaultMetricsAddr)
	cfg.MetricsTextfile = firstNonEmpty(os.Getenv("METRICS_FILE"), fc.Metrics.Textfile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field rules. Call again after
// applying command-line overrides.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s failed %q check", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	if c.ScheduleInterval > 0 && c.OutputFile != "" {
		return fmt.Errorf("config: a fixed output file cannot be used with a schedule interval")
	}
	return nil
}

// OutputPath returns where a run finishing at now writes its CSV.
func (c *Config) OutputPath(now time.Time, defaultName func(time.Time) string) string {
	if c.OutputFile != "" {
		return c.OutputFile
	}
	return filepath.Join(c.OutputDir, defaultName(now))
}

// parseDuration returns defaultVal for an empty string and an error for a malformed one.
func parseDuration(s string, defaultVal time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return d, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
