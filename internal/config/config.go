package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName  string `mapstructure:"SERVICE_NAME"`
	ServerPort   string `mapstructure:"SERVER_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	// Collaborators
	NominatimURL        string        `mapstructure:"NOMINATIM_URL"`
	GeocodeCountryCodes string        `mapstructure:"GEOCODE_COUNTRY_CODES"`
	OSRMURL             string        `mapstructure:"OSRM_URL"`
	UserAgent           string        `mapstructure:"USER_AGENT"`
	CollaboratorTimeout time.Duration `mapstructure:"COLLABORATOR_TIMEOUT"`
	RouteFallback       bool          `mapstructure:"ROUTE_FALLBACK"`
	DispatchETAMinutes  int           `mapstructure:"DISPATCH_ETA_MINUTES"`

	// Redis backs the geocode cache and chat sessions; both fall back to memory when unset.
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	GeocodeCacheTTL time.Duration `mapstructure:"GEOCODE_CACHE_TTL"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`

	AMQPURL string `mapstructure:"AMQP_URL"`

	StripeAPIKey string `mapstructure:"STRIPE_API_KEY"`
	Currency     string `mapstructure:"CURRENCY"`

	AWSRegion string `mapstructure:"AWS_REGION"`
	SESSender string `mapstructure:"SES_SENDER"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleTokenFile    string `mapstructure:"GOOGLE_TOKEN_FILE"`

	// DriverRoster is a comma separated list of "Name|+phone" entries.
	DriverRoster string `mapstructure:"DRIVER_ROSTER"`
}

var defaults = map[string]any{
	"SERVICE_NAME":          "ride-booking",
	"SERVER_PORT":           "8000",
	"CLIENT_ORIGIN":         "http://localhost:5173",
	"LOG_LEVEL":             "INFO",
	"NOMINATIM_URL":         "https://nominatim.openstreetmap.org",
	"GEOCODE_COUNTRY_CODES": "lk",
	"OSRM_URL":              "http://router.project-osrm.org",
	"USER_AGENT":            "ride-booking/1.0",
	"COLLABORATOR_TIMEOUT":  "10s",
	"ROUTE_FALLBACK":        false,
	"DISPATCH_ETA_MINUTES":  5,
	"REDIS_DB":              0,
	"GEOCODE_CACHE_TTL":     "24h",
	"SESSION_TTL":           "2h",
	"CURRENCY":              "lkr",
	"AWS_REGION":            "us-east-1",
	"GOOGLE_TOKEN_FILE":     "token.json",
	"DRIVER_ROSTER":         "Kasun Perera|+94771234567,Nimali Silva|+94771234568,Ruwan Fernando|+94771234569",
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env") // Name of config file (without extension)
	v.SetConfigType("env")

	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	// Unmarshal only sees keys viper knows about, so bind the optional ones too.
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "REDIS_ADDR", "REDIS_PASSWORD",
		"AMQP_URL", "STRIPE_API_KEY", "SES_SENDER", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET"} {
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv() // Read in environment variables that match

	err := v.ReadInConfig() // Find and read the config file
	if err != nil {
		// Handle errors reading the config file, but allow it if it's just "not found"
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No .env file found.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the keys every mode of the service needs.
func (c *Config) Validate() error {
	var problems []string
	if c.CollaboratorTimeout <= 0 {
		problems = append(problems, "COLLABORATOR_TIMEOUT must be positive")
	}
	if c.DispatchETAMinutes < 0 {
		problems = append(problems, "DISPATCH_ETA_MINUTES cannot be negative")
	}
	if strings.TrimSpace(c.NominatimURL) == "" {
		problems = append(problems, "NOMINATIM_URL is required")
	}
	if strings.TrimSpace(c.OSRMURL) == "" && !c.RouteFallback {
		problems = append(problems, "OSRM_URL is required unless ROUTE_FALLBACK is set")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// RequireServer checks the keys needed to run the HTTP server.
func (c *Config) RequireServer() error {
	var problems []string
	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
