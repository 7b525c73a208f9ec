package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingDBConnection  = errors.New("no DB_CONNECTION_STRING provided")
	ErrMissingJWTSecret     = errors.New("no JWT_SECRET provided")
	ErrMissingAPICredential = errors.New("either API_TOKEN or JWT_SECRET must be provided")
)

// APIConfig configures cmd/PaymentAPI.
type APIConfig struct {
	Addr         string
	DBConnection string
	JWTSecret    string
	LogFormat    string
}

// AdminConfig configures cmd/PaymentAdmin.
type AdminConfig struct {
	Addr            string
	APIBaseURL      string
	APIToken        string
	JWTSecret       string
	APITimeout      time.Duration
	StaleTime       time.Duration
	RefetchInterval string
	ListWait        time.Duration
	LogFormat       string
}

// LoadEnv reads a .env file into the environment when one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded, continuing with system environment variables")
	}
}

func LoadAPIConfig() (APIConfig, error) {
	LoadEnv()

	cfg := APIConfig{
		Addr:         getenv("API_ADDR", ":8080"),
		DBConnection: os.Getenv("DB_CONNECTION_STRING"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		LogFormat:    getenv("LOG_FORMAT", "console"),
	}
	if cfg.DBConnection == "" {
		return cfg, ErrMissingDBConnection
	}
	if cfg.JWTSecret == "" {
		return cfg, ErrMissingJWTSecret
	}
	return cfg, nil
}

func LoadAdminConfig() (AdminConfig, error) {
	LoadEnv()

	cfg := AdminConfig{
		Addr:            getenv("ADMIN_ADDR", ":8081"),
		APIBaseURL:      strings.TrimRight(getenv("API_BASE_URL", "http://localhost:8080/api/protected"), "/"),
		APIToken:        os.Getenv("API_TOKEN"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RefetchInterval: getenv("QUERY_REFETCH_INTERVAL", "@every 1m"),
		LogFormat:       getenv("LOG_FORMAT", "console"),
	}

	var err error
	if cfg.APITimeout, err = durationEnv("API_TIMEOUT", 5*time.Second); err != nil {
		return cfg, err
	}
	if cfg.StaleTime, err = durationEnv("QUERY_STALE_TIME", 30*time.Second); err != nil {
		return cfg, err
	}
	if cfg.ListWait, err = durationEnv("LIST_WAIT", 2*time.Second); err != nil {
		return cfg, err
	}

	if cfg.APIToken == "" && cfg.JWTSecret == "" {
		return cfg, ErrMissingAPICredential
	}
	return cfg, nil
}

// SetupLogging configures the global zerolog logger. "json" writes structured
// lines, anything else a human readable console.
func SetupLogging(format string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return d, nil
}
