package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/matchday-predictor/internal/platform/logging"
)

// Config stores runtime configuration for one predictor run.
type Config struct {
	AppEnv                 string
	ServiceName            string
	ServiceVersion         string
	CompetitionCode        string
	FixtureWindowDays      int
	FootballDataBaseURL    string
	FootballDataAPIKey     string
	FootballDataTimeout    time.Duration
	GeminiBaseURL          string
	GeminiAPIKey           string
	GeminiModel            string
	GeminiTimeout          time.Duration
	OutputPath             string
	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
	LogLevel               logging.Level
}

// Load reads the environment once and validates eagerly, so a missing
// secret fails the run before any network call is made.
func Load() (Config, error) {
	// Load .env if present; variables already set in the environment win.
	_ = godotenv.Load()

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	footballDataAPIKey := strings.TrimSpace(os.Getenv("FOOTBALL_DATA_API_KEY"))
	if footballDataAPIKey == "" {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_API_KEY is required")
	}

	geminiAPIKey := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	if geminiAPIKey == "" {
		return Config{}, fmt.Errorf("GOOGLE_API_KEY is required")
	}

	fixtureWindowDays, err := getEnvAsInt("FIXTURE_WINDOW_DAYS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse FIXTURE_WINDOW_DAYS: %w", err)
	}
	if fixtureWindowDays <= 0 {
		return Config{}, fmt.Errorf("FIXTURE_WINDOW_DAYS must be > 0")
	}

	footballDataBaseURL, err := parseHTTPBaseURL("FOOTBALL_DATA_BASE_URL", getEnv("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org"))
	if err != nil {
		return Config{}, err
	}

	footballDataTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_TIMEOUT: %w", err)
	}
	if footballDataTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_TIMEOUT must be > 0")
	}

	geminiBaseURL, err := parseHTTPBaseURL("GEMINI_BASE_URL", getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"))
	if err != nil {
		return Config{}, err
	}

	geminiTimeout, err := time.ParseDuration(getEnv("GEMINI_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GEMINI_TIMEOUT: %w", err)
	}
	if geminiTimeout <= 0 {
		return Config{}, fmt.Errorf("GEMINI_TIMEOUT must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                 appEnv,
		ServiceName:            getEnv("APP_SERVICE_NAME", "matchday-predictor"),
		ServiceVersion:         getEnv("APP_SERVICE_VERSION", "dev"),
		CompetitionCode:        strings.ToUpper(strings.TrimSpace(getEnv("COMPETITION_CODE", "PL"))),
		FixtureWindowDays:      fixtureWindowDays,
		FootballDataBaseURL:    footballDataBaseURL,
		FootballDataAPIKey:     footballDataAPIKey,
		FootballDataTimeout:    footballDataTimeout,
		GeminiBaseURL:          geminiBaseURL,
		GeminiAPIKey:           geminiAPIKey,
		GeminiModel:            strings.TrimSpace(getEnv("GEMINI_MODEL", "gemini-2.0-flash")),
		GeminiTimeout:          geminiTimeout,
		OutputPath:             strings.TrimSpace(getEnv("OUTPUT_PATH", "output/data.json")),
		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             uptraceDSN,
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
		LogLevel:               parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if cfg.CompetitionCode == "" {
		return Config{}, fmt.Errorf("COMPETITION_CODE cannot be empty")
	}
	if cfg.GeminiModel == "" {
		return Config{}, fmt.Errorf("GEMINI_MODEL cannot be empty")
	}
	if cfg.OutputPath == "" {
		return Config{}, fmt.Errorf("OUTPUT_PATH cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseHTTPBaseURL(name, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	parsed, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}

	return strings.TrimRight(value, "/"), nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
