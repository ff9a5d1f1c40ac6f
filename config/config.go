package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProfileOpen       = "open"
	ProfileRestricted = "restricted"

	DefaultModel                 = "gemini-2.0-flash"
	DefaultSystemInstructionFile = "system_instruction.txt"
)

// AllOrigins allows every origin to read relay responses.
const AllOrigins = "*"

type Config struct {
	GeminiAPIKey          string
	GeminiModel           string
	SystemInstructionFile string
	Port                  string

	RedisAddr     string
	RedisPort     string
	RedisPassword string

	Relay RelayOptions

	// Log configuration
	LogLevel      string
	LogFilename   string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool
}

// RateLimit caps accepted calls per client within a rolling window.
type RateLimit struct {
	Count  int
	Window time.Duration
}

// RelayOptions is the single switch between the open relay and the
// restricted one.
type RelayOptions struct {
	CORSOrigins []string
	RateLimit   *RateLimit
	Logging     bool
	ErrorStatus int
}

// AllowsAllOrigins reports whether the CORS allow-list is the wildcard.
func (o RelayOptions) AllowsAllOrigins() bool {
	for _, origin := range o.CORSOrigins {
		if origin == AllOrigins {
			return true
		}
	}
	return false
}

// OpenRelay matches the first deployment: any origin, no limits, errors with 200.
func OpenRelay() RelayOptions {
	return RelayOptions{
		CORSOrigins: []string{AllOrigins},
		ErrorStatus: http.StatusOK,
	}
}

// RestrictedRelay matches the hardened deployment.
func RestrictedRelay() RelayOptions {
	return RelayOptions{
		CORSOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		RateLimit:   &RateLimit{Count: 10, Window: 60 * time.Second},
		Logging:     true,
		ErrorStatus: http.StatusInternalServerError,
	}
}

func (c *Config) RedisFullAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisAddr, c.RedisPort)
}

// RedisEnabled reports whether rate limit counters should live in Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		// Ignore error if .env file is not found
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	relay, err := loadRelayOptions()
	if err != nil {
		return nil, err
	}

	return &Config{
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           getEnv("GEMINI_MODEL", DefaultModel),
		SystemInstructionFile: getEnv("SYSTEM_INSTRUCTION_FILE", DefaultSystemInstructionFile),
		Port:                  getEnv("PORT", "8000"),

		RedisAddr:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		Relay: relay,

		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		LogFilename:   getEnv("LOG_FILENAME", "logs/app.log"),
		LogMaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
		LogCompress:   getEnvAsBool("LOG_COMPRESS", true),
	}, nil
}

func loadRelayOptions() (RelayOptions, error) {
	var opts RelayOptions
	switch profile := strings.ToLower(getEnv("RELAY_PROFILE", ProfileOpen)); profile {
	case ProfileOpen:
		opts = OpenRelay()
	case ProfileRestricted:
		opts = RestrictedRelay()
	default:
		return RelayOptions{}, fmt.Errorf("unknown RELAY_PROFILE %q", profile)
	}

	if raw, ok := os.LookupEnv("CORS_ALLOW_ORIGINS"); ok {
		origins := splitList(raw)
		if len(origins) == 0 {
			return RelayOptions{}, fmt.Errorf("CORS_ALLOW_ORIGINS is set but empty")
		}
		opts.CORSOrigins = origins
	}

	_, hasCount := os.LookupEnv("RATE_LIMIT_COUNT")
	_, hasWindow := os.LookupEnv("RATE_LIMIT_WINDOW_SECONDS")
	if hasCount || hasWindow {
		limit := RateLimit{Count: 10, Window: 60 * time.Second}
		if opts.RateLimit != nil {
			limit = *opts.RateLimit
		}
		limit.Count = getEnvAsInt("RATE_LIMIT_COUNT", limit.Count)
		limit.Window = time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", int(limit.Window/time.Second))) * time.Second
		if limit.Count > 0 && limit.Window > 0 {
			opts.RateLimit = &limit
		} else {
			opts.RateLimit = nil
		}
	}

	opts.Logging = getEnvAsBool("RELAY_LOGGING", opts.Logging)
	return opts, nil
}

// LoadSystemInstruction returns the file contents verbatim.
func LoadSystemInstruction(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read system instruction: %w", err)
	}
	return string(data), nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
