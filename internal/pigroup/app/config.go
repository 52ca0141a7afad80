package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

var ErrInvalidConfig = errors.New("app: invalid configuration")

type Config struct {
	BaseURL        string        // Pi-hole web server address (default: http://pi.hole:8080)
	Backend        string        // remote or local (default: remote)
	DatabaseFile   string        // gravity database for the local backend (default: /etc/pihole/gravity.db)
	Migrate        bool          // create missing gravity tables on open (default: false)
	RequestTimeout time.Duration // per request timeout against the Pi-hole API (default: 10s)
	RestartDNS     bool          // restart FTL's resolver after a remote change (default: false)

	CredentialsDir string // systemd credentials directory, searched for pihole-password and pihole-totp
	Password       string // fallback when no credential file is present
	TOTPSecret     string // base32 TOTP secret when two-factor auth is enabled

	APIToken            string        // bearer token required by the serve surface, empty disables
	Env                 string        // Environment (dev, prod) (default: prod)
	LogLevel            string        // trace, debug, info, warn, error, off (default: warn)
	LogFormat           string        // json or text (default: text)
	LogOutput           io.Writer     // defaults to stderr
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none are
// given) without overriding variables that are already set. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func LoadConfig() Config {
	return Config{
		BaseURL:             getEnvOrDefault("PIHOLE_BASE_URL", "http://pi.hole:8080"),
		Backend:             getEnvOrDefault("PIGROUP_BACKEND", BackendRemote),
		DatabaseFile:        getEnvOrDefault("PIHOLE_GRAVITY_DB", "/etc/pihole/gravity.db"),
		Migrate:             getEnvBoolOrDefault("PIGROUP_DB_MIGRATE", false),
		RequestTimeout:      getEnvDurationOrDefault("PIHOLE_REQUEST_TIMEOUT", 10*time.Second),
		RestartDNS:          getEnvBoolOrDefault("PIGROUP_RESTART_DNS", false),
		CredentialsDir:      os.Getenv("CREDENTIALS_DIRECTORY"),
		Password:            os.Getenv("PIHOLE_PASSWORD"),
		TOTPSecret:          os.Getenv("PIHOLE_TOTP_SECRET"),
		APIToken:            os.Getenv("PIGROUP_API_TOKEN"),
		Env:                 getEnvOrDefault("ENV", "prod"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "text"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate checks the settings the chosen backend depends on.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendRemote:
		if c.BaseURL == "" {
			return fmt.Errorf("%w: remote backend needs a base url", ErrInvalidConfig)
		}
		if c.RequestTimeout <= 0 {
			return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
		}
	case BackendLocal:
		if c.DatabaseFile == "" {
			return fmt.Errorf("%w: local backend needs a gravity database", ErrInvalidConfig)
		}
		if c.RestartDNS {
			return fmt.Errorf("%w: restarting DNS needs the remote backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if intValue, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if boolValue, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return boolValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
