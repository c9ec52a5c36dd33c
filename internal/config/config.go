package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName         = "AfriShop"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultLocale          = "fr"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
	defaultSessionTTL      = 2 * time.Hour
	defaultSubmitLockTTL   = 30 * time.Second
	defaultLoginRateLimit  = 5
	defaultConfirmTTL      = 48 * time.Hour
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	devSecret              = "dev-secret-change-me"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	Env            string
	Port           string
	LogLevel       string
	DefaultLocale  string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	JWTSecret       string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// OnboardingSessionTTL bounds how long an abandoned wizard session is kept.
	OnboardingSessionTTL time.Duration
	// SubmitLockTTL caps the lifetime of the submission guard if a process dies mid-submit.
	SubmitLockTTL time.Duration
	// RequireEmailConfirmation withholds a session until the new account confirms its email.
	RequireEmailConfirmation bool
	// ConfirmationTokenTTL is the validity of the link sent to confirm an email.
	ConfirmationTokenTTL time.Duration
	LoginRateLimitPerMin int
	// PublicURL prefixes links placed in outgoing emails.
	PublicURL string
	// TemplatesFile replaces the built-in starter template catalogue when set.
	TemplatesFile string
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:                  getEnv("APP_NAME", defaultAppName),
		Env:                      strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:                     getEnv("PORT", defaultPort),
		LogLevel:                 strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DefaultLocale:            strings.ToLower(getEnv("DEFAULT_LOCALE", defaultLocale)),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		ShutdownPeriod:           defaultShutdownDelay,
		IdempotencyTTL:           defaultIdempotencyTTL,
		JWTSecret:                os.Getenv("JWT_SECRET"),
		RefreshSecret:            os.Getenv("REFRESH_SECRET"),
		AccessTokenTTL:           defaultAccessTokenTTL,
		RefreshTokenTTL:          defaultRefreshTokenTTL,
		OnboardingSessionTTL:     defaultSessionTTL,
		SubmitLockTTL:            defaultSubmitLockTTL,
		RequireEmailConfirmation: true,
		ConfirmationTokenTTL:     defaultConfirmTTL,
		LoginRateLimitPerMin:     defaultLoginRateLimit,
		PublicURL:                os.Getenv("PUBLIC_URL"),
		TemplatesFile:            os.Getenv("TEMPLATES_FILE"),
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost" + cfg.Address()
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(idemTTLSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", idemTTLSecondsEnvVar, err)
		}
		cfg.IdempotencyTTL = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(idemTTLDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", idemTTLDurEnvVar, err)
		}
		cfg.IdempotencyTTL = d
	}

	durations := []struct {
		env    string
		target *time.Duration
	}{
		{"ACCESS_TOKEN_TTL", &cfg.AccessTokenTTL},
		{"REFRESH_TOKEN_TTL", &cfg.RefreshTokenTTL},
		{"ONBOARDING_SESSION_TTL", &cfg.OnboardingSessionTTL},
		{"SUBMIT_LOCK_TTL", &cfg.SubmitLockTTL},
		{"CONFIRMATION_TOKEN_TTL", &cfg.ConfirmationTokenTTL},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", d.env, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("invalid %s: must be positive", d.env)
		}
		*d.target = parsed
	}

	if v := os.Getenv("SIGNUP_REQUIRE_EMAIL_CONFIRMATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SIGNUP_REQUIRE_EMAIL_CONFIRMATION: %w", err)
		}
		cfg.RequireEmailConfirmation = b
	}

	if v := os.Getenv("LOGIN_RATE_LIMIT_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOGIN_RATE_LIMIT_PER_MIN: %w", err)
		}
		cfg.LoginRateLimitPerMin = n
	}

	if cfg.IsDevelopment() {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devSecret
		}
		if cfg.RefreshSecret == "" {
			cfg.RefreshSecret = devSecret + "-refresh"
		}
		return cfg, nil
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}

	if cfg.JWTSecret == "" || cfg.RefreshSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET and REFRESH_SECRET must be set")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in a local/dev environment
// where Postgres and Redis may be replaced by in-memory backends.
func (c Config) IsDevelopment() bool {
	switch c.Env {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
