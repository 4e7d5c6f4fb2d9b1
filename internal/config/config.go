package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const minSecretLength = 32

type Config struct {
	HTTPAddr    string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string
	AppURL      string

	LoginLinkTTL time.Duration
	SessionTTL   time.Duration
	CookieSecure bool

	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailFrom   string

	RunMigrations bool
	MigrationsDir string

	RateLimitRPS   float64
	RateLimitBurst int
}

// SMTPEnabled reports whether mail should go through an SMTP server.
func (c Config) SMTPEnabled() bool {
	return c.SMTPServer != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("APP_URL", "http://localhost:8080")
	v.SetDefault("LOGIN_LINK_TTL", "5m")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 3)
}

// Load reads an optional .env file, an optional config.yaml and the process
// environment. Environment variables win over the file.
func Load(paths ...string) (Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		AppURL:         strings.TrimRight(v.GetString("APP_URL"), "/"),
		LoginLinkTTL:   v.GetDuration("LOGIN_LINK_TTL"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		SMTPServer:     v.GetString("SMTP_SERVER"),
		SMTPPort:       v.GetInt("SMTP_PORT"),
		SMTPUser:       v.GetString("SMTP_USER"),
		SMTPPass:       v.GetString("SMTP_PASS"),
		MailFrom:       v.GetString("MAIL_FROM"),
		RunMigrations:  v.GetBool("RUN_MIGRATIONS"),
		MigrationsDir:  v.GetString("MIGRATIONS_DIR"),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if len(c.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must have at least %d characters", minSecretLength))
	}
	if c.LoginLinkTTL <= 0 || c.SessionTTL <= 0 {
		errs = append(errs, errors.New("LOGIN_LINK_TTL and SESSION_TTL must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	return errors.Join(errs...)
}
