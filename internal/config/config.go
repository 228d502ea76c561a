package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	SMTP     SMTPConfig
	Workday  WorkdayConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// SMTPConfig holds mail server settings for password reset mail
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// WorkdayConfig is the office-hours policy applied to every attendance day.
// OfficeStart and OfficeEnd are minute offsets from local midnight.
type WorkdayConfig struct {
	OfficeStart          time.Duration
	OfficeEnd            time.Duration
	OnTimeGrace          time.Duration
	AbsenceLateThreshold time.Duration
	Timezone             string

	location *time.Location
}

// NewWorkdayConfig builds a validated office-hours policy. Start and end
// are offsets from local midnight.
func NewWorkdayConfig(start, end, grace, threshold time.Duration, timezone string) (WorkdayConfig, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return WorkdayConfig{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	w := WorkdayConfig{
		OfficeStart:          start,
		OfficeEnd:            end,
		OnTimeGrace:          grace,
		AbsenceLateThreshold: threshold,
		Timezone:             timezone,
		location:             loc,
	}
	if err := w.validate(); err != nil {
		return WorkdayConfig{}, err
	}
	return w, nil
}

// Location returns the resolved deployment timezone.
func (w WorkdayConfig) Location() *time.Location {
	return w.location
}

// OfficeStartOn returns office start as a concrete instant on the given local day.
func (w WorkdayConfig) OfficeStartOn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, w.location).Add(w.OfficeStart)
}

// OfficeEndOn returns office end as a concrete instant on the given local day.
func (w WorkdayConfig) OfficeEndOn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, w.location).Add(w.OfficeEnd)
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("no .env file found, reading configuration from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "dailylog"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@dailylog.local"),
	}

	// Workday policy configuration
	workday, err := loadWorkday()
	if err != nil {
		return nil, fmt.Errorf("invalid workday policy: %w", err)
	}
	config.Workday = workday

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadWorkday() (WorkdayConfig, error) {
	officeStart, err := parseClock(getEnv("OFFICE_START", "08:00"))
	if err != nil {
		return WorkdayConfig{}, fmt.Errorf("invalid OFFICE_START: %w", err)
	}

	officeEnd, err := parseClock(getEnv("OFFICE_END", "17:00"))
	if err != nil {
		return WorkdayConfig{}, fmt.Errorf("invalid OFFICE_END: %w", err)
	}

	grace, err := time.ParseDuration(getEnv("ON_TIME_GRACE", "1m"))
	if err != nil {
		return WorkdayConfig{}, fmt.Errorf("invalid ON_TIME_GRACE: %w", err)
	}

	threshold, err := time.ParseDuration(getEnv("ABSENCE_LATE_THRESHOLD", "2h"))
	if err != nil {
		return WorkdayConfig{}, fmt.Errorf("invalid ABSENCE_LATE_THRESHOLD: %w", err)
	}

	timezone := getEnv("TIMEZONE", "Asia/Manila")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return WorkdayConfig{}, fmt.Errorf("invalid TIMEZONE %q: %w", timezone, err)
	}

	workday := WorkdayConfig{
		OfficeStart:          officeStart,
		OfficeEnd:            officeEnd,
		OnTimeGrace:          grace,
		AbsenceLateThreshold: threshold,
		Timezone:             timezone,
		location:             loc,
	}

	if err := workday.validate(); err != nil {
		return WorkdayConfig{}, err
	}

	return workday, nil
}

func (w WorkdayConfig) validate() error {
	if w.OfficeStart < 0 || w.OfficeStart >= 24*time.Hour {
		return fmt.Errorf("OFFICE_START must fall within the day")
	}
	if w.OfficeEnd < 0 || w.OfficeEnd >= 24*time.Hour {
		return fmt.Errorf("OFFICE_END must fall within the day")
	}
	if w.OfficeEnd <= w.OfficeStart {
		return fmt.Errorf("OFFICE_END must be after OFFICE_START")
	}
	if w.OnTimeGrace < 0 {
		return fmt.Errorf("ON_TIME_GRACE must not be negative")
	}
	if w.AbsenceLateThreshold <= 0 {
		return fmt.Errorf("ABSENCE_LATE_THRESHOLD must be positive")
	}
	return nil
}

// parseClock parses an "HH:MM" time-of-day into an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
