package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	Port        string
	Host        string
	DBConn      string
	LogLevel    string
	JWTSecret   string
	JWTTTL      time.Duration
	FrontendURL string
	CBRURL      string

	// Calendar
	CalendarTZ string

	// Payment reminders
	SMTPHost              string
	SMTPPort              string
	SMTPUsername          string
	SMTPPassword          string
	SenderEmail           string
	ReminderSchedule      string
	ReminderLookaheadDays int

	// Tuition estimator rate tables, optional YAML file
	TuitionRatesFile string
}

// NewConfig loads configuration from environment variables.
// A .env file in the working directory is read first when present;
// variables already set in the environment win.
func NewConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDatabaseConfig loads configuration like NewConfig but only requires
// the database settings, for commands that never serve requests.
func NewDatabaseConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.DBConn == "" {
		return nil, fmt.Errorf("configuration validation failed:\n- DB_CONN is required")
	}
	return cfg, nil
}

func load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "5001"),
		Host:        getEnv("HOST", "0.0.0.0"),
		DBConn:      getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=finance sslmode=disable"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:8080"),
		CBRURL:      getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),

		CalendarTZ: getEnv("CALENDAR_TZ", "Local"),

		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              getEnv("SMTP_PORT", "587"),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		SenderEmail:           getEnv("SENDER_EMAIL", ""),
		ReminderSchedule:      getEnv("REMINDER_SCHEDULE", "0 8 * * *"),
		ReminderLookaheadDays: getEnvInt("REMINDER_LOOKAHEAD_DAYS", 3),

		TuitionRatesFile: getEnv("TUITION_RATES_FILE", ""),
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem at once
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}
	if c.DBConn == "" {
		problems = append(problems, "DB_CONN is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.JWTTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid JWT_TTL %v: must be at least 1 minute", c.JWTTTL))
	}
	if c.CBRURL != "" {
		if u, err := url.Parse(c.CBRURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			problems = append(problems, fmt.Sprintf("invalid CBR_URL '%s'", c.CBRURL))
		}
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid CALENDAR_TZ '%s': %v", c.CalendarTZ, err))
	}
	if c.RemindersEnabled() {
		if c.SenderEmail == "" {
			problems = append(problems, "SENDER_EMAIL is required when SMTP_HOST is set")
		}
		if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("invalid REMINDER_SCHEDULE '%s': %v", c.ReminderSchedule, err))
		}
	}
	if c.ReminderLookaheadDays < 1 || c.ReminderLookaheadDays > 31 {
		problems = append(problems, fmt.Sprintf("invalid REMINDER_LOOKAHEAD_DAYS %d: must be between 1 and 31", c.ReminderLookaheadDays))
	}
	if c.TuitionRatesFile != "" {
		if _, err := os.Stat(c.TuitionRatesFile); err != nil {
			problems = append(problems, fmt.Sprintf("tuition rates file not readable: %s", c.TuitionRatesFile))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// RemindersEnabled reports whether SMTP is configured for payment reminders
func (c *Config) RemindersEnabled() bool {
	return c.SMTPHost != ""
}

// Location returns the time zone calendar dates are normalized to
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.CalendarTZ)
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}
