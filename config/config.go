package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Server   ServerConfig   `yaml:"server"`
	Holiday  HolidayConfig  `yaml:"holiday"`
	Calendar CalendarConfig `yaml:"calendar"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// HolidayConfig 公眾假日查詢設定
type HolidayConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Countries   []string      `yaml:"countries"`
	RefreshCron string        `yaml:"refresh_cron"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// CalendarConfig 月/週/日視圖的預設值
type CalendarConfig struct {
	// WeekStart is the first column of week rows: "sunday" (default) or "monday".
	WeekStart string `yaml:"week_start"`
	// Timezone is the IANA zone used for wall-clock layout; empty means the host zone.
	Timezone  string `yaml:"timezone"`
	MaxPerDay int    `yaml:"max_per_day"`
}

var AppConfig *Config

func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "postgres",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Server: ServerConfig{
			Port:        "5000",
			CORSOrigins: []string{"*"},
		},
		Holiday: HolidayConfig{
			BaseURL:     "https://date.nager.at",
			Countries:   []string{"IN"},
			RefreshCron: "0 3 * * *",
			CacheTTL:    24 * time.Hour,
		},
		Calendar: CalendarConfig{
			WeekStart: "sunday",
			MaxPerDay: 2,
		},
	}
}

// LoadConfig 依序套用：預設值 -> CONFIG_FILE 指定的 YAML -> 環境變數
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return AppConfig, nil
}

func LoadTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Database = DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}
	cfg.Redis = RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}
	return cfg
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", cfg.Database.Host),
		Port:     getEnv("DB_PORT", cfg.Database.Port),
		User:     getEnv("DB_USER", cfg.Database.User),
		Password: getEnv("DB_PASSWORD", cfg.Database.Password),
		DBName:   getEnv("DB_NAME", cfg.Database.DBName),
		SSLMode:  getEnv("DB_SSL_MODE", cfg.Database.SSLMode),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", strconv.Itoa(cfg.Redis.DB)))
	if err != nil {
		return fmt.Errorf("REDIS_DB: %w", err)
	}
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", cfg.Redis.Host),
		Port:     getEnv("REDIS_PORT", cfg.Redis.Port),
		Password: getEnv("REDIS_PASSWORD", cfg.Redis.Password),
		DB:       redisDB,
	}

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.CORSOrigins = getEnvList("CORS_ORIGINS", cfg.Server.CORSOrigins)

	cfg.Holiday.BaseURL = getEnv("HOLIDAY_API_URL", cfg.Holiday.BaseURL)
	cfg.Holiday.Countries = getEnvList("HOLIDAY_COUNTRIES", cfg.Holiday.Countries)
	cfg.Holiday.RefreshCron = getEnv("HOLIDAY_REFRESH_CRON", cfg.Holiday.RefreshCron)
	ttl, err := time.ParseDuration(getEnv("HOLIDAY_CACHE_TTL", cfg.Holiday.CacheTTL.String()))
	if err != nil {
		return fmt.Errorf("HOLIDAY_CACHE_TTL: %w", err)
	}
	cfg.Holiday.CacheTTL = ttl

	cfg.Calendar.WeekStart = getEnv("CALENDAR_WEEK_START", cfg.Calendar.WeekStart)
	cfg.Calendar.Timezone = getEnv("CALENDAR_TIMEZONE", cfg.Calendar.Timezone)
	maxPerDay, err := strconv.Atoi(getEnv("CALENDAR_MAX_PER_DAY", strconv.Itoa(cfg.Calendar.MaxPerDay)))
	if err != nil {
		return fmt.Errorf("CALENDAR_MAX_PER_DAY: %w", err)
	}
	cfg.Calendar.MaxPerDay = maxPerDay

	return nil
}

// WeekStartDay maps the configured week start onto time.Weekday.
func (c CalendarConfig) WeekStartDay() (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(c.WeekStart)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("unsupported week start %q", c.WeekStart)
}

// Location 載入顯示用時區，未設定時使用主機時區
func (c CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
