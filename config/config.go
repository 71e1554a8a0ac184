package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GeofenceRadiusMeters радиус геозоны, не настраивается через окружение
const GeofenceRadiusMeters = 10000.0

type Config struct {
	Telegram TelegramConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Access   Access
	Geofence GeofenceConfig
	Ops      OpsConfig
	Location *time.Location
}

// TelegramConfig параметры бота. DryRun запускает бота без связи с Telegram.
type TelegramConfig struct {
	Token  string
	DryRun bool
}

type PostgresConfig struct {
	DSN           string
	MaxConns      int32
	MinConns      int32
	RunMigrations bool
}

// RedisConfig пустой URL отключает Redis
type RedisConfig struct {
	URL string
}

type LoggerConfig struct {
	Level string
}

// Access списки администраторов и сотрудников, читаются один раз при старте
type Access struct {
	AdminIDs    []int64
	EmployeeIDs []int64
}

// IsAdmin проверяет, входит ли ID в список администраторов
func (a Access) IsAdmin(id int64) bool {
	return slices.Contains(a.AdminIDs, id)
}

type GeofenceConfig struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// OpsConfig пустой MetricsAddr отключает HTTP-сервер метрик
type OpsConfig struct {
	MetricsAddr string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	admins, err := parseIDList(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_IDS: %w", err)
	}
	employees, err := parseIDList(os.Getenv("EMPLOYEE_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMPLOYEE_IDS: %w", err)
	}
	lat, err := getEnvAsFloat("TARGET_LATITUDE", 0)
	if err != nil {
		return nil, err
	}
	lon, err := getEnvAsFloat("TARGET_LONGITUDE", 0)
	if err != nil {
		return nil, err
	}

	loc := time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			Token:  os.Getenv("TELEGRAM_TOKEN"),
			DryRun: getEnvAsBool("BOT_DRY_RUN", false),
		},
		Postgres: PostgresConfig{
			DSN:           os.Getenv("DATABASE_URL"),
			MaxConns:      int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:      int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations: getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Access: Access{
			AdminIDs:    admins,
			EmployeeIDs: employees,
		},
		Geofence: GeofenceConfig{
			Latitude:     lat,
			Longitude:    lon,
			RadiusMeters: GeofenceRadiusMeters,
		},
		Ops: OpsConfig{
			MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		},
		Location: loc,
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры. Ошибка здесь должна останавливать процесс.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Telegram.Token == "" && !c.Telegram.DryRun {
		return errors.New("TELEGRAM_TOKEN is required (set BOT_DRY_RUN=true to run without Telegram)")
	}
	if c.Geofence.Latitude < -90 || c.Geofence.Latitude > 90 {
		return fmt.Errorf("TARGET_LATITUDE out of range: %v", c.Geofence.Latitude)
	}
	if c.Geofence.Longitude < -180 || c.Geofence.Longitude > 180 {
		return fmt.Errorf("TARGET_LONGITUDE out of range: %v", c.Geofence.Longitude)
	}
	return nil
}

// parseIDList разбирает список ID через запятую
func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
