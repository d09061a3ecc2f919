package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Members  MembersConfig
	LogLevel string
}

type ServerConfig struct {
	Port            int
	ReadTimeout     int // seconds
	WriteTimeout    int // seconds
	IdleTimeout     int // seconds
	ShutdownTimeout int // seconds
	MaxConns        int // 0 means unlimited
	AllowedOrigin   string
}

type DatabaseConfig struct {
	Driver          string // sqlite3 or postgres
	Path            string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
}

// MembersConfig selects how strictly POST /members checks its payload
type MembersConfig struct {
	StrictValidation bool
}

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// LoadDotEnv loads variables from the given files (default .env) into the
// process environment without overriding values that are already set
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load creates a new Config from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvInt("PORT", 3001),
			ReadTimeout:     getEnvInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvInt("WRITE_TIMEOUT", 15),
			IdleTimeout:     getEnvInt("IDLE_TIMEOUT", 60),
			ShutdownTimeout: getEnvInt("SHUTDOWN_TIMEOUT", 30),
			MaxConns:        getEnvInt("MAX_CONNS", 0),
			AllowedOrigin:   getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", DriverSQLite),
			Path:            getEnv("DB_PATH", "library.db"),
			DSN:             getEnv("DB_DSN", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
		},
		Members: MembersConfig{
			StrictValidation: getEnvBool("STRICT_MEMBER_VALIDATION", false),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
