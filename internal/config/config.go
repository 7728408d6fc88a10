package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Env is "development" or "production"; error details are only exposed in development
	Env string

	// Server configuration
	Server ServerConfig

	// Store selects the persistence backend
	Store StoreConfig

	// Database configuration (postgres backend)
	Database DatabaseConfig

	// Mongo configuration (mongo backend)
	Mongo MongoConfig

	// Auth configuration for bearer tokens
	Auth AuthConfig

	// Upload configuration for image storage
	Upload UploadConfig

	// Blog behaviour
	Blog BlogConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// StoreConfig holds backend selection
type StoreConfig struct {
	Driver         string // "postgres" or "mongo"
	MigrationsPath string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// MongoConfig holds document store connection settings
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// AuthConfig holds token verification settings
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// UploadConfig holds image upload settings
type UploadConfig struct {
	Dir           string
	MaxUploadSize int64 // in bytes
	PublicPrefix  string
}

// BlogConfig holds listing and comment rules
type BlogConfig struct {
	DefaultPageSize         int
	MaxPageSize             int
	PopularDefaultLimit     int
	MinSearchLength         int
	MaxCommentDepth         int
	CommentsRequireApproval bool
	SeedBatchSize           int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Load reads configuration from environment variables, after loading a .env file if present
func Load() (*Config, error) {
	// A missing .env file is fine; real environment variables still apply
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("ENV", EnvProduction),
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  getListEnv("ALLOWED_ORIGINS", []string{"*"}),
		},
		Store: StoreConfig{
			Driver:         strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "blog"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "blog"),
			ConnectTimeout: getDurationEnv("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		Upload: UploadConfig{
			Dir:           getEnv("UPLOAD_DIR", "./uploads/images"),
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 5*1024*1024), // 5MB
			PublicPrefix:  getEnv("UPLOAD_PUBLIC_PREFIX", "/uploads/images"),
		},
		Blog: BlogConfig{
			DefaultPageSize:         getIntEnv("DEFAULT_PAGE_SIZE", 10),
			MaxPageSize:             getIntEnv("MAX_PAGE_SIZE", 100),
			PopularDefaultLimit:     getIntEnv("POPULAR_DEFAULT_LIMIT", 5),
			MinSearchLength:         getIntEnv("MIN_SEARCH_LENGTH", 2),
			MaxCommentDepth:         getIntEnv("MAX_COMMENT_DEPTH", 5),
			CommentsRequireApproval: getBoolEnv("COMMENTS_REQUIRE_APPROVAL", false),
			SeedBatchSize:           getIntEnv("SEED_BATCH_SIZE", 500),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("MONGODB_DATABASE is required")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: %s, %s", DriverPostgres, DriverMongo)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Blog.DefaultPageSize < 1 || c.Blog.MaxPageSize < c.Blog.DefaultPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be >= 1 and <= MAX_PAGE_SIZE")
	}
	if c.Blog.SeedBatchSize < 1 {
		return fmt.Errorf("SEED_BATCH_SIZE must be >= 1")
	}
	if c.Blog.MaxCommentDepth < 0 {
		return fmt.Errorf("MAX_COMMENT_DEPTH must not be negative")
	}
	return nil
}

// IsDevelopment reports whether error details may be exposed to clients
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
