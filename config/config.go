package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Data sources understood by the loader.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataSource string
	DataPath   string

	HTTPAddr      string
	SessionSecret string
	SessionName   string
	GinMode       string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxRetries       int
	ClusterPrecision int
	OutputDir        string

	ChromeBin           string
	SnapshotConcurrency int
	SnapshotTimeoutSec  int

	Debug bool
}

// Load reads envFile (or ./.env when empty) and returns a populated Config.
// A missing env file is not an error; system env vars and defaults apply.
func Load(envFile string) *Config {
	var err error
	if envFile != "" {
		err = godotenv.Load(envFile)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		DataPath:   getEnv("DATA_PATH", "data_jabar_umkm.csv"),

		HTTPAddr:      getEnv("HTTP_ADDR", ":8501"),
		SessionSecret: getEnv("SESSION_SECRET", "sipeta-dev-session-secret"),
		SessionName:   getEnv("SESSION_NAME", "sipeta"),
		GinMode:       getEnv("GIN_MODE", "release"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "sipeta"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "sipeta123"),
		PostgresDB:       getEnv("POSTGRES_DB", "umkm_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
		ClusterPrecision: getEnvInt("CLUSTER_PRECISION", 5),
		OutputDir:        getEnv("OUTPUT_DIR", "./output"),

		ChromeBin:           getEnv("CHROME_BIN", ""),
		SnapshotConcurrency: getEnvInt("SNAPSHOT_CONCURRENCY", 2),
		SnapshotTimeoutSec:  getEnvInt("SNAPSHOT_TIMEOUT_SEC", 45),

		Debug: getEnvBool("DEBUG", false),
	}
}

// Validate rejects settings the loader and map builder cannot work with.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceCSV:
		if c.DataPath == "" {
			return fmt.Errorf("config: DATA_PATH is required for the csv source")
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("config: unknown DATA_SOURCE %q (use %s or %s)", c.DataSource, SourceCSV, SourcePostgres)
	}
	if c.ClusterPrecision < 1 || c.ClusterPrecision > 12 {
		return fmt.Errorf("config: CLUSTER_PRECISION must be within 1..12, got %d", c.ClusterPrecision)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("config: SESSION_SECRET must not be empty")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
