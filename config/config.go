package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SourceURL string
	StartDate time.Time
	EndDate   time.Time
	Status    string

	OrdersCSVPath   string
	ProductsCSVPath string
	BucketsConfig   string

	ListenAddr string
	Debug      bool

	ArchiveEnabled   bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
// Date defaults mirror the dashboard's pickers: the last 31 days up to yesterday.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	today := time.Now().Truncate(24 * time.Hour)

	return &Config{
		SourceURL: getEnv("SOURCE_URL", ""),
		StartDate: getEnvDate("START_DATE", today.AddDate(0, 0, -31)),
		EndDate:   getEnvDate("END_DATE", today.AddDate(0, 0, -1)),
		Status:    getEnv("ORDER_STATUS", "Tutti"),

		OrdersCSVPath:   getEnv("ORDERS_CSV_PATH", "./output/orders.csv"),
		ProductsCSVPath: getEnv("PRODUCTS_CSV_PATH", "./output/products.csv"),
		BucketsConfig:   getEnv("BUCKETS_CONFIG", ""),

		ListenAddr: getEnv("LISTEN_ADDR", ""),
		Debug:      getEnvBool("DEBUG", false),

		ArchiveEnabled:   getEnvBool("ARCHIVE_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "analytics"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "analytics123"),
		PostgresDB:       getEnv("POSTGRES_DB", "woo_reports"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string for the run archive.
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

func getEnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes":
		return true
	case "0", "false", "FALSE", "no":
		return false
	}
	return fallback
}

func getEnvDate(key string, fallback time.Time) time.Time {
	if val := os.Getenv(key); val != "" {
		d, err := time.Parse("2006-01-02", val)
		if err == nil {
			return d
		}
		log.Printf("[config] Ignoring %s=%q: expected YYYY-MM-DD", key, val)
	}
	return fallback
}
