package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendMemory    = "memory"

	SessionJWT   = "jwt"
	SessionRedis = "redis"
)

type Config struct {
	StoreBackend     string
	OperationTimeout time.Duration

	FirestoreProjectID       string
	FirestoreCredentialsFile string

	MongoURI      string
	MongoDatabase string

	JobsCollection  string
	UsersCollection string

	SeedAtomicBatch       bool
	SeedCompensatePartial bool
	AdminAllowedEmails    []string
	AdminAllowedIDs       []string
	DemoResetSchedule     string

	SessionBackend string
	SessionSecret  string
	SessionToken   string
	SessionTTL     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NATSURL          string
	NATSConnTimeout  time.Duration
	NATSFlushTimeout time.Duration

	ClickHouseDSN          string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string

	HTTPAddr           string
	CORSAllowedOrigins []string

	OTELCollectorURL string
	LogLevel         string
}

// LoadConfig reads the process environment, after layering in a .env file
// from the working directory when one exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		StoreBackend:     getEnvString("STORE_BACKEND", BackendFirestore),
		OperationTimeout: getEnvDuration("OPERATION_TIMEOUT", 30*time.Second),

		FirestoreProjectID:       getEnvString("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredentialsFile: getEnvString("FIRESTORE_CREDENTIALS_FILE", ""),

		MongoURI:      getEnvString("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getEnvString("MONGODB_DATABASE", "pathx"),

		JobsCollection:  getEnvString("JOBS_COLLECTION", "jobs"),
		UsersCollection: getEnvString("USERS_COLLECTION", "users"),

		SeedAtomicBatch:       getEnvBool("SEED_ATOMIC_BATCH", true),
		SeedCompensatePartial: getEnvBool("SEED_COMPENSATE_PARTIAL", false),
		AdminAllowedEmails:    getEnvList("ADMIN_ALLOWED_EMAILS"),
		AdminAllowedIDs:       getEnvList("ADMIN_ALLOWED_IDS"),
		DemoResetSchedule:     getEnvString("DEMO_RESET_SCHEDULE", ""),

		SessionBackend: getEnvString("SESSION_BACKEND", SessionJWT),
		SessionSecret:  getEnvString("SESSION_SECRET", ""),
		SessionToken:   getEnvString("PATHX_SESSION_TOKEN", ""),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),

		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		NATSURL:          getEnvString("NATS_URL", ""),
		NATSConnTimeout:  getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),
		NATSFlushTimeout: getEnvDuration("NATS_FLUSH_TIMEOUT", 5*time.Second),

		ClickHouseDSN:          getEnvString("CLICKHOUSE_DSN", ""),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 5),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 2),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "pathx"),

		HTTPAddr:           getEnvString("HTTP_ADDR", ":8090"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),

		OTELCollectorURL: getEnvString("OTEL_COLLECTOR_URL", ""),
		LogLevel:         getEnvString("LOG_LEVEL", "info"),
	}

	if len(config.CORSAllowedOrigins) == 0 {
		config.CORSAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blank entries.
func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
