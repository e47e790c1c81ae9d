package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every tunable of the platform. Pipeline constants that
// diverged across historical deployments (threshold, fallback defaults,
// calibration multipliers) are all named here so a deployment can pin the
// set its model artifact was trained against.
type Config struct {
	// Server
	ServerPort   string
	ServerHost   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Model artifact
	ModelArtifactPath string

	// Encoding catalog (empty = compiled-in defaults)
	CatalogPath string

	// Extraction defaults
	DefaultAge         int
	DefaultLeadTime    int
	DefaultPrice       float64
	DefaultDuration    int
	CleanTotalVisits   int
	CleanNoShows       int
	CleanNoShowRate    float64
	CleanDaysSinceLast int

	// Calibration & decision
	DecisionThreshold  float64
	UnregisteredFactor float64
	LeadTimeFactor     float64
	LeadTimeFactorMin  int
	LeadTimeFactorMax  int
	AdultFactor        float64
	AdultAgeMin        int
	AdultAgeMax        int
	TierLowCutoff      float64
	TierHighCutoff     float64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// History enrichment
	HistoryEnabled  bool
	HistoryCacheTTL time.Duration

	// Kafka
	KafkaBrokers  []string
	KafkaTopic    string
	PublishEvents bool
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8090"),
		ServerHost:   getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),

		ModelArtifactPath: getEnv("MODEL_ARTIFACT_PATH", "artifacts/noshow_latest.json"),
		CatalogPath:       getEnv("CATALOG_PATH", ""),

		DefaultAge:         getIntEnv("DEFAULT_AGE", 30),
		DefaultLeadTime:    getIntEnv("DEFAULT_LEAD_TIME_DAYS", 1),
		DefaultPrice:       getFloatEnv("DEFAULT_PRICE", 600),
		DefaultDuration:    getIntEnv("DEFAULT_DURATION_MIN", 30),
		CleanTotalVisits:   getIntEnv("CLEAN_TOTAL_VISITS", 1),
		CleanNoShows:       getIntEnv("CLEAN_NO_SHOWS", 0),
		CleanNoShowRate:    getFloatEnv("CLEAN_NO_SHOW_RATE", 0),
		CleanDaysSinceLast: getIntEnv("CLEAN_DAYS_SINCE_LAST", 0),

		DecisionThreshold:  getFloatEnv("DECISION_THRESHOLD", 0.65),
		UnregisteredFactor: getFloatEnv("CALIBRATION_UNREGISTERED_FACTOR", 0.7),
		LeadTimeFactor:     getFloatEnv("CALIBRATION_LEAD_TIME_FACTOR", 0.85),
		LeadTimeFactorMin:  getIntEnv("CALIBRATION_LEAD_TIME_MIN", 3),
		LeadTimeFactorMax:  getIntEnv("CALIBRATION_LEAD_TIME_MAX", 14),
		AdultFactor:        getFloatEnv("CALIBRATION_ADULT_FACTOR", 0.9),
		AdultAgeMin:        getIntEnv("CALIBRATION_ADULT_AGE_MIN", 25),
		AdultAgeMax:        getIntEnv("CALIBRATION_ADULT_AGE_MAX", 55),
		TierLowCutoff:      getFloatEnv("RISK_TIER_LOW_CUTOFF", 0.3),
		TierHighCutoff:     getFloatEnv("RISK_TIER_HIGH_CUTOFF", 0.7),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "noshow"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "noshow123"),
		PostgresDB:       getEnv("POSTGRES_DB", "noshow"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		HistoryEnabled:  getBoolEnv("HISTORY_ENABLED", false),
		HistoryCacheTTL: getDuration("HISTORY_CACHE_TTL", 5*time.Minute),

		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "noshow.predictions"),
		PublishEvents: getBoolEnv("PUBLISH_EVENTS", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
