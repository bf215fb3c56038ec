// Package config provides centralized default values for the Engajamento backend
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%f (default: %f)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database Configuration
	DBDriver                 string
	DBPath                   string
	TursoDatabaseURL         string
	TursoAuthToken           string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration

	// Security Configuration
	JWTSecret          string
	AdminTokenTTL      time.Duration
	BcryptCost         int
	AllowAdminCreation bool
	SeedAdminUsername  string
	SeedAdminPassword  string

	// Inference Configuration
	InferencePersistThreshold float64
	AlgorithmVersion          string

	// Report Configuration
	UploadDir         string
	MaxUploadSizeMB   int
	ReportRecordLimit int

	// Email Configuration
	ResendAPIKey      string
	LeadNotifyAddress string
	EmailFromAddress  string
	EmailFromName     string

	// CORS Configuration
	AllowedOrigins []string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "3001")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database Configuration
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "./database.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Security Configuration
	JWTSecret = getEnvString("JWT_SECRET", "your-secret-key-change-in-production")
	AdminTokenTTL = getEnvDuration("ADMIN_TOKEN_TTL", 7*24*time.Hour)
	BcryptCost = getEnvInt("BCRYPT_COST", 10)
	AllowAdminCreation = getEnvBool("ALLOW_ADMIN_CREATION", false)
	SeedAdminUsername = getEnvString("SEED_ADMIN_USERNAME", "admin")
	SeedAdminPassword = getEnvString("SEED_ADMIN_PASSWORD", "")

	// Inference Configuration
	InferencePersistThreshold = getEnvFloat("INFERENCE_PERSIST_THRESHOLD", 0.3)
	AlgorithmVersion = getEnvString("INFERENCE_ALGORITHM_VERSION", "heuristic_v1.0")

	// Report Configuration
	UploadDir = getEnvString("UPLOAD_DIR", os.TempDir()+"/uploads")
	MaxUploadSizeMB = getEnvInt("MAX_UPLOAD_SIZE_MB", 10)
	ReportRecordLimit = getEnvInt("REPORT_RECORD_LIMIT", 100)

	// Email Configuration
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	LeadNotifyAddress = getEnvString("LEAD_NOTIFY_ADDRESS", "")
	EmailFromAddress = getEnvString("EMAIL_FROM_ADDRESS", "noreply@formulaengajamento.com")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "Fórmula Engajamento")

	// CORS Configuration
	originsCSV := getEnvString("ALLOWED_ORIGINS", "")
	AllowedOrigins = []string{
		"http://localhost:5000",
		"https://localhost:5000",
		"http://127.0.0.1:5000",
		"https://127.0.0.1:5000",
	}
	if originsCSV != "" {
		for _, origin := range strings.Split(originsCSV, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				AllowedOrigins = append(AllowedOrigins, trimmed)
			}
		}
	}
}
