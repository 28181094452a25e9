package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	ElevenLabs ElevenLabsConfig
	Ollama     OllamaConfig
	RAG        RAGConfig
	Sync       SyncConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// StorageConfig selects the conversation persistence backend.
type StorageConfig struct {
	Type    string // "file" or "postgres"
	DataDir string
}

// ConversationsPath is the file backend's conversation document path.
func (c StorageConfig) ConversationsPath() string {
	return c.DataDir + "/conversations.json"
}

// EscalationsPath is the file backend's escalation document path.
func (c StorageConfig) EscalationsPath() string {
	return c.DataDir + "/escalations.json"
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration. Redis is optional; when disabled the
// sync guard falls back to an in-process lock.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// ElevenLabsConfig holds vendor API credentials and defaults.
type ElevenLabsConfig struct {
	APIKey        string
	AgentID       string
	VoiceID       string
	Model         string
	WebhookSecret string
}

// OllamaConfig points at the local LLM runtime.
type OllamaConfig struct {
	BaseURL string
	Model   string
}

// RAGConfig holds knowledge-base settings.
type RAGConfig struct {
	Path          string
	EmbedModel    string
	MinSimilarity float64
}

// SyncConfig holds sync coordinator settings.
type SyncConfig struct {
	GuardTTL    time.Duration
	DefaultDays int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Storage: StorageConfig{
			Type:    getEnv("STORAGE_TYPE", "file"),
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "voicedesk"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:        getEnv("ELEVENLABS_API_KEY", ""),
			AgentID:       getEnv("ELEVENLABS_AGENT_ID", ""),
			VoiceID:       getEnv("ELEVENLABS_VOICE_ID", ""),
			Model:         getEnv("ELEVENLABS_MODEL", "eleven_turbo_v2"),
			WebhookSecret: getEnv("ELEVENLABS_WEBHOOK_SECRET", ""),
		},
		Ollama: OllamaConfig{
			BaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:   getEnv("OLLAMA_MODEL", "llama3.1:8b"),
		},
		RAG: RAGConfig{
			Path:          getEnv("RAG_DB_PATH", "data/knowledge"),
			EmbedModel:    getEnv("RAG_EMBED_MODEL", "nomic-embed-text"),
			MinSimilarity: getEnvAsFloat("RAG_MIN_SIMILARITY", 0.3),
		},
		Sync: SyncConfig{
			GuardTTL:    getEnvAsDuration("SYNC_GUARD_TTL", "5m"),
			DefaultDays: getEnvAsInt("SYNC_DEFAULT_DAYS", 30),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Storage.Type != "file" && c.Storage.Type != "postgres" {
		return fmt.Errorf("STORAGE_TYPE must be \"file\" or \"postgres\", got %q", c.Storage.Type)
	}
	if c.Sync.DefaultDays < 1 {
		return fmt.Errorf("SYNC_DEFAULT_DAYS must be positive")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
