package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App      AppConfig      `toml:"app"`
	LLM      LLMConfig      `toml:"llm"`
	Index    IndexConfig    `toml:"index"`
	Pinecone PineconeConfig `toml:"pinecone"`
	MySQL    MySQLConfig    `toml:"mysql"`
	Redis    RedisConfig    `toml:"redis"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
	Storage  StorageConfig  `toml:"storage"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type LLMConfig struct {
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	EmbeddingModel string  `toml:"embedding_model"`
	Temperature    float64 `toml:"temperature"`
}

// IndexConfig selects the vector index provider: "pinecone" or "mysql".
type IndexConfig struct {
	Provider string `toml:"provider"`
}

type PineconeConfig struct {
	APIKey    string `toml:"api_key"`
	IndexHost string `toml:"index_host"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

type RedisConfig struct {
	Addr                string `toml:"addr"`
	Password            string `toml:"password"`
	DB                  int    `toml:"db"`
	EmbeddingTTLSeconds int    `toml:"embedding_ttl_seconds"`
}

type RabbitMQConfig struct {
	URL                 string `toml:"url"`
	DocumentEventsQueue string `toml:"document_events_queue"`
}

// StorageConfig selects the document storage backend: "local" or "s3".
type StorageConfig struct {
	Type        string `toml:"type"`
	UploadDir   string `toml:"upload_dir"`
	S3Endpoint  string `toml:"s3_endpoint"`
	S3AccessKey string `toml:"s3_access_key"`
	S3SecretKey string `toml:"s3_secret_key"`
	S3Bucket    string `toml:"s3_bucket"`
	S3Region    string `toml:"s3_region"`
	S3UseSSL    bool   `toml:"s3_use_ssl"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "docrag",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		LLM: LLMConfig{
			BaseURL:        "https://api.openai.com/v1",
			APIKey:         "",
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			Temperature:    0.3,
		},
		Index: IndexConfig{
			Provider: "pinecone",
		},
		Pinecone: PineconeConfig{
			APIKey:    "",
			IndexHost: "",
		},
		MySQL: MySQLConfig{
			Host:     "127.0.0.1",
			Port:     3306,
			User:     "root",
			Password: "",
			DB:       "docrag",
			Params:   "parseTime=true&loc=Local&charset=utf8mb4",
		},
		Redis: RedisConfig{
			Addr:                "",
			Password:            "",
			DB:                  0,
			EmbeddingTTLSeconds: 86400,
		},
		RabbitMQ: RabbitMQConfig{
			URL:                 "",
			DocumentEventsQueue: "document.events",
		},
		Storage: StorageConfig{
			Type:      "local",
			UploadDir: "uploads",
			S3Region:  "auto",
			S3UseSSL:  true,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.EmbeddingModel = getEnv("LLM_EMBEDDING_MODEL", cfg.LLM.EmbeddingModel)
	cfg.LLM.Temperature = getEnvAsFloat("LLM_TEMPERATURE", cfg.LLM.Temperature)

	cfg.Index.Provider = getEnv("INDEX_PROVIDER", cfg.Index.Provider)
	cfg.Pinecone.APIKey = getEnv("PINECONE_API_KEY", cfg.Pinecone.APIKey)
	cfg.Pinecone.IndexHost = getEnv("PINECONE_INDEX_HOST", cfg.Pinecone.IndexHost)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.EmbeddingTTLSeconds = getEnvAsInt("REDIS_EMBEDDING_TTL_SECONDS", cfg.Redis.EmbeddingTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.DocumentEventsQueue = getEnv("RABBITMQ_DOCUMENT_EVENTS_QUEUE", cfg.RabbitMQ.DocumentEventsQueue)

	cfg.Storage.Type = getEnv("STORAGE_TYPE", cfg.Storage.Type)
	cfg.Storage.UploadDir = getEnv("STORAGE_UPLOAD_DIR", cfg.Storage.UploadDir)
	cfg.Storage.S3Endpoint = getEnv("STORAGE_S3_ENDPOINT", cfg.Storage.S3Endpoint)
	cfg.Storage.S3AccessKey = getEnv("STORAGE_S3_ACCESS_KEY", cfg.Storage.S3AccessKey)
	cfg.Storage.S3SecretKey = getEnv("STORAGE_S3_SECRET_KEY", cfg.Storage.S3SecretKey)
	cfg.Storage.S3Bucket = getEnv("STORAGE_S3_BUCKET", cfg.Storage.S3Bucket)
	cfg.Storage.S3Region = getEnv("STORAGE_S3_REGION", cfg.Storage.S3Region)
	if raw, ok := os.LookupEnv("STORAGE_S3_USE_SSL"); ok {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			cfg.Storage.S3UseSSL = parsed
		}
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
