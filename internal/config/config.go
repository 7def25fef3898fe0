package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StrategyRules = "rules"
	StrategyBayes = "bayes"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type NLUConfig struct {
	CorpusPath          string
	KeywordsPath        string
	RestaurantsPath     string
	Strategy            string
	ConfidenceThreshold float64
	BayesMinProbability float64
}

type ServerConfig struct {
	HTTPAddr        string
	MaxBodyBytes    int64
	NLU             NLUConfig
	Store           string
	DBDSN           string
	SQLitePath      string
	SessionBackend  string
	SessionTTL      time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
}

type CLIConfig struct {
	NLU             NLUConfig
	ServerURL       string
	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
}

// LoadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func LoadNLUConfig() (NLUConfig, error) {
	cfg := NLUConfig{
		CorpusPath:          os.Getenv("HOTABLE_CORPUS_PATH"),
		KeywordsPath:        os.Getenv("HOTABLE_KEYWORDS_PATH"),
		RestaurantsPath:     os.Getenv("HOTABLE_RESTAURANTS_PATH"),
		Strategy:            strings.ToLower(getenvDefault("HOTABLE_NLU_STRATEGY", StrategyRules)),
		ConfidenceThreshold: getenvFloatDefault("HOTABLE_CONFIDENCE_THRESHOLD", 0.25),
		BayesMinProbability: getenvFloatDefault("HOTABLE_BAYES_MIN_PROBABILITY", 0.3),
	}

	if cfg.Strategy != StrategyRules && cfg.Strategy != StrategyBayes {
		return NLUConfig{}, fmt.Errorf("HOTABLE_NLU_STRATEGY must be %q or %q, got %q", StrategyRules, StrategyBayes, cfg.Strategy)
	}
	if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold > 1 {
		return NLUConfig{}, fmt.Errorf("HOTABLE_CONFIDENCE_THRESHOLD must be in (0, 1]")
	}
	if cfg.BayesMinProbability <= 0 || cfg.BayesMinProbability > 1 {
		return NLUConfig{}, fmt.Errorf("HOTABLE_BAYES_MIN_PROBABILITY must be in (0, 1]")
	}
	return cfg, nil
}

func LoadServerConfig() (ServerConfig, error) {
	nlu, err := LoadNLUConfig()
	if err != nil {
		return ServerConfig{}, err
	}

	cfg := ServerConfig{
		HTTPAddr:        getenvDefault("HOTABLE_HTTP_ADDR", ":5000"),
		MaxBodyBytes:    getenvInt64Default("HOTABLE_MAX_BODY_BYTES", 64*1024),
		NLU:             nlu,
		Store:           strings.ToLower(getenvDefault("HOTABLE_STORE", StoreMemory)),
		DBDSN:           os.Getenv("DB_DSN"),
		SQLitePath:      getenvDefault("SQLITE_PATH", "hotable.db"),
		SessionBackend:  strings.ToLower(getenvDefault("SESSION_BACKEND", SessionMemory)),
		SessionTTL:      time.Duration(getenvIntDefault("SESSION_TTL_SECONDS", 1800)) * time.Second,
		RedisAddr:       getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getenvIntDefault("REDIS_DB", 0),
		MQTTBrokerURL:   os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:    getenvDefault("MQTT_CLIENT_ID", "hotable-server"),
		MQTTUsername:    os.Getenv("MQTT_USERNAME"),
		MQTTPassword:    os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix: getenvDefault("MQTT_TOPIC_PREFIX", "hotable"),
	}

	switch cfg.Store {
	case StoreMemory:
	case StorePostgres:
		if cfg.DBDSN == "" {
			return ServerConfig{}, fmt.Errorf("DB_DSN is required when HOTABLE_STORE=postgres")
		}
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			return ServerConfig{}, fmt.Errorf("SQLITE_PATH is required when HOTABLE_STORE=sqlite")
		}
	default:
		return ServerConfig{}, fmt.Errorf("unsupported HOTABLE_STORE: %s", cfg.Store)
	}

	switch cfg.SessionBackend {
	case SessionMemory, SessionRedis:
	default:
		return ServerConfig{}, fmt.Errorf("unsupported SESSION_BACKEND: %s", cfg.SessionBackend)
	}
	if cfg.SessionTTL <= 0 {
		return ServerConfig{}, fmt.Errorf("SESSION_TTL_SECONDS must be positive")
	}
	if cfg.MaxBodyBytes <= 0 {
		return ServerConfig{}, fmt.Errorf("HOTABLE_MAX_BODY_BYTES must be positive")
	}
	return cfg, nil
}

func LoadCLIConfig() (CLIConfig, error) {
	nlu, err := LoadNLUConfig()
	if err != nil {
		return CLIConfig{}, err
	}
	return CLIConfig{
		NLU:             nlu,
		ServerURL:       strings.TrimRight(os.Getenv("HOTABLE_SERVER_URL"), "/"),
		MQTTBrokerURL:   getenvDefault("MQTT_BROKER_URL", "tcp://localhost:1883"),
		MQTTClientID:    getenvDefault("HOTABLE_CLI_MQTT_CLIENT_ID", "hotable-cli"),
		MQTTUsername:    os.Getenv("MQTT_USERNAME"),
		MQTTPassword:    os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix: getenvDefault("MQTT_TOPIC_PREFIX", "hotable"),
	}, nil
}

func getenvDefault(key, val string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return val
}

func getenvIntDefault(key string, val int) int {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return val
	}
	return n
}

func getenvInt64Default(key string, val int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return val
	}
	return n
}

func getenvFloatDefault(key string, val float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return val
	}
	return f
}
