// Package config loads the bot configuration from the environment. A .env
// file in the working directory is read first when present.
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Warn storage backends
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string `env:"DISCORD_TOKEN"`
	DevGuildID string `env:"devGuildId"`

	// Warn storage
	WarnBackend string `env:"warnBackend" envDefault:"mongo"`
	MongoDBURL  string `env:"mongodbUrl" envDefault:"mongodb://localhost:27017"`
	DBName      string `env:"dbName" envDefault:"VillagerBot"`
	BoltPath    string `env:"boltPath" envDefault:"data/villager.db"`
	SQLitePath  string `env:"sqlitePath" envDefault:"data/villager.sqlite"`

	// MQTT
	MQTTHost     string `env:"MQTT_Host" envDefault:"localhost"`
	MQTTPort     string `env:"MQTT_Port" envDefault:"1883"`
	MQTTUser     string `env:"MQTT_User"`
	MQTTPassword string `env:"MQTT_Password"`

	// Web Server
	Port string `env:"PORT" envDefault:"8080"`
	// APIKey authorizes the warn lookup route; empty keeps it closed
	APIKey string `env:"apiKey"`

	// Environment
	Environment string `env:"enviroment" envDefault:"dev"`

	// Webhooks
	ErrorWebhook      string `env:"errorWebhook"`
	LogsWebhook       string `env:"logsWebhook"`
	LogsWebServerHook string `env:"logsWebServerWebhook"`

	// Scheduled unbans
	UnbanSweepInterval time.Duration `env:"UNBAN_SWEEP_INTERVAL" envDefault:"1m"`
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

var (
	cfg     *Config
	cfgErr  error
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgErr = nil
	cfgOnce = sync.Once{}
}

func loadConfig() {
	// A missing .env is fine, the variables may come from the environment.
	_ = godotenv.Load()

	c, err := env.ParseAs[Config]()
	if err != nil {
		cfgErr = fmt.Errorf("parsing environment: %w", err)
		cfg = &c
		return
	}
	if err := c.Validate(); err != nil {
		cfgErr = err
	}
	cfg = &c
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, cfgErr
}

// Get returns the current configuration
func Get() *Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

// Validate checks values the environment parser cannot
func (c *Config) Validate() error {
	switch c.WarnBackend {
	case BackendMemory, BackendMongo, BackendBolt, BackendSQLite:
	default:
		return fmt.Errorf("warnBackend %q no es válido (memory, mongo, bolt, sqlite)", c.WarnBackend)
	}
	if c.UnbanSweepInterval <= 0 {
		return fmt.Errorf("UNBAN_SWEEP_INTERVAL debe ser positivo, es %v", c.UnbanSweepInterval)
	}
	return nil
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// MQTTBroker returns the broker URL for the MQTT client
func (c *Config) MQTTBroker() string {
	return fmt.Sprintf("tcp://%s:%s", c.MQTTHost, c.MQTTPort)
}
