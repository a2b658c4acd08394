// Package config provides configuration management for the guard.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Supported chat platforms
const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
)

// Config holds all configuration values for the guard
type Config struct {
	// Platform
	Platform     string
	BotToken     string
	DiscordToken string
	DevGuildID   string
	OwnerID      int64

	// MongoDB
	MongoDBURL string
	DBName     string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port         string
	AllowedHosts string
	APIKey       string

	// Environment
	Environment string

	// Logging
	ErrorWebhook string
	LogsWebhook  string
	LogChannelID int64

	// Moderation defaults
	ForceSubChannel string
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

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		Platform:     strings.ToLower(getEnv("PLATFORM", PlatformTelegram)),
		BotToken:     getEnv("BOT_TOKEN", ""),
		DiscordToken: getEnv("DISCORD_TOKEN", ""),
		DevGuildID:   getEnv("DEV_GUILD_ID", ""),
		OwnerID:      getEnvInt64("OWNER_ID", 0),

		MongoDBURL: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:     getEnv("DATABASE_NAME", "PancyGuard"),

		MQTTHost:     getEnv("MQTT_Host", "localhost"),
		MQTTPort:     getEnv("MQTT_Port", "1883"),
		MQTTUser:     getEnv("MQTT_User", ""),
		MQTTPassword: getEnv("MQTT_Password", ""),

		Port:         getEnv("PORT", "3000"),
		AllowedHosts: getEnv("WEB_ALLOWED_HOSTS", ""),
		APIKey:       getEnv("API_KEY", ""),

		Environment: getEnv("enviroment", "dev"),

		ErrorWebhook: getEnv("errorWebhook", ""),
		LogsWebhook:  getEnv("logsWebhook", ""),
		LogChannelID: getEnvInt64("LOG_CHANNEL_ID", 0),

		ForceSubChannel: getEnv("FORCE_SUB_CHANNEL", ""),
	}
	cfgErr = cfg.validate()
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

func (c *Config) validate() error {
	switch c.Platform {
	case PlatformTelegram, PlatformDiscord:
	default:
		return fmt.Errorf("PLATFORM inválida: %q (usa telegram o discord)", c.Platform)
	}
	return nil
}

// Token returns the bot token for the configured platform
func (c *Config) Token() string {
	if c.Platform == PlatformDiscord {
		return c.DiscordToken
	}
	return c.BotToken
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt64 parses an integer variable, falling back to the default when unset or malformed
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvBool parses a boolean variable (true/false/1/0/yes/no)
func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// ConsoleLogs reports whether colored console output is wanted
func (c *Config) ConsoleLogs() bool {
	return getEnvBool("CONSOLE_LOGS", !c.IsProd())
}
