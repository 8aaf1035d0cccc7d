package config

import (
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	AuthJWTSecret        string `mapstructure:"AUTH_JWT_SECRET"`
	AuthTokenTTLHours    int    `mapstructure:"AUTH_TOKEN_TTL_HOURS"`
	AuthAllowedDomains   string `mapstructure:"AUTH_ALLOWED_DOMAINS"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	UploadDir            string `mapstructure:"UPLOAD_DIR"`
	UploadPublicURL      string `mapstructure:"UPLOAD_PUBLIC_URL"`
	OSSEndpoint          string `mapstructure:"OSS_ENDPOINT"`
	OSSAccessKey         string `mapstructure:"OSS_ACCESS_KEY"`
	OSSSecretKey         string `mapstructure:"OSS_SECRET_KEY"`
	OSSBucket            string `mapstructure:"OSS_BUCKET"`
	ClientLogsURL        string `mapstructure:"CLIENT_LOGS_URL"`
	SeedAdminEmail       string `mapstructure:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword    string `mapstructure:"SEED_ADMIN_PASSWORD"`
}

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"AUTH_JWT_SECRET", "AUTH_TOKEN_TTL_HOURS", "AUTH_ALLOWED_DOMAINS",
	"SCHEDULER_ENABLED",
	"UPLOAD_DIR", "UPLOAD_PUBLIC_URL",
	"OSS_ENDPOINT", "OSS_ACCESS_KEY", "OSS_SECRET_KEY", "OSS_BUCKET",
	"CLIENT_LOGS_URL",
	"SEED_ADMIN_EMAIL", "SEED_ADMIN_PASSWORD",
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetDefault("AUTH_TOKEN_TTL_HOURS", 24)
	viper.SetDefault("DB_CACHE_RESET", -1)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("UPLOAD_PUBLIC_URL", "/uploads")

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"allowedDomains", config.AllowedDomains(),
	)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

// AllowedDomains returns the normalised company email domains accepted at sign-up.
func (c Config) AllowedDomains() []string {
	var domains []string
	for _, domain := range strings.Split(c.AuthAllowedDomains, ",") {
		domain = strings.ToLower(strings.TrimSpace(domain))
		domain = strings.TrimPrefix(domain, "@")
		if domain != "" {
			domains = append(domains, domain)
		}
	}
	return domains
}

func (c Config) OSSEnabled() bool {
	return c.OSSEndpoint != "" && c.OSSBucket != ""
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.AuthJWTSecret == "" {
		return log.ErrMsg("Fatal error: AUTH_JWT_SECRET is required")
	}

	if len(config.AllowedDomains()) == 0 {
		return log.ErrMsg("Fatal error: AUTH_ALLOWED_DOMAINS must list at least one company domain")
	}

	if config.AuthTokenTTLHours <= 0 {
		return log.Error(
			"Fatal error: invalid token ttl",
			"hours", config.AuthTokenTTLHours,
		)
	}

	if config.OSSEndpoint != "" && (config.OSSAccessKey == "" || config.OSSSecretKey == "") {
		return log.ErrMsg("Fatal error: OSS_ACCESS_KEY and OSS_SECRET_KEY required when OSS_ENDPOINT is set")
	}

	ConfigInstance = config
	return nil
}
