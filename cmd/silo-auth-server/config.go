package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EternisAI/silo-auth/internal/api/http"
	"github.com/EternisAI/silo-auth/internal/auth"
	"github.com/EternisAI/silo-auth/internal/db"
	"github.com/EternisAI/silo-auth/internal/encryption"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        LogConfig
	Http       http.Config
	Store      db.Config
	JWT        auth.JWTConfig `mapstructure:"jwt"`
	Auth       auth.Config
	Encryption EncryptionConfig
}

type EncryptionConfig struct {
	Padding string `mapstructure:"padding"`
}

var (
	config  Config
	cfgFile string
)

func ParseCommaSeparated(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", LOG_LEVEL_INFO)
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.admin_api_key", "")
	v.SetDefault("http.allowed_origins", "*")
	v.SetDefault("store.driver", db.DriverSQLite)
	v.SetDefault("store.url", "")
	v.SetDefault("store.schema", "")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.max_idle_time", 5*time.Minute)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", auth.DefaultTokenExpiry)
	v.SetDefault("jwt.issuer", auth.DefaultIssuer)
	v.SetDefault("auth.max_failed_attempts", auth.DefaultMaxFailedAttempts)
	v.SetDefault("auth.key_bits", encryption.DefaultKeyBits)
	v.SetDefault("encryption.padding", string(encryption.PaddingPKCS1v15))
}

// loadConfig reads application.yaml and the environment into a Config.
// A missing config file is not an error.
func loadConfig(v *viper.Viper, file string) (Config, error) {
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("application")
		v.AddConfigPath(".")
		v.AddConfigPath("./cmd/silo-auth-server")
		v.SetConfigType("yaml")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	// Env overrides arrive as one comma separated string.
	var origins []string
	for _, o := range cfg.Http.AllowedOrigins {
		origins = append(origins, ParseCommaSeparated(o)...)
	}
	cfg.Http.AllowedOrigins = origins
	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = time.Hour
	}
	return cfg, nil
}

func InitConfig() error {
	_ = godotenv.Load()

	cfg, err := loadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	config = cfg

	// Initialize logger with configured log level
	initLogger(config.Log.Level)

	// Pretty print config as JSON (only at DEBUG level)
	if strings.ToUpper(config.Log.Level) == LOG_LEVEL_DEBUG {
		redacted := config
		redacted.JWT.Secret = "***"
		redacted.Http.AdminAPIKey = "***"
		configJSON, err := json.MarshalIndent(redacted, "", "  ")
		if err == nil {
			fmt.Println("Config loaded:")
			fmt.Println(string(configJSON))
		}
	}
	return nil
}
