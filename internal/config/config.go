package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	AdminKey        string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`

	// Object storage.
	StorageBucket string        `mapstructure:"STORAGE_BUCKET"`
	SignedURLTTL  time.Duration `mapstructure:"SIGNED_URL_TTL"`

	// Serverless function base URL. Empty means every remote call is
	// skipped and the local implementations serve instead.
	FunctionsURL string `mapstructure:"FUNCTIONS_URL"`

	// Optional third-party extraction endpoints. An empty URL is a
	// silent no-op, not an error.
	ProofreadURL  string `mapstructure:"PROOFREAD_URL"`
	PetitionURL   string `mapstructure:"PETITION_EXTRACT_URL"`
	TranscribeURL string `mapstructure:"TRANSCRIBE_URL"`
	OCRURL        string `mapstructure:"OCR_URL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 25)
	v.SetDefault("SIGNED_URL_TTL", "15m")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
