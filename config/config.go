package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Fallback     Fallback
	ResultsAPI   ResultsAPI
	GeminiApiKey string
	GeminiModel  string
}

type Server struct {
	Port string
}

// Fallback is the local durable store used when the results backend is unreachable.
type Fallback struct {
	Path string
}

// ResultsAPI points at the remote persistence backend (POST/GET /results).
type ResultsAPI struct {
	BaseURL string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("FALLBACK_DB_PATH", "quiz_history.db")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Fallback.Path = viper.GetString("FALLBACK_DB_PATH")
	config.ResultsAPI.BaseURL = viper.GetString("RESULTS_API_URL")
	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.GeminiModel = viper.GetString("GEMINI_MODEL")

	log.Info().Str("port", config.Server.Port).Str("fallback", config.Fallback.Path).Msg("Config loaded")
	return &config, nil
}
