package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	ServerPort  int
	DBPath      string
	LogDir      string

	// Genius API settings
	GeniusBaseURL          string
	GeniusAPIKey           string
	GeniusTimeout          time.Duration
	GeniusRequestDelay     time.Duration
	GeniusMaxSearchResults int
	GeniusUserAgent        string

	// LLM settings
	LLMURL             string
	LLMModel           string
	LLMTimeout         time.Duration
	StoryMaxLyricChars int
}

// LoadConfig loads configuration from the environment. A .env file is
// picked up when present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	env := os.Getenv("STORYTELLER_ENV")
	if env == "" {
		env = "development"
	}

	var cfg Config
	cfg.Environment = env
	cfg.ServerPort = envInt("SERVER_PORT", 8080)
	cfg.DBPath = envString("DB_PATH", "data/storyteller.db")
	cfg.LogDir = envString("LOG_DIR", "data/logs")

	// Genius configuration
	cfg.GeniusBaseURL = envString("GENIUS_BASE_URL", "https://api.genius.com")
	cfg.GeniusAPIKey = os.Getenv("GENIUS_API_KEY")
	cfg.GeniusTimeout = time.Duration(envInt("GENIUS_TIMEOUT", 30)) * time.Second
	cfg.GeniusRequestDelay = time.Duration(envInt("GENIUS_REQUEST_DELAY", 1)) * time.Second
	cfg.GeniusMaxSearchResults = envInt("GENIUS_MAX_SEARCH_RESULTS", 10)
	cfg.GeniusUserAgent = envString("GENIUS_USER_AGENT", "MusicStoryteller/1.0")

	// LLM configuration
	cfg.LLMURL = envString("LLM_URL", "http://localhost:11434")
	cfg.LLMModel = envString("LLM_MODEL", "qwen2.5:7b")
	cfg.LLMTimeout = time.Duration(envInt("LLM_TIMEOUT", 120)) * time.Second
	cfg.StoryMaxLyricChars = envInt("STORY_MAX_LYRIC_CHARS", 1500)

	if cfg.GeniusAPIKey == "" {
		log.Println("WARNING: GENIUS_API_KEY is not set, Genius API calls will fail")
	}

	fmt.Printf("Loaded configuration for environment: %s\n", env)
	return &cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
